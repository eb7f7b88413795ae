// Package model provides the data structures shared by the pipeline package and its run options.
// It defines the description of a stage inside a run and the hooks a run option implements
// to observe the run, such as measuring or drawing it.
package model
