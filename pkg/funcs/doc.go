// Package funcs provides higher-order helpers: composition, closures, decorators wrapping a
// function with logging, timing or validation, recursive helpers and lazy generators.
package funcs
