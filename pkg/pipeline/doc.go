// Package pipeline provides an in-memory pipeline for cleaning and transforming records.
//
// A pipeline is an ordered list of stages applied to a stream of records. Each stage is a
// small, named, pure function: lowercase a string, drop a null value, scale a number. The
// runner applies the stages in order, record by record, and keeps the output in the same
// order as the input. An aggregator can then fold the output into a single value.
//
// Streams are either eager, built from a collection and traversable many times, or lazy,
// built from an iterator, a channel or a file and consumed as they are traversed. The runner
// can produce its output eagerly, with Run, or lazily, with Stream.
//
// When a stage fails for a record, the failure policy of the runner decides what happens. With
// AbortPipeline, the run stops and returns a PipelineError carrying the position of the record
// and the name of the stage. With SkipRecord, the record is dropped, counted in the summary of
// the run, and the run continues.
//
// Runners hold no state between runs, so independent pipelines can run concurrently, see
// RunParallel. Run options implementing model.RunOption observe every run: the measure
// package records the cost of each stage and the drawer package renders a run as a graph.
package pipeline
