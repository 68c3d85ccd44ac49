// Package field computes displacement fields between a reference and an
// object speckle image.
//
// A [Processor] reduces both frame stacks to single images, plans a grid of
// interrogation windows, runs the per-window pipeline of package track over
// every grid node on a bounded worker pool and assembles the results into
// co-indexed displacement, correlation and error maps. Results are written by
// grid index, so the output does not depend on the worker count.
//
// Only parameter errors are returned; they match [ErrInvalidArgument] with
// errors.Is. Windows that fail to converge, have zero variance or fault are
// reported through [Field.Error] and [Field.Status].
package field
