// Package frame provides the intensity grid used throughout the displacement
// engine and the reductions applied to stacks of camera frames.
//
// A [Stack] holds repeated exposures of one scene. [Reduce] collapses it to a
// single representative [Image] using the per-pixel mean or median, and
// [TemporalContrast] computes the temporal speckle contrast K = std/mean for
// every pixel:
//
//	ref, err := frame.Reduce(refStack, frame.MethodMedian)
//	k, err := frame.TemporalContrast(objStack)
//
// For live feeds, a [ContrastAccumulator] builds the same contrast map one
// frame at a time without retaining the frames.
package frame
