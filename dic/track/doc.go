// Package track runs the per-window displacement pipeline:
//
//	INTEGER_SEARCH → SUBPIXEL_REFINE → DONE
//	      ↓                ↓
//	    ERROR      (flagged, estimate kept)
//
// The integer search correlates the window pair, rolls the object window
// back by the measured integer shift and repeats until the shift is zero. It
// fails when the accumulated shift exceeds half the window or after ten
// rounds. The sub-pixel stage then shifts the aligned object by the current
// fractional estimate with the Fourier shift theorem, re-measures the residual
// and accumulates it until the residual is below the tolerance.
//
// Both stages are folds over immutable state records: each step takes the
// previous state and returns the next one together with the outcome that
// decides whether to continue.
package track
