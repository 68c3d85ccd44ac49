package track

import (
	"math"

	"github.com/cwbudde/algo-dic/dic/correlate"
	"github.com/cwbudde/algo-dic/dic/subpixel"
	"github.com/cwbudde/algo-dic/dic/window"
	"github.com/cwbudde/algo-dic/frame"
)

// IntegerRounds bounds the integer peak search.
const IntegerRounds = 10

// Defaults for the sub-pixel stage.
const (
	DefaultTolerance     = 1e-3
	DefaultMaxIterations = 10
)

// Params configures the pipeline.
type Params struct {
	// Refiner estimates fractional offsets. Nil selects Chebyshev.
	Refiner subpixel.Refiner
	// Tolerance is the residual norm below which sub-pixel refinement stops.
	Tolerance float64
	// MaxIterations bounds the sub-pixel refinement loop.
	MaxIterations int
	// Strict zeroes the displacement and correlation of windows whose
	// sub-pixel refinement did not converge. By default such windows keep
	// their best estimate and only carry the error flag.
	Strict bool
}

// DefaultParams returns the Chebyshev refiner with tolerance 1e-3 and ten
// refinement iterations.
func DefaultParams() Params {
	return Params{
		Refiner:       subpixel.Chebyshev{},
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Result is the outcome for one window.
type Result struct {
	// Displacement is D+F with the row shift in the real part and the column
	// shift in the imaginary part.
	Displacement complex128
	// Correlation is the peak amplitude of the last computed map.
	Correlation float64
	// Err is the per-window error flag.
	Err    bool
	Status Status
	// Rounds and Iterations count integer-search rounds and sub-pixel
	// iterations actually performed.
	Rounds     int
	Iterations int
}

// Failure returns the degenerate result for a failed window: zero
// displacement, zero correlation, error flag set.
func Failure(status Status) Result {
	return Result{Err: true, Status: status}
}

// Node extracts the m×m windows centered at (row, col) from both images and
// runs the pipeline on them. m is the correlator's window size.
func Node(c *correlate.Correlator, ref, obj *frame.Image, row, col int, p Params) (Result, error) {
	m := c.WindowSize()
	return Window(c, window.Extract(ref, row, col, m), window.Extract(obj, row, col, m), p)
}

// Window runs the pipeline on two m×m windows. A non-nil error means the
// correlator itself failed; convergence problems are reported through
// Result.Status and never as errors.
func Window(c *correlate.Correlator, ref, obj []float64, p Params) (Result, error) {
	if p.Refiner == nil {
		p.Refiner = subpixel.Chebyshev{}
	}

	is, err := searchInteger(c, ref, obj)
	if err != nil {
		return Result{}, err
	}
	if res, failed := is.failure(); failed {
		return res, nil
	}

	ss, err := refineSubpixel(c, ref, is, p)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Displacement: complex(float64(is.dr)+ss.fr, float64(is.dc)+ss.fc),
		Correlation:  ss.corr.At(ss.peakR, ss.peakC),
		Status:       StatusOK,
		Rounds:       is.round,
		Iterations:   ss.iter,
	}
	if !ss.converged(p.Tolerance) {
		res.Err = true
		res.Status = StatusSubpixelNotConverged
		if p.Strict {
			res.Displacement = 0
			res.Correlation = 0
		}
	}
	return res, nil
}

// outcome tells a fold whether to take another step.
type outcome int

const (
	proceed outcome = iota
	finished
)

// integerState is the accumulator of the integer search.
type integerState struct {
	obj          []float64 // object window rolled by -D
	dr, dc       int       // accumulated integer shift D
	corr         *correlate.Map
	peakR, peakC int
	round        int
	status       Status
}

// failure returns the zeroed result of a search that ended in a failure
// status.
func (s integerState) failure() (Result, bool) {
	if !s.status.Failed() {
		return Result{}, false
	}
	res := Failure(s.status)
	res.Rounds = s.round
	return res, true
}

func searchInteger(c *correlate.Correlator, ref, obj []float64) (integerState, error) {
	s := integerState{obj: obj}
	for {
		next, out, err := s.step(c, ref)
		if err != nil {
			return s, err
		}
		if out == finished {
			return next, nil
		}
		s = next
	}
}

// step performs one integer-search round.
func (s integerState) step(c *correlate.Correlator, ref []float64) (integerState, outcome, error) {
	cm, err := c.Correlate(ref, s.obj)
	if err != nil {
		return s, finished, err
	}

	next := s
	next.round++
	next.corr = cm
	if cm.Zero {
		next.status = StatusDegenerate
		return next, finished, nil
	}

	dr, dc, r, col := cm.PeakInteger()
	next.peakR, next.peakC = r, col
	if dr == 0 && dc == 0 {
		return next, finished, nil
	}

	next.dr += dr
	next.dc += dc
	m := c.WindowSize()
	switch {
	case math.Hypot(float64(next.dr), float64(next.dc)) > float64(m)/2:
		next.status = StatusIntegerDiverged
		return next, finished, nil
	case next.round >= IntegerRounds:
		next.status = StatusIntegerBudget
		return next, finished, nil
	}

	next.obj = window.Roll(s.obj, m, dr, dc)
	return next, proceed, nil
}

// subpixelState is the accumulator of the sub-pixel refinement.
type subpixelState struct {
	fr, fc       float64 // accumulated fractional shift F
	lastR, lastC float64 // most recent correction
	corr         *correlate.Map
	peakR, peakC int
	iter         int
}

func (s subpixelState) converged(tol float64) bool {
	return math.Hypot(s.lastR, s.lastC) <= tol
}

func refineSubpixel(c *correlate.Correlator, ref []float64, is integerState, p Params) (subpixelState, error) {
	est := estimate(p.Refiner, is.corr, is.peakR, is.peakC)
	s := subpixelState{
		fr: est.Row, fc: est.Col,
		lastR: est.Row, lastC: est.Col,
		corr:  is.corr,
		peakR: is.peakR, peakC: is.peakC,
	}
	for s.iter < p.MaxIterations && !s.converged(p.Tolerance) {
		next, out, err := s.step(c, ref, is.obj, p.Refiner)
		if err != nil {
			return s, err
		}
		s = next
		if out == finished {
			break
		}
	}
	return s, nil
}

// step shifts the integer-aligned object window by -F, re-measures the
// residual displacement and adds it to F.
func (s subpixelState) step(c *correlate.Correlator, ref, aligned []float64, rf subpixel.Refiner) (subpixelState, outcome, error) {
	shifted, err := c.Shift(aligned, -s.fr, -s.fc)
	if err != nil {
		return s, finished, err
	}
	cm, err := c.Correlate(ref, shifted)
	if err != nil {
		return s, finished, err
	}

	next := s
	next.iter++
	if cm.Zero {
		return next, finished, nil
	}

	dr, dc, r, col := cm.PeakInteger()
	est := estimate(rf, cm, r, col)
	next.lastR = float64(dr) + est.Row
	next.lastC = float64(dc) + est.Col
	next.fr += next.lastR
	next.fc += next.lastC
	next.corr = cm
	next.peakR, next.peakC = r, col
	return next, proceed, nil
}

// estimate refines the peak at (r, c). A peak on the map border has no 3×3
// neighborhood and yields a zero offset.
func estimate(rf subpixel.Refiner, cm *correlate.Map, r, c int) subpixel.Estimate {
	p, ok := cm.Neighborhood(r, c)
	if !ok {
		return subpixel.Estimate{Peak: cm.At(r, c)}
	}
	return rf.Refine(subpixel.Patch(p))
}
