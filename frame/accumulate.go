package frame

import (
	"fmt"
	"math"
)

// ContrastAccumulator computes temporal contrast incrementally as frames
// arrive, using Welford's update per pixel. It does not retain the frames.
//
// It is not safe for concurrent use.
type ContrastAccumulator struct {
	height, width int
	n             int
	mean          []float64
	m2            []float64
	first         []float64
	varying       []bool
}

// NewContrastAccumulator returns an accumulator for frames of the given shape.
func NewContrastAccumulator(height, width int) *ContrastAccumulator {
	size := height * width
	if size < 0 {
		size = 0
	}
	return &ContrastAccumulator{
		height:  height,
		width:   width,
		mean:    make([]float64, size),
		m2:      make([]float64, size),
		first:   make([]float64, size),
		varying: make([]bool, size),
	}
}

// Push adds one frame.
func (a *ContrastAccumulator) Push(f *Image) error {
	if f == nil || f.Height != a.height || f.Width != a.width {
		return fmt.Errorf("%w: accumulator expects %dx%d", ErrShapeMismatch, a.height, a.width)
	}
	if err := f.CheckPix(); err != nil {
		return err
	}
	a.n++
	n := float64(a.n)
	for i, x := range f.Pix {
		if a.n == 1 {
			a.first[i] = x
		} else if x != a.first[i] {
			a.varying[i] = true
		}
		delta := x - a.mean[i]
		a.mean[i] += delta / n
		a.m2[i] += delta * (x - a.mean[i])
	}
	return nil
}

// Count returns the number of frames pushed so far.
func (a *ContrastAccumulator) Count() int { return a.n }

// Contrast returns the current contrast map. With no frames pushed it returns
// ErrEmptyStack.
func (a *ContrastAccumulator) Contrast() (*Image, error) {
	if a.n == 0 {
		return nil, ErrEmptyStack
	}
	out := New(a.height, a.width)
	n := float64(a.n)
	for i := range out.Pix {
		if !a.varying[i] {
			continue
		}
		out.Pix[i] = contrast(a.mean[i], math.Sqrt(a.m2[i]/n))
	}
	return out, nil
}

// Mean returns the running per-pixel mean, equal to Reduce with MethodMean
// up to rounding.
func (a *ContrastAccumulator) Mean() (*Image, error) {
	if a.n == 0 {
		return nil, ErrEmptyStack
	}
	out := New(a.height, a.width)
	copy(out.Pix, a.mean)
	return out, nil
}

// Reset discards all pushed frames.
func (a *ContrastAccumulator) Reset() {
	a.n = 0
	for i := range a.mean {
		a.mean[i] = 0
		a.m2[i] = 0
		a.first[i] = 0
		a.varying[i] = false
	}
}
