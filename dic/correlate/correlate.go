package correlate

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the correlator.
var (
	ErrInvalidSize    = errors.New("correlate: window size must be even and >= 4")
	ErrLengthMismatch = errors.New("correlate: window length mismatch")
)

// Correlator computes correlation maps for m×m windows. It is not safe for
// concurrent use.
type Correlator struct {
	m int // window size
	n int // padded size 2m

	plan      *algofft.Plan[complex128] // length n, for the padded maps
	shiftPlan *algofft.Plan[complex128] // length m, for sub-pixel shifts

	// Scratch buffers
	ref, obj []complex128 // n*n
	line     []complex128 // n, one column
	re, im   []float64    // n*n
	zref     []float64    // m*m zero-mean reference
	zobj     []float64    // m*m zero-mean object
	win      []complex128 // m*m shift buffer
}

// New creates a correlator for m×m windows.
func New(m int) (*Correlator, error) {
	if m < 4 || m%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, m)
	}
	n := 2 * m

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("correlate: failed to create FFT plan: %w", err)
	}
	shiftPlan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("correlate: failed to create FFT plan: %w", err)
	}

	return &Correlator{
		m:         m,
		n:         n,
		plan:      plan,
		shiftPlan: shiftPlan,
		ref:       make([]complex128, n*n),
		obj:       make([]complex128, n*n),
		line:      make([]complex128, n),
		re:        make([]float64, n*n),
		im:        make([]float64, n*n),
		zref:      make([]float64, m*m),
		zobj:      make([]float64, m*m),
		win:       make([]complex128, m*m),
	}, nil
}

// WindowSize returns m.
func (c *Correlator) WindowSize() int {
	return c.m
}

// Correlate returns the normalized correlation map of two m×m windows. If
// either window has zero variance the map is all zero and Map.Zero is set.
func (c *Correlator) Correlate(ref, obj []float64) (*Map, error) {
	mm := c.m * c.m
	if len(ref) != mm || len(obj) != mm {
		return nil, fmt.Errorf("%w: got %d and %d, want %d", ErrLengthMismatch, len(ref), len(obj), mm)
	}

	out := &Map{M: c.m, Data: make([]float64, c.n*c.n)}

	eRef := zeroMean(c.zref, ref)
	eObj := zeroMean(c.zobj, obj)
	norm := float64(c.n*c.n) * math.Sqrt(eRef*eObj)
	if norm == 0 {
		out.Zero = true
		return out, nil
	}

	half := c.m / 2
	// Embedding at half+m is the fftshift of embedding at half.
	embed(c.ref, c.zref, c.m, c.n, half+c.m)
	embed(c.obj, c.zobj, c.m, c.n, half)

	if err := c.forward2D(c.ref); err != nil {
		return nil, err
	}
	if err := c.forward2D(c.obj); err != nil {
		return nil, err
	}

	for i, o := range c.obj {
		c.ref[i] *= complex(real(o), -imag(o))
	}

	if err := c.forward2D(c.ref); err != nil {
		return nil, err
	}

	for i, v := range c.ref {
		c.re[i] = real(v)
		c.im[i] = imag(v)
	}
	vecmath.Magnitude(out.Data, c.re, c.im)
	vecmath.ScaleBlockInPlace(out.Data, 1/norm)
	return out, nil
}

// zeroMean writes src minus its mean into dst and returns the energy of the
// result. A constant window has energy exactly 0.
func zeroMean(dst, src []float64) float64 {
	constant := true
	for _, v := range src[1:] {
		if v != src[0] {
			constant = false
			break
		}
	}
	if constant {
		for i := range dst {
			dst[i] = 0
		}
		return 0
	}

	mean := vecmath.Sum(src) / float64(len(src))
	for i, v := range src {
		dst[i] = v - mean
	}
	return vecmath.DotProduct(dst, dst)
}

// embed clears buf (n×n) and places the m×m window with its top-left corner at
// (off, off), wrapping modulo n.
func embed(buf []complex128, win []float64, m, n, off int) {
	for i := range buf {
		buf[i] = 0
	}
	for r := 0; r < m; r++ {
		dr := (r + off) % n
		for col := 0; col < m; col++ {
			buf[dr*n+(col+off)%n] = complex(win[r*m+col], 0)
		}
	}
}

// forward2D transforms an n×n buffer in place, rows first, then columns.
func (c *Correlator) forward2D(buf []complex128) error {
	return transform2D(c.plan.Forward, buf, c.line, c.n)
}

// transform2D applies a 1D transform along rows and then columns of the
// size×size buffer. line must have length size.
func transform2D(fn func(dst, src []complex128) error, buf, line []complex128, size int) error {
	for r := 0; r < size; r++ {
		row := buf[r*size : (r+1)*size]
		if err := fn(row, row); err != nil {
			return fmt.Errorf("correlate: row FFT failed: %w", err)
		}
	}
	for col := 0; col < size; col++ {
		for r := 0; r < size; r++ {
			line[r] = buf[r*size+col]
		}
		if err := fn(line, line); err != nil {
			return fmt.Errorf("correlate: column FFT failed: %w", err)
		}
		for r := 0; r < size; r++ {
			buf[r*size+col] = line[r]
		}
	}
	return nil
}
