package correlate

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Shift translates an m×m window by (dr, dc) samples using the Fourier shift
// theorem: the spectrum is multiplied by exp(-2πi(dr·ky + dc·kx)) and
// transformed back, keeping the real part. Content moves dr rows down and dc
// columns right, wrapping circularly. Fractional shifts interpolate with the
// window treated as periodic.
func (c *Correlator) Shift(win []float64, dr, dc float64) ([]float64, error) {
	m := c.m
	if len(win) != m*m {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(win), m*m)
	}

	for i, v := range win {
		c.win[i] = complex(v, 0)
	}
	line := c.line[:m]
	if err := transform2D(c.shiftPlan.Forward, c.win, line, m); err != nil {
		return nil, err
	}

	for r := 0; r < m; r++ {
		ky := freq(r, m)
		for col := 0; col < m; col++ {
			kx := freq(col, m)
			c.win[r*m+col] *= cmplx.Exp(complex(0, -2*math.Pi*(dr*ky+dc*kx)))
		}
	}

	if err := transform2D(c.shiftPlan.Inverse, c.win, line, m); err != nil {
		return nil, err
	}

	out := make([]float64, m*m)
	for i, v := range c.win {
		out[i] = real(v)
	}
	return out, nil
}

// freq returns the sample frequency of bin k for a length-n transform in
// cycles per sample, ordered as 0, 1/n, ..., -1/n.
func freq(k, n int) float64 {
	if k < (n+1)/2 {
		return float64(k) / float64(n)
	}
	return float64(k-n) / float64(n)
}
