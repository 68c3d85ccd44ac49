// Package subpixel estimates the fractional position of a correlation peak
// from the 3×3 neighborhood around its integer maximum.
//
// Three interchangeable strategies implement [Refiner]:
//
//   - [Quadratic]: independent 1D parabola through the row and column triples.
//   - [Chebyshev]: exact fit of a 2D degree-2 Chebyshev expansion, stationary
//     point found by Newton iteration.
//   - [Legacy3x3]: the parabola vertex clamped to [-1, 1] on each axis.
//
// Select one by name with [ByName].
package subpixel

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownRefiner is returned by ByName for unrecognized strategy names.
var ErrUnknownRefiner = errors.New("subpixel: unknown refiner")

// Strategy names accepted by ByName.
const (
	NameQuadratic = "quadratic"
	NameChebyshev = "chebyshev"
	NameLegacy    = "legacy-3x3"
)

// Patch holds the 3×3 samples around an integer peak. Patch[i][j] is the
// sample at row offset i-1 and column offset j-1.
type Patch [3][3]float64

// Estimate is a fractional peak offset relative to the patch center, in
// samples, plus the amplitude at that offset.
type Estimate struct {
	Row  float64
	Col  float64
	Peak float64
}

// Refiner maps a 3×3 patch to a fractional peak offset.
type Refiner interface {
	Name() string
	Refine(p Patch) Estimate
}

// Names lists the strategy names in display order.
func Names() []string {
	return []string{NameQuadratic, NameChebyshev, NameLegacy}
}

// ByName returns the strategy registered under name (case-insensitive).
func ByName(name string) (Refiner, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameQuadratic:
		return Quadratic{}, nil
	case NameChebyshev:
		return Chebyshev{}, nil
	case NameLegacy:
		return Legacy3x3{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRefiner, name)
}

// vertex returns the abscissa of the parabola through (-1, lo), (0, mid) and
// (1, hi). A flat triple (zero curvature) yields 0.
func vertex(lo, mid, hi float64) float64 {
	den := 2 * (lo - 2*mid + hi)
	if den == 0 {
		return 0
	}
	v := (lo - hi) / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Quadratic fits a 1D parabola along each axis through the center row and
// center column. The result is not clamped.
type Quadratic struct{}

// Name implements Refiner.
func (Quadratic) Name() string { return NameQuadratic }

// Refine implements Refiner.
func (Quadratic) Refine(p Patch) Estimate {
	return Estimate{
		Row:  vertex(p[0][1], p[1][1], p[2][1]),
		Col:  vertex(p[1][0], p[1][1], p[1][2]),
		Peak: p[1][1],
	}
}

// Legacy3x3 is the parabola vertex on the raw samples, clamped to [-1, 1] on
// each axis.
type Legacy3x3 struct{}

// Name implements Refiner.
func (Legacy3x3) Name() string { return NameLegacy }

// Refine implements Refiner.
func (Legacy3x3) Refine(p Patch) Estimate {
	return Estimate{
		Row:  clampUnit(vertex(p[0][1], p[1][1], p[2][1])),
		Col:  clampUnit(vertex(p[1][0], p[1][1], p[1][2])),
		Peak: p[1][1],
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
