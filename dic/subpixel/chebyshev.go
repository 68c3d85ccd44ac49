package subpixel

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	newtonSteps = 5
	newtonTol   = 1e-6
)

// chebDesign is the 9×9 matrix of basis values at the patch nodes. Row k
// belongs to node (y, x) = (k/3-1, k%3-1), matching the row-major Patch
// layout; columns follow the basis order of chebBasis.
var chebDesign = func() *mat.Dense {
	data := make([]float64, 0, 81)
	for y := -1.0; y <= 1; y++ {
		for x := -1.0; x <= 1; x++ {
			t := chebBasis(x, y)
			data = append(data, t[:]...)
		}
	}
	return mat.NewDense(9, 9, data)
}()

// chebBasis returns the tensor-product basis
// 1, T1(y), T2(y), T1(x), T1(x)T1(y), T1(x)T2(y), T2(x), T2(x)T1(y), T2(x)T2(y).
func chebBasis(x, y float64) [9]float64 {
	t1x, t2x := x, 2*x*x-1
	t1y, t2y := y, 2*y*y-1
	return [9]float64{1, t1y, t2y, t1x, t1x * t1y, t1x * t2y, t2x, t2x * t1y, t2x * t2y}
}

// chebSurface is a fitted expansion.
type chebSurface [9]float64

func dot9(a, b [9]float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// eval returns the value, gradient (d/dx, d/dy) and Hessian entries at (x, y).
func (s chebSurface) eval(x, y float64) (v, gx, gy, hxx, hxy, hyy float64) {
	t1x, t2x, dt2x := x, 2*x*x-1, 4*x
	t1y, t2y, dt2y := y, 2*y*y-1, 4*y

	a := [9]float64(s)
	v = dot9(chebBasis(x, y), a)
	gx = dot9([9]float64{0, 0, 0, 1, t1y, t2y, dt2x, dt2x * t1y, dt2x * t2y}, a)
	gy = dot9([9]float64{0, 1, dt2y, 0, t1x, t1x * dt2y, 0, t2x, t2x * dt2y}, a)
	hxx = dot9([9]float64{0, 0, 0, 0, 0, 0, 4, 4 * t1y, 4 * t2y}, a)
	hxy = dot9([9]float64{0, 0, 0, 0, 1, dt2y, 0, dt2x, dt2x * dt2y}, a)
	hyy = dot9([9]float64{0, 0, 4, 0, 0, 4 * t1x, 0, 0, 4 * t2x}, a)
	return v, gx, gy, hxx, hxy, hyy
}

// fitChebyshev solves the 9×9 interpolation system for the patch.
func fitChebyshev(p Patch) (chebSurface, bool) {
	b := make([]float64, 0, 9)
	for i := range p {
		b = append(b, p[i][:]...)
	}
	var a mat.VecDense
	if err := a.SolveVec(chebDesign, mat.NewVecDense(9, b)); err != nil {
		return chebSurface{}, false
	}
	var s chebSurface
	for i := range s {
		s[i] = a.AtVec(i)
	}
	return s, true
}

// Chebyshev fits a 2D degree-2 Chebyshev expansion through all nine samples
// and moves from the center to the stationary point of the fitted surface by
// Newton's method. Iteration stops after five steps, when a step is shorter
// than 1e-6, or when the Hessian is singular. A flat patch yields a zero
// offset.
type Chebyshev struct{}

// Name implements Refiner.
func (Chebyshev) Name() string { return NameChebyshev }

// Refine implements Refiner. Peak is the fitted surface value at the returned
// offset.
func (Chebyshev) Refine(p Patch) Estimate {
	s, ok := fitChebyshev(p)
	if !ok {
		return Estimate{Peak: p[1][1]}
	}

	var x, y float64
	var step mat.VecDense
	for i := 0; i < newtonSteps; i++ {
		_, gx, gy, hxx, hxy, hyy := s.eval(x, y)
		hess := mat.NewDense(2, 2, []float64{hxx, hxy, hxy, hyy})
		if err := step.SolveVec(hess, mat.NewVecDense(2, []float64{-gx, -gy})); err != nil {
			break
		}
		dx, dy := step.AtVec(0), step.AtVec(1)
		if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
			break
		}
		x += dx
		y += dy
		if math.Hypot(dx, dy) < newtonTol {
			break
		}
	}

	v, _, _, _, _, _ := s.eval(x, y)
	return Estimate{Row: y, Col: x, Peak: v}
}
