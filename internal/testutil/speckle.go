package testutil

import (
	"fmt"
	"math"
	"math/rand"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Speckle returns an h×w row-major speckle pattern: seeded white noise blurred
// by a periodic Gaussian of standard deviation grain pixels, scaled to a mean
// of 1000 and a standard deviation near 200. The pattern is periodic, so
// circular shifts and Fourier shifts of it are exact.
func Speckle(seed int64, h, w int, grain float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]float64, h*w)
	for i := range pix {
		pix[i] = rng.NormFloat64()
	}
	if grain > 0 {
		k := gaussian(grain)
		blurRows(pix, h, w, k)
		blurCols(pix, h, w, k)
	}

	var mean, sq float64
	for _, v := range pix {
		mean += v
	}
	mean /= float64(len(pix))
	for _, v := range pix {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(pix)))
	if std == 0 {
		std = 1
	}
	for i, v := range pix {
		pix[i] = 1000 + 200*(v-mean)/std
	}
	return pix
}

func gaussian(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*radius+1)
	var sum float64
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func blurRows(pix []float64, h, w int, k []float64) {
	radius := len(k) / 2
	tmp := make([]float64, w)
	for r := 0; r < h; r++ {
		row := pix[r*w : (r+1)*w]
		for c := range tmp {
			var acc float64
			for i, kv := range k {
				acc += kv * row[wrap(c+i-radius, w)]
			}
			tmp[c] = acc
		}
		copy(row, tmp)
	}
}

func blurCols(pix []float64, h, w int, k []float64) {
	radius := len(k) / 2
	tmp := make([]float64, h)
	for c := 0; c < w; c++ {
		for r := range tmp {
			var acc float64
			for i, kv := range k {
				acc += kv * pix[wrap(r+i-radius, h)*w+c]
			}
			tmp[r] = acc
		}
		for r, v := range tmp {
			pix[r*w+c] = v
		}
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Roll circularly moves the content of an h×w image dr rows down and dc
// columns right.
func Roll(pix []float64, h, w, dr, dc int) []float64 {
	out := make([]float64, len(pix))
	for r := 0; r < h; r++ {
		sr := wrap(r-dr, h)
		for c := 0; c < w; c++ {
			out[r*w+c] = pix[sr*w+wrap(c-dc, w)]
		}
	}
	return out
}

// FourierShift moves the content of an h×w image by (dr, dc) samples,
// fractional values included, by applying a phase ramp to its spectrum.
func FourierShift(pix []float64, h, w int, dr, dc float64) ([]float64, error) {
	rowPlan, err := algofft.NewPlan64(w)
	if err != nil {
		return nil, fmt.Errorf("testutil: row plan: %w", err)
	}
	colPlan, err := algofft.NewPlan64(h)
	if err != nil {
		return nil, fmt.Errorf("testutil: column plan: %w", err)
	}

	buf := make([]complex128, h*w)
	for i, v := range pix {
		buf[i] = complex(v, 0)
	}
	if err := apply2D(rowPlan.Forward, colPlan.Forward, buf, h, w); err != nil {
		return nil, err
	}
	for r := 0; r < h; r++ {
		ky := freq(r, h)
		for c := 0; c < w; c++ {
			ph := -2 * math.Pi * (dr*ky + dc*freq(c, w))
			buf[r*w+c] *= complex(math.Cos(ph), math.Sin(ph))
		}
	}
	if err := apply2D(rowPlan.Inverse, colPlan.Inverse, buf, h, w); err != nil {
		return nil, err
	}

	out := make([]float64, len(pix))
	for i, v := range buf {
		out[i] = real(v)
	}
	return out, nil
}

func apply2D(rowFn, colFn func(dst, src []complex128) error, buf []complex128, h, w int) error {
	for r := 0; r < h; r++ {
		row := buf[r*w : (r+1)*w]
		if err := rowFn(row, row); err != nil {
			return err
		}
	}
	col := make([]complex128, h)
	for c := 0; c < w; c++ {
		for r := range col {
			col[r] = buf[r*w+c]
		}
		if err := colFn(col, col); err != nil {
			return err
		}
		for r, v := range col {
			buf[r*w+c] = v
		}
	}
	return nil
}

func freq(k, n int) float64 {
	if k < (n+1)/2 {
		return float64(k) / float64(n)
	}
	return float64(k-n) / float64(n)
}
