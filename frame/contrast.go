package frame

import (
	"gonum.org/v1/gonum/stat"
)

// TemporalContrast returns the per-pixel temporal speckle contrast
// K = std/mean across the stack, using the population standard deviation.
//
// K is defined as 0 wherever the mean is <= 0. Negative means are mapped to 0
// as well rather than producing a negative contrast. A pixel whose value is
// identical in every frame has K = 0 exactly.
func TemporalContrast(stack Stack) (*Image, error) {
	h, w, err := stack.Shape()
	if err != nil {
		return nil, err
	}

	out := New(h, w)
	samples := make([]float64, len(stack))
	for i := range out.Pix {
		constant := true
		for k, f := range stack {
			samples[k] = f.Pix[i]
			if samples[k] != samples[0] {
				constant = false
			}
		}
		if constant {
			continue
		}
		mean, std := stat.PopMeanStdDev(samples, nil)
		out.Pix[i] = contrast(mean, std)
	}
	return out, nil
}

func contrast(mean, std float64) float64 {
	if mean <= 0 {
		return 0
	}
	return std / mean
}
