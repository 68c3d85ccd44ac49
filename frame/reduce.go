package frame

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/montanaflynn/stats"
)

// Aggregation methods accepted by Reduce.
const (
	MethodMean   = "mean"
	MethodMedian = "median"
)

// Methods lists the aggregation method names in display order.
func Methods() []string {
	return []string{MethodMean, MethodMedian}
}

// ValidMethod reports whether name is an aggregation method understood by Reduce.
func ValidMethod(name string) bool {
	return name == MethodMean || name == MethodMedian
}

// Reduce collapses the stack to one image by taking the per-pixel mean or
// median across frames. The returned image is newly allocated; the stack is
// not modified.
func Reduce(stack Stack, method string) (*Image, error) {
	if !ValidMethod(method) {
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMethod, method, MethodMean, MethodMedian)
	}
	h, w, err := stack.Shape()
	if err != nil {
		return nil, err
	}

	if method == MethodMean {
		return reduceMean(stack, h, w), nil
	}
	return reduceMedian(stack, h, w)
}

func reduceMean(stack Stack, h, w int) *Image {
	out := New(h, w)
	for _, f := range stack {
		vecmath.AddBlockInPlace(out.Pix, f.Pix)
	}
	// Divide instead of scaling by 1/n: a stack of identical integer-valued
	// frames then reduces to that frame exactly.
	n := float64(len(stack))
	for i := range out.Pix {
		out.Pix[i] /= n
	}
	return out
}

func reduceMedian(stack Stack, h, w int) (*Image, error) {
	out := New(h, w)
	samples := make(stats.Float64Data, len(stack))
	for i := range out.Pix {
		for k, f := range stack {
			samples[k] = f.Pix[i]
		}
		// Median sorts a copy, so samples can be reused for the next pixel.
		m, err := stats.Median(samples)
		if err != nil {
			return nil, fmt.Errorf("frame: median at pixel %d: %w", i, err)
		}
		out.Pix[i] = m
	}
	return out, nil
}
