package correlate_test

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-dic/dic/correlate"
)

func ExampleCorrelator_Correlate() {
	const m = 16
	rng := rand.New(rand.NewSource(1))
	ref := make([]float64, m*m)
	for i := range ref {
		ref[i] = rng.Float64()
	}
	// Move the content one row down and two columns left.
	obj := make([]float64, m*m)
	for r := 0; r < m; r++ {
		for c := 0; c < m; c++ {
			obj[r*m+c] = ref[((r-1+m)%m)*m+(c+2)%m]
		}
	}

	cr, _ := correlate.New(m)
	cm, _ := cr.Correlate(ref, obj)
	dr, dc, _, _ := cm.PeakInteger()
	fmt.Println(dr, dc)
	// Output: 1 -2
}
