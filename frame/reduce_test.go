package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dic/internal/testutil"
)

func speckleFrame(seed int64, h, w int) *Image {
	pix := testutil.Speckle(seed, h, w, 1.5)
	for i, v := range pix {
		pix[i] = math.Round(v)
	}
	return &Image{Height: h, Width: w, Pix: pix}
}

func repeat(f *Image, n int) Stack {
	s := make(Stack, n)
	for i := range s {
		s[i] = f.Clone()
	}
	return s
}

func TestReduceIdempotent(t *testing.T) {
	f := speckleFrame(1, 16, 24)
	for _, method := range Methods() {
		for _, n := range []int{1, 2, 3, 4, 7} {
			got, err := Reduce(repeat(f, n), method)
			if err != nil {
				t.Fatalf("%s n=%d: %v", method, n, err)
			}
			testutil.RequireSliceNearlyEqual(t, got.Pix, f.Pix, 0)
		}
	}
}

func TestReduceValues(t *testing.T) {
	stack := Stack{
		{Height: 1, Width: 2, Pix: []float64{1, 10}},
		{Height: 1, Width: 2, Pix: []float64{2, 20}},
		{Height: 1, Width: 2, Pix: []float64{3, 30}},
		{Height: 1, Width: 2, Pix: []float64{10, 40}},
	}

	tests := []struct {
		method string
		want   []float64
	}{
		{method: MethodMean, want: []float64{4, 25}},
		{method: MethodMedian, want: []float64{2.5, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := Reduce(stack, tt.method)
			if err != nil {
				t.Fatalf("Reduce: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got.Pix, tt.want, 1e-12)
		})
	}
}

func TestReduceDoesNotModifyStack(t *testing.T) {
	stack := Stack{speckleFrame(2, 4, 4), speckleFrame(3, 4, 4), speckleFrame(4, 4, 4)}
	before := stack[0].Clone()
	if _, err := Reduce(stack, MethodMedian); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, stack[0].Pix, before.Pix, 0)
}

func TestReduceErrors(t *testing.T) {
	_, err := Reduce(Stack{New(2, 2)}, "mode")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	_, err = Reduce(nil, MethodMean)
	if !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack, got %v", err)
	}
	_, err = Reduce(Stack{New(2, 2), New(3, 2)}, MethodMedian)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestValidMethod(t *testing.T) {
	for _, m := range Methods() {
		if !ValidMethod(m) {
			t.Errorf("ValidMethod(%q) = false", m)
		}
	}
	if ValidMethod("Mean") {
		t.Errorf("method names are case-sensitive")
	}
}

func BenchmarkReduceMedian(b *testing.B) {
	stack := Stack{
		speckleFrame(1, 256, 256), speckleFrame(2, 256, 256), speckleFrame(3, 256, 256),
		speckleFrame(4, 256, 256), speckleFrame(5, 256, 256),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Reduce(stack, MethodMedian); err != nil {
			b.Fatal(err)
		}
	}
}
