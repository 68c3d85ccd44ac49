package testutil

import (
	"math"
	"testing"
)

func TestSpeckleDeterministic(t *testing.T) {
	a := Speckle(7, 32, 32, 1.5)
	b := Speckle(7, 32, 32, 1.5)
	if len(a) != 32*32 {
		t.Fatalf("len = %d, want %d", len(a), 32*32)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}

func TestSpeckleStatistics(t *testing.T) {
	s := Speckle(3, 64, 64, 2)
	var mean float64
	for _, v := range s {
		mean += v
	}
	mean /= float64(len(s))
	if math.Abs(mean-1000) > 1e-6 {
		t.Fatalf("mean = %v, want 1000", mean)
	}
	RequireFinite(t, s)
}

func TestSpeckleDifferentSeeds(t *testing.T) {
	a := Speckle(1, 16, 16, 1)
	b := Speckle(2, 16, 16, 1)
	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if d == 0 {
		t.Fatal("different seeds produced identical patterns")
	}
}

func TestRoll(t *testing.T) {
	in := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	got := Roll(in, 2, 3, 1, 1)
	want := []float64{
		6, 4, 5,
		3, 1, 2,
	}
	RequireSliceNearlyEqual(t, got, want, 0)
}

func TestFourierShiftIntegerMatchesRoll(t *testing.T) {
	s := Speckle(11, 16, 16, 1.5)
	got, err := FourierShift(s, 16, 16, 3, -2)
	if err != nil {
		t.Fatalf("FourierShift: %v", err)
	}
	RequireSliceNearlyEqual(t, got, Roll(s, 16, 16, 3, -2), 1e-8)
}

func TestFourierShiftRoundTrip(t *testing.T) {
	s := Speckle(5, 16, 16, 2)
	fwd, err := FourierShift(s, 16, 16, 0.3, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FourierShift(fwd, 16, 16, -0.3, -0.7)
	if err != nil {
		t.Fatal(err)
	}
	// The Nyquist bin loses its imaginary part, so allow a small error.
	RequireSliceNearlyEqual(t, back, s, 1)
}
