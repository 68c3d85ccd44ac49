package correlate

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dic/internal/testutil"
)

func TestNewInvalidSize(t *testing.T) {
	for _, m := range []int{-4, 0, 2, 3, 5, 31} {
		if _, err := New(m); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d): expected ErrInvalidSize, got %v", m, err)
		}
	}
	c, err := New(4)
	if err != nil {
		t.Fatalf("New(4): %v", err)
	}
	if c.WindowSize() != 4 {
		t.Fatalf("WindowSize = %d, want 4", c.WindowSize())
	}
}

func TestCorrelateAutocorrelation(t *testing.T) {
	for _, m := range []int{8, 16, 32, 64} {
		c, err := New(m)
		if err != nil {
			t.Fatal(err)
		}
		win := testutil.Speckle(int64(m), m, m, 1.5)
		cm, err := c.Correlate(win, win)
		if err != nil {
			t.Fatalf("m=%d: %v", m, err)
		}
		if cm.Zero {
			t.Fatalf("m=%d: map flagged zero", m)
		}
		if len(cm.Data) != 4*m*m || cm.Size() != 2*m {
			t.Fatalf("m=%d: map size %d", m, len(cm.Data))
		}

		r, col, v := cm.Peak()
		if r != m || col != m {
			t.Fatalf("m=%d: peak at (%d, %d), want (%d, %d)", m, r, col, m, m)
		}
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("m=%d: peak = %v, want 1", m, v)
		}
		if math.Abs(cm.At(m, m)-v) > 1e-3 {
			t.Fatalf("m=%d: center %v differs from maximum %v", m, cm.At(m, m), v)
		}
		testutil.RequireFinite(t, cm.Data)
		for i, x := range cm.Data {
			if x < 0 || x > 1+1e-9 {
				t.Fatalf("m=%d: Data[%d] = %v outside [0, 1]", m, i, x)
			}
		}
	}
}

func TestCorrelateIntegerShift(t *testing.T) {
	const m = 32
	c, err := New(m)
	if err != nil {
		t.Fatal(err)
	}
	ref := testutil.Speckle(5, m, m, 1)

	tests := []struct{ dr, dc int }{
		{0, 0}, {1, 0}, {0, -1}, {3, -5}, {-4, 2}, {6, 6}, {-7, -3},
	}
	for _, tt := range tests {
		obj := testutil.Roll(ref, m, m, tt.dr, tt.dc)
		cm, err := c.Correlate(ref, obj)
		if err != nil {
			t.Fatal(err)
		}
		dr, dc, r, col := cm.PeakInteger()
		if dr != tt.dr || dc != tt.dc {
			t.Errorf("shift (%d, %d): measured (%d, %d)", tt.dr, tt.dc, dr, dc)
		}
		if r != m+tt.dr || col != m+tt.dc {
			t.Errorf("shift (%d, %d): peak index (%d, %d)", tt.dr, tt.dc, r, col)
		}
	}
}

func TestCorrelateInvariantToGainAndOffset(t *testing.T) {
	const m = 16
	c, err := New(m)
	if err != nil {
		t.Fatal(err)
	}
	ref := testutil.Speckle(8, m, m, 1)
	obj := testutil.Roll(ref, m, m, 1, 2)
	scaled := make([]float64, len(obj))
	for i, v := range obj {
		scaled[i] = 3*v + 250
	}

	a, err := c.Correlate(ref, obj)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Correlate(ref, scaled)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, b.Data, a.Data, 1e-9)
}

func TestCorrelateZeroVariance(t *testing.T) {
	const m = 8
	c, err := New(m)
	if err != nil {
		t.Fatal(err)
	}
	flat := make([]float64, m*m)
	for i := range flat {
		flat[i] = 0.1
	}
	win := testutil.Speckle(1, m, m, 1)

	for _, pair := range [][2][]float64{{flat, win}, {win, flat}, {flat, flat}} {
		cm, err := c.Correlate(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if !cm.Zero {
			t.Fatalf("zero-variance window not flagged")
		}
		for i, v := range cm.Data {
			if v != 0 {
				t.Fatalf("Data[%d] = %v, want 0", i, v)
			}
		}
	}
}

func TestCorrelateLengthMismatch(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Correlate(make([]float64, 16), make([]float64, 15))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	_, err = c.Shift(make([]float64, 9), 0.5, 0)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Shift: expected ErrLengthMismatch, got %v", err)
	}
}

func TestNeighborhood(t *testing.T) {
	cm := &Map{M: 2, Data: make([]float64, 16)}
	for i := range cm.Data {
		cm.Data[i] = float64(i)
	}
	p, ok := cm.Neighborhood(1, 2)
	if !ok {
		t.Fatal("interior neighborhood unavailable")
	}
	want := [3][3]float64{{1, 2, 3}, {5, 6, 7}, {9, 10, 11}}
	if p != want {
		t.Fatalf("Neighborhood(1, 2) = %v, want %v", p, want)
	}
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {3, 1}, {1, 3}} {
		if _, ok := cm.Neighborhood(rc[0], rc[1]); ok {
			t.Errorf("Neighborhood%v reported available on the border", rc)
		}
	}
}

func TestPeakTiesResolveRowMajor(t *testing.T) {
	cm := &Map{M: 2, Data: make([]float64, 16)}
	cm.Data[6] = 1
	cm.Data[9] = 1
	r, c, v := cm.Peak()
	if r != 1 || c != 2 || v != 1 {
		t.Fatalf("Peak = (%d, %d, %v), want (1, 2, 1)", r, c, v)
	}
}

func BenchmarkCorrelate64(b *testing.B) {
	c, err := New(64)
	if err != nil {
		b.Fatal(err)
	}
	ref := testutil.Speckle(1, 64, 64, 1.5)
	obj := testutil.Roll(ref, 64, 64, 2, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Correlate(ref, obj); err != nil {
			b.Fatal(err)
		}
	}
}
