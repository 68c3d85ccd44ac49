package field

import (
	"github.com/cwbudde/algo-dic/dic/track"
	"github.com/cwbudde/algo-dic/frame"
)

// Field is a computed displacement field. The per-node maps have
// len(Rows)*len(Cols) entries in row-major order; node (i, j) belongs to the
// window centered at (Rows[i], Cols[j]).
type Field struct {
	Rows []int
	Cols []int

	// Displacement holds the row shift in the real part and the column shift
	// in the imaginary part.
	Displacement []complex128
	Correlation  []float64
	Error        []bool
	Status       []track.Status

	// Contrast is the temporal contrast of the object stack at full image
	// resolution. It is nil for fields computed from single images.
	Contrast *frame.Image
}

func newField(rows, cols []int) *Field {
	n := len(rows) * len(cols)
	return &Field{
		Rows:         rows,
		Cols:         cols,
		Displacement: make([]complex128, n),
		Correlation:  make([]float64, n),
		Error:        make([]bool, n),
		Status:       make([]track.Status, n),
	}
}

// Len returns the number of nodes.
func (f *Field) Len() int {
	return len(f.Displacement)
}

// Index returns the flat index of node (i, j).
func (f *Field) Index(i, j int) int {
	return i*len(f.Cols) + j
}

// At returns the result recorded for node (i, j).
func (f *Field) At(i, j int) (disp complex128, corr float64, failed bool) {
	k := f.Index(i, j)
	return f.Displacement[k], f.Correlation[k], f.Error[k]
}

// Failed returns the number of nodes with the error flag set.
func (f *Field) Failed() int {
	n := 0
	for _, e := range f.Error {
		if e {
			n++
		}
	}
	return n
}

// StatusCounts tallies node outcomes by status.
func (f *Field) StatusCounts() map[track.Status]int {
	counts := make(map[track.Status]int)
	for _, s := range f.Status {
		counts[s]++
	}
	return counts
}

func (f *Field) set(k int, res track.Result) {
	f.Displacement[k] = res.Displacement
	f.Correlation[k] = res.Correlation
	f.Error[k] = res.Err
	f.Status[k] = res.Status
}
