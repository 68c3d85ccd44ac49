// Package grid plans the interrogation-window centers over an image.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned for non-positive image or window dimensions.
var ErrInvalidSize = errors.New("grid: invalid size")

// Grid holds the row and column centers of the interrogation windows. Node
// (i, j) sits at (Rows[i], Cols[j]).
type Grid struct {
	Rows []int
	Cols []int
}

// Plan tiles an h×w image with non-overlapping m×m windows. Centers start at
// m/2 and advance by m; a center is kept only while its window lies entirely
// inside the image. For h = w = 256, m = 64 this yields 32, 96, 160, 224 on
// both axes.
func Plan(h, w, m int) (Grid, error) {
	if h <= 0 || w <= 0 || m <= 0 {
		return Grid{}, fmt.Errorf("%w: image %dx%d, window %d", ErrInvalidSize, h, w, m)
	}
	return Grid{Rows: axis(h, m), Cols: axis(w, m)}, nil
}

func axis(n, m int) []int {
	half := m / 2
	var centers []int
	for c := half; c-half+m <= n; c += m {
		centers = append(centers, c)
	}
	return centers
}

// Custom returns a grid from caller-supplied centers, copied verbatim. Use it
// for overlapping windows or non-uniform sampling.
func Custom(rows, cols []int) Grid {
	return Grid{
		Rows: append([]int(nil), rows...),
		Cols: append([]int(nil), cols...),
	}
}

// Len returns the number of nodes.
func (g Grid) Len() int {
	return len(g.Rows) * len(g.Cols)
}

// Node returns the (row-index, col-index) of the k-th node in row-major order.
func (g Grid) Node(k int) (i, j int) {
	return k / len(g.Cols), k % len(g.Cols)
}
