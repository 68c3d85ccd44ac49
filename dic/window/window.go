// Package window extracts square interrogation windows from full images.
package window

import "github.com/cwbudde/algo-dic/frame"

// Extract returns the m×m window whose top-left corner is
// (row-m/2, col-m/2). Where the window overflows the image, samples are taken
// from the image reflected about its edge (the edge sample is not repeated),
// which equals reflect-padding the image by exactly the overflow before
// slicing. The result is always m×m.
func Extract(img *frame.Image, row, col, m int) []float64 {
	out := make([]float64, m*m)
	ExtractTo(out, img, row, col, m)
	return out
}

// ExtractTo writes the window described in Extract into dst, which must have
// length m*m.
func ExtractTo(dst []float64, img *frame.Image, row, col, m int) {
	half := m / 2
	r0 := row - half
	c0 := col - half

	cols := make([]int, m)
	for x := range cols {
		cols[x] = reflect(c0+x, img.Width)
	}
	for y := 0; y < m; y++ {
		src := img.Row(reflect(r0+y, img.Height))
		line := dst[y*m : (y+1)*m]
		if c0 >= 0 && c0+m <= img.Width {
			copy(line, src[c0:c0+m])
			continue
		}
		for x, c := range cols {
			line[x] = src[c]
		}
	}
}

// reflect maps an index onto [0, n) by mirroring about the first and last
// samples, repeating as often as needed.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// Roll circularly shifts an m×m window so that out[r][c] = win[r+dr][c+dc]
// (indices modulo m). Rolling by the measured shift moves displaced content
// back toward the origin.
func Roll(win []float64, m, dr, dc int) []float64 {
	out := make([]float64, len(win))
	for r := 0; r < m; r++ {
		sr := mod(r+dr, m)
		for c := 0; c < m; c++ {
			out[r*m+c] = win[sr*m+mod(c+dc, m)]
		}
	}
	return out
}

func mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}
