package correlate

// Map is a 2M×2M non-negative correlation map stored row-major. Index (M, M)
// is zero relative displacement.
type Map struct {
	M    int
	Data []float64
	// Zero is set when either source window had zero variance; Data is then
	// all zero.
	Zero bool
}

// Size returns the edge length 2M.
func (m *Map) Size() int {
	return 2 * m.M
}

// At returns the value at (r, c).
func (m *Map) At(r, c int) float64 {
	return m.Data[r*m.Size()+c]
}

// Peak returns the location and value of the global maximum. Ties resolve to
// the first occurrence in row-major order.
func (m *Map) Peak() (r, c int, v float64) {
	idx := 0
	v = m.Data[0]
	for i, x := range m.Data {
		if x > v {
			idx = i
			v = x
		}
	}
	n := m.Size()
	return idx / n, idx % n, v
}

// PeakInteger returns the integer displacement (dr, dc) of the global maximum
// relative to the map center together with the peak index (r, c).
func (m *Map) PeakInteger() (dr, dc, r, c int) {
	r, c, _ = m.Peak()
	return r - m.M, c - m.M, r, c
}

// Neighborhood returns the 3×3 samples centered on (r, c). It reports false
// when (r, c) lies on the outer border of the map.
func (m *Map) Neighborhood(r, c int) (p [3][3]float64, ok bool) {
	n := m.Size()
	if r <= 0 || r >= n-1 || c <= 0 || c >= n-1 {
		return p, false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p[i][j] = m.At(r+i-1, c+j-1)
		}
	}
	return p, true
}
