// Package correlate computes zero-mean Fourier cross-correlation maps between
// two m×m interrogation windows and locates their integer peak.
//
// Each window has its own mean removed and is embedded at offset m/2 in a
// zero-padded 2m×2m buffer; the embedded reference is additionally given a
// center (fftshift) shift. The map is the magnitude of the forward transform
// of R·conj(O), where R and O are the forward transforms of the two buffers,
// normalized by (2m)²·sqrt(Σref²·Σobj²):
//
//	c, err := correlate.New(64)
//	m, err := c.Correlate(refWin, objWin)
//	dr, dc, r, col := m.PeakInteger()
//
// The two-forward-transform form is the legacy convention of this engine. It
// equals the point-reflected inverse-transform correlation scaled by (2m)², so
// index (m, m) of the map is zero displacement and a peak at (m+d, m+e) means
// the object content sits d rows down and e columns right of the reference.
//
// A [Correlator] owns FFT plans and scratch buffers and must not be shared
// between goroutines; use one per worker or take them from a [Pool].
package correlate
