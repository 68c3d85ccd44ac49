package frame

import "fmt"

// Image is a height×width grid of intensity samples stored row-major.
type Image struct {
	Height int
	Width  int
	Pix    []float64
}

// New returns a zero-filled image. Negative dimensions are treated as 0.
func New(height, width int) *Image {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Image{Height: height, Width: width, Pix: make([]float64, height*width)}
}

// FromRows copies a slice of equal-length rows into a new image.
func FromRows(rows [][]float64) (*Image, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	w := len(rows[0])
	im := New(len(rows), w)
	for r, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrShapeMismatch, r, len(row), w)
		}
		copy(im.Row(r), row)
	}
	return im, nil
}

// At returns the sample at (r, c).
func (im *Image) At(r, c int) float64 {
	return im.Pix[r*im.Width+c]
}

// Set stores v at (r, c).
func (im *Image) Set(r, c int, v float64) {
	im.Pix[r*im.Width+c] = v
}

// Row returns row r as a sub-slice of Pix. Mutations are visible in the image.
func (im *Image) Row(r int) []float64 {
	return im.Pix[r*im.Width : (r+1)*im.Width]
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Height: im.Height, Width: im.Width, Pix: make([]float64, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// SameShape reports whether im and o have identical dimensions.
func (im *Image) SameShape(o *Image) bool {
	return o != nil && im.Height == o.Height && im.Width == o.Width
}

// CheckPix returns ErrShapeMismatch if len(im.Pix) is not Height*Width.
func (im *Image) CheckPix() error {
	if len(im.Pix) != im.Height*im.Width {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrShapeMismatch, len(im.Pix), im.Height, im.Width)
	}
	return nil
}

// Stack is an ordered sequence of equally shaped frames.
type Stack []*Image

// Shape returns the common frame dimensions, or an error if the stack is
// empty, ragged, or holds a frame whose Pix does not match its dimensions.
func (s Stack) Shape() (height, width int, err error) {
	if len(s) == 0 || s[0] == nil {
		return 0, 0, ErrEmptyStack
	}
	height, width = s[0].Height, s[0].Width
	for i, f := range s {
		if f == nil || f.Height != height || f.Width != width {
			return 0, 0, fmt.Errorf("%w: frame %d differs from frame 0 (%dx%d)", ErrShapeMismatch, i, height, width)
		}
		if err := f.CheckPix(); err != nil {
			return 0, 0, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return height, width, nil
}
