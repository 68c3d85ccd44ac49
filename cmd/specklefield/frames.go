package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"github.com/cwbudde/algo-dic/frame"
)

// loadStack decodes every path into one frame of the returned stack.
func loadStack(paths []string) (frame.Stack, error) {
	stack := make(frame.Stack, 0, len(paths))
	for _, p := range paths {
		im, err := loadFrame(p)
		if err != nil {
			return nil, err
		}
		stack = append(stack, im)
	}
	return stack, nil
}

// loadFrame reads a TIFF with the tiff decoder so 16-bit samples survive,
// and every other format through imaging with a grayscale conversion.
func loadFrame(path string) (*frame.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open frame: %w", err)
		}
		defer f.Close()
		img, err := tiff.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return frame.FromImage(img), nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
	default:
		img = imaging.Grayscale(img)
	}
	return frame.FromImage(img), nil
}

// saveContrast writes the contrast map auto-scaled to 16-bit gray, optionally
// resized to width pixels.
func saveContrast(path string, k *frame.Image, width int) error {
	if k == nil {
		return fmt.Errorf("no contrast map to write")
	}
	var img image.Image = frame.ToGray16(k, 0)
	if width > 0 && width != k.Width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save contrast map: %w", err)
	}
	return nil
}
