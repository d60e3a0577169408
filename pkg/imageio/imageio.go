// Package imageio moves pictures between files and pixel arrays.
//
// Decoding accepts every format registered with the image package (PNG,
// JPEG, GIF, BMP, TIFF). Grayscale pictures become "L" arrays, everything
// else becomes "RGB" with alpha dropped. Output is always PNG so that
// encrypted samples survive the round trip without loss.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"ChaosImg/pkg/pixels"
)

// Info describes a decoded file before any normalisation.
type Info struct {
	Format string
	Width  int
	Height int
	Mode   string
	// Resized is set when the picture was squared to fit the cipher
	Resized bool
}

// Decode reads a picture from r.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Load opens path and decodes the picture in it.
func Load(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// SquareResize scales img to min(w,h) on both sides with a Lanczos filter.
// Square pictures are returned unchanged.
func SquareResize(img image.Image) (image.Image, bool) {
	b := img.Bounds()
	if b.Dx() == b.Dy() {
		return img, false
	}
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	return resize.Resize(uint(side), uint(side), img, resize.Lanczos3), true
}

// ToArray normalises img to its pipeline mode, optionally squaring it first.
func ToArray(img image.Image, square bool) (*pixels.Array, Info, error) {
	b := img.Bounds()
	info := Info{
		Width:  b.Dx(),
		Height: b.Dy(),
		Mode:   pixels.ModeOf(img),
	}

	if square {
		img, info.Resized = SquareResize(img)
	}

	arr, err := pixels.FromImage(img, info.Mode)
	if err != nil {
		return nil, info, err
	}
	return arr, info, nil
}

// LoadArray decodes path and converts it with ToArray.
func LoadArray(path string, square bool) (*pixels.Array, Info, error) {
	img, format, err := Load(path)
	if err != nil {
		return nil, Info{}, err
	}
	arr, info, err := ToArray(img, square)
	info.Format = format
	return arr, info, err
}

// EncodePNG writes arr to w as PNG.
func EncodePNG(w io.Writer, arr *pixels.Array) error {
	if err := png.Encode(w, arr.ToImage()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes arr to path, creating parent directories. A partially
// written file is removed on failure.
func SavePNG(path string, arr *pixels.Array) error {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, arr); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		os.Remove(path) // Clean up on error
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
