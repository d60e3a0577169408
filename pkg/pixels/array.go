// Package pixels defines the in-memory pixel grid that every cipher and
// statistics operation consumes and produces.
//
// An Array stores 8-bit samples row-major with channels interleaved, so the
// sample for channel c of the pixel at column x, row y lives at
// Pix[(y*Width+x)*Channels+c]. Operations return new arrays and never
// modify the array they were given.
package pixels

import (
	"bytes"

	"ChaosImg/pkg/models"
)

// Color modes understood by the pipeline.
const (
	ModeGray = "L"
	ModeRGB  = "RGB"
)

// Array is a rectangular grid of unsigned bytes with 1 or 3 channels.
type Array struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New allocates a zeroed array.
func New(width, height, channels int) (*Array, error) {
	if width <= 0 || height <= 0 {
		return nil, models.NewConfigurationError("pixels.New", models.ErrInvalidDimension, "got %dx%d", width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, models.NewConfigurationError("pixels.New", models.ErrInvalidChannels, "got %d", channels)
	}
	return &Array{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromSlice wraps a copy of pix as an array of the given shape.
func FromSlice(width, height, channels int, pix []uint8) (*Array, error) {
	a, err := New(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(a.Pix) {
		return nil, models.NewConfigurationError("pixels.FromSlice", models.ErrShapeMismatch,
			"%dx%dx%d needs %d samples, got %d", width, height, channels, len(a.Pix), len(pix))
	}
	copy(a.Pix, pix)
	return a, nil
}

// NewSquare allocates a zeroed n x n array.
func NewSquare(n, channels int) (*Array, error) {
	return New(n, n, channels)
}

// Mode returns "L" for single channel arrays and "RGB" otherwise.
func (a *Array) Mode() string {
	if a.Channels == 1 {
		return ModeGray
	}
	return ModeRGB
}

// Len is the total number of samples.
func (a *Array) Len() int {
	return len(a.Pix)
}

// Offset returns the index of channel 0 of the pixel at (x, y).
func (a *Array) Offset(x, y int) int {
	return (y*a.Width + x) * a.Channels
}

// At returns the sample of channel c at (x, y).
func (a *Array) At(x, y, c int) uint8 {
	return a.Pix[a.Offset(x, y)+c]
}

// Set stores the sample of channel c at (x, y).
func (a *Array) Set(x, y, c int, v uint8) {
	a.Pix[a.Offset(x, y)+c] = v
}

// IsSquare reports whether both grid dimensions are equal.
func (a *Array) IsSquare() bool {
	return a.Width == a.Height
}

// SameShape reports whether b has exactly the dimensions and channel count of a.
func (a *Array) SameShape(b *Array) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Channels == b.Channels
}

// Equal reports whether both arrays have the same shape and samples.
func (a *Array) Equal(b *Array) bool {
	return a.SameShape(b) && bytes.Equal(a.Pix, b.Pix)
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	out := &Array{
		Width:    a.Width,
		Height:   a.Height,
		Channels: a.Channels,
		Pix:      make([]uint8, len(a.Pix)),
	}
	copy(out.Pix, a.Pix)
	return out
}

// Channel extracts channel c as a single channel array.
func (a *Array) Channel(c int) *Array {
	out := &Array{
		Width:    a.Width,
		Height:   a.Height,
		Channels: 1,
		Pix:      make([]uint8, a.Width*a.Height),
	}
	for i := range out.Pix {
		out.Pix[i] = a.Pix[i*a.Channels+c]
	}
	return out
}

// RequireSquare returns a ConfigurationError naming op when a is not n x n.
func (a *Array) RequireSquare(op string) error {
	if !a.IsSquare() {
		return models.NewConfigurationError(op, models.ErrNotSquare, "got %dx%d", a.Width, a.Height)
	}
	return nil
}
