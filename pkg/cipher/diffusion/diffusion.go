// Package diffusion implements the value stage of the cipher: an
// elementwise XOR of the image with a keystream of the same shape.
package diffusion

import (
	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// XOR returns a new array c with c[i] = a[i] ^ b[i]. It is its own inverse.
func XOR(a, b *pixels.Array) (*pixels.Array, error) {
	if a == nil || b == nil {
		return nil, models.NewConfigurationError("diffusion.XOR", models.ErrShapeMismatch, "nil operand")
	}
	if !a.SameShape(b) {
		return nil, models.NewConfigurationError("diffusion.XOR", models.ErrShapeMismatch,
			"%dx%dx%d vs %dx%dx%d", a.Width, a.Height, a.Channels, b.Width, b.Height, b.Channels)
	}

	out := &pixels.Array{
		Width:    a.Width,
		Height:   a.Height,
		Channels: a.Channels,
		Pix:      make([]uint8, len(a.Pix)),
	}
	for i := range a.Pix {
		out.Pix[i] = a.Pix[i] ^ b.Pix[i]
	}
	return out, nil
}
