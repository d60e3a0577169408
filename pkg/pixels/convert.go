package pixels

import (
	"image"
	"image/color"

	"ChaosImg/pkg/models"
)

// Luma converts an RGB triple to an 8-bit luminance value using the
// ITU-R 601-2 weights in 16.16 fixed point, rounding half up.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// Grayscale returns a single channel copy of a. Single channel input is cloned.
func (a *Array) Grayscale() *Array {
	if a.Channels == 1 {
		return a.Clone()
	}
	out := &Array{
		Width:    a.Width,
		Height:   a.Height,
		Channels: 1,
		Pix:      make([]uint8, a.Width*a.Height),
	}
	for i := range out.Pix {
		p := a.Pix[i*a.Channels : i*a.Channels+3]
		out.Pix[i] = Luma(p[0], p[1], p[2])
	}
	return out
}

// FromImage copies img into an Array in the requested mode ("L" or "RGB").
// Alpha is dropped without compositing.
func FromImage(img image.Image, mode string) (*Array, error) {
	if img == nil {
		return nil, models.NewConfigurationError("pixels.FromImage", models.ErrInvalidDimension, "nil image provided")
	}

	channels := 3
	switch mode {
	case ModeGray:
		channels = 1
	case ModeRGB:
	default:
		return nil, models.NewConfigurationError("pixels.FromImage", models.ErrInvalidChannels, "unsupported mode %q", mode)
	}

	bounds := img.Bounds()
	a, err := New(bounds.Dx(), bounds.Dy(), channels)
	if err != nil {
		return nil, err
	}

	// Fast path for the common decoder outputs
	if g, ok := img.(*image.Gray); ok && channels == 1 {
		for y := 0; y < a.Height; y++ {
			off := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(a.Pix[y*a.Width:], g.Pix[off:off+a.Width])
		}
		return a, nil
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.At(x, y)
			if channels == 1 {
				switch gc := px.(type) {
				case color.Gray:
					a.Pix[i] = gc.Y
				case color.Gray16:
					a.Pix[i] = uint8(gc.Y >> 8)
				default:
					c := color.NRGBAModel.Convert(px).(color.NRGBA)
					a.Pix[i] = Luma(c.R, c.G, c.B)
				}
				i++
				continue
			}
			c := color.NRGBAModel.Convert(px).(color.NRGBA)
			a.Pix[i] = c.R
			a.Pix[i+1] = c.G
			a.Pix[i+2] = c.B
			i += 3
		}
	}

	return a, nil
}

// ToImage returns an *image.Gray for single channel arrays and an opaque
// *image.NRGBA for three channel arrays.
func (a *Array) ToImage() image.Image {
	rect := image.Rect(0, 0, a.Width, a.Height)
	if a.Channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, a.Pix)
		return g
	}

	out := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(a.Pix); i, j = i+3, j+4 {
		out.Pix[j] = a.Pix[i]
		out.Pix[j+1] = a.Pix[i+1]
		out.Pix[j+2] = a.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

// ModeOf picks the pipeline mode for a decoded image: grayscale models stay
// "L", everything else becomes "RGB".
func ModeOf(img image.Image) string {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return ModeGray
	}
	return ModeRGB
}
