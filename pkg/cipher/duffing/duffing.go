// Package duffing generates the diffusion keystream by iterating the
// discrete Duffing map
//
//	x' = y
//	y' = -B*x + A*y - y^3
//
// from a caller supplied seed. After a warm-up that is discarded, every
// iteration emits floor(frac(|y|) * 256) as one byte.
//
// The keystream must be reproduced bit for bit by the decrypting side, so the
// recurrence is evaluated in float64 in exactly this order and every product
// is rounded explicitly before it is summed (no fused multiply-add).
package duffing

import (
	"math"

	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// Params configures the map.
type Params struct {
	A      float64 `json:"a" yaml:"a" toml:"a"`
	B      float64 `json:"b" yaml:"b" toml:"b"`
	WarmUp int     `json:"warmup" yaml:"warmup" toml:"warmup"`
}

// DefaultParams are the published constants.
var DefaultParams = Params{A: 2.75, B: 0.2, WarmUp: 1000}

// Generate builds an n x n keystream with the default parameters.
func Generate(n, channels int, seedX, seedY float64) (*pixels.Array, error) {
	return DefaultParams.Generate(n, channels, seedX, seedY)
}

// Generate builds an n x n x channels keystream. Bytes fill the array in
// row-major order with the channel varying fastest, matching pixels.Array.
func (p Params) Generate(n, channels int, seedX, seedY float64) (*pixels.Array, error) {
	if n <= 0 {
		return nil, models.NewConfigurationError("duffing.Generate", models.ErrInvalidDimension, "n=%d", n)
	}
	if channels != 1 && channels != 3 {
		return nil, models.NewConfigurationError("duffing.Generate", models.ErrInvalidChannels, "channels=%d", channels)
	}

	out, err := pixels.NewSquare(n, channels)
	if err != nil {
		return nil, err
	}
	if err := p.Fill(out.Pix, seedX, seedY); err != nil {
		return nil, err
	}
	return out, nil
}

// Fill writes len(buf) keystream bytes into buf, starting from the seed.
func (p Params) Fill(buf []uint8, seedX, seedY float64) error {
	if p.WarmUp < 0 {
		return models.NewConfigurationError("duffing.Fill", models.ErrInvalidDimension, "warm-up=%d", p.WarmUp)
	}

	x, y := seedX, seedY
	for i := 0; i < p.WarmUp; i++ {
		x, y = p.step(x, y)
	}
	if !finite(y) {
		return diverged("warm-up")
	}

	for i := range buf {
		x, y = p.step(x, y)
		if !finite(y) {
			return diverged("output")
		}
		buf[i] = toByte(y)
	}
	return nil
}

// Orbit returns the first count post warm-up y values. Useful for plotting
// and for checking a seed stays on the attractor.
func (p Params) Orbit(seedX, seedY float64, count int) ([]float64, error) {
	x, y := seedX, seedY
	for i := 0; i < p.WarmUp; i++ {
		x, y = p.step(x, y)
	}
	if !finite(y) {
		return nil, diverged("warm-up")
	}
	ys := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		x, y = p.step(x, y)
		if !finite(y) {
			return ys, diverged("orbit")
		}
		ys = append(ys, y)
	}
	return ys, nil
}

func (p Params) step(x, y float64) (float64, float64) {
	cube := float64(float64(y*y) * y)
	return y, float64(-p.B*x) + float64(p.A*y) - cube
}

// toByte maps the fractional part of |y| onto [0, 256).
func toByte(y float64) uint8 {
	return uint8(math.Floor(math.Mod(math.Abs(y), 1.0) * 256))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func diverged(stage string) error {
	return &models.InvalidKeyError{
		Field:  "seed",
		Reason: "orbit diverged during " + stage + "; choose seeds closer to the attractor (e.g. |x|,|y| < 1)",
		Err:    models.ErrDiverged,
	}
}
