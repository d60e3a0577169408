// Package acm implements the confusion stage: the Arnold Cat Map applied to
// the pixel positions of a square grid.
//
// One forward step moves the pixel at column x, row y to
//
//	x' = (x + a*y) mod n
//	y' = (b*x + (a*b+1)*y) mod n
//
// and one inverse step moves it to
//
//	x' = ((a*b+1)*x - a*y) mod n
//	y' = (-b*x + y) mod n
//
// The matrix has determinant 1, so every step is a bijection of the grid for
// any integer a and b. All channels of a pixel move together.
package acm

import (
	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// Map holds the cat map coefficients.
type Map struct {
	A int `json:"a" yaml:"a" toml:"a"`
	B int `json:"b" yaml:"b" toml:"b"`
}

// Default is the published a = b = 1 map.
var Default = Map{A: 1, B: 1}

// Forward applies iterations forward steps with the default coefficients.
func Forward(arr *pixels.Array, iterations int) (*pixels.Array, error) {
	return Default.Forward(arr, iterations)
}

// Inverse undoes iterations forward steps with the default coefficients.
func Inverse(arr *pixels.Array, iterations int) (*pixels.Array, error) {
	return Default.Inverse(arr, iterations)
}

// Forward scrambles pixel positions. The input is never modified.
func (m Map) Forward(arr *pixels.Array, iterations int) (*pixels.Array, error) {
	if err := m.check("acm.Forward", arr, iterations); err != nil {
		return nil, err
	}
	return m.run(arr, iterations, m.forwardPoint), nil
}

// Inverse restores the positions scrambled by Forward with the same
// coefficients and iteration count.
func (m Map) Inverse(arr *pixels.Array, iterations int) (*pixels.Array, error) {
	if err := m.check("acm.Inverse", arr, iterations); err != nil {
		return nil, err
	}
	return m.run(arr, iterations, m.inversePoint), nil
}

// ForwardPoint maps a single grid position one forward step on an n x n grid.
func (m Map) ForwardPoint(x, y, n int) (int, int) {
	return m.forwardPoint(x, y, n)
}

// InversePoint maps a single grid position one inverse step on an n x n grid.
func (m Map) InversePoint(x, y, n int) (int, int) {
	return m.inversePoint(x, y, n)
}

func (m Map) forwardPoint(x, y, n int) (int, int) {
	return mod(x+m.A*y, n), mod(m.B*x+(m.A*m.B+1)*y, n)
}

func (m Map) inversePoint(x, y, n int) (int, int) {
	return mod((m.A*m.B+1)*x-m.A*y, n), mod(-m.B*x+y, n)
}

func (m Map) check(op string, arr *pixels.Array, iterations int) error {
	if arr == nil {
		return models.NewConfigurationError(op, models.ErrInvalidDimension, "nil array")
	}
	if err := arr.RequireSquare(op); err != nil {
		return err
	}
	if iterations < 0 {
		return &models.InvalidKeyError{Field: "iterations", Reason: "must not be negative"}
	}
	return nil
}

// run applies step iterations times. Each step reads the previous output and
// writes a fresh buffer; an in-place update would overwrite pixels that are
// still to be read.
func (m Map) run(arr *pixels.Array, iterations int, step func(x, y, n int) (int, int)) *pixels.Array {
	n := arr.Width
	ch := arr.Channels

	// Positions are the same for every step, so compute the destination
	// offset of every source pixel once.
	dest := make([]int, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			nx, ny := step(x, y, n)
			dest[y*n+x] = (ny*n + nx) * ch
		}
	}

	src := arr.Clone()
	if iterations == 0 {
		return src
	}
	dst := make([]uint8, len(src.Pix))

	for it := 0; it < iterations; it++ {
		for i, off := range dest {
			copy(dst[off:off+ch], src.Pix[i*ch:i*ch+ch])
		}
		src.Pix, dst = dst, src.Pix
	}

	return src
}

// mod returns the non-negative remainder of v / n.
func mod(v, n int) int {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}
