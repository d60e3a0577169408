package models

import (
	"fmt"
	"math"
)

// CipherKey holds the numeric parameters shared by encrypt and decrypt.
// Iterations drives the Arnold Cat Map, SeedX/SeedY start the Duffing orbit.
type CipherKey struct {
	Iterations int     `json:"iterations" yaml:"iterations" toml:"iterations"`
	SeedX      float64 `json:"seedX" yaml:"seedX" toml:"seedX"`
	SeedY      float64 `json:"seedY" yaml:"seedY" toml:"seedY"`
}

// Validate checks the type/range constraints of the key. It cannot tell
// whether the key is the one an image was encrypted with.
func (k CipherKey) Validate() error {
	if k.Iterations < 0 {
		return &InvalidKeyError{Field: "iterations", Reason: fmt.Sprintf("must not be negative, got %d", k.Iterations)}
	}
	if math.IsNaN(k.SeedX) || math.IsInf(k.SeedX, 0) {
		return &InvalidKeyError{Field: "seedX", Reason: "must be a finite number"}
	}
	if math.IsNaN(k.SeedY) || math.IsInf(k.SeedY, 0) {
		return &InvalidKeyError{Field: "seedY", Reason: "must be a finite number"}
	}
	return nil
}

// String never prints the seeds.
func (k CipherKey) String() string {
	return fmt.Sprintf("CipherKey{iterations=%d}", k.Iterations)
}
