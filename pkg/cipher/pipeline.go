// Package cipher composes the confusion stage (Arnold Cat Map), the keystream
// generator (Duffing map) and the diffusion stage (XOR) into the image
// cipher, and keeps a registry of the schemes built from them.
//
// Encrypt:  permute -> generate keystream -> XOR
// Decrypt:  generate keystream -> XOR -> inverse permute
//
// There is no integrity check: decrypting with the wrong key yields a
// different but well-formed image.
package cipher

import (
	"ChaosImg/pkg/cipher/acm"
	"ChaosImg/pkg/cipher/diffusion"
	"ChaosImg/pkg/cipher/duffing"
	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// Pipeline holds the tunable constants of both stages.
type Pipeline struct {
	CatMap  acm.Map
	Duffing duffing.Params
}

// DefaultPipeline uses a = b = 1 and A = 2.75, B = 0.2, warm-up 1000.
func DefaultPipeline() Pipeline {
	return Pipeline{
		CatMap:  acm.Default,
		Duffing: duffing.DefaultParams,
	}
}

// Encrypt runs the full cipher with the default pipeline.
func Encrypt(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	return DefaultPipeline().Encrypt(arr, key)
}

// Decrypt inverts Encrypt with the default pipeline.
func Decrypt(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	return DefaultPipeline().Decrypt(arr, key)
}

// Encrypt permutes the pixel positions, then XORs the result with the
// keystream derived from the key seeds. The channel count comes from arr.
func (p Pipeline) Encrypt(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	if err := p.precheck("cipher.Encrypt", arr, key); err != nil {
		return nil, err
	}

	permuted, err := p.CatMap.Forward(arr, key.Iterations)
	if err != nil {
		return nil, err
	}
	return p.diffuse(permuted, key)
}

// Decrypt regenerates the keystream, removes it, then undoes the permutation.
func (p Pipeline) Decrypt(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	if err := p.precheck("cipher.Decrypt", arr, key); err != nil {
		return nil, err
	}

	undiffused, err := p.diffuse(arr, key)
	if err != nil {
		return nil, err
	}
	return p.CatMap.Inverse(undiffused, key.Iterations)
}

// Keystream exposes the keystream the pipeline would use for arr and key.
func (p Pipeline) Keystream(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	if err := p.precheck("cipher.Keystream", arr, key); err != nil {
		return nil, err
	}
	return p.Duffing.Generate(arr.Width, arr.Channels, key.SeedX, key.SeedY)
}

func (p Pipeline) diffuse(arr *pixels.Array, key models.CipherKey) (*pixels.Array, error) {
	ks, err := p.Duffing.Generate(arr.Width, arr.Channels, key.SeedX, key.SeedY)
	if err != nil {
		return nil, err
	}
	return diffusion.XOR(arr, ks)
}

func (p Pipeline) precheck(op string, arr *pixels.Array, key models.CipherKey) error {
	if arr == nil {
		return models.NewConfigurationError(op, models.ErrInvalidDimension, "nil array")
	}
	if err := arr.RequireSquare(op); err != nil {
		return err
	}
	return key.Validate()
}
