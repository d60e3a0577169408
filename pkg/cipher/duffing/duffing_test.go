package duffing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/pkg/models"
)

func TestGenerateKnownVector(t *testing.T) {
	ks, err := Generate(2, 1, 0.1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2, ks.Width)
	assert.Equal(t, 2, ks.Height)
	assert.Equal(t, 1, ks.Channels)
	assert.Equal(t, []uint8{222, 115, 194, 91}, ks.Pix)
}

func TestGenerateThreeChannelsContinuesSequence(t *testing.T) {
	gray, err := Generate(2, 1, 0.1, 0.1)
	require.NoError(t, err)

	rgb, err := Generate(2, 3, 0.1, 0.1)
	require.NoError(t, err)
	require.Len(t, rgb.Pix, 12)

	// channel is the fastest varying axis, so the first pixel holds bytes 0..2
	assert.Equal(t, gray.Pix, rgb.Pix[:4])
	assert.Equal(t, []uint8{222, 115, 194, 91, 19, 112, 193, 91, 19, 112, 193, 92}, rgb.Pix)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(16, 3, 0.123456, 0.654321)
	require.NoError(t, err)
	b, err := Generate(16, 3, 0.123456, 0.654321)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestGenerateSensitiveToArguments(t *testing.T) {
	base, err := Generate(8, 1, 0.1, 0.1)
	require.NoError(t, err)

	tests := []struct {
		name     string
		n, ch    int
		seedX    float64
		seedY    float64
		sameSize bool
	}{
		{"seedY nudged", 8, 1, 0.1, 0.1000001, true},
		{"seedX changed", 8, 1, 0.2, 0.1, true},
		{"size changed", 9, 1, 0.1, 0.1, false},
		{"channels changed", 8, 3, 0.1, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := Generate(tt.n, tt.ch, tt.seedX, tt.seedY)
			require.NoError(t, err)
			if tt.sameSize {
				assert.NotEqual(t, base.Pix, other.Pix)
			} else {
				assert.False(t, base.Equal(other))
			}
		})
	}

	nudged, err := Generate(2, 1, 0.1, 0.1000001)
	require.NoError(t, err)
	assert.Equal(t, []uint8{166, 55, 105, 211}, nudged.Pix)
}

func TestGenerateInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		n, ch   int
		wantErr error
	}{
		{"zero size", 0, 1, models.ErrInvalidDimension},
		{"negative size", -3, 3, models.ErrInvalidDimension},
		{"two channels", 4, 2, models.ErrInvalidChannels},
		{"four channels", 4, 4, models.ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.n, tt.ch, 0.1, 0.1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, models.IsConfigurationError(err))
		})
	}
}

func TestGenerateDivergentSeed(t *testing.T) {
	for _, seed := range [][2]float64{{2, 2}, {10, 10}, {0.01, 0.99}} {
		_, err := Generate(4, 1, seed[0], seed[1])
		require.Error(t, err, "seed %v", seed)
		assert.ErrorIs(t, err, models.ErrDiverged)
		assert.ErrorIs(t, err, models.ErrInvalidKey)
		assert.True(t, models.IsInvalidKeyError(err))
	}
}

func TestFixedPointSeedGivesZeroStream(t *testing.T) {
	ks, err := Generate(3, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, 9), ks.Pix)
}

func TestCustomParams(t *testing.T) {
	p := Params{A: 2.75, B: 0.2, WarmUp: 0}
	cold, err := p.Generate(4, 1, 0.1, 0.1)
	require.NoError(t, err)

	warm, err := Generate(4, 1, 0.1, 0.1)
	require.NoError(t, err)
	assert.NotEqual(t, cold.Pix, warm.Pix)

	_, err = Params{A: 2.75, B: 0.2, WarmUp: -1}.Generate(4, 1, 0.1, 0.1)
	assert.ErrorIs(t, err, models.ErrInvalidDimension)
}

func TestOrbitMatchesKeystream(t *testing.T) {
	ys, err := DefaultParams.Orbit(0.1, 0.1, 4)
	require.NoError(t, err)
	require.Len(t, ys, 4)

	ks, err := Generate(2, 1, 0.1, 0.1)
	require.NoError(t, err)
	for i, y := range ys {
		assert.Equal(t, ks.Pix[i], toByte(y))
		assert.Less(t, y, 3.0)
		assert.Greater(t, y, -3.0)
	}
}
