package pixels

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/pkg/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		w, h, c  int
		wantErr  error
		wantMode string
	}{
		{"gray", 4, 4, 1, nil, ModeGray},
		{"rgb", 3, 5, 3, nil, ModeRGB},
		{"zero width", 0, 4, 1, models.ErrInvalidDimension, ""},
		{"negative height", 4, -1, 1, models.ErrInvalidDimension, ""},
		{"two channels", 4, 4, 2, models.ErrInvalidChannels, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.w, tt.h, tt.c)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, models.IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w*tt.h*tt.c, a.Len())
			assert.Equal(t, tt.wantMode, a.Mode())
		})
	}
}

func TestFromSliceShapeMismatch(t *testing.T) {
	_, err := FromSlice(2, 2, 1, []uint8{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrShapeMismatch)
}

func TestAtSetInterleaved(t *testing.T) {
	a, err := New(2, 2, 3)
	require.NoError(t, err)

	a.Set(1, 0, 2, 200)
	a.Set(0, 1, 0, 100)

	assert.Equal(t, uint8(200), a.Pix[(0*2+1)*3+2])
	assert.Equal(t, uint8(100), a.Pix[(1*2+0)*3+0])
	assert.Equal(t, uint8(200), a.At(1, 0, 2))
}

func TestCloneIsIndependent(t *testing.T) {
	a, err := FromSlice(2, 2, 1, []uint8{1, 2, 3, 4})
	require.NoError(t, err)

	b := a.Clone()
	require.True(t, a.Equal(b))

	b.Pix[0] = 9
	assert.Equal(t, uint8(1), a.Pix[0])
	assert.False(t, a.Equal(b))
}

func TestRequireSquare(t *testing.T) {
	a, err := New(3, 2, 1)
	require.NoError(t, err)

	err = a.RequireSquare("test")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotSquare)

	sq, err := NewSquare(3, 3)
	require.NoError(t, err)
	assert.NoError(t, sq.RequireSquare("test"))
}

func TestChannel(t *testing.T) {
	a, err := FromSlice(2, 1, 3, []uint8{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, []uint8{1, 4}, a.Channel(0).Pix)
	assert.Equal(t, []uint8{2, 5}, a.Channel(1).Pix)
	assert.Equal(t, []uint8{3, 6}, a.Channel(2).Pix)
}

func TestLuma(t *testing.T) {
	assert.Equal(t, uint8(0), Luma(0, 0, 0))
	assert.Equal(t, uint8(255), Luma(255, 255, 255))
	assert.Equal(t, uint8(76), Luma(255, 0, 0))
	assert.Equal(t, uint8(150), Luma(0, 255, 0))
	assert.Equal(t, uint8(29), Luma(0, 0, 255))
}

func TestGrayscale(t *testing.T) {
	a, err := FromSlice(2, 1, 3, []uint8{255, 0, 0, 10, 10, 10})
	require.NoError(t, err)

	g := a.Grayscale()
	assert.Equal(t, 1, g.Channels)
	assert.Equal(t, []uint8{76, 10}, g.Pix)
}

func TestImageRoundTrip(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 3, 2))
		for i := range src.Pix {
			src.Pix[i] = uint8(i * 40)
		}
		a, err := FromImage(src, ModeOf(src))
		require.NoError(t, err)
		assert.Equal(t, ModeGray, a.Mode())
		assert.Equal(t, src.Pix, a.Pix)

		back, ok := a.ToImage().(*image.Gray)
		require.True(t, ok)
		assert.Equal(t, src.Pix, back.Pix)
	})

	t.Run("rgba drops alpha", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		a, err := FromImage(src, ModeOf(src))
		require.NoError(t, err)
		assert.Equal(t, ModeRGB, a.Mode())
		assert.Equal(t, uint8(10), a.At(1, 1, 0))
		assert.Equal(t, uint8(20), a.At(1, 1, 1))
		assert.Equal(t, uint8(30), a.At(1, 1, 2))

		back := a.ToImage()
		r, g, b, al := back.At(1, 1).RGBA()
		assert.Equal(t, uint32(10), r>>8)
		assert.Equal(t, uint32(20), g>>8)
		assert.Equal(t, uint32(30), b>>8)
		assert.Equal(t, uint32(255), al>>8)
	})

	t.Run("unsupported mode", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 1, 1))
		_, err := FromImage(src, "CMYK")
		assert.ErrorIs(t, err, models.ErrInvalidChannels)
	})
}
