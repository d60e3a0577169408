package stats

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// DefaultSampleCount is the number of neighbour pairs drawn per direction.
const DefaultSampleCount = 5000

// Correlation estimates the Pearson correlation of horizontally, vertically
// and diagonally adjacent pixels from sampleCount random positions drawn
// with replacement. Colour images are reduced to luminance first.
//
// sampleCount is clamped to (width-1)*(height-1); a non-positive result
// yields (0, 0, 0). rng may be nil, in which case a time-seeded source is used.
func Correlation(arr *pixels.Array, sampleCount int, rng *rand.Rand) models.CorrelationSample {
	if arr == nil || arr.Width <= 0 || arr.Height <= 0 {
		return models.CorrelationSample{}
	}

	w, h := arr.Width, arr.Height
	if limit := (w - 1) * (h - 1); sampleCount > limit {
		sampleCount = limit
	}
	if sampleCount <= 0 {
		return models.CorrelationSample{}
	}

	gray := arr
	if arr.Channels != 1 {
		gray = arr.Grayscale()
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}

	base := make([]float64, sampleCount)
	horiz := make([]float64, sampleCount)
	vert := make([]float64, sampleCount)
	diag := make([]float64, sampleCount)

	for i := 0; i < sampleCount; i++ {
		x := rng.IntN(w - 1)
		y := rng.IntN(h - 1)
		base[i] = float64(gray.Pix[y*w+x])
		horiz[i] = float64(gray.Pix[y*w+x+1])
		vert[i] = float64(gray.Pix[(y+1)*w+x])
		diag[i] = float64(gray.Pix[(y+1)*w+x+1])
	}

	return models.CorrelationSample{
		Horizontal: pearson(base, horiz),
		Vertical:   pearson(base, vert),
		Diagonal:   pearson(base, diag),
	}
}

// pearson returns 0 for fewer than two samples or when either side is
// constant, where the coefficient is undefined.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}
