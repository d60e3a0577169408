// Package stats measures how noise-like an image is: Shannon entropy of the
// value distribution, correlation of neighbouring pixels, per-channel
// histograms and a chi-square uniformity statistic. None of the functions
// modify their input, and all accept arrays of any rectangular shape.
package stats

import (
	"ChaosImg/pkg/pixels"
)

// HistogramCounts returns one 256-bin histogram per channel.
func HistogramCounts(arr *pixels.Array) [][256]int {
	if arr == nil || arr.Channels <= 0 {
		return nil
	}

	hist := make([][256]int, arr.Channels)
	ch := arr.Channels
	for i, v := range arr.Pix {
		hist[i%ch][v]++
	}
	return hist
}

// ChiSquare returns, per channel, the chi-square statistic of the histogram
// against a flat distribution over 256 values. With 255 degrees of freedom a
// uniform channel stays below ~293 at the 5% level.
func ChiSquare(arr *pixels.Array) []float64 {
	hist := HistogramCounts(arr)
	out := make([]float64, len(hist))
	for c, h := range hist {
		total := 0
		for _, n := range h {
			total += n
		}
		if total == 0 {
			continue
		}
		expected := float64(total) / 256.0
		chi := 0.0
		for _, n := range h {
			diff := float64(n) - expected
			chi += diff * diff / expected
		}
		out[c] = chi
	}
	return out
}

// ChiSquareCritical255 is the 5% critical value for 255 degrees of freedom.
const ChiSquareCritical255 = 293.2478
