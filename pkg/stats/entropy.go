package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"ChaosImg/pkg/pixels"
)

// MaxEntropy is the entropy of a uniform distribution over 256 byte values.
const MaxEntropy = 8.0

// Entropy returns the Shannon entropy in bits of the byte values, computed
// per channel and averaged over channels. The result is in [0, 8].
func Entropy(arr *pixels.Array) float64 {
	per := ChannelEntropy(arr)
	if len(per) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range per {
		sum += e
	}
	return sum / float64(len(per))
}

// ChannelEntropy returns the entropy of each channel separately.
func ChannelEntropy(arr *pixels.Array) []float64 {
	hist := HistogramCounts(arr)
	out := make([]float64, len(hist))
	for c, h := range hist {
		out[c] = histogramEntropy(h)
	}
	return out
}

func histogramEntropy(h [256]int) float64 {
	total := 0
	for _, n := range h {
		total += n
	}
	if total == 0 {
		return 0
	}

	p := make([]float64, 0, 256)
	for _, n := range h {
		if n > 0 {
			p = append(p, float64(n)/float64(total))
		}
	}

	// stat.Entropy uses the natural logarithm
	e := stat.Entropy(p) / math.Ln2
	switch {
	case e <= 0:
		return 0
	case e > MaxEntropy:
		return MaxEntropy
	}
	return e
}
