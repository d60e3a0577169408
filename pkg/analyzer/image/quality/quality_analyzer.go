package quality

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ChaosImg/pkg/analyzer"
	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
	"ChaosImg/pkg/stats"
)

// QualityAnalyzer measures how close an image is to uniform noise, which is
// what a well-diffused cipher output should look like
type QualityAnalyzer struct {
	analyzer.BaseAnalyzer
}

// NewQualityAnalyzer creates a new cipher quality analyzer
func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"Cipher Quality Analyzer",
			"Scores entropy, neighbour correlation and histogram flatness against uniform noise",
			[]string{pixels.ModeGray, pixels.ModeRGB},
		),
	}
}

// Analyze computes the statistics of arr and scores them
func (a *QualityAnalyzer) Analyze(arr *pixels.Array, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	if arr == nil {
		return nil, errors.New("nil array provided")
	}
	if !a.CanAnalyze(arr.Mode()) {
		return nil, fmt.Errorf("unsupported mode %s", arr.Mode())
	}

	start := time.Now()
	samples := options.SampleCount
	if samples == 0 {
		samples = stats.DefaultSampleCount
	}

	result := &models.AnalysisResult{
		Filename:        options.Filename,
		Mode:            arr.Mode(),
		Width:           arr.Width,
		Height:          arr.Height,
		Findings:        []models.Finding{},
		Recommendations: []string{},
		AnalysisTime:    start,
	}

	channelEntropy := stats.ChannelEntropy(arr)
	result.Entropy = mean(channelEntropy)
	result.Correlation = stats.Correlation(arr, samples, options.Rand)
	result.ChiSquare = stats.ChiSquare(arr)
	result.Histogram = stats.HistogramCounts(arr)

	result.Details = map[string]interface{}{
		"width":          arr.Width,
		"height":         arr.Height,
		"channels":       arr.Channels,
		"samples":        samples,
		"channelEntropy": channelEntropy,
	}

	result.QualityScore = calculateQualityScore(result.Entropy, result.Correlation, result.ChiSquare)
	result.Confidence = calculateConfidence(arr.Width*arr.Height, calculateVariance(channelEntropy))

	addFindings(result)

	result.AnalysisDuration = time.Since(start)
	return result, nil
}

// calculateQualityScore combines the three measurements into [0,1]. Points
// are counted in integers so thresholds compare exactly.
func calculateQualityScore(entropy float64, corr models.CorrelationSample, chi []float64) float64 {
	points := 0

	// Entropy close to 8 bits means a flat value distribution
	if entropy > 7.99 {
		points += 40
	} else if entropy > 7.9 {
		points += 30
	} else if entropy > 7.5 {
		points += 15
	}

	// Neighbouring pixels of natural images correlate strongly (> 0.9).
	// A flat image reports zero correlation, which says nothing.
	maxCorr := corr.MaxAbs()
	if entropy > 1 {
		if maxCorr < 0.01 {
			points += 40
		} else if maxCorr < 0.05 {
			points += 30
		} else if maxCorr < 0.1 {
			points += 20
		} else if maxCorr < 0.3 {
			points += 10
		}
	}

	// Histogram flatness
	passed := 0
	for _, v := range chi {
		if v < stats.ChiSquareCritical255 {
			passed++
		}
	}
	if len(chi) > 0 && passed == len(chi) {
		points += 20
	} else if len(chi) > 0 && mean(chi) < 2*stats.ChiSquareCritical255 {
		points += 10
	}

	if points > 100 {
		points = 100
	}
	return float64(points) / 100
}

func addFindings(result *models.AnalysisResult) {
	switch {
	case result.Entropy > 7.99:
		result.AddFinding("Entropy is near the 8-bit maximum", 0.9,
			fmt.Sprintf("entropy=%.4f bits", result.Entropy))
	case result.Entropy > 7.9:
		result.AddFinding("Entropy is high but measurably below maximum", 0.6,
			fmt.Sprintf("entropy=%.4f bits", result.Entropy))
	default:
		result.AddFinding("Entropy is low; value distribution is far from uniform", 0.8,
			fmt.Sprintf("entropy=%.4f bits", result.Entropy))
		result.AddRecommendation("Apply diffusion (keystream XOR); permutation alone does not change the histogram")
	}

	c := result.Correlation
	details := fmt.Sprintf("horizontal=%.4f vertical=%.4f diagonal=%.4f", c.Horizontal, c.Vertical, c.Diagonal)
	if result.Entropy <= 1 {
		result.AddFinding("Correlation is not meaningful for a near-constant image", 0.5, details)
	} else if c.MaxAbs() < 0.05 {
		result.AddFinding("Neighbouring pixels are uncorrelated", 0.85, details)
	} else {
		result.AddFinding("Neighbouring pixels remain correlated", math.Min(1, 0.5+c.MaxAbs()/2), details)
		result.AddRecommendation("Increase cat map iterations or combine permutation with diffusion")
	}

	for ch, v := range result.ChiSquare {
		if v >= stats.ChiSquareCritical255 {
			result.AddFinding(fmt.Sprintf("Histogram of channel %d is not flat", ch), 0.7,
				fmt.Sprintf("chi-square=%.2f (critical %.2f)", v, stats.ChiSquareCritical255))
		}
	}

	if result.QualityScore >= 0.8 {
		result.AddRecommendation("Output is statistically indistinguishable from noise at this sample size")
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance calculates statistical variance of a slice of values
func calculateVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)
	varSum := 0.0
	for _, v := range values {
		diff := v - m
		varSum += diff * diff
	}

	return varSum / float64(len(values))
}

// calculateConfidence estimates confidence level based on sample size and variance
func calculateConfidence(sampleSize int, variance float64) float64 {
	// Larger samples give higher confidence
	sampleConfidence := math.Min(float64(sampleSize)/65536.0, 1.0)

	// Channels that agree make the score more trustworthy
	varianceConfidence := 0.0
	if variance < 0.0001 {
		varianceConfidence = 0.9
	} else if variance < 0.001 {
		varianceConfidence = 0.7
	} else if variance < 0.01 {
		varianceConfidence = 0.5
	} else {
		varianceConfidence = 0.3
	}

	return 0.7*sampleConfidence + 0.3*varianceConfidence
}
