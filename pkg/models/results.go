package models

import (
	"time"
)

// CorrelationSample holds Pearson coefficients of neighbouring pixel pairs.
type CorrelationSample struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
	Diagonal   float64 `json:"diagonal"`
}

// MaxAbs returns the largest absolute coefficient of the three directions.
func (c CorrelationSample) MaxAbs() float64 {
	m := abs(c.Horizontal)
	if v := abs(c.Vertical); v > m {
		m = v
	}
	if v := abs(c.Diagonal); v > m {
		m = v
	}
	return m
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// AnalysisResult contains the statistical measurements of one image
type AnalysisResult struct {
	Filename         string                 `json:"filename"`
	Mode             string                 `json:"mode"` // "L" or "RGB"
	Width            int                    `json:"width"`
	Height           int                    `json:"height"`
	Entropy          float64                `json:"entropy"` // 0.0-8.0 bits, averaged over channels
	Correlation      CorrelationSample      `json:"correlation"`
	ChiSquare        []float64              `json:"chiSquare"`    // one value per channel
	Histogram        [][256]int             `json:"histogram"`    // one 256-bin histogram per channel
	QualityScore     float64                `json:"qualityScore"` // 0.0-1.0 where 1.0 means indistinguishable from noise
	Confidence       float64                `json:"confidence"`   // 0.0-1.0 confidence in the quality score
	Details          map[string]interface{} `json:"details"`
	Findings         []Finding              `json:"findings"`
	Recommendations  []string               `json:"recommendations"`
	AnalysisTime     time.Time              `json:"analysisTime"`
	AnalysisDuration time.Duration          `json:"analysisDuration"`
}

// Finding represents a specific observation made during analysis
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// OperationResult describes one encrypt or decrypt call
type OperationResult struct {
	Operation   string        `json:"operation"` // "encrypt" or "decrypt"
	Scheme      string        `json:"scheme"`
	InputPath   string        `json:"inputPath"`
	OutputPath  string        `json:"outputPath"`
	Mode        string        `json:"mode"`
	Size        int           `json:"size"` // n of the n x n grid
	Resized     bool          `json:"resized"`
	Fingerprint string        `json:"fingerprint"`
	Duration    time.Duration `json:"duration"`
}

// ComparisonReport puts the measurements of an original image and its
// encrypted counterpart side by side.
type ComparisonReport struct {
	Original          *AnalysisResult `json:"original"`
	Encrypted         *AnalysisResult `json:"encrypted"`
	OriginalFileSize  int64           `json:"originalFileSize"`
	EncryptedFileSize int64           `json:"encryptedFileSize"`
}

// EntropyGain is the entropy difference between encrypted and original.
func (r *ComparisonReport) EntropyGain() float64 {
	if r.Original == nil || r.Encrypted == nil {
		return 0
	}
	return r.Encrypted.Entropy - r.Original.Entropy
}

// AddFinding adds a finding to the analysis result
func (r *AnalysisResult) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// AddRecommendation appends a recommendation once
func (r *AnalysisResult) AddRecommendation(rec string) {
	for _, existing := range r.Recommendations {
		if existing == rec {
			return
		}
	}
	r.Recommendations = append(r.Recommendations, rec)
}

// GetHighestConfidenceFinding returns the finding with highest confidence
func (r *AnalysisResult) GetHighestConfidenceFinding() (Finding, bool) {
	if len(r.Findings) == 0 {
		return Finding{}, false
	}

	best := r.Findings[0]
	for _, f := range r.Findings {
		if f.Confidence > best.Confidence {
			best = f
		}
	}

	return best, true
}
