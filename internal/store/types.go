// Package store provides SQLite-based history storage for chaosimg.
package store

import (
	"time"

	"ChaosImg/pkg/models"
)

// Operation is one recorded encrypt or decrypt call. Only the key
// fingerprint is kept; the seeds never reach the database.
type Operation struct {
	ID             int64
	TimestampNs    int64
	Op             string
	Scheme         string
	InputPath      string
	OutputPath     string
	Mode           string
	Size           int
	Resized        bool
	KeyFingerprint string
	DurationNs     int64
}

// Analysis is one recorded analyze run.
type Analysis struct {
	ID           int64
	TimestampNs  int64
	FilePath     string
	Mode         string
	Width        int
	Height       int
	Entropy      float64
	Horizontal   float64
	Vertical     float64
	Diagonal     float64
	QualityScore float64
	DurationNs   int64
}

// Time returns the timestamp as a time.Time.
func (o Operation) Time() time.Time {
	return time.Unix(0, o.TimestampNs)
}

// Duration returns the recorded processing time.
func (o Operation) Duration() time.Duration {
	return time.Duration(o.DurationNs)
}

// Time returns the timestamp as a time.Time.
func (a Analysis) Time() time.Time {
	return time.Unix(0, a.TimestampNs)
}

// OperationFromResult converts a finished cipher operation into a history row.
func OperationFromResult(r *models.OperationResult, at time.Time) *Operation {
	return &Operation{
		TimestampNs:    at.UnixNano(),
		Op:             r.Operation,
		Scheme:         r.Scheme,
		InputPath:      r.InputPath,
		OutputPath:     r.OutputPath,
		Mode:           r.Mode,
		Size:           r.Size,
		Resized:        r.Resized,
		KeyFingerprint: r.Fingerprint,
		DurationNs:     int64(r.Duration),
	}
}

// AnalysisFromResult converts an analysis result into a history row.
func AnalysisFromResult(r *models.AnalysisResult) *Analysis {
	return &Analysis{
		TimestampNs:  r.AnalysisTime.UnixNano(),
		FilePath:     r.Filename,
		Mode:         r.Mode,
		Width:        r.Width,
		Height:       r.Height,
		Entropy:      r.Entropy,
		Horizontal:   r.Correlation.Horizontal,
		Vertical:     r.Correlation.Vertical,
		Diagonal:     r.Correlation.Diagonal,
		QualityScore: r.QualityScore,
		DurationNs:   int64(r.AnalysisDuration),
	}
}
