package analyzer

import (
	"math/rand/v2"

	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

/*
Analyzer.go contains the interface and base implementation for pixel array analyzers.
ImageAnalyzer: interface defines the methods that all analyzers must implement.
BaseAnalyzer: struct provides common functionality for analyzers, such as name, description, and supported color modes.
AnalysisOptions: struct holds configuration options for analysis, such as verbosity, correlation sample count and random source.
Analyzers fill a models.AnalysisResult; the registry maps color modes ("L", "RGB") to the analyzers that accept them.
*/

// AnalysisOptions holds configuration options for analysis
type AnalysisOptions struct {
	Verbose     bool
	Filename    string
	SampleCount int
	// Rand drives correlation sampling; nil means time seeded
	Rand *rand.Rand
}

// ImageAnalyzer is the interface that all analyzers must implement
type ImageAnalyzer interface {
	// CanAnalyze checks if this analyzer can handle the given color mode
	CanAnalyze(mode string) bool

	// Analyze performs analysis on a pixel array and returns results
	Analyze(arr *pixels.Array, options AnalysisOptions) (*models.AnalysisResult, error)

	// Name returns the name of the analyzer
	Name() string

	// Description returns a detailed description of what the analyzer does
	Description() string

	// SupportedModes returns a list of color modes this analyzer supports
	SupportedModes() []string
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
	modes       []string
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string, modes []string) BaseAnalyzer {
	return BaseAnalyzer{
		name:        name,
		description: description,
		modes:       modes,
	}
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// SupportedModes returns the supported color modes
func (b *BaseAnalyzer) SupportedModes() []string {
	return b.modes
}

// CanAnalyze checks if the analyzer supports the given color mode
func (b *BaseAnalyzer) CanAnalyze(mode string) bool {
	for _, m := range b.modes {
		if m == mode {
			return true
		}
	}
	return false
}
