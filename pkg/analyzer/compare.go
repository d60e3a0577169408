package analyzer

import (
	"fmt"

	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

// RunAll runs every analyzer registered for the array's mode. The first
// error aborts the run.
func (r *Registry) RunAll(arr *pixels.Array, options AnalysisOptions) ([]*models.AnalysisResult, error) {
	analyzers := r.GetAnalyzersForMode(arr.Mode())
	if len(analyzers) == 0 {
		return nil, fmt.Errorf("no analyzers available for mode: %s", arr.Mode())
	}

	results := make([]*models.AnalysisResult, 0, len(analyzers))
	for _, a := range analyzers {
		res, err := a.Analyze(arr, options)
		if err != nil {
			return nil, fmt.Errorf("analysis with %s failed: %w", a.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Compare measures an original image and its encrypted counterpart with the
// same analyzer. The arrays may differ in shape (the original may not have
// been square). Filename in options is ignored; the names are passed explicitly.
func Compare(a ImageAnalyzer, original, encrypted *pixels.Array, originalName, encryptedName string, options AnalysisOptions) (*models.ComparisonReport, error) {
	if original == nil || encrypted == nil {
		return nil, fmt.Errorf("compare needs both images")
	}

	options.Filename = originalName
	orig, err := a.Analyze(original, options)
	if err != nil {
		return nil, fmt.Errorf("analyze original: %w", err)
	}

	options.Filename = encryptedName
	enc, err := a.Analyze(encrypted, options)
	if err != nil {
		return nil, fmt.Errorf("analyze encrypted: %w", err)
	}

	return &models.ComparisonReport{
		Original:  orig,
		Encrypted: enc,
	}, nil
}
