package main

import (
	"encoding/json"
	"fmt"
	"time"

	"ChaosImg/pkg/filehandler"
	"ChaosImg/pkg/models"
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayOperationResult(res *models.OperationResult) {
	printSuccess("%s -> %s", res.InputPath, res.OutputPath)
	fmt.Fprintf(stdout, "    %dx%d %s, scheme %s, key %s, %v\n",
		res.Size, res.Size, res.Mode, res.Scheme, res.Fingerprint, res.Duration.Round(time.Millisecond))
	if res.Resized {
		printWarning("Input was resized to %dx%d; decryption restores the resized image", res.Size, res.Size)
	}
}

func printOperationSummary(results []models.OperationResult, failed int) {
	var total time.Duration
	resized := 0
	for _, r := range results {
		total += r.Duration
		if r.Resized {
			resized++
		}
	}

	fmt.Fprintln(stdout, "\n=== Summary ===")
	fmt.Fprintf(stdout, "Total files processed: %d\n", len(results)+failed)
	fmt.Fprintf(stdout, "%s Succeeded: %d\n", successColor("[+]"), len(results))
	if resized > 0 {
		fmt.Fprintf(stdout, "%s Resized to square: %d\n", warningColor("[!]"), resized)
	}
	if failed > 0 {
		fmt.Fprintf(stdout, "%s Failed: %d\n", errorColor("[-]"), failed)
	}
	fmt.Fprintf(stdout, "Cipher time: %v\n", total.Round(time.Millisecond))
}

func displayAnalysisResult(result *models.AnalysisResult, verbose bool) {
	fmt.Fprintln(stdout, "\n--- Analysis Results ---")

	fmt.Fprintf(stdout, "File: %s\n", result.Filename)
	fmt.Fprintf(stdout, "Size: %dx%d %s\n", result.Width, result.Height, result.Mode)
	fmt.Fprintf(stdout, "Entropy: %.4f bits\n", result.Entropy)
	c := result.Correlation
	fmt.Fprintf(stdout, "Correlation: horizontal %.4f, vertical %.4f, diagonal %.4f\n",
		c.Horizontal, c.Vertical, c.Diagonal)
	for ch, v := range result.ChiSquare {
		fmt.Fprintf(stdout, "Chi-square channel %d: %.2f\n", ch, v)
	}

	switch {
	case result.QualityScore >= 0.8:
		printSuccess("Looks like noise (score %.2f)", result.QualityScore)
	case result.QualityScore >= 0.5:
		printWarning("Partially randomized (score %.2f)", result.QualityScore)
	default:
		printAlert("Structure remains visible to statistics (score %.2f)", result.QualityScore)
	}
	fmt.Fprintf(stdout, "Score confidence: %.2f\n", result.Confidence)

	if len(result.Findings) > 0 {
		fmt.Fprintln(stdout, "\nFindings:")
		for i, finding := range result.Findings {
			fmt.Fprintf(stdout, "%d. %s (Confidence: %.2f)\n", i+1, finding.Description, finding.Confidence)
			if verbose && finding.Details != "" {
				fmt.Fprintf(stdout, "   Details: %s\n", finding.Details)
			}
		}
	}

	if verbose && len(result.Recommendations) > 0 {
		fmt.Fprintln(stdout, "\nRecommendations:")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(stdout, "%d. %s\n", i+1, rec)
		}
	}

	if verbose {
		fmt.Fprintf(stdout, "Analysis took %v\n", result.AnalysisDuration.Round(time.Microsecond))
	}
	fmt.Fprintln(stdout, "-------------------------")
}

func printAnalysisSummary(results []*models.AnalysisResult, failed int) {
	var noise, partial, plain int
	for _, r := range results {
		switch {
		case r.QualityScore >= 0.8:
			noise++
		case r.QualityScore >= 0.5:
			partial++
		default:
			plain++
		}
	}

	fmt.Fprintln(stdout, "\n=== Analysis Summary ===")
	fmt.Fprintf(stdout, "Total files analyzed: %d\n", len(results))
	fmt.Fprintf(stdout, "%s Noise-like: %d\n", successColor("[+]"), noise)
	if partial > 0 {
		fmt.Fprintf(stdout, "%s Partially randomized: %d\n", warningColor("[!]"), partial)
	}
	if plain > 0 {
		fmt.Fprintf(stdout, "%s Structured: %d\n", alertColor("[!!!]"), plain)
		fmt.Fprintln(stdout, "\nFiles with visible structure:")
		for _, r := range results {
			if r.QualityScore < 0.5 {
				fmt.Fprintf(stdout, "- %s (Score: %.2f)\n", r.Filename, r.QualityScore)
			}
		}
	}
	if failed > 0 {
		fmt.Fprintf(stdout, "%s Failed: %d\n", errorColor("[-]"), failed)
	}
}

func displayComparison(r *models.ComparisonReport) {
	o, e := r.Original, r.Encrypted

	fmt.Fprintln(stdout, "\n--- Comparison ---")
	fmt.Fprintf(stdout, "%-22s %-14s %-14s\n", "", "original", "encrypted")
	fmt.Fprintf(stdout, "%-22s %-14s %-14s\n", "Size",
		fmt.Sprintf("%dx%d %s", o.Width, o.Height, o.Mode),
		fmt.Sprintf("%dx%d %s", e.Width, e.Height, e.Mode))
	fmt.Fprintf(stdout, "%-22s %-14s %-14s\n", "File size",
		filehandler.FormatFileSize(r.OriginalFileSize), filehandler.FormatFileSize(r.EncryptedFileSize))
	fmt.Fprintf(stdout, "%-22s %-14.4f %-14.4f\n", "Entropy", o.Entropy, e.Entropy)
	fmt.Fprintf(stdout, "%-22s %-14.4f %-14.4f\n", "Horizontal corr.", o.Correlation.Horizontal, e.Correlation.Horizontal)
	fmt.Fprintf(stdout, "%-22s %-14.4f %-14.4f\n", "Vertical corr.", o.Correlation.Vertical, e.Correlation.Vertical)
	fmt.Fprintf(stdout, "%-22s %-14.4f %-14.4f\n", "Diagonal corr.", o.Correlation.Diagonal, e.Correlation.Diagonal)
	fmt.Fprintf(stdout, "%-22s %-14.2f %-14.2f\n", "Quality score", o.QualityScore, e.QualityScore)

	gain := r.EntropyGain()
	if gain > 0 {
		printSuccess("Entropy gain: +%.4f bits", gain)
	} else {
		printWarning("Entropy gain: %.4f bits", gain)
	}
	fmt.Fprintln(stdout, "-------------------------")
}
