package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"ChaosImg/pkg/analyzer"
	"ChaosImg/pkg/filehandler"
	"ChaosImg/pkg/imageio"
	"ChaosImg/pkg/models"
)

func runAnalyze(a *app, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		inputs  inputFlags
		samples = fs.Int("samples", 0, "Pixel pairs sampled per correlation direction (default from config)")
		seed    = fs.Uint64("seed", 0, "Seed for correlation sampling, 0 for random")
		hist    = fs.String("hist", "", "Write the histogram as CSV to this path (single image only)")
		asJSON  = fs.Bool("json", false, "Print results as JSON")
		verbose = fs.Bool("v", false, "Show details and recommendations")
	)
	inputs.register(fs, "analyze")

	if err := fs.Parse(args); err != nil {
		return err
	}

	files, err := inputs.gather(context.Background(), filepath.Join(a.cfg.Output.Dir, "downloads"))
	if err != nil {
		return err
	}
	if *hist != "" && len(files) != 1 {
		return errors.New("-hist needs exactly one input image")
	}

	var all []*models.AnalysisResult
	failed := 0
	for _, file := range files {
		results, err := a.analyzeFile(file, a.analysisOptions(file, *samples, *seed, *verbose))
		if err != nil {
			failed++
			printError("Analysis of %s failed: %v", file, err)
			continue
		}
		all = append(all, results...)
		if !*asJSON {
			for _, res := range results {
				displayAnalysisResult(res, *verbose)
			}
		}
	}

	if *hist != "" && len(all) > 0 {
		if err := saveHistogramCSV(*hist, all[0]); err != nil {
			return err
		}
		printSuccess("Histogram written to %s", *hist)
	}

	if *asJSON {
		return printJSON(all)
	}
	if len(files) > 1 {
		printAnalysisSummary(all, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

// analyzeFile loads path as-is, without squaring, and runs every analyzer
// for its mode.
func (a *app) analyzeFile(path string, opts analyzer.AnalysisOptions) ([]*models.AnalysisResult, error) {
	if _, err := filehandler.DetectFileFormat(path); err != nil {
		return nil, err
	}
	arr, _, err := imageio.LoadArray(path, false)
	if err != nil {
		return nil, err
	}

	results, err := a.analyzers.RunAll(arr, opts)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		a.log.WithFields(logrus.Fields{
			"file":    path,
			"entropy": res.Entropy,
			"score":   res.QualityScore,
		}).Debug("image analyzed")
		a.recordAnalysis(res)
	}
	return results, nil
}

func saveHistogramCSV(path string, res *models.AnalysisResult) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeHistogramCSV(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeHistogramCSV writes one row per intensity value with one count column
// per channel.
func writeHistogramCSV(w io.Writer, res *models.AnalysisResult) error {
	if len(res.Histogram) == 0 {
		return errors.New("result has no histogram")
	}

	header := []string{"value"}
	if len(res.Histogram) == 1 {
		header = append(header, "L")
	} else {
		header = append(header, "R", "G", "B")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for v := 0; v < 256; v++ {
		row[0] = strconv.Itoa(v)
		for c, h := range res.Histogram {
			row[c+1] = strconv.Itoa(h[v])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func runCompare(a *app, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		original  = fs.String("original", "", "Path to the original image (required)")
		encrypted = fs.String("encrypted", "", "Path to the encrypted image (required)")
		samples   = fs.Int("samples", 0, "Pixel pairs sampled per correlation direction")
		seed      = fs.Uint64("seed", 0, "Seed for correlation sampling, 0 for random")
		asJSON    = fs.Bool("json", false, "Print the report as JSON")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *original == "" || *encrypted == "" {
		return errors.New("both -original and -encrypted are required")
	}

	origArr, _, err := imageio.LoadArray(*original, false)
	if err != nil {
		return fmt.Errorf("load original: %w", err)
	}
	encArr, _, err := imageio.LoadArray(*encrypted, false)
	if err != nil {
		return fmt.Errorf("load encrypted: %w", err)
	}
	if origArr.Mode() != encArr.Mode() {
		printWarning("Modes differ: original %s, encrypted %s", origArr.Mode(), encArr.Mode())
	}

	analyzers := a.analyzers.GetAnalyzersForMode(encArr.Mode())
	if len(analyzers) == 0 {
		return fmt.Errorf("no analyzers available for mode: %s", encArr.Mode())
	}

	report, err := analyzer.Compare(analyzers[0], origArr, encArr, *original, *encrypted,
		a.analysisOptions("", *samples, *seed, false))
	if err != nil {
		return err
	}
	if report.OriginalFileSize, err = filehandler.GetFileSize(*original); err != nil {
		return err
	}
	if report.EncryptedFileSize, err = filehandler.GetFileSize(*encrypted); err != nil {
		return err
	}

	a.recordAnalysis(report.Original)
	a.recordAnalysis(report.Encrypted)

	if *asJSON {
		return printJSON(report)
	}
	displayComparison(report)
	return nil
}
