package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"ChaosImg/internal/store"
)

func runHistory(a *app, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		limit       = fs.Int("n", 20, "Number of entries to show")
		fingerprint = fs.String("fingerprint", "", "Only show operations made with this key fingerprint")
		analyses    = fs.Bool("analyses", false, "Show analysis runs instead of operations")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.history == nil {
		return errors.New("history is disabled or unavailable")
	}
	if *limit <= 0 {
		return errors.New("-n must be positive")
	}

	ops, anas, err := a.history.Counts()
	if err != nil {
		return err
	}
	printInfo("History holds %d operation(s) and %d analysis run(s)", ops, anas)

	if *analyses {
		rows, err := a.history.RecentAnalyses(*limit)
		if err != nil {
			return err
		}
		printAnalysisRows(rows)
		return nil
	}

	var rows []store.Operation
	if *fingerprint != "" {
		rows, err = a.history.OperationsByFingerprint(*fingerprint)
	} else {
		rows, err = a.history.RecentOperations(*limit)
	}
	if err != nil {
		return err
	}
	printOperationRows(rows)
	return nil
}

func printOperationRows(rows []store.Operation) {
	if len(rows) == 0 {
		printInfo("No operations recorded")
		return
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tOP\tSCHEME\tSIZE\tKEY\tDURATION\tOUTPUT")
	for _, o := range rows {
		size := fmt.Sprintf("%dx%d %s", o.Size, o.Size, o.Mode)
		if o.Resized {
			size += "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Time().Format(time.DateTime), o.Op, o.Scheme, size,
			o.KeyFingerprint, o.Duration().Round(time.Millisecond), o.OutputPath)
	}
	tw.Flush()
}

func printAnalysisRows(rows []store.Analysis) {
	if len(rows) == 0 {
		printInfo("No analyses recorded")
		return
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSIZE\tENTROPY\tH\tV\tD\tSCORE\tFILE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%dx%d %s\t%.4f\t%.4f\t%.4f\t%.4f\t%.2f\t%s\n",
			r.ID, r.Time().Format(time.DateTime), r.Width, r.Height, r.Mode,
			r.Entropy, r.Horizontal, r.Vertical, r.Diagonal, r.QualityScore, r.FilePath)
	}
	tw.Flush()
}

func runSchemes(a *app, args []string) error {
	fs := flag.NewFlagSet("schemes", flag.ContinueOnError)
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Cipher schemes:")
	for _, name := range a.schemes.Names() {
		s, err := a.schemes.Get(name)
		if err != nil {
			return err
		}
		marker := " "
		if name == a.cfg.Cipher.Scheme {
			marker = "*"
		}
		fmt.Fprintf(stdout, " %s %-12s %s\n", marker, name, s.Description())
	}

	fmt.Fprintln(stdout, "\nAnalyzers:")
	seen := make(map[string][]string)
	var order []string
	for _, mode := range a.analyzers.GetSupportedModes() {
		for _, an := range a.analyzers.GetAnalyzersForMode(mode) {
			if _, ok := seen[an.Name()]; !ok {
				order = append(order, an.Name())
			}
			seen[an.Name()] = append(seen[an.Name()], mode)
		}
	}
	for _, name := range order {
		fmt.Fprintf(stdout, "   %s [%s]\n", name, strings.Join(seen[name], ", "))
	}
	return nil
}
