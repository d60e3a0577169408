package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// stdout is where human-facing output goes; tests swap it out.
var stdout io.Writer = os.Stdout

func printInfo(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func printAlert(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error
}

var commands = []command{
	{"encrypt", "Encrypt images (Arnold Cat Map + Duffing keystream)", runEncrypt},
	{"decrypt", "Decrypt images encrypted with the same key and scheme", runDecrypt},
	{"analyze", "Measure entropy, correlation and histogram flatness", runAnalyze},
	{"compare", "Compare an original image with its encrypted counterpart", runCompare},
	{"watch", "Encrypt every image written into a directory", runWatch},
	{"keygen", "Generate a random key file", runKeygen},
	{"history", "List recent operations and analyses", runHistory},
	{"schemes", "List cipher schemes and analyzers", runSchemes},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("chaosimg", flag.ContinueOnError)
	global.SetOutput(stdout)
	var (
		configPath = global.String("config", "", "Path to configuration file (default ~/.chaosimg/config.toml)")
		verbose    = global.Bool("verbose", false, "Enable debug logging")
		noColor    = global.Bool("nocolor", false, "Disable colored output")
		quiet      = global.Bool("quiet", false, "Do not print the banner")
	)
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *noColor {
		color.NoColor = true
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(global)
		return 1
	}

	cmd, ok := findCommand(rest[0])
	if !ok {
		printError("Unknown command: %s", rest[0])
		usage(global)
		return 1
	}

	if !*quiet {
		banner()
	}

	a, err := newApp(*configPath, *verbose)
	if err != nil {
		printError("%v", err)
		return 1
	}
	defer a.Close()

	if err := cmd.run(a, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		printError("%v", err)
		a.log.WithError(err).WithField("command", cmd.name).Debug("command failed")
		return 1
	}
	return 0
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func banner() {
	fmt.Fprintln(stdout, "ChaosImg v1.0.0")
	fmt.Fprintln(stdout, "Chaos-based image encryption and cipher quality analysis")
	fmt.Fprintln(stdout, "---------------------------------")
}

func usage(global *flag.FlagSet) {
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, "  chaosimg [global flags] <command> [flags]")
	fmt.Fprintln(stdout, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(stdout, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(stdout, "\nGlobal flags:")
	global.PrintDefaults()
	fmt.Fprintln(stdout, "\nRun 'chaosimg <command> -h' for command flags.")
}
