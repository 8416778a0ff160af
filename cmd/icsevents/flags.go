package main

import (
	"flag"
	"fmt"
	"io"

	"icsevents/internal/errs"
)

// cliFlags holds command-line values before they are merged into the config.
type cliFlags struct {
	input       string
	format      string
	output      string
	all         bool
	short       int
	configPath  string
	verbose     bool
	writeConfig string

	// set records which flags appeared on the command line, by long name.
	set map[string]bool
}

var shorthands = map[string]string{
	"f": "format",
	"o": "output",
	"a": "all",
	"s": "short",
	"c": "config",
	"v": "verbose",
}

// parseFlags accepts flags before and after the calendar argument, e.g.
// "icsevents cal.ics -f csv" as well as "icsevents -f csv cal.ics".
func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags

	fs := flag.NewFlagSet("icsevents", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: icsevents [OPTIONS] ICS_FILE\n\n")
		fmt.Fprintf(stderr, "Extracts events from an ICS file (or http(s) URL) and shows them as a table,\n")
		fmt.Fprintf(stderr, "or exports them as CSV or Markdown. Only upcoming events are shown unless --all is given.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(stderr, "  ICSEVENTS_CONFIG    Path to a YAML config file (overridden by --config)\n")
	}

	fs.StringVar(&f.format, "format", "", "Output format: table, csv, or markdown (default table)")
	fs.StringVar(&f.format, "f", "", "Shorthand for --format")
	fs.StringVar(&f.output, "output", "", "Output file for csv/markdown (default events.csv / events.md)")
	fs.StringVar(&f.output, "o", "", "Shorthand for --output")
	fs.BoolVar(&f.all, "all", false, "Include past events")
	fs.BoolVar(&f.all, "a", false, "Shorthand for --all")
	fs.IntVar(&f.short, "short", 0, "Show only the next N events (default: no limit)")
	fs.IntVar(&f.short, "s", 0, "Shorthand for --short")
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&f.configPath, "c", "", "Shorthand for --config")
	fs.BoolVar(&f.verbose, "verbose", false, "Write debug logs to stderr")
	fs.BoolVar(&f.verbose, "v", false, "Shorthand for --verbose")
	fs.StringVar(&f.writeConfig, "write-config", "", "Write the effective configuration to this path and exit")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return f, err
		}
		consumed := len(rest) - len(fs.Args())
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		if consumed > 0 && args[len(args)-len(rest)-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		name := fl.Name
		if long, ok := shorthands[name]; ok {
			name = long
		}
		f.set[name] = true
	})

	if len(positional) > 1 {
		return f, errs.Newf(errs.UsageError, "", "expected one calendar file, got %d arguments", len(positional))
	}
	if len(positional) == 1 {
		f.input = positional[0]
	}
	if f.set["short"] && f.short < 1 {
		return f, errs.Newf(errs.UsageError, "", "--short must be a positive integer, got %d", f.short)
	}
	return f, nil
}
