package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"icsevents/internal/app"
	"icsevents/internal/config"
	"icsevents/internal/errs"
	"icsevents/internal/ics"
	appLog "icsevents/internal/log"
	"icsevents/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit status:
// 0 on success (including "no events"), 2 for usage errors, 1 otherwise.
func run(args []string, stdout, stderr io.Writer) int {
	appLog.SetOutput(stderr)

	flags, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		if errs.KindOf(err) == errs.Unknown {
			// flag already printed the problem and the usage text
			return 2
		}
		return report(stderr, err)
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = os.Getenv(config.EnvPath)
	}
	conf, err := config.Load(configPath)
	if err != nil {
		return report(stderr, err)
	}
	applyFlags(conf, flags)

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		return report(stderr, errs.New(errs.ConfigError, configPath, err))
	}
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", configPath,
		"format", conf.Format,
		"short", conf.Short,
		"all", conf.All,
		"timezone", conf.Timezone,
	)

	if flags.writeConfig != "" {
		if err := config.Save(flags.writeConfig, conf); err != nil {
			return report(stderr, errs.New(errs.WriteError, flags.writeConfig, err))
		}
		fmt.Fprintf(stdout, "Config file saved: %s\n", flags.writeConfig)
		return 0
	}

	if flags.input == "" {
		return report(stderr, errs.Newf(errs.UsageError, "", "missing ICS_FILE argument (see --help)"))
	}

	format, err := render.ParseFormat(conf.Format)
	if err != nil {
		if flags.set["format"] {
			return report(stderr, errs.New(errs.UsageError, "", err))
		}
		return report(stderr, errs.New(errs.ConfigError, configPath, err))
	}
	loc, err := conf.Location()
	if err != nil {
		return report(stderr, errs.New(errs.ConfigError, configPath, err))
	}

	opts := app.Options{
		Input:       flags.input,
		Format:      format,
		Output:      outputPath(format, flags.output, conf),
		IncludePast: conf.All,
		Short:       conf.Short,
		Location:    loc,
		Table:       tableOptions(stdout, conf.Title),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(stdout, ics.NewFetcher(conf.FetchTimeout()))
	if _, err := a.Run(ctx, opts); err != nil {
		return report(stderr, err)
	}
	return 0
}

// applyFlags lets flags given on the command line override the config file.
func applyFlags(conf *config.Config, f cliFlags) {
	if f.set["format"] {
		conf.Format = f.format
	}
	if f.set["all"] {
		conf.All = f.all
	}
	if f.set["short"] {
		conf.Short = f.short
	}
	if f.verbose {
		conf.LogLevel = string(appLog.LevelDebug)
	}
}

func outputPath(format render.Format, flagValue string, conf *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	switch format {
	case render.FormatCSV:
		return conf.CSVOutput
	case render.FormatMarkdown:
		return conf.MarkdownOutput
	}
	return ""
}

// tableOptions fits the table to the terminal and enables color when stdout
// is an interactive terminal and NO_COLOR is unset.
func tableOptions(stdout io.Writer, title string) render.TableOptions {
	opts := render.TableOptions{Title: title}

	f, ok := stdout.(*os.File)
	if !ok {
		return opts
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return opts
	}
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		opts.Width = width
	}
	opts.Color = os.Getenv("NO_COLOR") == ""
	return opts
}

func report(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errs.Is(err, errs.UsageError) {
		return 2
	}
	return 1
}
