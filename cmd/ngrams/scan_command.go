package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csmclaren/charfreq-tools/internal/config"
	"github.com/csmclaren/charfreq-tools/internal/history"
	"github.com/csmclaren/charfreq-tools/internal/logging"
	"github.com/csmclaren/charfreq-tools/internal/pattern"
	"github.com/csmclaren/charfreq-tools/internal/progress"
	"github.com/csmclaren/charfreq-tools/internal/scan"
)

// scanFlags holds root-command overrides for config values.
type scanFlags struct {
	sampleLimit    int
	encoding       string
	outputEncoding string
	newlines       string
	progress       string
	noHistory      bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.sampleLimit, "sample-limit", 0, "Characters in the printed unigram sample (default from config, 256)")
	flags.StringVar(&f.encoding, "encoding", "", "Encoding of corpus files (default utf-8)")
	flags.StringVar(&f.outputEncoding, "output-encoding", "", "Encoding of exported tables (default utf-8)")
	flags.StringVar(&f.newlines, "newlines", "", "Newline handling: universal or raw")
	flags.StringVar(&f.progress, "progress", "", "Progress on stderr: dots, bar or none")
	flags.BoolVar(&f.noHistory, "no-history", false, "Do not record this run in the history database")
}

// apply copies explicitly set flags over cfg and revalidates it.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("sample-limit") {
		cfg.Export.SampleLimit = f.sampleLimit
	}
	if flags.Changed("encoding") {
		cfg.Scan.InputEncoding = strings.ToLower(strings.TrimSpace(f.encoding))
	}
	if flags.Changed("output-encoding") {
		cfg.Export.OutputEncoding = strings.ToLower(strings.TrimSpace(f.outputEncoding))
	}
	if flags.Changed("newlines") {
		cfg.Scan.Newlines = strings.ToLower(strings.TrimSpace(f.newlines))
	}
	if flags.Changed("progress") {
		cfg.Scan.Progress = strings.ToLower(strings.TrimSpace(f.progress))
	}
	if f.noHistory {
		cfg.History.Enabled = false
	}
	return cfg.Validate()
}

func runScan(cmd *cobra.Command, ctx *commandContext, flags *scanFlags, args []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}

	patterns := args[2:]
	if len(patterns) == 0 {
		patterns = cfg.Scan.Patterns
	}
	matcher, err := pattern.Compile(patterns)
	if err != nil {
		return err
	}

	input, err := cfg.InputCharset()
	if err != nil {
		return err
	}
	output, err := cfg.OutputCharset()
	if err != nil {
		return err
	}
	newlines, err := cfg.NewlineMode()
	if err != nil {
		return err
	}

	runID := scan.NewRunID()
	logger, closer, err := ctx.newLogger(cmd, runID)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := cfg.EnsureStateDir(); err != nil {
		return err
	}

	opts := scan.Options{
		Source:      args[0],
		Destination: args[1],
		Matcher:     matcher,
		Input:       input,
		Newlines:    newlines,
		BufferSize:  cfg.BufferSize(),
		Output:      output,
		SampleLimit: cfg.Export.SampleLimit,
		Out:         cmd.OutOrStdout(),
		Progress:    progress.New(cfg.Scan.Progress, cmd.ErrOrStderr(), cfg.Scan.ProgressInterval),
		LockDir:     cfg.LockDir(),
		RunID:       runID,
		Logger:      logger,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cmd.Context(), cfg.HistoryPath())
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run with --no-history or delete "+cfg.HistoryPath()),
				logging.String(logging.FieldImpact, "run will not be recorded"),
			)
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	result, err := scan.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if result.Summary.OutputClosed {
		return &exitError{code: brokenPipeExitCode}
	}
	if result.Files == 0 && len(patterns) > 0 {
		logger.Info("no entries matched", logging.String("patterns", fmt.Sprint(patterns)))
	}
	return nil
}
