package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)
	var scanFlags scanFlags

	rootCmd := &cobra.Command{
		Use:   "ngrams [flags] <source> <destination> [pattern ...]",
		Short: "Count character n-grams in a corpus",
		Long: `Scan a corpus and write unigram, bigram and trigram frequency tables.

The source may be a directory, a tar archive (optionally gzip, bzip2, xz or
zstd compressed), a zip archive, or a single file. Patterns are regular
expressions matched anywhere in each entry's name; with none, every entry is
read. Six tables are written to the destination directory:
1-grams.tsv, 1-grams-uc.tsv, 2-grams.tsv, 2-grams-uc.tsv, 3-grams.tsv and
3-grams-uc.tsv (the -uc tables fold ASCII a-z to upper case).`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx, &scanFlags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	scanFlags.register(rootCmd)

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))

	return rootCmd
}
