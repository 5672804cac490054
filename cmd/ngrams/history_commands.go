package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/csmclaren/charfreq-tools/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scan runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						humanize.Time(run.StartedAt),
						run.Source,
						kindLabel(run),
						run.Destination,
						humanize.Comma(int64(run.Files)),
						humanize.Comma(run.Runes),
						humanize.IBytes(uint64(run.Bytes)),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Started", "Source", "Kind", "Destination", "Files", "Chars", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its per-table counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, run)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:         %s\n", run.ID)
				fmt.Fprintf(out, "Started:     %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), humanize.Time(run.StartedAt))
				fmt.Fprintf(out, "Duration:    %s\n", run.Duration().Round(time.Millisecond))
				fmt.Fprintf(out, "Source:      %s (%s)\n", run.Source, kindLabel(*run))
				fmt.Fprintf(out, "Destination: %s\n", run.Destination)
				if len(run.Patterns) > 0 {
					fmt.Fprintf(out, "Patterns:    %q\n", run.Patterns)
				}
				fmt.Fprintf(out, "Files:       %s\n", humanize.Comma(int64(run.Files)))
				fmt.Fprintf(out, "Characters:  %s\n", humanize.Comma(run.Runes))
				fmt.Fprintf(out, "Bytes read:  %s\n", humanize.IBytes(uint64(run.Bytes)))

				rows := make([][]string, 0, len(run.Tables))
				for _, t := range run.Tables {
					rows = append(rows, []string{t.Name, strconv.Itoa(t.Unique), humanize.Comma(t.Total), shortDigest(t.SHA256)})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Table", "Unique", "Total", "SHA-256"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s) from history\n", n)
				return nil
			})
		},
	}
}

func kindLabel(run history.Run) string {
	if run.Compression == "" {
		return run.SourceKind
	}
	return run.SourceKind + "+" + run.Compression
}

func shortID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}

func shortDigest(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
