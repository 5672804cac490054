package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/csmclaren/charfreq-tools/internal/export"
)

// writeJSON encodes v as indented JSON to the command's stdout. A reader that
// hangs up early ends the command with the broken-pipe status.
func writeJSON(cmd *cobra.Command, v any) error {
	out := export.NewPrinter(cmd.OutOrStdout())
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if out.Closed() {
		return &exitError{code: brokenPipeExitCode}
	}
	return nil
}
