package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/csmclaren/charfreq-tools/internal/export"
	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

// tsvRecord is one parsed table line.
type tsvRecord struct {
	NGram   string `json:"ngram"`
	Escaped string `json:"escaped"`
	Count   int64  `json:"count"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var top int
	var encoding string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <table.tsv>",
		Short: "Print the most frequent entries of an exported table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := cfg.Export.OutputEncoding
			if cmd.Flags().Changed("encoding") {
				name = encoding
			}
			charset, err := textcodec.Lookup(name)
			if err != nil {
				return err
			}

			records, total, err := readTable(args[0], charset)
			if err != nil {
				return err
			}
			shown := records
			if top > 0 && len(shown) > top {
				shown = shown[:top]
			}
			if asJSON {
				if shown == nil {
					shown = []tsvRecord{}
				}
				return writeJSON(cmd, shown)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(shown))
			for i, r := range shown {
				share := 0.0
				if total > 0 {
					share = float64(r.Count) * 100 / float64(total)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					r.Escaped,
					codePoints(r.NGram),
					humanize.Comma(r.Count),
					strconv.FormatFloat(share, 'f', 3, 64) + "%",
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Rank", "N-gram", "Code points", "Count", "Share"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%s of %s distinct, %s occurrences\n",
				humanize.Comma(int64(len(shown))), humanize.Comma(int64(len(records))), humanize.Comma(total))
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Encoding of the table (default export.output_encoding)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// readTable parses an exported TSV file. Escaped keys never contain a tab,
// so the first tab separates key from count.
func readTable(path string, charset textcodec.Charset) ([]tsvRecord, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoded := textcodec.NewReader(f, textcodec.Options{Charset: charset, Newlines: textcodec.NewlineRaw})
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		records []tsvRecord
		total   int64
		line    int
	)
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		tab := bytes.IndexByte(raw, '\t')
		if tab < 0 {
			return nil, 0, fmt.Errorf("%s:%d: missing tab separator", path, line)
		}
		escaped := string(raw[:tab])
		count, err := strconv.ParseInt(string(raw[tab+1:]), 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%s:%d: bad count: %w", path, line, err)
		}
		ngram, err := export.Unescape(escaped)
		if err != nil {
			return nil, 0, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, tsvRecord{NGram: ngram, Escaped: escaped, Count: count})
		total += count
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return records, total, nil
}

func codePoints(s string) string {
	parts := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("U+%04X", r))
	}
	return strings.Join(parts, " ")
}
