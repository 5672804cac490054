package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/csmclaren/charfreq-tools/internal/fileutil"
	"github.com/csmclaren/charfreq-tools/internal/logging"
	"github.com/csmclaren/charfreq-tools/internal/ngram"
	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

// DefaultSampleLimit caps the printed unigram sample.
const DefaultSampleLimit = 256

// Options configures an Exporter.
type Options struct {
	// Dir receives the TSV files. It must exist.
	Dir string
	// SampleLimit is the number of unigram keys in the sample line. Negative
	// selects DefaultSampleLimit; zero prints an empty sample line.
	SampleLimit int
	// Out receives the summary. Nil discards it.
	Out io.Writer
	// Charset encodes the TSV files. The zero value is UTF-8.
	Charset textcodec.Charset
	Logger  *slog.Logger
}

// TableSummary describes one exported table.
type TableSummary struct {
	Name   string
	N      int
	Folded bool
	Unique int
	Total  int64
	Path   string
	Bytes  int64
	SHA256 string
}

// Summary describes a completed export.
type Summary struct {
	Tables []TableSummary
	// OutputClosed is set when the summary reader went away mid-export.
	OutputClosed bool
}

// Unique returns the distinct count of the named table, or -1 when absent.
func (s Summary) Unique(name string) int {
	for _, t := range s.Tables {
		if t.Name == name {
			return t.Unique
		}
	}
	return -1
}

// Exporter writes tables to disk and prints the summary.
type Exporter struct {
	dir         string
	sampleLimit int
	out         *Printer
	charset     textcodec.Charset
	logger      *slog.Logger
}

// New builds an Exporter from opts.
func New(opts Options) *Exporter {
	limit := opts.SampleLimit
	if limit < 0 {
		limit = DefaultSampleLimit
	}
	return &Exporter{
		dir:         opts.Dir,
		sampleLimit: limit,
		out:         NewPrinter(opts.Out),
		charset:     opts.Charset,
		logger:      logging.NewComponentLogger(opts.Logger, "export"),
	}
}

// Export prints the summary and writes all six tables in canonical order.
// A failed table write aborts the export; tables already written stay.
func (e *Exporter) Export(tables *ngram.Tables) (Summary, error) {
	var summary Summary
	for _, t := range tables.All() {
		e.out.Printf("%s (unique): %d\n", t.Name(), t.Len())
		if t.N() == 1 {
			e.out.Println(Sample(t, e.sampleLimit))
		}
		e.out.Println()

		ts, err := e.writeTable(t)
		if err != nil {
			summary.OutputClosed = e.out.Closed()
			return summary, err
		}
		summary.Tables = append(summary.Tables, ts)
	}
	summary.OutputClosed = e.out.Closed()
	if err := e.out.Err(); err != nil {
		return summary, fmt.Errorf("write summary: %w", err)
	}
	return summary, nil
}

func (e *Exporter) writeTable(t *ngram.Table) (TableSummary, error) {
	path := filepath.Join(e.dir, FileName(t.N(), t.Folded()))
	records := Sorted(t)

	f, err := fileutil.CreateAtomic(path, 0o644)
	if err != nil {
		return TableSummary{}, err
	}
	if err := writeRecords(f, e.charset, records); err != nil {
		_ = f.Abort()
		return TableSummary{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Commit(); err != nil {
		return TableSummary{}, err
	}

	ts := TableSummary{
		Name:   t.Name(),
		N:      t.N(),
		Folded: t.Folded(),
		Unique: t.Len(),
		Total:  t.Total(),
		Path:   path,
		Bytes:  f.Size(),
		SHA256: f.Sum(),
	}
	e.logger.Debug("table exported",
		logging.String("table", ts.Name),
		logging.Int("unique", ts.Unique),
		logging.Int64("total", ts.Total),
		logging.Int64("bytes", ts.Bytes),
		logging.String("path", ts.Path),
	)
	return ts, nil
}

// writeRecords emits "escaped<TAB>count\n" lines through the charset encoder.
func writeRecords(w io.Writer, charset textcodec.Charset, records []Record) error {
	buffered := bufio.NewWriterSize(w, 64*1024)
	encoded := charset.NewWriter(buffered)
	line := make([]byte, 0, 64)
	for _, r := range records {
		line = append(line[:0], Escape(r.Key)...)
		line = append(line, '\t')
		line = strconv.AppendInt(line, r.Count, 10)
		line = append(line, '\n')
		if _, err := encoded.Write(line); err != nil {
			return errors.Join(err, encoded.Close())
		}
	}
	if err := encoded.Close(); err != nil {
		return err
	}
	return buffered.Flush()
}
