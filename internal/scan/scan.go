package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/csmclaren/charfreq-tools/internal/export"
	"github.com/csmclaren/charfreq-tools/internal/history"
	"github.com/csmclaren/charfreq-tools/internal/logging"
	"github.com/csmclaren/charfreq-tools/internal/ngram"
	"github.com/csmclaren/charfreq-tools/internal/pattern"
	"github.com/csmclaren/charfreq-tools/internal/progress"
	"github.com/csmclaren/charfreq-tools/internal/source"
	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

// Options configures a scan run.
type Options struct {
	Source      string
	Destination string
	Patterns    []string
	// Matcher, when set, is used instead of compiling Patterns.
	Matcher *pattern.Matcher

	Input      textcodec.Charset
	Newlines   textcodec.NewlineMode
	BufferSize int

	Output      textcodec.Charset
	SampleLimit int

	// Out receives the report. Nil discards it.
	Out io.Writer
	// Progress is ticked after every entry. Nil disables progress output.
	Progress progress.Reporter
	// OnEntry, when set, is called after each entry with its name and the
	// running file count.
	OnEntry func(name string, files int)

	// LockDir holds destination lock files. Empty disables locking.
	LockDir string
	// History, when set, receives a record of the completed run.
	History *history.Store
	// RunID overrides the generated run identifier. Callers that tag their
	// logger with the run ID should pass the same value here.
	RunID  string
	Logger *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	Source      string
	Kind        source.Kind
	Compression source.Compression
	Destination string
	Files       int
	Runes       int64
	Bytes       int64
	Summary     export.Summary
	StartedAt   time.Time
	FinishedAt  time.Time
	// Recorded is true when the run was stored in history.
	Recorded bool
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunID returns a time-ordered identifier for a run.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run executes one scan. Patterns are compiled before any file system
// access, and an invalid destination fails before any file is read or
// written.
func Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}
	logger := logging.NewComponentLogger(opts.Logger, "scan")

	matcher := opts.Matcher
	if matcher == nil {
		compiled, err := pattern.Compile(opts.Patterns)
		if err != nil {
			return nil, err
		}
		matcher = compiled
	}

	srcPath, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve source %q: %w", opts.Source, err)
	}
	destPath, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination %q: %w", opts.Destination, err)
	}
	if err := checkDestination(destPath); err != nil {
		return nil, err
	}

	src, err := source.Open(srcPath, matcher, source.Options{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	lock, err := acquireLock(opts.LockDir, destPath)
	if err != nil {
		return nil, err
	}
	if lock != nil {
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release destination lock", logging.Error(err))
			}
		}()
	}

	logger.Info("scan started",
		logging.String("source", srcPath),
		logging.String("kind", src.Kind().String()),
		logging.String("compression", string(src.Compression())),
		logging.String("destination", destPath),
		logging.String("patterns", matcher.String()),
	)

	reporter := opts.Progress
	if reporter == nil {
		reporter = progress.Nop{}
	}
	decode := textcodec.Options{
		Charset:   opts.Input,
		Newlines:  opts.Newlines,
		ChunkSize: opts.BufferSize,
	}

	acc := ngram.NewAccumulator()
	var (
		files int
		bytes int64
	)
	err = src.Each(ctx, func(entry source.Entry) error {
		counter := &countingReader{r: entry.Reader}
		if err := acc.ObserveReader(counter, decode); err != nil {
			return fmt.Errorf("%s: %w", entry.Name, err)
		}
		files++
		bytes += counter.n
		logger.Debug("entry observed",
			logging.Entry(entry.Name),
			logging.Int64("bytes", counter.n),
		)
		reporter.Tick(files)
		if opts.OnEntry != nil {
			opts.OnEntry(entry.Name, files)
		}
		return nil
	})
	reporter.Finish()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", srcPath, err)
	}

	out := export.NewPrinter(opts.Out)
	out.Printf("files: %d\n", files)
	out.Println()

	summary, err := export.New(export.Options{
		Dir:         destPath,
		SampleLimit: opts.SampleLimit,
		Out:         out,
		Charset:     opts.Output,
		Logger:      opts.Logger,
	}).Export(acc.Tables())
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       runID,
		Source:      srcPath,
		Kind:        src.Kind(),
		Compression: src.Compression(),
		Destination: destPath,
		Files:       files,
		Runes:       acc.Runes(),
		Bytes:       bytes,
		Summary:     summary,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}

	logger.Info("scan complete",
		logging.Int("files", files),
		logging.Int("empty_files", acc.Streams()-acc.NonEmptyStreams()),
		logging.String("runes", humanize.Comma(result.Runes)),
		logging.String("bytes", humanize.IBytes(uint64(result.Bytes))),
		logging.Duration("elapsed", result.Duration().Round(time.Millisecond)),
		logging.Bool("output_closed", summary.OutputClosed),
	)

	if opts.History != nil {
		if err := opts.History.Record(ctx, historyRun(result, matcher)); err != nil {
			logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run with --no-history or delete "+opts.History.Path()),
				logging.String(logging.FieldImpact, "run is missing from 'ngrams history'"),
			)
		} else {
			result.Recorded = true
		}
	}
	return result, nil
}

func checkDestination(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDestination, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidDestination, path)
	}
	return nil
}

func historyRun(r *Result, matcher *pattern.Matcher) history.Run {
	tables := make([]history.TableCount, 0, len(r.Summary.Tables))
	for _, t := range r.Summary.Tables {
		tables = append(tables, history.TableCount{
			Name:   t.Name,
			Unique: t.Unique,
			Total:  t.Total,
			Path:   t.Path,
			SHA256: t.SHA256,
		})
	}
	compression := ""
	if r.Compression != source.CompressionNone {
		compression = string(r.Compression)
	}
	return history.Run{
		ID:          r.RunID,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Source:      r.Source,
		SourceKind:  r.Kind.String(),
		Compression: compression,
		Destination: r.Destination,
		Patterns:    matcher.Patterns(),
		Files:       r.Files,
		Runes:       r.Runes,
		Bytes:       r.Bytes,
		Tables:      tables,
	}
}

// countingReader tallies the decompressed bytes read from an entry.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
