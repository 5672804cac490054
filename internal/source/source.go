package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/csmclaren/charfreq-tools/internal/logging"
	"github.com/csmclaren/charfreq-tools/internal/pattern"
)

// Entry is one accepted corpus file. Reader is valid only for the duration of
// the callback that receives it.
type Entry struct {
	Name string
	// Size is the uncompressed size in bytes, or -1 when unknown.
	Size   int64
	Reader io.Reader
}

// Options configures enumeration.
type Options struct {
	Logger *slog.Logger
}

// Source is a detected corpus root.
type Source struct {
	root        string
	kind        Kind
	compression Compression
	matcher     *pattern.Matcher
	logger      *slog.Logger
	consumed    bool
}

// Open inspects root and determines its kind. Detection order is directory,
// tar archive, zip archive, then plain regular file. A nil matcher accepts
// every entry.
func Open(root string, matcher *pattern.Matcher, opts Options) (*Source, error) {
	logger := logging.NewComponentLogger(opts.Logger, "source")

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedSource, root, err)
	}

	src := &Source{
		root:        root,
		matcher:     matcher,
		logger:      logger,
		compression: CompressionNone,
	}

	switch {
	case info.IsDir():
		src.kind = KindDirectory
	case info.Mode().IsRegular():
		if c, ok := detectTar(root); ok {
			src.kind = KindTar
			src.compression = c
		} else if detectZip(root) {
			src.kind = KindZip
		} else {
			src.kind = KindFile
		}
	default:
		return nil, fmt.Errorf("%w: %s is neither a directory, a tar archive, a zip archive, nor a regular file",
			ErrUnsupportedSource, root)
	}

	logger.Debug("corpus source detected",
		logging.String("root", root),
		logging.String("kind", src.kind.String()),
		logging.String("compression", string(src.compression)))
	return src, nil
}

// Root returns the path the source was opened with.
func (s *Source) Root() string { return s.root }

// Kind returns the detected container format.
func (s *Source) Kind() Kind { return s.kind }

// Compression returns the tar stream compression; CompressionNone for other kinds.
func (s *Source) Compression() Compression { return s.compression }

// Each calls fn for every accepted entry in enumeration order. The entry's
// reader is closed when fn returns, whether or not fn failed. Enumeration
// stops at the first error from fn, from the container, or from ctx.
func (s *Source) Each(ctx context.Context, fn func(Entry) error) error {
	if s.consumed {
		return ErrConsumed
	}
	s.consumed = true

	switch s.kind {
	case KindDirectory:
		return s.eachDirectory(ctx, fn)
	case KindTar:
		return s.eachTar(ctx, fn)
	case KindZip:
		return s.eachZip(ctx, fn)
	case KindFile:
		return s.eachFile(ctx, fn)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSource, s.root)
	}
}

func (s *Source) eachFile(ctx context.Context, fn func(Entry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(s.root)
	if !s.matcher.Match(name) {
		return nil
	}
	return yieldFile(s.root, name, fn)
}

// yieldFile opens path, hands it to fn, and closes it.
func yieldFile(path, name string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	size := int64(-1)
	if info, statErr := f.Stat(); statErr == nil {
		size = info.Size()
	}
	err = fn(Entry{Name: name, Size: size, Reader: f})
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", name, closeErr)
	}
	return err
}

func detectZip(path string) bool {
	zr, err := openZip(path)
	if err != nil {
		return false
	}
	_ = zr.Close()
	return true
}

// detectTar reports whether path holds a tar archive, possibly compressed. A
// stream counts as tar when its first header parses, or when its first block
// is all zeros (an empty archive).
func detectTar(path string) (Compression, bool) {
	f, err := os.Open(path)
	if err != nil {
		return CompressionNone, false
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(sniffLen)
	c := sniffCompression(head)

	rc, err := decompress(c, br)
	if err != nil {
		return CompressionNone, false
	}
	defer rc.Close()

	block := make([]byte, tarBlockSize)
	if _, err := io.ReadFull(rc, block); err != nil {
		return CompressionNone, false
	}
	if isZeroBlock(block) {
		return c, true
	}
	if _, err := newTarReader(io.MultiReader(bytes.NewReader(block), rc)).Next(); err != nil {
		return CompressionNone, false
	}
	return c, true
}

func isZeroBlock(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
