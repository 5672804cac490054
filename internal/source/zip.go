package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/csmclaren/charfreq-tools/internal/logging"
)

func openZip(path string) (*zip.ReadCloser, error) {
	return zip.OpenReader(path)
}

func (s *Source) eachZip(ctx context.Context, fn func(Entry) error) error {
	zr, err := openZip(s.root)
	if err != nil {
		return fmt.Errorf("open zip %s: %w", s.root, err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasSuffix(file.Name, "/") {
			continue
		}
		if !s.matcher.Match(file.Name) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			s.logger.Debug("skipping unreadable zip member",
				logging.Entry(file.Name),
				logging.Error(err))
			continue
		}
		err = fn(Entry{Name: file.Name, Size: int64(file.UncompressedSize64), Reader: rc})
		if closeErr := rc.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close zip member %s: %w", file.Name, closeErr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
