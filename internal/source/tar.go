package source

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

const tarBlockSize = 512

func newTarReader(r io.Reader) *tar.Reader { return tar.NewReader(r) }

// isTarRegular mirrors the member types that carry file data.
func isTarRegular(flag byte) bool {
	switch flag {
	case tar.TypeReg, tar.TypeCont, tar.TypeGNUSparse:
		return true
	default:
		return false
	}
}

func (s *Source) eachTar(ctx context.Context, fn func(Entry) error) error {
	f, err := os.Open(s.root)
	if err != nil {
		return fmt.Errorf("open tar %s: %w", s.root, err)
	}
	defer f.Close()

	rc, err := decompress(s.compression, bufio.NewReader(f))
	if err != nil {
		return err
	}
	defer rc.Close()

	tr := newTarReader(rc)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar %s: %w", s.root, err)
		}
		if !isTarRegular(hdr.Typeflag) {
			continue
		}
		if !s.matcher.Match(hdr.Name) {
			continue
		}
		// The member reader needs no release; the next header skips any unread data.
		if err := fn(Entry{Name: hdr.Name, Size: hdr.Size, Reader: tr}); err != nil {
			return err
		}
	}
}
