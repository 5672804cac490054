package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/csmclaren/charfreq-tools/internal/logging"
)

// eachDirectory walks the tree in lexical depth-first order. Regular files
// and symlinks that resolve to regular files are yielded; symlinked
// directories are not descended into.
func (s *Source) eachDirectory(ctx context.Context, fn func(Entry) error) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() && path != s.root {
				logging.WarnWithContext(s.logger, "skipping unreadable directory", "source_dir_unreadable",
					logging.String("path", path),
					logging.Error(walkErr),
					logging.String(logging.FieldImpact, "files below this directory are not counted"))
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if !isRegularTarget(path, d) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !s.matcher.Match(name) {
			return nil
		}
		return yieldFile(path, name, fn)
	})
}

func isRegularTarget(path string, d fs.DirEntry) bool {
	mode := d.Type()
	if mode&fs.ModeSymlink == 0 {
		return mode.IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
