// Package scan discovers candidate files and takes bounded text samples of
// their content for classification and indexing.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"sortd/internal/models"
)

// StateDirName is the engine's own directory under a destination root. Scans
// and the indexer never descend into it.
const StateDirName = ".sortd"

var skipNames = map[string]bool{
	"desktop.ini": true,
	"thumbs.db":   true,
	"icon\r":      true,
}

// Skippable reports whether a file name is a hidden or system entry that
// organization should ignore.
func Skippable(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return true
	}
	return skipNames[strings.ToLower(name)]
}

// Discover recursively enumerates regular files under root in lexical order.
// Hidden and system entries are skipped, as are unreadable subtrees; only an
// unusable root aborts the scan. Samples are not taken here.
func Discover(ctx context.Context, root string) ([]models.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFileAccess, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", models.ErrValidation, root)
	}

	var files []models.SourceFile
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			log.WithError(err).Warnf("skipping unreadable entry %s", path)
			return nil
		}
		if d.IsDir() {
			if path != root && (Skippable(d.Name()) || d.Name() == StateDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if Skippable(d.Name()) {
			return nil
		}
		sf, err := Snapshot(path, d)
		if err != nil {
			log.WithError(err).Warnf("skipping %s", path)
			return nil
		}
		files = append(files, sf)
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: scan %s: %v", models.ErrFileAccess, root, walkErr)
	}
	return files, nil
}

// Snapshot captures one file's metadata. Symlinks are kept when they point
// at regular files; a broken link still yields a snapshot (link metadata,
// empty sample) so classification can fall back to name signals.
func Snapshot(path string, d fs.DirEntry) (models.SourceFile, error) {
	var (
		info os.FileInfo
		err  error
	)
	if d != nil && d.Type()&fs.ModeSymlink == 0 {
		if !d.Type().IsRegular() {
			return models.SourceFile{}, fmt.Errorf("%w: %s is not a regular file", models.ErrValidation, path)
		}
		info, err = d.Info()
	} else {
		info, err = os.Stat(path)
		if err != nil {
			// Broken symlink: fall back to the link itself.
			info, err = os.Lstat(path)
		} else if !info.Mode().IsRegular() {
			return models.SourceFile{}, fmt.Errorf("%w: %s is not a regular file", models.ErrValidation, path)
		}
	}
	if err != nil {
		return models.SourceFile{}, err
	}
	name := filepath.Base(path)
	return models.SourceFile{
		Path:      path,
		Name:      name,
		Extension: strings.ToLower(filepath.Ext(name)),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// SnapshotPath is Snapshot for callers that only have a path.
func SnapshotPath(path string) (models.SourceFile, error) {
	return Snapshot(path, nil)
}
