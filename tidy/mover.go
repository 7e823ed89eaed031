package tidy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stagingPrefix = ".tidydir-"
	stagingSuffix = ".partial"
)

// IsStagingName reports whether name is an in-flight cross-device copy.
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, stagingPrefix) && strings.HasSuffix(name, stagingSuffix)
}

// Mover relocates a file or a whole directory tree into the archive.
type Mover struct {
	log *zap.Logger
}

// NewMover returns a Mover logging fallbacks to log.
func NewMover(log *zap.Logger) *Mover {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mover{log: log}
}

// Move creates the parent of dst if needed and relocates src to dst.
// Within a volume this is a single rename. Across volumes src is copied to a
// staging name next to dst, the staging copy is renamed to dst, and only then
// is src removed, so readers of the archive never see a partial dst.
func (m *Mover) Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return IOError(filepath.Dir(dst), err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return IOError(src, err)
	}
	m.log.Debug("rename crosses devices, copying", zap.String("path", src), zap.String("dest", dst))
	return m.copyThenRemove(src, dst)
}

func (m *Mover) copyThenRemove(src, dst string) error {
	staging := filepath.Join(filepath.Dir(dst), stagingPrefix+uuid.NewString()+stagingSuffix)
	if err := copyTree(src, staging); err != nil {
		removeStaging(staging)
		return IOError(src, err)
	}
	if err := os.Rename(staging, dst); err != nil {
		removeStaging(staging)
		return IOError(dst, err)
	}
	if err := os.RemoveAll(src); err != nil {
		// dst is complete at this point; only the source is left behind
		return IOError(src, fmt.Errorf("archived to %s but could not remove source: %w", dst, err))
	}
	return nil
}

// removeStaging deletes a partial copy. Directories already switched to a
// read-only source mode are made writable first so their children can go.
func removeStaging(staging string) {
	_ = filepath.WalkDir(staging, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = os.Chmod(path, 0o700)
		}
		return nil
	})
	_ = os.RemoveAll(staging)
}

// copyTree copies src to dst preserving permissions and timestamps.
// Symlinks are recreated, not followed.
func copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	atime, mtime, err := entryTimes(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	case info.IsDir():
		// owner-writable until the children are in, then the source mode
		if err := os.Mkdir(dst, 0o700); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
			return err
		}
	case info.Mode().IsRegular():
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: unsupported file type %s", src, info.Mode().Type())
	}
	return os.Chtimes(dst, atime, mtime)
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
