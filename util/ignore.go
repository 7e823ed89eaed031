package util

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"
)

// IgnoreRules matches paths against a gitignore document anchored at a
// directory. Relative paths are resolved against the working directory before
// matching.
type IgnoreRules struct {
	base    string
	matcher gitignore.IgnoreMatcher
}

// Match reports whether path is excluded by the rules.
func (r *IgnoreRules) Match(path string, isDir bool) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if abs == r.base {
		return false
	}
	return r.matcher.Match(abs, isDir)
}

// LoadIgnore reads the gitignore-syntax file at path and anchors its patterns
// at baseDir.
func LoadIgnore(fsys afero.Fs, path, baseDir string) (*IgnoreRules, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: ignore file %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer f.Close()

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", baseDir, err)
	}
	return &IgnoreRules{
		base:    base,
		matcher: gitignore.NewGitIgnoreFromReader(base, f),
	}, nil
}
