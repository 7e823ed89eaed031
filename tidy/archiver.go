package tidy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ArchiveResult counts the outcome of one archive sweep. In a dry run Files
// and Directories count what would have been moved.
type ArchiveResult struct {
	Files       int
	Directories int
	Skipped     int
}

// Archiver moves aged entries of a source directory into the archive.
type Archiver struct {
	ages   *AgeResolver
	mover  *Mover
	clock  clockwork.Clock
	ignore Ignorer
	log    *zap.Logger
	rec    Recorder
}

// NewArchiver returns an Archiver wired with opts.
func NewArchiver(opts Options) *Archiver {
	opts = opts.withDefaults()
	return &Archiver{
		ages:   NewAgeResolver(opts.Clock),
		mover:  NewMover(opts.Logger),
		clock:  opts.Clock,
		ignore: opts.Ignore,
		log:    opts.Logger,
		rec:    opts.Recorder,
	}
}

// Archive looks at the immediate children of sourceDir and moves every entry
// older than thresholdDays into archiveDir/<category>. Directories move as a
// whole. The archive directory itself is never moved, even when it lives
// inside sourceDir. Failures on a single entry are logged and counted as
// skipped; only failing to list sourceDir aborts the sweep.
func (a *Archiver) Archive(ctx context.Context, sourceDir, archiveDir string, thresholdDays int, mapping Mapping, dryRun bool) (ArchiveResult, error) {
	var res ArchiveResult

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return res, rootError(sourceDir, err)
	}
	archiveInfo, err := os.Stat(archiveDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, rootError(archiveDir, err)
	}

	namer := NewNamer(a.clock)
	threshold := float64(thresholdDays)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := filepath.Join(sourceDir, entry.Name())
		isDir := entry.IsDir()

		if archiveInfo != nil && sameFile(path, archiveInfo) {
			a.log.Debug("skipping archive directory", zap.String("path", path))
			continue
		}
		if a.ignore != nil && a.ignore.Match(path, isDir) {
			a.log.Debug("ignored", zap.String("path", path))
			continue
		}

		age, err := a.age(path, isDir)
		if err != nil {
			a.skip(&res, path, err)
			continue
		}
		if math.IsInf(age, 1) {
			a.log.Debug("no files", zap.String("path", path))
			continue
		}
		if age <= threshold {
			a.log.Debug("fresh", zap.String("path", path), zap.Float64("age_days", age))
			continue
		}

		category := CategoryFor(path, isDir, mapping)
		dest, err := namer.DestinationFor(archiveDir, category, path, isDir)
		if err != nil {
			a.skip(&res, path, err)
			continue
		}

		msg := "would archive"
		if !dryRun {
			if err := a.mover.Move(path, dest); err != nil {
				a.skip(&res, path, err)
				continue
			}
			msg = "archived"
		}
		a.log.Info(msg,
			zap.String("path", path),
			zap.String("dest", dest),
			zap.String("category", category),
			zap.Float64("age_days", age),
		)

		if isDir {
			res.Directories++
			a.rec.Archived(KindDirectory)
		} else {
			res.Files++
			a.rec.Archived(KindFile)
		}
	}
	return res, nil
}

func (a *Archiver) age(path string, isDir bool) (float64, error) {
	if isDir {
		return a.ages.DirectoryAge(path)
	}
	return a.ages.FileAge(path)
}

func (a *Archiver) skip(res *ArchiveResult, path string, err error) {
	res.Skipped++
	a.rec.Skipped(PhaseArchive)
	a.log.Warn("skipped", zap.String("path", path), zap.Error(err))
}

// sameFile reports whether path resolves to the directory described by target.
// Symlinks are followed so a link to the archive is recognised too.
func sameFile(path string, target fs.FileInfo) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(info, target)
}

// rootError classifies a failure on one of the two root directories.
func rootError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return IOError(path, err)
}
