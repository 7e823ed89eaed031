package tidy

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PruneResult counts the outcome of one prune sweep. In a dry run Deleted
// counts what would have been removed.
type PruneResult struct {
	Deleted int
	Skipped int
}

// Pruner removes archived entries that have outlived the delete age.
type Pruner struct {
	ages *AgeResolver
	log  *zap.Logger
	rec  Recorder
}

// NewPruner returns a Pruner wired with opts.
func NewPruner(opts Options) *Pruner {
	opts = opts.withDefaults()
	return &Pruner{
		ages: NewAgeResolver(opts.Clock),
		log:  opts.Logger,
		rec:  opts.Recorder,
	}
}

// Prune visits every category directory of archiveDir and deletes the
// children older than thresholdDays. Directories are removed with their whole
// subtree. Files lying directly in archiveDir are not categories and are left
// alone, as are staging copies of moves still in progress.
func (p *Pruner) Prune(ctx context.Context, archiveDir string, thresholdDays int, dryRun bool) (PruneResult, error) {
	var res PruneResult

	categories, err := os.ReadDir(archiveDir)
	if err != nil {
		return res, rootError(archiveDir, err)
	}
	threshold := float64(thresholdDays)

	for _, category := range categories {
		if !category.IsDir() {
			continue
		}
		categoryPath := filepath.Join(archiveDir, category.Name())
		entries, err := os.ReadDir(categoryPath)
		if err != nil {
			p.skip(&res, categoryPath, IOError(categoryPath, err))
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if IsStagingName(entry.Name()) {
				continue
			}
			path := filepath.Join(categoryPath, entry.Name())

			var age float64
			if entry.IsDir() {
				age, err = p.ages.DirectoryAge(path)
			} else {
				age, err = p.ages.FileAge(path)
			}
			if err != nil {
				p.skip(&res, path, err)
				continue
			}
			// a tree without files has no age to outlive
			if math.IsInf(age, 1) || age <= threshold {
				continue
			}

			msg := "would delete"
			if !dryRun {
				if entry.IsDir() {
					err = os.RemoveAll(path)
				} else {
					err = os.Remove(path)
				}
				if err != nil {
					p.skip(&res, path, IOError(path, err))
					continue
				}
				msg = "deleted"
			}
			p.log.Info(msg,
				zap.String("path", path),
				zap.String("category", category.Name()),
				zap.Float64("age_days", age),
			)
			res.Deleted++
			p.rec.Deleted()
		}
	}
	return res, nil
}

func (p *Pruner) skip(res *PruneResult, path string, err error) {
	res.Skipped++
	p.rec.Skipped(PhasePrune)
	p.log.Warn("skipped", zap.String("path", path), zap.Error(err))
}
