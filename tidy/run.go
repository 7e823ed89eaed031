package tidy

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Config is one tidy run: what to sweep and with which thresholds.
type Config struct {
	SourceDir      string
	ArchiveDir     string
	ArchiveAgeDays int
	DeleteAgeDays  int
	Mapping        Mapping
	DryRun         bool
}

// Summary aggregates both phases of a run.
type Summary struct {
	FilesArchived       int
	DirectoriesArchived int
	Deleted             int
	Skipped             int
}

// CheckRoots fails with ErrPathNotFound unless every dir exists and is a
// directory. Run calls it before touching anything.
func CheckRoots(dirs ...string) error {
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return rootError(dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, dir)
		}
	}
	return nil
}

// Run archives cfg.SourceDir and then prunes cfg.ArchiveDir. Archival always
// finishes first, so an entry archived by this run is only deleted by it when
// it is already older than the delete age.
func Run(ctx context.Context, cfg Config, opts Options) (Summary, error) {
	var summary Summary
	opts = opts.withDefaults()
	log := opts.Logger

	if err := CheckRoots(cfg.SourceDir, cfg.ArchiveDir); err != nil {
		return summary, err
	}

	log.Info("tidying",
		zap.String("directory", cfg.SourceDir),
		zap.Int("archive_age_days", cfg.ArchiveAgeDays),
	)
	log.Info("archive",
		zap.String("directory", cfg.ArchiveDir),
		zap.Int("delete_age_days", cfg.DeleteAgeDays),
	)
	if cfg.DryRun {
		log.Info("running in dry-run mode, changes will be listed but not made")
	}

	archived, err := NewArchiver(opts).Archive(ctx, cfg.SourceDir, cfg.ArchiveDir, cfg.ArchiveAgeDays, cfg.Mapping, cfg.DryRun)
	summary.FilesArchived = archived.Files
	summary.DirectoriesArchived = archived.Directories
	summary.Skipped = archived.Skipped
	if err != nil {
		return summary, fmt.Errorf("archive %s: %w", cfg.SourceDir, err)
	}

	pruned, err := NewPruner(opts).Prune(ctx, cfg.ArchiveDir, cfg.DeleteAgeDays, cfg.DryRun)
	summary.Deleted = pruned.Deleted
	summary.Skipped += pruned.Skipped
	if err != nil {
		return summary, fmt.Errorf("prune %s: %w", cfg.ArchiveDir, err)
	}

	log.Info("summary",
		zap.Int("files_archived", summary.FilesArchived),
		zap.Int("directories_archived", summary.DirectoriesArchived),
		zap.Int("deleted", summary.Deleted),
		zap.Int("skipped", summary.Skipped),
		zap.Bool("dry_run", cfg.DryRun),
	)
	return summary, nil
}
