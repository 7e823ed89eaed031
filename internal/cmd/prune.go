package cmd

import (
	"errors"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/tidy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewPruneCmd creates and returns the prune subcommand for the tidydir CLI.
func (a *app) NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archived entries older than the delete age",
		Long: `Run only the prune phase: delete every entry inside the archive's category
folders that has not been used for more than the delete age. Directories are
deleted with everything inside them. Files directly in the archive directory
are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, config.KeyArchiveDirectory)
			if err != nil {
				return err
			}
			if err := tidy.CheckRoots(cfg.ArchiveDirectory); err != nil {
				return err
			}
			s, err := a.open(cfg, false)
			if err != nil {
				return err
			}

			res, err := tidy.NewPruner(s.opts).Prune(cmd.Context(), cfg.ArchiveDirectory, cfg.DeleteAge, cfg.DryRun)
			if err == nil {
				s.log.Info("summary",
					zap.Int("deleted", res.Deleted),
					zap.Int("skipped", res.Skipped),
					zap.Bool("dry_run", cfg.DryRun),
				)
			}
			return errors.Join(err, s.close())
		},
	}

	addArchiveFlags(cmd)
	addDeleteFlags(cmd)

	return cmd
}
