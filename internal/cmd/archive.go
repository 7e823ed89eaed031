package cmd

import (
	"errors"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/tidy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewArchiveCmd creates and returns the archive subcommand for the tidydir CLI.
func (a *app) NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move aged entries into the archive",
		Long: `Run only the archive phase: move every top-level entry of the directory
that has not been used for more than the archive age into the archive.
Nothing already in the archive is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, config.KeyDirectory, config.KeyArchiveDirectory, config.KeyMappingFile)
			if err != nil {
				return err
			}
			if err := tidy.CheckRoots(cfg.Directory, cfg.ArchiveDirectory); err != nil {
				return err
			}
			s, err := a.open(cfg, true)
			if err != nil {
				return err
			}

			res, err := tidy.NewArchiver(s.opts).Archive(cmd.Context(), cfg.Directory, cfg.ArchiveDirectory, cfg.ArchiveAge, s.mapping, cfg.DryRun)
			if err == nil {
				s.log.Info("summary",
					zap.Int("files_archived", res.Files),
					zap.Int("directories_archived", res.Directories),
					zap.Int("skipped", res.Skipped),
					zap.Bool("dry_run", cfg.DryRun),
				)
			}
			return errors.Join(err, s.close())
		},
	}

	addSourceFlags(cmd)
	addArchiveFlags(cmd)

	return cmd
}
