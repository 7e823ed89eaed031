package cmd

import (
	"errors"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/tidy"
	"github.com/spf13/cobra"
)

// NewRunCmd creates and returns the run subcommand for the tidydir CLI.
// It archives aged entries and then prunes the archive.
func (a *app) NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Archive aged entries, then prune the archive",
		Long: `Archive every top-level entry of the directory that has not been used
for more than the archive age, sorting files into category folders by
extension and whole directories into "directories". Then delete archived
entries that have not been used for more than the delete age.

An entry is "used" when it is read or modified; a directory is as young as
the youngest file anywhere inside it. Archival always finishes before pruning
starts.`,
		Example: `  tidydir run -d ~/Downloads -a ~/Downloads/archive -m mapping.yaml
  tidydir run -d ~/Downloads -a ~/Archive -m mapping.yaml --archive-age 14 --delete-age 60 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, config.KeyDirectory, config.KeyArchiveDirectory, config.KeyMappingFile)
			if err != nil {
				return err
			}
			s, err := a.open(cfg, true)
			if err != nil {
				return err
			}
			_, err = tidy.Run(cmd.Context(), s.tidyConfig(), s.opts)
			return errors.Join(err, s.close())
		},
	}

	addSourceFlags(cmd)
	addArchiveFlags(cmd)
	addDeleteFlags(cmd)

	return cmd
}
