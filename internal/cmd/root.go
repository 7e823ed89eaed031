package cmd

import (
	"github.com/dendrascience/tidydir/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the tidydir CLI.
// It sets up all subcommands, command groups, and the flags every command shares.
func NewRootCmd() *cobra.Command {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:   "tidydir",
		Short: "tidydir - Archive what you stopped using, delete what you forgot",
		Long: `tidydir keeps a cluttered directory such as Downloads in check.

Entries that have not been read or modified for longer than the archive age
are moved into an archive directory, sorted into category folders by file
extension. Entries that then sit unused in the archive for longer than the
delete age are deleted.

Settings come from flags, TIDYDIR_* environment variables and an optional
tidydir.yaml in $HOME/.config/tidydir or the working directory.

Use subcommands to perform different operations:
  - run: Archive aged entries, then prune the archive
  - archive: Move aged entries into the archive
  - prune: Delete archived entries older than the delete age
  - status: Summarise the contents of an archive
  - validate: Validate a category mapping file`,
		Version: version.GetFullVersion(),
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default $HOME/.config/tidydir/tidydir.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every decision, not just changes")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")

	groupTidy := "tidy"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupTidy,
		Title: "Tidy Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	runCmd := a.NewRunCmd()
	archiveCmd := a.NewArchiveCmd()
	pruneCmd := a.NewPruneCmd()
	statusCmd := a.NewStatusCmd()
	validateCmd := a.NewValidateCmd()

	runCmd.GroupID = groupTidy
	archiveCmd.GroupID = groupTidy
	pruneCmd.GroupID = groupTidy
	statusCmd.GroupID = groupUtilities
	validateCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(validateCmd)

	return rootCmd
}
