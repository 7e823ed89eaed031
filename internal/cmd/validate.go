package cmd

import (
	"fmt"
	"strings"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/util"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates and returns the validate subcommand for the tidydir CLI.
// It checks a mapping file before it is used for a run.
func (a *app) NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [MAPPING_FILE]",
		Short: "Validate a category mapping file",
		Long: `Validate a category mapping file and list what it defines.

The file must be a YAML mapping of category names to lists of file
extensions. Category names become folders inside the archive, so they may
not contain path separators. An extension listed under more than one category
is reported; the category listed last wins.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if err := cmd.Flags().Set("mapping-file", args[0]); err != nil {
					return err
				}
			}
			cfg, err := a.load(cmd, config.KeyMappingFile)
			if err != nil {
				return err
			}
			categories, err := util.ReadMapping(a.fs, cfg.MappingFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mapping file: %s\n", cfg.MappingFile)
			extensions := 0
			for _, c := range categories {
				extensions += len(c.Extensions)
				if len(c.Extensions) == 0 {
					fmt.Fprintf(out, "  %s: no extensions\n", c.Name)
					continue
				}
				fmt.Fprintf(out, "  %s: %s\n", c.Name, strings.Join(c.Extensions, " "))
			}

			conflicts := util.MappingConflicts(categories)
			for _, c := range conflicts {
				fmt.Fprintf(out, "Warning: %s is listed under %s; %s wins\n",
					c.Extension, strings.Join(c.Categories, ", "), c.Winner)
			}

			fmt.Fprintf(out, "\nValidation complete:\n")
			fmt.Fprintf(out, "  Categories: %d\n", len(categories))
			fmt.Fprintf(out, "  Extensions: %d\n", extensions)
			fmt.Fprintf(out, "  Conflicts: %d\n", len(conflicts))
			return nil
		},
	}

	cmd.Flags().StringP("mapping-file", "m", "", "Mapping file to validate")

	return cmd
}
