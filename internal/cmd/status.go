package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/tidy"
	"github.com/dendrascience/tidydir/util"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewStatusCmd creates and returns the status subcommand for the tidydir CLI.
// It reports what each category of an archive holds.
func (a *app) NewStatusCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "status [ARCHIVE_DIRECTORY]",
		Short: "Summarise the contents of an archive",
		Long: `Summarise the contents of an archive directory, one line per category:
how many entries it holds, how many files are inside them and the ages in days
of its youngest and oldest entries.

This is a read-only utility command. It is useful for choosing a delete age
before running prune.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if err := cmd.Flags().Set("archive-directory", args[0]); err != nil {
					return err
				}
			}
			cfg, err := a.load(cmd, config.KeyArchiveDirectory)
			if err != nil {
				return err
			}
			stats, err := util.Inventory(cfg.ArchiveDirectory, tidy.NewAgeResolver(nil))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printStatus(out, cfg.ArchiveDirectory, stats, useColor(out, noColor))
			return nil
		},
	}

	cmd.Flags().StringP("archive-directory", "a", "", "Archive directory to summarise")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored category names")

	return cmd
}

func printStatus(out io.Writer, archiveDir string, stats []util.CategoryStats, color bool) {
	if len(stats) == 0 {
		fmt.Fprintf(out, "Archive %s has no categories\n", archiveDir)
		return
	}

	fmt.Fprintf(out, "Archive: %s\n\n", archiveDir)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	// the label goes last so color escapes never skew the columns
	fmt.Fprintln(w, "ENTRIES\tFILES\tYOUNGEST\tOLDEST\tCATEGORY")
	var entries, files int
	for _, s := range stats {
		entries += s.Entries
		files += s.Files
		youngest, oldest := "-", "-"
		if s.Entries > s.Unaged {
			youngest = fmt.Sprintf("%.1fd", s.Youngest)
			oldest = fmt.Sprintf("%.1fd", s.Oldest)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", s.Entries, s.Files, youngest, oldest, categoryLabel(s.Name, color))
	}
	w.Flush()
	fmt.Fprintf(out, "\nTotal: %d entries, %d files in %d categories\n", entries, files, len(stats))
}

// categoryLabel paints name in a 256-color palette entry derived from its
// hash, so a category keeps its color across runs and machines.
func categoryLabel(name string, color bool) string {
	if !color {
		return name
	}
	h := colorhash.HashString(name)
	if h < 0 {
		h = -h
	}
	// skip the 16 system colors and the grayscale ramp
	code := 16 + h%216
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, name)
}

func useColor(out io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
