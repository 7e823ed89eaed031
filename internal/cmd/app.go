package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dendrascience/tidydir/internal/config"
	"github.com/dendrascience/tidydir/internal/logging"
	"github.com/dendrascience/tidydir/internal/metrics"
	"github.com/dendrascience/tidydir/tidy"
	"github.com/dendrascience/tidydir/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand of one root command.
type app struct {
	v       *viper.Viper
	fs      afero.Fs
	cfgFile string
}

func newApp() *app {
	return &app{v: config.New(), fs: afero.NewOsFs()}
}

// unbound flags are never read through viper.
var unbound = map[string]bool{
	"config":   true,
	"help":     true,
	"version":  true,
	"no-color": true,
}

// load binds the flags of cmd, reads the config file and returns the merged,
// validated settings. keys lists the settings cmd cannot run without.
func (a *app) load(cmd *cobra.Command, keys ...string) (config.Config, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if unbound[f.Name] || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return config.Config{}, bindErr
	}

	used, err := config.ReadFile(a.v, a.cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Decode(a.v)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Require(keys...); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if used != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
	}
	return cfg, nil
}

// session is everything one tidy command needs after configuration.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	rec     *metrics.Recorder
	opts    tidy.Options
	mapping tidy.Mapping
	start   time.Time
}

// open builds the logger, metrics and tidy options for cfg. The mapping and
// ignore rules are only loaded for commands that archive.
func (a *app) open(cfg config.Config, archiving bool) (*session, error) {
	log, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogFile,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	s := &session{
		cfg:   cfg,
		log:   log,
		rec:   metrics.NewRecorder(),
		start: time.Now(),
	}
	s.opts = tidy.Options{Logger: log, Recorder: s.rec}

	if !archiving {
		return s, nil
	}

	mapping, err := util.LoadMapping(a.fs, cfg.MappingFile)
	if err != nil {
		return nil, err
	}
	s.mapping = mapping
	log.Debug("loaded mapping", zap.String("file", cfg.MappingFile), zap.Int("extensions", len(mapping)))

	if cfg.IgnoreFile != "" {
		rules, err := util.LoadIgnore(a.fs, cfg.IgnoreFile, cfg.Directory)
		if err != nil {
			return nil, err
		}
		s.opts.Ignore = rules
	}
	return s, nil
}

// close stamps the run, writes the metrics file when one is configured and
// flushes the logger.
func (s *session) close() error {
	s.rec.RunFinished(s.start, time.Now())
	var err error
	if s.cfg.MetricsFile != "" {
		err = s.rec.WriteTextfile(s.cfg.MetricsFile)
		if err == nil {
			s.log.Debug("wrote metrics", zap.String("file", s.cfg.MetricsFile))
		}
	}
	_ = s.log.Sync()
	return err
}

// tidyConfig translates settings into a tidy run.
func (s *session) tidyConfig() tidy.Config {
	return tidy.Config{
		SourceDir:      s.cfg.Directory,
		ArchiveDir:     s.cfg.ArchiveDirectory,
		ArchiveAgeDays: s.cfg.ArchiveAge,
		DeleteAgeDays:  s.cfg.DeleteAge,
		Mapping:        s.mapping,
		DryRun:         s.cfg.DryRun,
	}
}

// Flag helpers shared by the tidy commands. Flag names map to config keys by
// replacing dashes with underscores.

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("directory", "d", "", "Directory to tidy")
	cmd.Flags().IntP("archive-age", "A", 30, "Archive entries not used for more than this many days")
	cmd.Flags().StringP("mapping-file", "m", "", "YAML file mapping categories to file extensions")
	cmd.Flags().String("ignore-file", "", "Gitignore-style file of entries never to archive")
}

func addArchiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("archive-directory", "a", "", "Directory archived entries are moved into")
	cmd.Flags().BoolP("dry-run", "n", false, "List changes without making them")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}

func addDeleteFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("delete-age", "D", 90, "Delete archived entries not used for more than this many days")
}
