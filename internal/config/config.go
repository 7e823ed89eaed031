// Package config holds runtime configuration for tidydir: defaults, the
// optional config file, TIDYDIR_* environment variables and command-line
// flags, merged through viper in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when looking up environment variables,
// so archive_age is read from TIDYDIR_ARCHIVE_AGE.
const EnvPrefix = "TIDYDIR"

// Keys understood in config files and the environment.
const (
	KeyDirectory        = "directory"
	KeyArchiveDirectory = "archive_directory"
	KeyArchiveAge       = "archive_age"
	KeyDeleteAge        = "delete_age"
	KeyMappingFile      = "mapping_file"
	KeyIgnoreFile       = "ignore_file"
	KeyDryRun           = "dry_run"
	KeyVerbose          = "verbose"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyLogFile          = "log_file"
	KeyMetricsFile      = "metrics_file"
)

// Log formats accepted by KeyLogFormat.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	ErrMissingSetting = errors.New("missing required setting")
	ErrInvalidSetting = errors.New("invalid setting")
)

// Config holds all runtime settings of a tidy run. Ages are whole days.
type Config struct {
	Directory        string `mapstructure:"directory"`
	ArchiveDirectory string `mapstructure:"archive_directory"`
	ArchiveAge       int    `mapstructure:"archive_age"`
	DeleteAge        int    `mapstructure:"delete_age"`
	MappingFile      string `mapstructure:"mapping_file"`
	IgnoreFile       string `mapstructure:"ignore_file"`
	DryRun           bool   `mapstructure:"dry_run"`
	Verbose          bool   `mapstructure:"verbose"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	LogFile          string `mapstructure:"log_file"`
	MetricsFile      string `mapstructure:"metrics_file"`
}

// New returns a viper instance with tidydir's defaults and environment
// binding in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyArchiveAge, 30)
	v.SetDefault(KeyDeleteAge, 90)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, FormatConsole)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers Get; Unmarshal needs every key known up front.
	for _, key := range []string{KeyDirectory, KeyArchiveDirectory, KeyMappingFile, KeyIgnoreFile, KeyMetricsFile, KeyLogFile} {
		_ = v.BindEnv(key)
	}
	return v
}

// ReadFile loads cfgFile into v, or searches $HOME/.config/tidydir and the
// working directory for tidydir.yaml when cfgFile is empty. A missing
// searched-for file is not an error. It returns the file used, if any.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tidydir"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("tidydir")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Decode merges every source held by v into a Config.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on which command runs.
func (c Config) Validate() error {
	var errs []error
	if c.ArchiveAge < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidSetting, KeyArchiveAge, c.ArchiveAge))
	}
	if c.DeleteAge < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidSetting, KeyDeleteAge, c.DeleteAge))
	}
	switch c.LogFormat {
	case FormatConsole, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %s must be %q or %q, got %q", ErrInvalidSetting, KeyLogFormat, FormatConsole, FormatJSON, c.LogFormat))
	}
	if c.Directory != "" && c.ArchiveDirectory != "" && samePath(c.Directory, c.ArchiveDirectory) {
		errs = append(errs, fmt.Errorf("%w: %s and %s are the same directory", ErrInvalidSetting, KeyDirectory, KeyArchiveDirectory))
	}
	return errors.Join(errs...)
}

// Require fails for every key among keys whose setting is empty.
func (c Config) Require(keys ...string) error {
	values := map[string]string{
		KeyDirectory:        c.Directory,
		KeyArchiveDirectory: c.ArchiveDirectory,
		KeyMappingFile:      c.MappingFile,
		KeyIgnoreFile:       c.IgnoreFile,
		KeyMetricsFile:      c.MetricsFile,
	}
	var errs []error
	for _, key := range keys {
		if values[key] == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, key))
		}
	}
	return errors.Join(errs...)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
