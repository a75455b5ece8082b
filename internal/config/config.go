// Package config loads tracker settings from defaults, an optional config
// file, JIRA_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyDBPath         = "db.path"
	KeyDBBackend      = "db.backend"
	KeyLogFile        = "log.file"
	KeyLogMaxSizeMB   = "log.max_size_mb"
	KeyLogMaxBackups  = "log.max_backups"
	KeyLogMaxAgeDays  = "log.max_age_days"
	KeyUIColor        = "ui.color"
	defaultConfigName = "jira"
)

// DBConfig selects the store backend and its location.
type DBConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`
}

// LogConfig controls the optional rotating log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color bool `mapstructure:"color"`
}

// Config is the resolved configuration.
type Config struct {
	DB  DBConfig  `mapstructure:"db"`
	Log LogConfig `mapstructure:"log"`
	UI  UIConfig  `mapstructure:"ui"`

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBPath, filepath.Join("data", "db.json"))
	v.SetDefault(KeyDBBackend, "json")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAgeDays, 28)
	v.SetDefault(KeyUIColor, true)
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file path. When set it must exist.
	File string
	// SearchPaths are directories searched for jira.{yaml,toml,json} when
	// File is empty. Defaults to "." and $HOME/.config/jira.
	SearchPaths []string
	// Flags listed in flagKeys take precedence over every other source when
	// set on the command line. --no-color turns ui.color off.
	Flags *pflag.FlagSet
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"db":       KeyDBPath,
	"backend":  KeyDBBackend,
	"log-file": KeyLogFile,
}

// Load resolves configuration. A missing config file is not an error unless
// Options.File names it explicitly.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JIRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(defaultConfigName)
		paths := opts.SearchPaths
		if paths == nil {
			paths = defaultSearchPaths()
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		if f := opts.Flags.Lookup("no-color"); f != nil && f.Changed {
			v.Set(KeyUIColor, false)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.DB.Backend {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid %s %q (must be json, sqlite or memory)", KeyDBBackend, c.DB.Backend)
	}
	if c.DB.Backend != "memory" && c.DB.Path == "" {
		return fmt.Errorf("%s is required", KeyDBPath)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}
	return nil
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "jira"))
	}
	return paths
}
