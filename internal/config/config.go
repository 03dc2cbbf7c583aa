// Package config layers launcher settings: defaults, an optional
// wwlauncher.yaml, WWLAUNCHER_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WWLAUNCHER"
	// FileName is the config file name without extension.
	FileName = "wwlauncher"
)

// Keys.
const (
	KeyDryRun        = "dry_run"
	KeyLaunchOptions = "launch_options"
	KeyProxyLaunch   = "proxy_launch"
	KeyWatch         = "watch"
	KeyDataRoot      = "data_root"
	KeyGameDir       = "game_dir"
	KeyServerRoot    = "server_root"
	KeyStartInterval = "poll.start_interval"
	KeyExitInterval  = "poll.exit_interval"
	KeyLogLevel      = "log.level"
	KeyLogConsole    = "log.console"
)

// flagKeys maps command flag names to config keys.
var flagKeys = map[string]string{
	"dry-run":        KeyDryRun,
	"launch-options": KeyLaunchOptions,
	"proxy":          KeyProxyLaunch,
	"watch":          KeyWatch,
	"data-root":      KeyDataRoot,
	"game-dir":       KeyGameDir,
	"server-root":    KeyServerRoot,
	"log-level":      KeyLogLevel,
}

// Config is the resolved launcher configuration.
type Config struct {
	DryRun        bool
	LaunchOptions []string
	ProxyLaunch   bool
	Watch         bool
	DataRoot      string
	GameDir       string
	ServerRoot    string
	Poll          PollConfig
	Log           LogConfig
	// File is the config file that was read, empty if none.
	File string
}

// PollConfig holds the process watcher intervals.
type PollConfig struct {
	StartInterval time.Duration
	ExitInterval  time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string
	Console bool
}

// Options selects where the config file is looked up.
type Options struct {
	// File is an explicit config file; SearchDirs is ignored when set.
	File       string
	SearchDirs []string
}

// New returns a viper instance with defaults and environment binding.
func New(opts Options) *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyLaunchOptions, []string{})
	v.SetDefault(KeyProxyLaunch, false)
	v.SetDefault(KeyWatch, true)
	v.SetDefault(KeyDataRoot, "")
	v.SetDefault(KeyGameDir, "")
	v.SetDefault(KeyServerRoot, "")
	v.SetDefault(KeyStartInterval, 1*time.Second)
	v.SetDefault(KeyExitInterval, 3*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogConsole, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		for _, dir := range opts.SearchDirs {
			v.AddConfigPath(dir)
		}
	}
	return v
}

// BindFlags binds every known flag present in flags to its config key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and resolves all keys.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if opts.File != "" || len(opts.SearchDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		DryRun:        v.GetBool(KeyDryRun),
		LaunchOptions: v.GetStringSlice(KeyLaunchOptions),
		ProxyLaunch:   v.GetBool(KeyProxyLaunch),
		Watch:         v.GetBool(KeyWatch),
		DataRoot:      v.GetString(KeyDataRoot),
		GameDir:       v.GetString(KeyGameDir),
		ServerRoot:    v.GetString(KeyServerRoot),
		Poll: PollConfig{
			StartInterval: v.GetDuration(KeyStartInterval),
			ExitInterval:  v.GetDuration(KeyExitInterval),
		},
		Log: LogConfig{
			Level:   v.GetString(KeyLogLevel),
			Console: v.GetBool(KeyLogConsole),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Poll.StartInterval <= 0 || cfg.Poll.ExitInterval <= 0 {
		return nil, fmt.Errorf("poll intervals must be positive (start %s, exit %s)",
			cfg.Poll.StartInterval, cfg.Poll.ExitInterval)
	}
	return cfg, nil
}

// ResolveDataRoot returns the client data root: the data_root override or
// <documents>/My Games/Rising Storm 2/ROGame.
func (c *Config) ResolveDataRoot(documentsDir func() (string, error)) (string, error) {
	if c.DataRoot != "" {
		return c.DataRoot, nil
	}
	docs, err := documentsDir()
	if err != nil {
		if domain.IsDataRootNotFound(err) {
			return "", err
		}
		return "", domain.NewError(domain.KindDataRootNotFound, "user documents directory not found", err)
	}
	if docs == "" {
		return "", domain.NewError(domain.KindDataRootNotFound, "user documents directory not found", nil)
	}
	return catalog.ClientDataRoot(docs), nil
}

// ResolveServerRoot returns the server_root override or the fallback.
func (c *Config) ResolveServerRoot(fallback func() (string, error)) (string, error) {
	if c.ServerRoot != "" {
		return c.ServerRoot, nil
	}
	return fallback()
}
