// Package config loads sente.toml into the supervisor configuration.
// Everything has a working default: with no config file at all the
// built-in worker trio is supervised relative to the current directory.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mkweon/sente/internal/logger"
	"github.com/mkweon/sente/internal/worker"
)

// Config is the resolved supervisor configuration.
type Config struct {
	BaseDir       string
	Interpreter   string // required on start; its absence is fatal
	Engine        string // soft dependency; its absence is a warning
	Settle        time.Duration
	Grace         time.Duration
	TailLines     int
	Listen        string // watch-mode HTTP address; empty disables it
	WatchInterval time.Duration
	Env           []string // global K=V overrides for all workers
	Workers       []worker.Spec
	Log           logger.Config
	History       HistoryConfig
}

// HistoryConfig selects the local event store and optional export
// sinks, all as DSNs understood by history/factory.
type HistoryConfig struct {
	Store string
	Sinks []string
}

// FileConfig mirrors the top-level TOML structure.
type FileConfig struct {
	BaseDir       string         `toml:"base_dir" mapstructure:"base_dir"`
	Interpreter   string         `toml:"interpreter" mapstructure:"interpreter"`
	Engine        string         `toml:"engine" mapstructure:"engine"`
	Settle        time.Duration  `toml:"settle" mapstructure:"settle"`
	Grace         time.Duration  `toml:"grace" mapstructure:"grace"`
	TailLines     int            `toml:"tail_lines" mapstructure:"tail_lines"`
	Listen        string         `toml:"listen" mapstructure:"listen"`
	WatchInterval time.Duration  `toml:"watch_interval" mapstructure:"watch_interval"`
	Env           []string       `toml:"env" mapstructure:"env"`
	Log           *LogConfig     `toml:"log" mapstructure:"log"`
	History       *HistoryEntry  `toml:"history" mapstructure:"history"`
	Workers       []WorkerConfig `toml:"workers" mapstructure:"workers"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Format     string `toml:"format" mapstructure:"format"`
	Color      bool   `toml:"color" mapstructure:"color"`
	TimeStamps bool   `toml:"timestamps" mapstructure:"timestamps"`
	Source     bool   `toml:"source" mapstructure:"source"`
	Dir        string `toml:"dir" mapstructure:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

type HistoryEntry struct {
	Store string   `toml:"store" mapstructure:"store"`
	Sinks []string `toml:"sinks" mapstructure:"sinks"`
}

type WorkerConfig struct {
	Name    string   `toml:"name" mapstructure:"name"`
	Command string   `toml:"command" mapstructure:"command"`
	WorkDir string   `toml:"workdir" mapstructure:"workdir"`
	Env     []string `toml:"env" mapstructure:"env"`
	LogPath string   `toml:"log_path" mapstructure:"log_path"`
	PIDFile string   `toml:"pidfile" mapstructure:"pidfile"`
}

// Default returns the zero-config setup: the built-in worker trio under
// the current directory, python3 as the interpreter, katago as the soft
// engine dependency, 2s settle and grace, 30s watch sampling and the
// event store next to the pid files.
func Default() Config {
	base := "."
	return Config{
		BaseDir:       base,
		Interpreter:   "python3",
		Engine:        "katago",
		Settle:        2 * time.Second,
		Grace:         2 * time.Second,
		TailLines:     5,
		WatchInterval: 30 * time.Second,
		Workers:       worker.Defaults(base, "python3"),
		Log:           logger.DefaultConfig(),
		History:       HistoryConfig{Store: filepath.Join(base, "sente.db")},
	}
}

// Load reads a TOML config file and applies it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.BaseDir != "" {
		cfg.BaseDir = fc.BaseDir
	}
	if fc.Interpreter != "" {
		cfg.Interpreter = fc.Interpreter
	}
	if fc.Engine != "" {
		cfg.Engine = fc.Engine
	}
	if fc.Settle > 0 {
		cfg.Settle = fc.Settle
	}
	if fc.Grace > 0 {
		cfg.Grace = fc.Grace
	}
	if fc.TailLines > 0 {
		cfg.TailLines = fc.TailLines
	}
	if fc.Listen != "" {
		cfg.Listen = fc.Listen
	}
	if fc.WatchInterval > 0 {
		cfg.WatchInterval = fc.WatchInterval
	}
	cfg.Env = fc.Env

	if fc.Log != nil {
		cfg.Log = logger.Config{
			Slog: logger.SlogConfig{
				Level:      logger.Level(fc.Log.Level),
				Format:     logger.Format(fc.Log.Format),
				Color:      fc.Log.Color,
				TimeStamps: fc.Log.TimeStamps,
				Source:     fc.Log.Source,
			},
			File: logger.FileConfig{
				Dir:        fc.Log.Dir,
				MaxSizeMB:  fc.Log.MaxSizeMB,
				MaxBackups: fc.Log.MaxBackups,
				MaxAgeDays: fc.Log.MaxAgeDays,
				Compress:   fc.Log.Compress,
			},
		}
	}
	if fc.History != nil {
		cfg.History = HistoryConfig{Store: fc.History.Store, Sinks: fc.History.Sinks}
	} else {
		cfg.History.Store = filepath.Join(cfg.BaseDir, "sente.db")
	}

	// The worker list replaces the built-in trio when present;
	// otherwise the trio follows the configured base dir and
	// interpreter.
	if len(fc.Workers) > 0 {
		specs := make([]worker.Spec, 0, len(fc.Workers))
		for _, wc := range fc.Workers {
			s := worker.Spec{
				Name:    wc.Name,
				Command: wc.Command,
				WorkDir: wc.WorkDir,
				Env:     wc.Env,
				LogPath: wc.LogPath,
				PIDFile: wc.PIDFile,
			}
			s.Normalize(cfg.BaseDir)
			if err := s.Validate(); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
			specs = append(specs, s)
		}
		cfg.Workers = specs
	} else {
		cfg.Workers = worker.Defaults(cfg.BaseDir, cfg.Interpreter)
	}
	return cfg, nil
}
