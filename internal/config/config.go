// Package config loads Stacked's settings from an optional YAML file with
// STACKED_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "stacked.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Backup  BackupConfig  `yaml:"backup"`
	Notify  NotifyConfig  `yaml:"notify"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SecureCookies   bool          `yaml:"secure_cookies"`
	SessionLifetime time.Duration `yaml:"session_lifetime"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // local | relational
	Path        string `yaml:"path"`
	UserID      string `yaml:"user_id"`
	SeedSamples bool   `yaml:"seed_samples"`
}

type BackupConfig struct {
	Dir      string `yaml:"dir"`
	Schedule string `yaml:"schedule"` // cron spec; empty disables scheduled backups
	Keep     int    `yaml:"keep"`
}

type NotifyConfig struct {
	URLs []string `yaml:"urls"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SessionLifetime: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:     "local",
			Path:        "stacked.db",
			UserID:      "local",
			SeedSamples: true,
		},
		Backup: BackupConfig{
			Dir:  "backups",
			Keep: 14,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads config from a YAML file on top of the defaults, then applies
// environment variable overrides:
//
//	STACKED_ADDR, STACKED_SECURE_COOKIES, STACKED_SESSION_LIFETIME,
//	STACKED_STORAGE_BACKEND, STACKED_DB_PATH, STACKED_USER_ID, STACKED_SEED_SAMPLES,
//	STACKED_BACKUP_DIR, STACKED_BACKUP_SCHEDULE, STACKED_BACKUP_KEEP,
//	STACKED_NOTIFY_URLS (comma separated), STACKED_LOG_LEVEL, STACKED_LOG_FORMAT
//
// A missing file at DefaultPath is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STACKED_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STACKED_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.SecureCookies = b
		}
	}
	if v := os.Getenv("STACKED_SESSION_LIFETIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.SessionLifetime = d
		}
	}
	if v := os.Getenv("STACKED_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("STACKED_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("STACKED_USER_ID"); v != "" {
		cfg.Storage.UserID = v
	}
	if v := os.Getenv("STACKED_SEED_SAMPLES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.SeedSamples = b
		}
	}
	if v := os.Getenv("STACKED_BACKUP_DIR"); v != "" {
		cfg.Backup.Dir = v
	}
	if v, ok := os.LookupEnv("STACKED_BACKUP_SCHEDULE"); ok {
		cfg.Backup.Schedule = v
	}
	if v := os.Getenv("STACKED_BACKUP_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backup.Keep = n
		}
	}
	if v := os.Getenv("STACKED_NOTIFY_URLS"); v != "" {
		cfg.Notify.URLs = nil
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.Notify.URLs = append(cfg.Notify.URLs, u)
			}
		}
	}
	if v := os.Getenv("STACKED_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STACKED_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.SessionLifetime <= 0 {
		return fmt.Errorf("server.session_lifetime must be positive")
	}
	switch c.Storage.Backend {
	case "local", "relational":
	default:
		return fmt.Errorf("storage.backend must be local or relational, got %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Storage.Backend == "relational" && c.Storage.UserID == "" {
		return fmt.Errorf("storage.user_id is required for the relational backend")
	}
	if c.Backup.Schedule != "" {
		if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
			return fmt.Errorf("backup.schedule: %w", err)
		}
		if c.Backup.Dir == "" {
			return fmt.Errorf("backup.dir is required when backup.schedule is set")
		}
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// NewLogger builds the structured logger described by the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
