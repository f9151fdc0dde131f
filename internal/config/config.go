package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/host"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig
	Host     HostConfig
	Logging  LoggingConfig
	Editor   EditorConfig
}

// DatabaseConfig locates the local SQLite database.
type DatabaseConfig struct {
	Path string
}

// HostConfig points at the host bridge. An empty URL means the local
// catalog serves images and presets.
type HostConfig struct {
	URL         string
	Token       string
	Environment host.Environment
	Timeout     time.Duration
	MaxAttempts int
}

// Remote reports whether a host bridge is configured.
func (h HostConfig) Remote() bool {
	return h.URL != ""
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// EditorConfig tunes new editing sessions.
type EditorConfig struct {
	Context      model.EditContext
	HistoryLimit int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join("~", ".local", "share", "honcho", "honcho.db"))
	v.SetDefault("host.url", "")
	v.SetDefault("host.token", "")
	v.SetDefault("host.environment", string(host.EnvWeb))
	v.SetDefault("host.timeout", 30*time.Second)
	v.SetDefault("host.retry.max_attempts", 3)
	v.SetDefault("editor.context", string(model.ContextDesktop))
	v.SetDefault("editor.history_limit", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	env, err := host.ParseEnvironment(v.GetString("host.environment"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Host: HostConfig{
			URL:         strings.TrimSpace(v.GetString("host.url")),
			Token:       v.GetString("host.token"),
			Environment: env,
			Timeout:     v.GetDuration("host.timeout"),
			MaxAttempts: v.GetInt("host.retry.max_attempts"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Editor: EditorConfig{
			Context:      model.EditContext(strings.ToLower(v.GetString("editor.context"))),
			HistoryLimit: v.GetInt("editor.history_limit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if !c.Editor.Context.Valid() {
		return fmt.Errorf("%w: editor.context %q (want desktop, bulk or mobile)", common.ErrInvalidConfig, c.Editor.Context)
	}
	if c.Editor.HistoryLimit < 0 {
		return fmt.Errorf("%w: editor.history_limit must not be negative", common.ErrInvalidConfig)
	}
	if c.Host.MaxAttempts < 1 {
		return fmt.Errorf("%w: host.retry.max_attempts must be at least 1", common.ErrInvalidConfig)
	}
	if c.Host.Environment == host.EnvNative && !c.Host.Remote() {
		return fmt.Errorf("%w: host.url is required when host.environment is native", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q (want console or json)", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
