package tui

import (
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Session  *editor.Session
	Width    int
	Height   int
	Record   bool
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Width:    80,
		Height:   24,
		ShowHelp: true,
	}
}

// WithSession sets the session the editor drives.
func WithSession(session *editor.Session) Option {
	return func(c *Config) {
		c.Session = session
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithRecording writes every frame to a temp directory for debugging.
func WithRecording(enabled bool) Option {
	return func(c *Config) {
		c.Record = enabled
	}
}

// WithHelp toggles the short help line under the status bar.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
