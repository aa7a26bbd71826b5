package types

import (
	"log/slog"

	"github.com/lepinkainen/framewise/config"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Config  *config.Config

	// Logger writes to stderr for batch commands. The review command builds
	// its own from Config because the TUI owns the terminal.
	Logger *slog.Logger
}

// VersionOrDefault returns the version, tolerating a nil context
func (c *AppContext) VersionOrDefault() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

// ConfigOrDefault returns the loaded configuration or the built-in defaults
func (c *AppContext) ConfigOrDefault() *config.Config {
	if c == nil || c.Config == nil {
		return config.Default()
	}
	return c.Config
}

// LoggerOrDiscard returns the logger or one that drops every record
func (c *AppContext) LoggerOrDiscard() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
