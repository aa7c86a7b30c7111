package types

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend      string `json:"backend" yaml:"backend"`
	DatabasePath string `json:"database_path" yaml:"database_path"`
	DSN          string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// Logger receives attach, seed and detach events. Nil means slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`

	// Registerer receives the lookup counters. Nil disables registration.
	Registerer prometheus.Registerer `json:"-" yaml:"-"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDSNRequired    = errors.New("postgres backend requires a DSN")
)

var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNRequired
	}
	return nil
}

// Log returns the configured logger or the process default.
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
