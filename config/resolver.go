package config

import (
	"log/slog"
	"time"
)

// DefaultTimeout applies to both connect and read in every environment.
const DefaultTimeout = 5000 * time.Millisecond

// Record is the configuration handed to the harness for a test run.
type Record struct {
	AppURL string `json:"appUrl"`
}

// ClientSettings holds the timeouts consumed by the harness HTTP client.
type ClientSettings struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultClientSettings returns settings with both timeouts at DefaultTimeout.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		ConnectTimeout: DefaultTimeout,
		ReadTimeout:    DefaultTimeout,
	}
}

// Resolver maps an environment selector to a Record.
type Resolver struct {
	table  *Table
	logger *slog.Logger
}

// NewResolver creates a resolver over table. A nil table means DefaultTable
// and a nil logger means slog.Default.
func NewResolver(table *Table, logger *slog.Logger) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		table:  table,
		logger: logger,
	}
}

// Table returns the lookup table the resolver uses.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve returns the Record for raw, treating an empty selector as
// DefaultEnvironment. When settings is non-nil both timeouts are written to it.
func (r *Resolver) Resolve(raw string, settings *ClientSettings) Record {
	env := raw
	if env == "" {
		env = DefaultEnvironment
	}

	appURL, known := r.table.Lookup(env)
	if !known {
		appURL = r.table.Default()
	}

	r.logger.Info("karate.env system property was",
		slog.String("raw", raw),
		slog.String("env", env),
		slog.Bool("known", known))

	record := Record{AppURL: appURL}

	if settings != nil {
		*settings = DefaultClientSettings()
	}

	return record
}
