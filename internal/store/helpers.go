package store

import (
	"log/slog"
	"strings"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Opts holds configuration options for store implementations.
type Opts struct {
	DSN string // data source name for the database
}

// Option defines a configuration option for store implementations.
type Option func(*Opts)

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType returns the database/sql driver name for a DSN: "postgres"
// for PostgreSQL URLs and keyword DSNs, "sqlite3" for everything else.
func DetectDSNType(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	if strings.Contains(lower, "host=") || strings.Contains(lower, "dbname=") {
		return DriverPostgres
	}
	return DriverSQLite
}

// sqlitePath strips the file: scheme and query parameters from a SQLite DSN.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// Open returns the store selected by the DSN: PostgreSQL or SQLite by
// DetectDSNType, or an in-memory store when no DSN is configured.
func Open(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.DSN == "":
		slog.Warn("store.Open: no DSN configured, using in-memory store")
		return NewInMemoryStore(), nil
	case DetectDSNType(cfg.DSN) == DriverPostgres:
		s, err := NewPostgresStore(opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := NewSQLiteStore(opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
