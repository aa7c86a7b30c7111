// Package postgres implements the Postgres Reference Database backend using
// the pgx database/sql driver. Schema and dataset are shared with the SQLite
// backend.
package postgres

import (
	"database/sql"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/mesh-intelligence/pkmn/internal/refdb"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

const driverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen replaces the function used to open connections and returns
// a restore func. Intended for tests.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

type driver struct{}

func (driver) Name() string { return types.BackendPostgres }

func (driver) Dialect() refdb.Dialect { return refdb.DialectPostgres }

func (driver) Open(config types.Config) (*sql.DB, error) {
	openMu.Lock()
	defer openMu.Unlock()
	return sqlOpen(driverName, config.DSN)
}

// NewBackend creates a new Postgres backend instance.
// The backend is not attached; call Attach with a Config carrying a DSN.
func NewBackend() *refdb.Backend {
	return refdb.NewBackend(driver{})
}
