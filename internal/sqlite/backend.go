// Package sqlite implements the SQLite Reference Database backend.
// The database lives in Config.DatabasePath, or in memory when the path is
// empty; a fresh database is seeded with the bootstrap dataset on attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pkmn/internal/refdb"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

const memoryDSN = ":memory:"

type driver struct{}

func (driver) Name() string { return types.BackendSQLite }

func (driver) Dialect() refdb.Dialect { return refdb.DialectSQLite }

func (driver) Open(config types.Config) (*sql.DB, error) {
	dsn := memoryDSN
	if config.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.DatabasePath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = config.DatabasePath
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == memoryDSN {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *refdb.Backend {
	return refdb.NewBackend(driver{})
}
