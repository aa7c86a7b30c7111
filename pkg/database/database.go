// Package database provides the public factory for Reference Database
// backends while keeping their implementations internal.
package database

import (
	"github.com/mesh-intelligence/pkmn/internal/postgres"
	"github.com/mesh-intelligence/pkmn/internal/sqlite"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// New returns a detached backend for the named backend.
// Returns ErrBackendEmpty or ErrBackendUnknown for bad names.
func New(backend string) (types.Backend, error) {
	switch backend {
	case "":
		return nil, types.ErrBackendEmpty
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendPostgres:
		return postgres.NewBackend(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open creates the backend selected by config and attaches it.
//
// Example:
//
//	db, err := database.Open(types.Config{Backend: types.BackendSQLite})
//	if err != nil {
//	    return err
//	}
//	defer db.Detach()
func Open(config types.Config) (types.Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	b, err := New(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
