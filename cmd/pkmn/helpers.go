package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pkmn/internal/blob"
	"github.com/mesh-intelligence/pkmn/internal/paths"
	"github.com/mesh-intelligence/pkmn/pkg/database"
	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// databaseConfig builds the backend configuration from flags, config.yaml
// and the environment.
func (a *app) databaseConfig() (types.Config, error) {
	cfg := types.Config{
		Backend:    a.v.GetString(cfgKeyBackend),
		DSN:        a.v.GetString(cfgKeyDSN),
		Logger:     a.logger,
		Registerer: a.registry,
	}
	if cfg.Backend == types.BackendSQLite {
		path, err := paths.ResolveDatabasePath(a.flags.database, a.v.GetString(cfgKeyDatabasePath))
		if err != nil {
			return cfg, systemErr(fmt.Errorf("resolve database path: %w", err))
		}
		cfg.DatabasePath = path
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// attachBackend opens the configured Reference Database. The caller must
// Detach it.
func (a *app) attachBackend() (types.Backend, error) {
	cfg, err := a.databaseConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, systemErr(fmt.Errorf("attach database: %w", err))
	}
	return db, nil
}

// withSave attaches the database, loads the save at uri and hands both to fn.
func (a *app) withSave(ctx context.Context, uri string, fn func(types.Database, *pkmn.GameSave) error) error {
	db, err := a.attachBackend()
	if err != nil {
		return err
	}
	defer db.Detach()

	data, err := blob.Read(ctx, uri)
	if err != nil {
		return err
	}
	g, err := pkmn.ParseGameSave(db, data)
	if err != nil {
		return fmt.Errorf("%s: %w", uri, err)
	}
	a.logger.Debug("save loaded", "uri", uri, "save_type", g.SaveType().String(), "bytes", len(data))
	return fn(db, g)
}

// writeBlob stores data at uri. Local write failures are system errors.
func (a *app) writeBlob(ctx context.Context, uri string, data []byte) error {
	if err := blob.Write(ctx, uri, data); err != nil {
		return systemErr(fmt.Errorf("write %s: %w", uri, err))
	}
	a.logger.Debug("blob written", "uri", uri, "bytes", len(data))
	return nil
}

// scratchPath returns a fresh file name with extension ext in the scratch
// directory.
func (a *app) scratchPath(ext string) (string, error) {
	dir, err := paths.ResolveScratchDir(a.v.GetString(cfgKeyTmpDir))
	if err != nil {
		return "", systemErr(fmt.Errorf("resolve scratch dir: %w", err))
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", systemErr(fmt.Errorf("generate file name: %w", err))
	}
	return filepath.Join(dir, id.String()+ext), nil
}

// output writes v as indented JSON in --json mode and calls human otherwise.
func (a *app) output(v any, human func(w io.Writer)) error {
	if !a.flags.jsonMode {
		human(a.stdout)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}
