package pkmn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/database"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// openDB attaches an in-memory Reference Database for one test.
func openDB(t *testing.T) types.Database {
	t.Helper()
	db, err := database.Open(types.Config{Backend: types.BackendSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { db.Detach() })
	return db
}

func mustPokemon(t *testing.T, db types.Database, species string, game types.Game, level int) *Pokemon {
	t.Helper()
	p, err := NewPokemon(db, species, game, "", level)
	require.NoError(t, err)
	return p
}
