package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func TestNew(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
	_, err = New("mysql")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	for _, name := range []string{types.BackendSQLite, types.BackendPostgres} {
		b, err := New(name)
		require.NoError(t, err)
		_, err = b.Species("Pikachu", types.GameRed)
		assert.ErrorIs(t, err, types.ErrDatabaseDetached)
	}
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(types.Config{Backend: types.BackendSQLite})
	require.NoError(t, err)
	defer db.Detach()

	e, err := db.Species("Pikachu", types.GameYellow)
	require.NoError(t, err)
	assert.Equal(t, 25, e.NationalDex)
	assert.Equal(t, 84, e.GameIndex)

	require.NoError(t, db.Attach(types.Config{Backend: types.BackendSQLite}), "attach is idempotent")
	require.NoError(t, db.Detach())
	require.NoError(t, db.Detach(), "detach is idempotent")
	_, err = db.Species("Pikachu", types.GameYellow)
	assert.ErrorIs(t, err, types.ErrDatabaseDetached)
}

func TestOpenValidates(t *testing.T) {
	_, err := Open(types.Config{Backend: types.BackendPostgres})
	assert.ErrorIs(t, err, types.ErrDSNRequired)
}
