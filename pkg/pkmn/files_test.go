package pkmn

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func TestFileExt(t *testing.T) {
	tests := []struct {
		game types.Game
		want string
	}{
		{types.GameYellow, ExtPK1},
		{types.GameSilver, ExtPK2},
		{types.GameLeafGreen, ExtGen3},
		{types.GameXD, ExtGen3},
	}
	for _, tt := range tests {
		got, err := FileExt(tt.game)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.game.String())
	}
	_, err := FileExt(types.GameDiamond)
	assert.ErrorIs(t, err, types.ErrUnsupported)
}

func TestPokemonFileRoundTrip(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		game     types.Game
		ext      string
		loadedAs types.Game
	}{
		{types.GameBlue, ExtPK1, types.GameRed},
		{types.GameGold, ExtPK2, types.GameCrystal},
		{types.GameFireRed, ExtGen3, types.GameFireRed},
		{types.GameSapphire, ExtGen3, types.GameSapphire},
		{types.GameColosseum, ExtGen3, types.GameEmerald},
	}
	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			p := mustPokemon(t, db, "Pikachu", tt.game, 33)
			require.NoError(t, p.SetNickname("VOLT"))
			require.NoError(t, p.SetOriginalTrainerName("RED"))
			require.NoError(t, p.SetMove(0, "Thunder"))

			path := filepath.Join(t.TempDir(), "pikachu"+tt.ext)
			require.NoError(t, p.ExportToFile(path))

			got, err := LoadPokemon(db, path)
			require.NoError(t, err)
			assert.Equal(t, tt.loadedAs, got.Game())
			assert.Equal(t, "Pikachu", got.Species())
			assert.Equal(t, "VOLT", got.Nickname())
			assert.Equal(t, "RED", got.OriginalTrainerName())
			assert.Equal(t, 33, got.Level())
			assert.Equal(t, p.Experience(), got.Experience())
			assert.Equal(t, "Thunder", got.Moves()[0].Move)
			assert.Equal(t, p.IVs(), got.IVs())
			if tt.game.Generation() == 3 {
				assert.Equal(t, p.Personality(), got.Personality())
			}
		})
	}
}

func TestPokemonFileKeepsEggFlag(t *testing.T) {
	db := openDB(t)
	egg := mustPokemon(t, db, "Togepi", types.GameCrystal, 5)
	require.NoError(t, egg.SetIsEgg(true))

	ext, data, err := egg.FileBytes()
	require.NoError(t, err)
	assert.Equal(t, ExtPK2, ext)
	got, err := DecodePokemonFile(db, ext, data)
	require.NoError(t, err)
	assert.True(t, got.IsEgg())
	assert.Equal(t, "Togepi", got.Species())
}

func TestPokemonFileErrors(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()

	p := mustPokemon(t, db, "Pikachu", types.GameRed, 10)
	assert.ErrorIs(t, p.ExportToFile(filepath.Join(dir, "pikachu.pk2")), types.ErrInvalidValue)

	none := mustNone(t, db, types.GameRed)
	_, _, err := none.FileBytes()
	assert.ErrorIs(t, err, types.ErrInvalidValue)

	d := mustPokemon(t, db, "Turtwig", types.GameDiamond, 5)
	_, _, err = d.FileBytes()
	assert.ErrorIs(t, err, types.ErrUnsupported)

	_, err = DecodePokemonFile(db, ".pk1", []byte{1, 2, 3})
	assert.ErrorIs(t, err, types.ErrInvalidPokemonFile)
	_, err = DecodePokemonFile(db, ".3gpkm", make([]byte, 10))
	assert.ErrorIs(t, err, types.ErrInvalidPokemonFile)
	_, err = DecodePokemonFile(db, ".pkm", make([]byte, 100))
	assert.ErrorIs(t, err, types.ErrInvalidValue)

	_, err = LoadPokemon(db, filepath.Join(dir, "missing.pk1"))
	assert.Error(t, err)
}
