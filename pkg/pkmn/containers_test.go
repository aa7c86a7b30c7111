package pkmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func mustNone(t *testing.T, db types.Database, game types.Game) *Pokemon {
	t.Helper()
	p, err := NewPokemon(db, types.SpeciesNone, game, "", 0)
	require.NoError(t, err)
	return p
}

func speciesOf(l []*Pokemon) []string {
	out := make([]string, len(l))
	for i, p := range l {
		out[i] = p.Species()
	}
	return out
}

func TestGen1PartyStaysContiguous(t *testing.T) {
	db := openDB(t)
	party, err := NewParty(db, types.GameRed)
	require.NoError(t, err)
	assert.Equal(t, PartySize, party.Len())

	pikachu := mustPokemon(t, db, "Pikachu", types.GameRed, 5)
	assert.ErrorIs(t, party.Set(1, pikachu), types.ErrOutOfRange)

	for i, species := range []string{"Pikachu", "Bulbasaur", "Charmander"} {
		require.NoError(t, party.Set(i, mustPokemon(t, db, species, types.GameRed, 5)))
	}
	require.NoError(t, party.Set(0, mustNone(t, db, types.GameRed)))

	none := types.SpeciesNone
	assert.Equal(t, []string{"Bulbasaur", "Charmander", none, none, none, none}, speciesOf(party.Pokemon()))
	assert.Equal(t, 2, party.NumPokemon())

	assert.ErrorIs(t, party.Set(3, mustNone(t, db, types.GameRed)), types.ErrOutOfRange)
	require.NoError(t, party.Set(2, mustNone(t, db, types.GameRed)), "clearing the first empty slot")
	assert.Equal(t, 2, party.NumPokemon())
}

func TestPartyIsPackedInEveryGeneration(t *testing.T) {
	db := openDB(t)
	for _, game := range []types.Game{types.GameEmerald, types.GameXD} {
		t.Run(game.String(), func(t *testing.T) {
			party, err := NewParty(db, game)
			require.NoError(t, err)

			assert.ErrorIs(t, party.Set(3, mustPokemon(t, db, "Torchic", game, 5)), types.ErrOutOfRange)
			assert.Equal(t, 0, party.NumPokemon())

			for i, species := range []string{"Torchic", "Mudkip", "Treecko"} {
				require.NoError(t, party.Set(i, mustPokemon(t, db, species, game, 5)))
			}
			require.NoError(t, party.Set(1, mustNone(t, db, game)))
			none := types.SpeciesNone
			assert.Equal(t, []string{"Torchic", "Treecko", none, none, none, none}, speciesOf(party.Pokemon()))
		})
	}
}

func TestGen3BoxAllowsGaps(t *testing.T) {
	db := openDB(t)
	box, err := NewBox(db, types.GameEmerald)
	require.NoError(t, err)

	require.NoError(t, box.Set(3, mustPokemon(t, db, "Torchic", types.GameEmerald, 5)))
	assert.Equal(t, 1, box.NumPokemon())
	p, err := box.Get(0)
	require.NoError(t, err)
	assert.True(t, p.IsNone())
	p, err = box.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Torchic", p.Species())

	require.NoError(t, box.Set(3, mustNone(t, db, types.GameEmerald)))
	assert.Equal(t, 0, box.NumPokemon())

	red, err := NewBox(db, types.GameRed)
	require.NoError(t, err)
	assert.ErrorIs(t, red.Set(3, mustPokemon(t, db, "Pikachu", types.GameRed, 5)), types.ErrOutOfRange)
}

func TestPartySetConverts(t *testing.T) {
	db := openDB(t)
	party, err := NewParty(db, types.GameCrystal)
	require.NoError(t, err)

	src := mustPokemon(t, db, "Pikachu", types.GameRed, 12)
	require.NoError(t, party.Set(0, src))
	p, err := party.Get(0)
	require.NoError(t, err)
	assert.Equal(t, types.GameCrystal, p.Game())
	assert.Equal(t, types.GameRed, src.Game())
	assert.NotSame(t, src, p)

	require.NoError(t, p.SetNickname("CHU"))
	assert.Equal(t, "PIKACHU", src.Nickname(), "the party holds a copy")

	emerald := mustPokemon(t, db, "Torchic", types.GameEmerald, 5)
	assert.ErrorIs(t, party.Set(0, emerald), types.ErrIncompatibleGame)
	p, _ = party.Get(0)
	assert.Equal(t, "Pikachu", p.Species(), "failed assignment leaves the slot unchanged")

	assert.ErrorIs(t, party.Set(6, src), types.ErrOutOfRange)
	assert.ErrorIs(t, party.Set(-1, src), types.ErrOutOfRange)
	assert.ErrorIs(t, party.Set(1, nil), types.ErrInvalidValue)
	_, err = party.Get(6)
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	red, err := NewParty(db, types.GameRed)
	require.NoError(t, err)
	assert.ErrorIs(t, red.Set(0, mustPokemon(t, db, "Chikorita", types.GameGold, 5)), types.ErrInvalidValue)
	assert.Equal(t, 0, red.NumPokemon())
}

func TestPCShapes(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		game           types.Game
		numBoxes, size int
		firstName      string
		lastName       string
	}{
		{types.GameRed, 12, 20, "", ""},
		{types.GameCrystal, 14, 20, "BOX1", "BOX14"},
		{types.GameEmerald, 14, 30, "BOX 1", "BOX 14"},
		{types.GameColosseum, 3, 30, "BOX 1", "BOX 3"},
		{types.GameXD, 8, 30, "BOX 1", "BOX 8"},
		{types.GameDiamond, 18, 30, "Box 1", "Box 18"},
	}
	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			pc, err := NewPC(db, tt.game)
			require.NoError(t, err)
			assert.Equal(t, tt.numBoxes, pc.NumBoxes())
			names := pc.BoxNames()
			assert.Equal(t, tt.firstName, names[0])
			assert.Equal(t, tt.lastName, names[len(names)-1])

			b, err := pc.Box(0)
			require.NoError(t, err)
			assert.Equal(t, tt.size, b.Len())
			_, err = pc.Box(tt.numBoxes)
			assert.ErrorIs(t, err, types.ErrOutOfRange)
		})
	}
}

func TestBoxNames(t *testing.T) {
	db := openDB(t)

	red, err := NewPC(db, types.GameRed)
	require.NoError(t, err)
	b, _ := red.Box(0)
	assert.ErrorIs(t, b.SetName("MINE"), types.ErrUnsupported)

	crystal, err := NewPC(db, types.GameCrystal)
	require.NoError(t, err)
	b, _ = crystal.Box(2)
	require.NoError(t, b.SetName("KEEPERS"))
	assert.Equal(t, "KEEPERS", crystal.BoxNames()[2])
	assert.ErrorIs(t, b.SetName("TOOLONGNAME"), types.ErrInvalidValue)
	assert.ErrorIs(t, b.SetName(""), types.ErrInvalidValue)
	assert.Equal(t, "KEEPERS", b.Name())

	box, err := NewBox(db, types.GameEmerald)
	require.NoError(t, err)
	assert.Equal(t, "", box.Name())
	assert.Equal(t, 30, box.Len())
}

func TestBoxSetInGen2IsContiguous(t *testing.T) {
	db := openDB(t)
	box, err := NewBox(db, types.GameGold)
	require.NoError(t, err)

	assert.ErrorIs(t, box.Set(5, mustPokemon(t, db, "Pikachu", types.GameGold, 5)), types.ErrOutOfRange)
	require.NoError(t, box.Set(0, mustPokemon(t, db, "Pikachu", types.GameSilver, 5)))
	p, _ := box.Get(0)
	assert.Equal(t, types.GameGold, p.Game())
}
