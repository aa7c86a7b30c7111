package pkmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func TestItemBagPockets(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		game types.Game
		want []string
	}{
		{types.GameRed, []string{"Items"}},
		{types.GameCrystal, []string{"Items", "KeyItems", "Balls", "TM/HM"}},
		{types.GameEmerald, []string{"Items", "Key Items", "Poké Balls", "TMs & HMs", "Berries"}},
		{types.GameLeafGreen, []string{"Items", "Key Items", "Poké Balls", "TM Case", "Berry Pouch"}},
		{types.GameXD, []string{"Items", "Key Items", "Poké Balls", "TMs", "Berries", "Colognes", "Battle CDs"}},
	}
	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			b, err := NewItemBag(db, tt.game)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.PocketNames())
			assert.Len(t, b.Pockets(), len(tt.want))
		})
	}
}

func TestItemBagRoutesItems(t *testing.T) {
	b, err := NewItemBag(openDB(t), types.GameCrystal)
	require.NoError(t, err)

	require.NoError(t, b.Add("Great Ball", 5))
	require.NoError(t, b.Add("Bicycle", 1))
	require.NoError(t, b.Add("Potion", 3))
	require.NoError(t, b.Add("TM01", 1))

	for pocket, item := range map[string]string{
		"Balls": "Great Ball", "KeyItems": "Bicycle", "Items": "Potion",
	} {
		p, err := b.Pocket(pocket)
		require.NoError(t, err)
		s, err := p.At(0)
		require.NoError(t, err)
		assert.Equal(t, item, s.Item, pocket)
	}
	tms, err := b.Pocket("TM/HM")
	require.NoError(t, err)
	assert.Equal(t, 1, tms.NumItems())

	require.NoError(t, b.Remove("Great Ball", 5))
	balls, _ := b.Pocket("Balls")
	assert.Equal(t, 0, balls.NumItems())

	assert.ErrorIs(t, b.Add("Oran Berry", 1), types.ErrInvalidValue)
	_, err = b.Pocket("Berries")
	assert.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestItemPC(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		game     types.Game
		capacity int
	}{
		{types.GameBlue, 50},
		{types.GameSilver, 50},
		{types.GameSapphire, 50},
		{types.GameFireRed, 30},
		{types.GameColosseum, 235},
	}
	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			pc, err := NewItemPC(db, tt.game)
			require.NoError(t, err)
			assert.Equal(t, tt.capacity, pc.Capacity())
			assert.Equal(t, types.PocketPC, pc.Kind())
		})
	}

	pc, err := NewItemPC(db, types.GameEmerald)
	require.NoError(t, err)
	require.NoError(t, pc.Add("Great Ball", 10), "the PC holds every kind of item")
	require.NoError(t, pc.Add("Oran Berry", 10))
	assert.Equal(t, 2, pc.NumItems())
}
