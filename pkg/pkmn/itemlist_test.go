package pkmn

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func mustItemList(t *testing.T, db types.Database, name string, game types.Game) *ItemList {
	t.Helper()
	l, err := NewItemList(db, name, game)
	require.NoError(t, err)
	return l
}

// assertContiguous checks that occupied slots form a prefix.
func assertContiguous(t *testing.T, l *ItemList) {
	t.Helper()
	n := l.NumItems()
	for i, s := range l.Slots() {
		if i < n {
			assert.NotEqual(t, types.ItemNone, s.Item, "slot %d", i)
		} else {
			assert.Equal(t, emptyItemSlot, s, "slot %d", i)
		}
	}
}

func TestGen1ItemListScenario(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameRed)
	assert.Equal(t, 20, l.Capacity())
	assert.Equal(t, 0, l.NumItems())

	require.NoError(t, l.Add("Potion", 50))
	require.NoError(t, l.Add("Great Ball", 1))
	require.NoError(t, l.Set(0, types.ItemNone, 0))

	assert.Equal(t, 1, l.NumItems())
	s0, err := l.At(0)
	require.NoError(t, err)
	assert.Equal(t, ItemSlot{Item: "Great Ball", Quantity: 1}, s0)
	s1, err := l.At(1)
	require.NoError(t, err)
	assert.Equal(t, emptyItemSlot, s1)
}

func TestItemListAddMerges(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameYellow)

	require.NoError(t, l.Add("Potion", 50))
	require.NoError(t, l.Add("Potion", 49))
	assert.Equal(t, 1, l.NumItems())
	s, _ := l.At(0)
	assert.Equal(t, 99, s.Quantity)

	assert.ErrorIs(t, l.Add("Potion", 1), types.ErrOutOfRange)
	s, _ = l.At(0)
	assert.Equal(t, 99, s.Quantity)

	assert.ErrorIs(t, l.Add("Repel", 0), types.ErrOutOfRange)
	assert.ErrorIs(t, l.Add("Repel", 100), types.ErrOutOfRange)
	assert.ErrorIs(t, l.Add("Leftovers", 1), types.ErrInvalidValue, "gen II item in gen I")
	assert.Equal(t, 1, l.NumItems())
}

func TestItemListRemoveCompacts(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameEmerald)
	for _, item := range []string{"Potion", "Antidote", "Repel"} {
		require.NoError(t, l.Add(item, 5))
	}

	require.NoError(t, l.Remove("Antidote", 2))
	s, _ := l.At(1)
	assert.Equal(t, ItemSlot{Item: "Antidote", Quantity: 3}, s)

	require.NoError(t, l.Remove("Antidote", 3))
	assert.Equal(t, 2, l.NumItems())
	s, _ = l.At(1)
	assert.Equal(t, "Repel", s.Item)
	assertContiguous(t, l)

	assert.ErrorIs(t, l.Remove("Antidote", 1), types.ErrInvalidValue)
	assert.ErrorIs(t, l.Remove("Repel", 6), types.ErrOutOfRange)
	assert.ErrorIs(t, l.Remove(types.ItemNone, 1), types.ErrInvalidValue)
}

func TestItemListMove(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameFireRed)
	for _, item := range []string{"Potion", "Antidote", "Repel"} {
		require.NoError(t, l.Add(item, 1))
	}

	require.NoError(t, l.Move(0, 2))
	names := func() []string {
		var out []string
		for _, s := range l.Slots()[:3] {
			out = append(out, s.Item)
		}
		return out
	}
	assert.Equal(t, []string{"Antidote", "Repel", "Potion"}, names())

	require.NoError(t, l.Move(2, 0))
	assert.Equal(t, []string{"Potion", "Antidote", "Repel"}, names())

	assert.ErrorIs(t, l.Move(0, 3), types.ErrOutOfRange)
	assertContiguous(t, l)
}

func TestItemListSet(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameCrystal)

	assert.ErrorIs(t, l.Set(1, "Potion", 1), types.ErrOutOfRange, "past the first empty slot")
	require.NoError(t, l.Set(0, "Potion", 5))
	require.NoError(t, l.Set(1, "Repel", 2))
	assert.ErrorIs(t, l.Set(2, "Potion", 1), types.ErrInvalidValue, "duplicate")
	require.NoError(t, l.Set(0, "Potion", 9))
	assert.ErrorIs(t, l.Set(20, "Potion", 1), types.ErrOutOfRange)
	assert.ErrorIs(t, l.Set(2, "Great Ball", 1), types.ErrInvalidValue, "balls have their own pocket")

	s, _ := l.At(0)
	assert.Equal(t, ItemSlot{Item: "Potion", Quantity: 9}, s)
	assertContiguous(t, l)
}

func TestItemListFull(t *testing.T) {
	l := mustItemList(t, openDB(t), "Items", types.GameRed)
	valid := l.ValidItemNames()
	require.Greater(t, len(valid), l.Capacity())

	for _, item := range valid[:l.Capacity()] {
		require.NoError(t, l.Add(item, 1))
	}
	assert.ErrorIs(t, l.Add(valid[l.Capacity()], 1), types.ErrPocketFull)
	assert.ErrorIs(t, l.Add(valid[l.Capacity()], 1), types.ErrOutOfRange)
	require.NoError(t, l.Add(valid[0], 1), "merging into a full pocket")
	assert.Equal(t, l.Capacity(), l.NumItems())
}

func TestGen2KeyItems(t *testing.T) {
	l := mustItemList(t, openDB(t), "KeyItems", types.GameGold)
	assert.Equal(t, types.PocketKey, l.Kind())

	assert.ErrorIs(t, l.Add("Bicycle", 2), types.ErrOutOfRange)
	require.NoError(t, l.Add("Bicycle", 1))
	assert.ErrorIs(t, l.Add("Bicycle", 1), types.ErrInvalidValue)
	assert.ErrorIs(t, l.Add("Potion", 1), types.ErrInvalidValue)
	assert.Equal(t, 1, l.NumItems())
}

// Gen II key items are stored as a count followed by item indices, so the
// pocket has no slot positions to leave empty.
func TestGen2KeyItemsArePacked(t *testing.T) {
	db := openDB(t)
	l := mustItemList(t, db, "KeyItems", types.GameCrystal)

	assert.ErrorIs(t, l.Set(5, "Bicycle", 1), types.ErrOutOfRange)
	assert.Equal(t, 0, l.NumItems())
	require.NoError(t, l.Set(0, "Bicycle", 1))
	require.NoError(t, l.Set(1, "Itemfinder", 1))
	require.NoError(t, l.Set(0, types.ItemNone, 0))
	s, err := l.At(0)
	require.NoError(t, err)
	assert.Equal(t, ItemSlot{Item: "Itemfinder", Quantity: 1}, s)
	assertContiguous(t, l)

	g := mustGameSave(t, db, types.SaveTypeCrystal)
	keys, err := g.ItemBag().Pocket("KeyItems")
	require.NoError(t, err)
	require.NoError(t, keys.Add("Bicycle", 1))
	require.NoError(t, keys.Add("Itemfinder", 1))
	require.NoError(t, keys.Remove("Bicycle", 1))

	keys, err = reparse(t, g).ItemBag().Pocket("KeyItems")
	require.NoError(t, err)
	assert.Equal(t, []ItemSlot{{Item: "Itemfinder", Quantity: 1}, emptyItemSlot}, keys.Slots()[:2])
}

func TestGen2TMPocketIsFixed(t *testing.T) {
	l := mustItemList(t, openDB(t), "TM/HM", types.GameCrystal)
	assert.Equal(t, types.PocketFixed, l.Kind())
	assert.Equal(t, 57, l.Capacity())

	valid := l.ValidItemNames()
	hm := slices.Index(valid, "HM01")
	require.Positive(t, hm)

	require.NoError(t, l.Add("HM01", 1))
	s, err := l.At(hm)
	require.NoError(t, err)
	assert.Equal(t, ItemSlot{Item: "HM01", Quantity: 1}, s)
	s, _ = l.At(0)
	assert.Equal(t, emptyItemSlot, s, "fixed pockets leave gaps")

	assert.ErrorIs(t, l.Set(0, "HM01", 1), types.ErrInvalidValue)
	require.NoError(t, l.Set(0, valid[0], 3))
	assert.ErrorIs(t, l.Move(0, hm), types.ErrUnsupported)

	require.NoError(t, l.Remove(valid[0], 3))
	s, _ = l.At(hm)
	assert.Equal(t, "HM01", s.Item, "removal does not shift fixed slots")
}

func TestNewItemListErrors(t *testing.T) {
	db := openDB(t)
	_, err := NewItemList(db, "KeyItems", types.GameRed)
	assert.ErrorIs(t, err, types.ErrInvalidValue)
	_, err = NewItemList(db, "Items", types.GameNone)
	assert.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestItemListStoreLoad(t *testing.T) {
	db := openDB(t)
	l := mustItemList(t, db, "Poké Balls", types.GameEmerald)
	require.NoError(t, l.Add("Premier Ball", 4))
	require.NoError(t, l.Add("Great Ball", 7))

	stored := l.store()
	assert.Equal(t, 12, stored[0].Index)
	assert.Equal(t, 4, stored[0].Quantity)

	m := mustItemList(t, db, "Poké Balls", types.GameEmerald)
	require.NoError(t, m.load(stored))
	assert.Equal(t, l.Slots(), m.Slots())

	stored[2].Index, stored[2].Quantity = 9999, 1
	assert.ErrorIs(t, mustItemList(t, db, "Poké Balls", types.GameEmerald).load(stored), types.ErrInvalidValue)
}
