package refdb

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func newTestStore(t *testing.T, reg prometheus.Registerer) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	s := NewStore(db, DialectSQLite, reg)
	seeded, err := s.Seed()
	require.NoError(t, err)
	require.True(t, seeded)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t, nil)
	seeded, err := s.Seed()
	require.NoError(t, err)
	assert.False(t, seeded, "populated database must not be seeded twice")

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM experience").Scan(&n))
	assert.Equal(t, 600, n)
}

func TestSpecies(t *testing.T) {
	s := newTestStore(t, nil)

	t.Run("gen I uses internal index and Special", func(t *testing.T) {
		e, err := s.Species("Bulbasaur", types.GameRed)
		require.NoError(t, err)
		assert.Equal(t, 153, e.GameIndex)
		assert.Equal(t, 1, e.NationalDex)
		assert.Equal(t, 65, e.BaseStats[types.StatSpecial])
		assert.NotContains(t, e.BaseStats, types.StatSpecialAttack)
		assert.Empty(t, e.Abilities)
		assert.Equal(t, []string{"Grass", "Poison"}, e.Types)
		assert.Equal(t, []string{"Standard"}, e.Forms)
		assert.Equal(t, types.GrowthMediumSlow, e.GrowthRate)
	})

	t.Run("gen III has abilities and split specials", func(t *testing.T) {
		e, err := s.Species("Bulbasaur", types.GameEmerald)
		require.NoError(t, err)
		assert.Equal(t, 1, e.GameIndex)
		assert.Equal(t, []string{"Overgrow"}, e.Abilities)
		assert.Equal(t, 65, e.BaseStats[types.StatSpecialAttack])
		assert.Equal(t, 65, e.BaseStats[types.StatSpecialDefense])
	})

	t.Run("later species are unavailable", func(t *testing.T) {
		_, err := s.Species("Treecko", types.GameCrystal)
		assert.ErrorIs(t, err, types.ErrNotFound)
		e, err := s.Species("Treecko", types.GameXD)
		require.NoError(t, err)
		assert.Equal(t, 277, e.GameIndex)
	})

	t.Run("Unown forms grow with generation", func(t *testing.T) {
		e, err := s.Species("Unown", types.GameGold)
		require.NoError(t, err)
		assert.Len(t, e.Forms, 26)
		e, err = s.Species("Unown", types.GameRuby)
		require.NoError(t, err)
		assert.Len(t, e.Forms, 28)
		assert.Equal(t, "?", e.Forms[27])
		assert.True(t, e.Genderless())
	})

	t.Run("lookup by index", func(t *testing.T) {
		e, err := s.SpeciesByIndex(153, types.GameBlue)
		require.NoError(t, err)
		assert.Equal(t, "Bulbasaur", e.Name)

		e, err = s.SpeciesByIndex(283, types.GameSapphire)
		require.NoError(t, err)
		assert.Equal(t, "Mudkip", e.Name)

		e, err = s.SpeciesByIndex(158, types.GameSilver)
		require.NoError(t, err)
		assert.Equal(t, "Totodile", e.Name)

		_, err = s.SpeciesByNationalDex(252, types.GameGold)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("returned entries are copies", func(t *testing.T) {
		e, err := s.Species("Pikachu", types.GameRed)
		require.NoError(t, err)
		e.Types[0] = "Fire"
		e.BaseStats[types.StatHP] = 1
		again, err := s.Species("Pikachu", types.GameRed)
		require.NoError(t, err)
		assert.Equal(t, "Electric", again.Types[0])
		assert.Equal(t, 35, again.BaseStats[types.StatHP])
	})
}

func TestItems(t *testing.T) {
	s := newTestStore(t, nil)

	tests := []struct {
		name   string
		item   string
		game   types.Game
		index  int
		pocket string
	}{
		{"gen I potion", "Potion", types.GameRed, 20, "Items"},
		{"gen II potion", "Potion", types.GameGold, 18, "Items"},
		{"gen II ball", "Great Ball", types.GameCrystal, 4, "Balls"},
		{"gen II TM", "TM05", types.GameGold, 196, "TM/HM"},
		{"gen II key item", "Squirtbottle", types.GameSilver, 175, "KeyItems"},
		{"emerald potion", "Potion", types.GameEmerald, 13, "Items"},
		{"FRLG TM", "TM01", types.GameFireRed, 289, "TM Case"},
		{"FRLG berry", "Oran Berry", types.GameLeafGreen, 139, "Berry Pouch"},
		{"XD battle CD", "Battle CD 01", types.GameXD, 536, "Battle CDs"},
		{"platinum potion", "Potion", types.GamePlatinum, 17, "Medicine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := s.Item(tt.item, tt.game)
			require.NoError(t, err)
			assert.Equal(t, tt.index, e.GameIndex)
			assert.Equal(t, tt.pocket, e.Pocket)

			byIndex, err := s.ItemByIndex(tt.index, tt.game)
			require.NoError(t, err)
			assert.Equal(t, tt.item, byIndex.Name)
		})
	}

	t.Run("version group restrictions", func(t *testing.T) {
		_, err := s.Item("Magma Emblem", types.GameRuby)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.Item("Magma Emblem", types.GameEmerald)
		assert.NoError(t, err)
		_, err = s.Item("GS Ball", types.GameGold)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.Item("Battle CD 01", types.GameColosseum)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("platform availability", func(t *testing.T) {
		_, err := s.Item("Leftovers", types.GameRed)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.Item("Premier Ball", types.GameGold)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.ItemByIndex(195, types.GameGold)
		assert.ErrorIs(t, err, types.ErrNotFound)
		e, err := s.Item("Leftovers", types.GameGold)
		require.NoError(t, err)
		assert.True(t, e.Holdable)
	})
}

func TestPockets(t *testing.T) {
	s := newTestStore(t, nil)

	pockets, err := s.Pockets(types.GameEmerald)
	require.NoError(t, err)
	require.Len(t, pockets, 6)
	assert.Equal(t, types.PocketEntry{Name: "Items", Capacity: 30, Kind: types.PocketStandard}, pockets[0])
	assert.Equal(t, "PC", pockets[5].Name)
	assert.Equal(t, types.PocketPC, pockets[5].Kind)

	pockets, err = s.Pockets(types.GameCrystal)
	require.NoError(t, err)
	assert.Equal(t, types.PocketKey, pockets[1].Kind)
	assert.Equal(t, types.PocketFixed, pockets[3].Kind)

	tmhm, err := s.PocketItems("TM/HM", types.GameGold)
	require.NoError(t, err)
	require.Len(t, tmhm, 57)
	assert.Equal(t, "TM01", tmhm[0].Name)
	assert.Equal(t, "HM07", tmhm[56].Name)

	keys, err := s.PocketItems("KeyItems", types.GameCrystal)
	require.NoError(t, err)
	assert.Contains(t, itemNames(keys), "GS Ball")
	keys, err = s.PocketItems("KeyItems", types.GameGold)
	require.NoError(t, err)
	assert.NotContains(t, itemNames(keys), "GS Ball")

	pc, err := s.PocketItems("PC", types.GameRed)
	require.NoError(t, err)
	assert.Contains(t, itemNames(pc), "Potion")
	assert.Contains(t, itemNames(pc), "TM01")

	_, err = s.PocketItems("Berries", types.GameRed)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func itemNames(items []types.ItemEntry) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Name
	}
	return out
}

func TestMovesAndLocations(t *testing.T) {
	s := newTestStore(t, nil)

	m, err := s.MoveByID(33, types.GameRed)
	require.NoError(t, err)
	assert.Equal(t, "Tackle", m.Name)
	_, err = s.Move("Crunch", types.GameBlue)
	assert.ErrorIs(t, err, types.ErrNotFound)
	m, err = s.Move("Crunch", types.GameGold)
	require.NoError(t, err)
	assert.Equal(t, 242, m.ID)

	loc, err := s.Location("Route 29", types.GameGold)
	require.NoError(t, err)
	assert.Equal(t, 2, loc.GameIndex)
	_, err = s.Location("Route 29", types.GameRed)
	assert.ErrorIs(t, err, types.ErrNotFound)
	loc, err = s.LocationByIndex(255, types.GameEmerald)
	require.NoError(t, err)
	assert.Equal(t, "Fateful encounter", loc.Name)
	loc, err = s.LocationByIndex(0, types.GameColosseum)
	require.NoError(t, err)
	assert.Equal(t, "Distant land", loc.Name)
}

func TestLevelCurve(t *testing.T) {
	s := newTestStore(t, nil)
	curve, err := s.LevelCurve(types.GrowthMediumFast)
	require.NoError(t, err)
	require.Len(t, curve, 101)
	assert.Equal(t, 0, curve[1])
	assert.Equal(t, 8, curve[2])
	assert.Equal(t, 1000000, curve[100])

	_, err = s.LevelCurve("instant")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLookupMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestStore(t, reg)

	_, err := s.Species("Mew", types.GameRed)
	require.NoError(t, err)
	_, err = s.Species("Mew", types.GameRed)
	require.NoError(t, err)
	_, err = s.Species("Lugia", types.GameRed)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.lookups.WithLabelValues("species", resultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.lookups.WithLabelValues("species", resultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.lookups.WithLabelValues("species", resultNotFound)))

	// A second store on the same registry reuses the registered counter.
	other := NewStore(s.db, DialectSQLite, reg)
	assert.Same(t, s.metrics.lookups, other.metrics.lookups)
}

func TestConcurrentLookups(t *testing.T) {
	s := newTestStore(t, nil)
	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Species("Eevee", types.GameYellow)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.Item("Rare Candy", types.GameCrystal)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestDialectRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ?"
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t, "SELECT a FROM t WHERE b = $1 AND c = $2", DialectPostgres.Rebind(q))
}
