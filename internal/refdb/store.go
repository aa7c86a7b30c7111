// Package refdb implements the Reference Database over database/sql. The
// schema, the embedded bootstrap dataset and every lookup query are shared
// by the SQLite and Postgres backends; only the driver and the placeholder
// dialect differ.
package refdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Store answers Reference Database lookups from an open *sql.DB. Results are
// cached per (kind, key, game); the cache is guarded by a RWMutex so lookups
// may run concurrently.
type Store struct {
	db      *sql.DB
	dialect Dialect
	metrics *metrics

	mu    sync.RWMutex
	cache map[cacheKey]any
}

type cacheKey struct {
	kind string
	key  string
	game types.Game
}

// NewStore wraps db. Call Seed before the first lookup on a fresh database.
func NewStore(db *sql.DB, d Dialect, reg prometheus.Registerer) *Store {
	return &Store{
		db:      db,
		dialect: d,
		metrics: newMetrics(reg),
		cache:   make(map[cacheKey]any),
	}
}

// Seed creates the schema and loads the embedded dataset into an empty
// database. It reports whether any data was loaded.
func (s *Store) Seed() (bool, error) {
	return seed(s.db, s.dialect, dataset)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func lookup[T any](s *Store, kind, key string, game types.Game, load func() (T, error)) (T, error) {
	ck := cacheKey{kind: kind, key: key, game: game}
	s.mu.RLock()
	v, ok := s.cache[ck]
	s.mu.RUnlock()
	if ok {
		s.metrics.observe(kind, resultHit)
		return v.(T), nil
	}

	out, err := load()
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			s.metrics.observe(kind, resultNotFound)
		} else {
			s.metrics.observe(kind, resultError)
		}
		return out, err
	}
	s.metrics.observe(kind, resultMiss)

	s.mu.Lock()
	s.cache[ck] = out
	s.mu.Unlock()
	return out, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: "+format, append([]any{types.ErrNotFound}, args...)...)
	}
	return fmt.Errorf("querying "+format+": %w", append(args, err)...)
}

// Species

const speciesColumns = `name, national_dex, generation, gen1_index, gen3_index, types,
    base_hp, base_attack, base_defense, base_speed, base_special, base_sp_attack,
    base_sp_defense, gender_rate, growth_rate, base_friendship, catch_rate, abilities`

// speciesIndexColumn returns the column holding the in-game species index.
func speciesIndexColumn(game types.Game) string {
	switch game.Platform() {
	case types.PlatformGen1:
		return "gen1_index"
	case types.PlatformGen3, types.PlatformGCN:
		return "gen3_index"
	default:
		return "national_dex"
	}
}

func (s *Store) Species(name string, game types.Game) (types.SpeciesEntry, error) {
	e, err := lookup(s, "species", name, game, func() (types.SpeciesEntry, error) {
		return s.querySpecies(game, "name = ?", name)
	})
	return cloneSpecies(e), err
}

func (s *Store) SpeciesByIndex(index int, game types.Game) (types.SpeciesEntry, error) {
	e, err := lookup(s, "species_index", strconv.Itoa(index), game, func() (types.SpeciesEntry, error) {
		return s.querySpecies(game, speciesIndexColumn(game)+" = ?", index)
	})
	return cloneSpecies(e), err
}

func (s *Store) SpeciesByNationalDex(number int, game types.Game) (types.SpeciesEntry, error) {
	e, err := lookup(s, "species_dex", strconv.Itoa(number), game, func() (types.SpeciesEntry, error) {
		return s.querySpecies(game, "national_dex = ?", number)
	})
	return cloneSpecies(e), err
}

func (s *Store) querySpecies(game types.Game, where string, arg any) (types.SpeciesEntry, error) {
	q := s.dialect.Rebind(fmt.Sprintf(
		"SELECT %s FROM species WHERE %s AND generation <= ?", speciesColumns, where))
	row := s.db.QueryRow(q, arg, game.Generation())

	var (
		e                          types.SpeciesEntry
		gen1, gen3                 sql.NullInt64
		typesJSON                  string
		abilities                  sql.NullString
		hp, atk, def, spd, special int
		spAtk, spDef               int
	)
	err := row.Scan(&e.Name, &e.NationalDex, &e.Generation, &gen1, &gen3, &typesJSON,
		&hp, &atk, &def, &spd, &special, &spAtk, &spDef,
		&e.GenderRate, &e.GrowthRate, &e.BaseFriendship, &e.CatchRate, &abilities)
	if err != nil {
		return types.SpeciesEntry{}, notFound(err, "species %v in %s", arg, game)
	}

	switch game.Platform() {
	case types.PlatformGen1:
		e.GameIndex = int(gen1.Int64)
	case types.PlatformGen3, types.PlatformGCN:
		e.GameIndex = int(gen3.Int64)
	default:
		e.GameIndex = e.NationalDex
	}
	if err := json.Unmarshal([]byte(typesJSON), &e.Types); err != nil {
		return types.SpeciesEntry{}, fmt.Errorf("decoding types of %s: %w", e.Name, err)
	}
	if game.Generation() >= 3 && abilities.Valid {
		if err := json.Unmarshal([]byte(abilities.String), &e.Abilities); err != nil {
			return types.SpeciesEntry{}, fmt.Errorf("decoding abilities of %s: %w", e.Name, err)
		}
	}
	e.BaseStats = map[string]int{
		types.StatHP:      hp,
		types.StatAttack:  atk,
		types.StatDefense: def,
		types.StatSpeed:   spd,
	}
	if game.Generation() == 1 {
		e.BaseStats[types.StatSpecial] = special
	} else {
		e.BaseStats[types.StatSpecialAttack] = spAtk
		e.BaseStats[types.StatSpecialDefense] = spDef
	}

	forms, err := s.db.Query(s.dialect.Rebind(
		"SELECT form FROM species_forms WHERE species = ? AND generation <= ? ORDER BY ordinal"),
		e.Name, game.Generation())
	if err != nil {
		return types.SpeciesEntry{}, fmt.Errorf("querying forms of %s: %w", e.Name, err)
	}
	defer forms.Close()
	for forms.Next() {
		var f string
		if err := forms.Scan(&f); err != nil {
			return types.SpeciesEntry{}, fmt.Errorf("scanning form of %s: %w", e.Name, err)
		}
		e.Forms = append(e.Forms, f)
	}
	return e, forms.Err()
}

func cloneSpecies(e types.SpeciesEntry) types.SpeciesEntry {
	e.Types = slices.Clone(e.Types)
	e.Abilities = slices.Clone(e.Abilities)
	e.Forms = slices.Clone(e.Forms)
	e.BaseStats = maps.Clone(e.BaseStats)
	return e
}

// Items

func platformIndexColumn(game types.Game) string {
	return game.Platform() + "_index"
}

// itemSelect selects items available in a game together with the bag pocket
// their category maps to. Arguments: version group, version group pattern,
// then any extra condition arguments.
func itemSelect(game types.Game, cond string) string {
	col := "i." + platformIndexColumn(game)
	return fmt.Sprintf(`SELECT i.name, i.generation, i.category, i.holdable, %s, COALESCE(pc.pocket, '')
FROM items i LEFT JOIN pocket_categories pc ON pc.version_group = ? AND pc.category = i.category
WHERE %s IS NOT NULL AND (i.version_groups IS NULL OR i.version_groups LIKE ?)%s
ORDER BY %s`, col, col, cond, col)
}

func versionGroupPattern(game types.Game) string {
	return `%"` + game.VersionGroup() + `"%`
}

func scanItem(sc interface{ Scan(...any) error }) (types.ItemEntry, error) {
	var e types.ItemEntry
	var holdable int
	if err := sc.Scan(&e.Name, &e.Generation, &e.Category, &holdable, &e.GameIndex, &e.Pocket); err != nil {
		return types.ItemEntry{}, err
	}
	e.Holdable = holdable != 0
	return e, nil
}

func (s *Store) Item(name string, game types.Game) (types.ItemEntry, error) {
	return lookup(s, "item", name, game, func() (types.ItemEntry, error) {
		q := s.dialect.Rebind(itemSelect(game, " AND i.name = ?"))
		e, err := scanItem(s.db.QueryRow(q, game.VersionGroup(), versionGroupPattern(game), name))
		if err != nil {
			return types.ItemEntry{}, notFound(err, "item %q in %s", name, game)
		}
		return e, nil
	})
}

func (s *Store) ItemByIndex(index int, game types.Game) (types.ItemEntry, error) {
	return lookup(s, "item_index", strconv.Itoa(index), game, func() (types.ItemEntry, error) {
		cond := " AND i." + platformIndexColumn(game) + " = ?"
		q := s.dialect.Rebind(itemSelect(game, cond))
		e, err := scanItem(s.db.QueryRow(q, game.VersionGroup(), versionGroupPattern(game), index))
		if err != nil {
			return types.ItemEntry{}, notFound(err, "item index %d in %s", index, game)
		}
		return e, nil
	})
}

// Pockets

func (s *Store) Pockets(game types.Game) ([]types.PocketEntry, error) {
	out, err := lookup(s, "pockets", "", game, func() ([]types.PocketEntry, error) {
		rows, err := s.db.Query(s.dialect.Rebind(
			"SELECT name, capacity, kind FROM pockets WHERE version_group = ? ORDER BY ordinal"),
			game.VersionGroup())
		if err != nil {
			return nil, fmt.Errorf("querying pockets of %s: %w", game, err)
		}
		defer rows.Close()
		var out []types.PocketEntry
		for rows.Next() {
			var p types.PocketEntry
			if err := rows.Scan(&p.Name, &p.Capacity, &p.Kind); err != nil {
				return nil, fmt.Errorf("scanning pocket: %w", err)
			}
			out = append(out, p)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: pockets of %s", types.ErrNotFound, game)
		}
		return out, nil
	})
	return slices.Clone(out), err
}

func (s *Store) PocketItems(pocket string, game types.Game) ([]types.ItemEntry, error) {
	out, err := lookup(s, "pocket_items", pocket, game, func() ([]types.ItemEntry, error) {
		var kind string
		err := s.db.QueryRow(s.dialect.Rebind(
			"SELECT kind FROM pockets WHERE version_group = ? AND name = ?"),
			game.VersionGroup(), pocket).Scan(&kind)
		if err != nil {
			return nil, notFound(err, "pocket %q in %s", pocket, game)
		}

		cond, args := "", []any{game.VersionGroup(), versionGroupPattern(game)}
		if kind != types.PocketPC {
			cond = " AND pc.pocket = ?"
			args = append(args, pocket)
		}
		rows, err := s.db.Query(s.dialect.Rebind(itemSelect(game, cond)), args...)
		if err != nil {
			return nil, fmt.Errorf("querying items of pocket %q: %w", pocket, err)
		}
		defer rows.Close()
		var out []types.ItemEntry
		for rows.Next() {
			e, err := scanItem(rows)
			if err != nil {
				return nil, fmt.Errorf("scanning item: %w", err)
			}
			out = append(out, e)
		}
		return out, rows.Err()
	})
	return slices.Clone(out), err
}

// Moves

func (s *Store) Move(name string, game types.Game) (types.MoveEntry, error) {
	return lookup(s, "move", name, game, func() (types.MoveEntry, error) {
		return s.queryMove(game, "name = ?", name)
	})
}

func (s *Store) MoveByID(id int, game types.Game) (types.MoveEntry, error) {
	return lookup(s, "move_id", strconv.Itoa(id), game, func() (types.MoveEntry, error) {
		return s.queryMove(game, "id = ?", id)
	})
}

func (s *Store) queryMove(game types.Game, where string, arg any) (types.MoveEntry, error) {
	var e types.MoveEntry
	q := s.dialect.Rebind("SELECT id, name, type, pp, power, generation FROM moves WHERE " + where + " AND generation <= ?")
	err := s.db.QueryRow(q, arg, game.Generation()).Scan(&e.ID, &e.Name, &e.Type, &e.PP, &e.Power, &e.Generation)
	if err != nil {
		return types.MoveEntry{}, notFound(err, "move %v in %s", arg, game)
	}
	return e, nil
}

// Locations

func (s *Store) Location(name string, game types.Game) (types.LocationEntry, error) {
	return lookup(s, "location", name, game, func() (types.LocationEntry, error) {
		return s.queryLocation(game, "name = ?", name)
	})
}

func (s *Store) LocationByIndex(index int, game types.Game) (types.LocationEntry, error) {
	return lookup(s, "location_index", strconv.Itoa(index), game, func() (types.LocationEntry, error) {
		return s.queryLocation(game, platformIndexColumn(game)+" = ?", index)
	})
}

func (s *Store) queryLocation(game types.Game, where string, arg any) (types.LocationEntry, error) {
	if game.Generation() < 2 {
		return types.LocationEntry{}, fmt.Errorf("%w: locations in %s", types.ErrNotFound, game)
	}
	col := platformIndexColumn(game)
	var e types.LocationEntry
	q := s.dialect.Rebind(fmt.Sprintf("SELECT name, %s FROM locations WHERE %s AND %s IS NOT NULL", col, where, col))
	if err := s.db.QueryRow(q, arg).Scan(&e.Name, &e.GameIndex); err != nil {
		return types.LocationEntry{}, notFound(err, "location %v in %s", arg, game)
	}
	return e, nil
}

// Level curves

func (s *Store) LevelCurve(growthRate string) ([]int, error) {
	out, err := lookup(s, "level_curve", growthRate, types.GameNone, func() ([]int, error) {
		rows, err := s.db.Query(s.dialect.Rebind(
			"SELECT level, experience FROM experience WHERE growth_rate = ? ORDER BY level"), growthRate)
		if err != nil {
			return nil, fmt.Errorf("querying level curve %q: %w", growthRate, err)
		}
		defer rows.Close()
		curve := make([]int, 101)
		n := 0
		for rows.Next() {
			var level, exp int
			if err := rows.Scan(&level, &exp); err != nil {
				return nil, fmt.Errorf("scanning level curve: %w", err)
			}
			if level >= 1 && level <= 100 {
				curve[level] = exp
				n++
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if n != 100 {
			return nil, fmt.Errorf("%w: level curve %q", types.ErrNotFound, growthRate)
		}
		return curve, nil
	})
	return slices.Clone(out), err
}
