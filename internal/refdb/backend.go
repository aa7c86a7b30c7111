package refdb

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Driver opens the *sql.DB a Backend attaches to.
type Driver interface {
	// Name is the backend name reported in logs.
	Name() string
	Dialect() Dialect
	Open(config types.Config) (*sql.DB, error)
}

// Backend implements types.Backend for any Driver. The attach state and the
// store are guarded by a RWMutex: lookups take the read lock, Attach and
// Detach take the write lock.
type Backend struct {
	driver Driver

	mu       sync.RWMutex
	attached bool
	config   types.Config
	store    *Store
}

var _ types.Backend = (*Backend)(nil)

// NewBackend creates a detached backend; call Attach to open it.
func NewBackend(driver Driver) *Backend {
	return &Backend{driver: driver}
}

// Attach opens the database described by config, creating the schema and
// seeding the bootstrap dataset on first use. Attaching an attached backend
// is a no-op.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return nil
	}
	if err := config.Validate(); err != nil {
		return err
	}

	log := config.Log().With("backend", b.driver.Name())
	db, err := b.driver.Open(config)
	if err != nil {
		return fmt.Errorf("open %s: %w", b.driver.Name(), err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping %s: %w", b.driver.Name(), err)
	}

	store := NewStore(db, b.driver.Dialect(), config.Registerer)
	seeded, err := store.Seed()
	if err != nil {
		db.Close()
		return fmt.Errorf("seed %s: %w", b.driver.Name(), err)
	}
	if seeded {
		log.Info("seeded reference database")
	}
	log.Debug("attached reference database", "path", config.DatabasePath)

	b.store = store
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.store.Close()
	b.config.Log().Debug("detached reference database", "backend", b.driver.Name())
	b.store = nil
	b.attached = false
	return err
}

// withStore runs fn under the read lock, or returns ErrDatabaseDetached.
func withStore[T any](b *Backend, fn func(*Store) (T, error)) (T, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		var zero T
		return zero, types.ErrDatabaseDetached
	}
	return fn(b.store)
}

func (b *Backend) Species(name string, game types.Game) (types.SpeciesEntry, error) {
	return withStore(b, func(s *Store) (types.SpeciesEntry, error) { return s.Species(name, game) })
}

func (b *Backend) SpeciesByIndex(index int, game types.Game) (types.SpeciesEntry, error) {
	return withStore(b, func(s *Store) (types.SpeciesEntry, error) { return s.SpeciesByIndex(index, game) })
}

func (b *Backend) SpeciesByNationalDex(number int, game types.Game) (types.SpeciesEntry, error) {
	return withStore(b, func(s *Store) (types.SpeciesEntry, error) { return s.SpeciesByNationalDex(number, game) })
}

func (b *Backend) Item(name string, game types.Game) (types.ItemEntry, error) {
	return withStore(b, func(s *Store) (types.ItemEntry, error) { return s.Item(name, game) })
}

func (b *Backend) ItemByIndex(index int, game types.Game) (types.ItemEntry, error) {
	return withStore(b, func(s *Store) (types.ItemEntry, error) { return s.ItemByIndex(index, game) })
}

func (b *Backend) Move(name string, game types.Game) (types.MoveEntry, error) {
	return withStore(b, func(s *Store) (types.MoveEntry, error) { return s.Move(name, game) })
}

func (b *Backend) MoveByID(id int, game types.Game) (types.MoveEntry, error) {
	return withStore(b, func(s *Store) (types.MoveEntry, error) { return s.MoveByID(id, game) })
}

func (b *Backend) Location(name string, game types.Game) (types.LocationEntry, error) {
	return withStore(b, func(s *Store) (types.LocationEntry, error) { return s.Location(name, game) })
}

func (b *Backend) LocationByIndex(index int, game types.Game) (types.LocationEntry, error) {
	return withStore(b, func(s *Store) (types.LocationEntry, error) { return s.LocationByIndex(index, game) })
}

func (b *Backend) Pockets(game types.Game) ([]types.PocketEntry, error) {
	return withStore(b, func(s *Store) ([]types.PocketEntry, error) { return s.Pockets(game) })
}

func (b *Backend) PocketItems(pocket string, game types.Game) ([]types.ItemEntry, error) {
	return withStore(b, func(s *Store) ([]types.ItemEntry, error) { return s.PocketItems(pocket, game) })
}

func (b *Backend) LevelCurve(growthRate string) ([]int, error) {
	return withStore(b, func(s *Store) ([]int, error) { return s.LevelCurve(growthRate) })
}
