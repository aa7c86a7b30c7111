package types

// Database is the read-only Reference Database the engine consults for
// species, items, moves, locations, pockets and level curves. Lookups for a
// game only return entries available in that game; anything else is
// ErrNotFound. Implementations are safe for concurrent lookups.
type Database interface {
	// Species returns the species entry as it exists in game.
	Species(name string, game Game) (SpeciesEntry, error)

	// SpeciesByIndex resolves the in-game species index stored in save data.
	SpeciesByIndex(index int, game Game) (SpeciesEntry, error)

	// SpeciesByNationalDex resolves a national Pokédex number.
	SpeciesByNationalDex(number int, game Game) (SpeciesEntry, error)

	// Item returns the item entry as it exists in game.
	Item(name string, game Game) (ItemEntry, error)

	// ItemByIndex resolves the in-game item index stored in save data.
	ItemByIndex(index int, game Game) (ItemEntry, error)

	Move(name string, game Game) (MoveEntry, error)
	MoveByID(id int, game Game) (MoveEntry, error)

	Location(name string, game Game) (LocationEntry, error)
	LocationByIndex(index int, game Game) (LocationEntry, error)

	// Pockets returns the pocket layout of the game's item bag in display
	// order, followed by the PC pocket.
	Pockets(game Game) ([]PocketEntry, error)

	// PocketItems returns the allow-list of a pocket ordered by game index.
	PocketItems(pocket string, game Game) ([]ItemEntry, error)

	// LevelCurve returns the experience threshold for levels 0 through 100
	// of a growth rate. Index 0 and 1 are both zero.
	LevelCurve(growthRate string) ([]int, error)
}

// Backend is a Database whose connection lifecycle is controlled by the caller.
type Backend interface {
	Database

	// Attach opens the backing store described by config, creating and
	// seeding it on first use. Attaching an attached backend is a no-op.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, lookups return ErrDatabaseDetached.
	Detach() error
}

// SpeciesEntry is a species as seen by one game.
type SpeciesEntry struct {
	Name           string         `json:"name"`
	NationalDex    int            `json:"national_dex"`
	Generation     int            `json:"generation"`
	GameIndex      int            `json:"game_index"`
	Types          []string       `json:"types"`
	BaseStats      map[string]int `json:"base_stats"`
	GenderRate     int            `json:"gender_rate"`
	GrowthRate     string         `json:"growth_rate"`
	BaseFriendship int            `json:"base_friendship"`
	CatchRate      int            `json:"catch_rate"`
	Abilities      []string       `json:"abilities,omitempty"`
	Forms          []string       `json:"forms"`
}

// Genderless reports whether the species has no gender.
func (s SpeciesEntry) Genderless() bool {
	return s.GenderRate < 0
}

// DefaultForm returns the first form available in the game.
func (s SpeciesEntry) DefaultForm() string {
	if len(s.Forms) == 0 {
		return "Standard"
	}
	return s.Forms[0]
}

// HasForm reports whether form is valid for the species in the game.
func (s SpeciesEntry) HasForm(form string) bool {
	for _, f := range s.Forms {
		if f == form {
			return true
		}
	}
	return false
}

// HasAbility reports whether ability belongs to the species.
func (s SpeciesEntry) HasAbility(ability string) bool {
	for _, a := range s.Abilities {
		if a == ability {
			return true
		}
	}
	return false
}

// ItemEntry is an item as seen by one game.
type ItemEntry struct {
	Name       string `json:"name"`
	Generation int    `json:"generation"`
	GameIndex  int    `json:"game_index"`
	Pocket     string `json:"pocket"`
	Category   string `json:"category"`
	Holdable   bool   `json:"holdable"`
}

// MoveEntry is a move as seen by one game.
type MoveEntry struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Generation int    `json:"generation"`
	Type       string `json:"type"`
	PP         int    `json:"pp"`
	Power      int    `json:"power"`
}

// LocationEntry is a location as seen by one game.
type LocationEntry struct {
	Name      string `json:"name"`
	GameIndex int    `json:"game_index"`
}

// PocketEntry describes one pocket of a game's item storage.
type PocketEntry struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Kind     string `json:"kind"`
}

// Pocket kinds.
const (
	PocketStandard = "standard"
	PocketKey      = "key"
	PocketFixed    = "fixed"
	PocketPC       = "pc"
)

// Growth rates.
const (
	GrowthFast        = "fast"
	GrowthMediumFast  = "medium-fast"
	GrowthMediumSlow  = "medium-slow"
	GrowthSlow        = "slow"
	GrowthErratic     = "erratic"
	GrowthFluctuating = "fluctuating"
)
