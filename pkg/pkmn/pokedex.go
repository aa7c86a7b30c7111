package pkmn

import (
	"fmt"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Pokedex tracks which species a game has seen and caught, by national
// dex number. Caught implies seen.
type Pokedex struct {
	db     types.Database
	game   types.Game
	seen   []bool
	caught []bool
}

// NewPokedex creates an empty Pokédex. GameCube games have none.
func NewPokedex(db types.Database, game types.Game) (*Pokedex, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	if game.IsGameCube() {
		return nil, fmt.Errorf("%w: %s has no Pokédex", types.ErrUnsupported, game)
	}
	n := game.NumSpecies()
	return &Pokedex{db: db, game: game, seen: make([]bool, n), caught: make([]bool, n)}, nil
}

func (d *Pokedex) Game() types.Game { return d.game }

func (d *Pokedex) number(species string) (int, error) {
	e, err := d.db.Species(species, d.game)
	if err != nil {
		return 0, invalid(err, "species %s in %s", species, d.game)
	}
	if e.NationalDex < 1 || e.NationalDex > len(d.seen) {
		return 0, fmt.Errorf("%w: %s is outside the %s Pokédex", types.ErrInvalidValue, species, d.game)
	}
	return e.NationalDex, nil
}

// HasSeen reports whether species is marked seen. Unknown species read false.
func (d *Pokedex) HasSeen(species string) bool {
	n, err := d.number(species)
	return err == nil && d.seen[n-1]
}

func (d *Pokedex) HasCaught(species string) bool {
	n, err := d.number(species)
	return err == nil && d.caught[n-1]
}

// SetHasSeen marks species seen. Clearing seen also clears caught.
func (d *Pokedex) SetHasSeen(species string, seen bool) error {
	n, err := d.number(species)
	if err != nil {
		return err
	}
	d.seen[n-1] = seen
	if !seen {
		d.caught[n-1] = false
	}
	return nil
}

// SetHasCaught marks species caught. Setting caught also sets seen.
func (d *Pokedex) SetHasCaught(species string, caught bool) error {
	n, err := d.number(species)
	if err != nil {
		return err
	}
	d.caught[n-1] = caught
	if caught {
		d.seen[n-1] = true
	}
	return nil
}

// AllSeen returns the seen species known to the Reference Database, in
// national dex order.
func (d *Pokedex) AllSeen() []string {
	return d.names(d.seen)
}

func (d *Pokedex) AllCaught() []string {
	return d.names(d.caught)
}

// NumSeen counts seen entries, including species the Reference Database
// does not name.
func (d *Pokedex) NumSeen() int   { return count(d.seen) }
func (d *Pokedex) NumCaught() int { return count(d.caught) }

func count(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}

func (d *Pokedex) names(bits []bool) []string {
	var out []string
	for i, b := range bits {
		if !b {
			continue
		}
		if e, err := d.db.SpeciesByNationalDex(i+1, d.game); err == nil {
			out = append(out, e.Name)
		}
	}
	return out
}

func (d *Pokedex) load(seen, caught []bool) {
	copy(d.seen, seen)
	copy(d.caught, caught)
}
