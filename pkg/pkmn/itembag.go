package pkmn

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// ItemBag is a game's bag: one ItemList per pocket, excluding the PC.
type ItemBag struct {
	db      types.Database
	game    types.Game
	pockets []*ItemList
}

// NewItemBag creates an empty bag with the pocket layout of game.
func NewItemBag(db types.Database, game types.Game) (*ItemBag, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	entries, err := db.Pockets(game)
	if err != nil {
		return nil, invalid(err, "pockets of %s", game)
	}
	b := &ItemBag{db: db, game: game}
	for _, e := range entries {
		if e.Kind == types.PocketPC {
			continue
		}
		l, err := newItemList(db, game, e)
		if err != nil {
			return nil, err
		}
		b.pockets = append(b.pockets, l)
	}
	return b, nil
}

// NewItemPC creates the empty PC item storage of game.
func NewItemPC(db types.Database, game types.Game) (*ItemList, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	entries, err := db.Pockets(game)
	if err != nil {
		return nil, invalid(err, "pockets of %s", game)
	}
	i := slices.IndexFunc(entries, func(e types.PocketEntry) bool { return e.Kind == types.PocketPC })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s has no item PC", types.ErrUnsupported, game)
	}
	return newItemList(db, game, entries[i])
}

func (b *ItemBag) Game() types.Game { return b.game }

// PocketNames returns the pocket names in display order.
func (b *ItemBag) PocketNames() []string {
	out := make([]string, len(b.pockets))
	for i, p := range b.pockets {
		out[i] = p.Name()
	}
	return out
}

// Pockets returns the pockets in display order.
func (b *ItemBag) Pockets() []*ItemList {
	return slices.Clone(b.pockets)
}

// Pocket returns the pocket called name.
func (b *ItemBag) Pocket(name string) (*ItemList, error) {
	for _, p := range b.pockets {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no pocket %q", types.ErrInvalidValue, b.game, name)
}

func (b *ItemBag) route(item string) (*ItemList, error) {
	e, err := b.db.Item(item, b.game)
	if err != nil {
		return nil, invalid(err, "item %s in %s", item, b.game)
	}
	if e.Pocket == "" {
		return nil, fmt.Errorf("%w: %s has no pocket in %s", types.ErrInvalidValue, item, b.game)
	}
	return b.Pocket(e.Pocket)
}

// Add stores item in the pocket it belongs to.
func (b *ItemBag) Add(item string, quantity int) error {
	p, err := b.route(item)
	if err != nil {
		return err
	}
	return p.Add(item, quantity)
}

// Remove takes item from the pocket it belongs to.
func (b *ItemBag) Remove(item string, quantity int) error {
	p, err := b.route(item)
	if err != nil {
		return err
	}
	return p.Remove(item, quantity)
}
