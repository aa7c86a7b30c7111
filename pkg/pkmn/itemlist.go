package pkmn

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pkmn/internal/savefile"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// MaxQuantity is the largest stack a slot holds.
const MaxQuantity = 99

// ItemSlot is one slot of an item list. An empty slot holds "None".
type ItemSlot struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

var emptyItemSlot = ItemSlot{Item: types.ItemNone}

// ItemList is one pocket of item storage. Occupied slots form a prefix of
// the list, except in fixed pockets where every allowed item owns a slot.
type ItemList struct {
	db     types.Database
	game   types.Game
	pocket types.PocketEntry
	valid  []types.ItemEntry
	slots  []ItemSlot
}

// NewItemList creates the empty pocket name of game.
func NewItemList(db types.Database, name string, game types.Game) (*ItemList, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	pockets, err := db.Pockets(game)
	if err != nil {
		return nil, invalid(err, "pockets of %s", game)
	}
	i := slices.IndexFunc(pockets, func(p types.PocketEntry) bool { return p.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s has no pocket %q", types.ErrInvalidValue, game, name)
	}
	return newItemList(db, game, pockets[i])
}

func newItemList(db types.Database, game types.Game, pocket types.PocketEntry) (*ItemList, error) {
	valid, err := db.PocketItems(pocket.Name, game)
	if err != nil {
		return nil, fmt.Errorf("loading items of %s: %w", pocket.Name, err)
	}
	l := &ItemList{db: db, game: game, pocket: pocket, valid: valid, slots: make([]ItemSlot, pocket.Capacity)}
	for i := range l.slots {
		l.slots[i] = emptyItemSlot
	}
	return l, nil
}

func (l *ItemList) Name() string     { return l.pocket.Name }
func (l *ItemList) Game() types.Game { return l.game }
func (l *ItemList) Kind() string     { return l.pocket.Kind }
func (l *ItemList) Capacity() int    { return len(l.slots) }

// NumItems returns the number of occupied slots.
func (l *ItemList) NumItems() int {
	n := 0
	for _, s := range l.slots {
		if s.Item != types.ItemNone {
			n++
		}
	}
	return n
}

// Slots returns a copy of every slot.
func (l *ItemList) Slots() []ItemSlot {
	return slices.Clone(l.slots)
}

// At returns slot index.
func (l *ItemList) At(index int) (ItemSlot, error) {
	if err := checkRange("slot", index, 0, len(l.slots)-1); err != nil {
		return ItemSlot{}, err
	}
	return l.slots[index], nil
}

// ValidItems returns the entries this pocket accepts.
func (l *ItemList) ValidItems() []types.ItemEntry {
	return slices.Clone(l.valid)
}

func (l *ItemList) ValidItemNames() []string {
	out := make([]string, len(l.valid))
	for i, e := range l.valid {
		out[i] = e.Name
	}
	return out
}

func (l *ItemList) validIndex(item string) int {
	return slices.IndexFunc(l.valid, func(e types.ItemEntry) bool { return e.Name == item })
}

func (l *ItemList) find(item string) int {
	return slices.IndexFunc(l.slots, func(s ItemSlot) bool { return s.Item == item })
}

func (l *ItemList) fixed() bool { return l.pocket.Kind == types.PocketFixed }

func (l *ItemList) checkQuantity(quantity int) error {
	if l.pocket.Kind == types.PocketKey && quantity != 1 {
		return fmt.Errorf("%w: %s holds exactly one of each item", types.ErrOutOfRange, l.pocket.Name)
	}
	return checkRange("quantity", quantity, 1, MaxQuantity)
}

func (l *ItemList) checkItem(item string) (int, error) {
	v := l.validIndex(item)
	if v < 0 {
		return v, fmt.Errorf("%w: %s cannot go in %s in %s", types.ErrInvalidValue, item, l.pocket.Name, l.game)
	}
	return v, nil
}

// Add stores quantity of item, merging with a slot already holding it.
func (l *ItemList) Add(item string, quantity int) error {
	if err := l.checkQuantity(quantity); err != nil {
		return err
	}
	v, err := l.checkItem(item)
	if err != nil {
		return err
	}
	if i := l.find(item); i >= 0 {
		if l.pocket.Kind == types.PocketKey {
			return fmt.Errorf("%w: %s already holds %s", types.ErrInvalidValue, l.pocket.Name, item)
		}
		total := l.slots[i].Quantity + quantity
		if total > MaxQuantity {
			return fmt.Errorf("%w: %d %s exceeds %d", types.ErrOutOfRange, total, item, MaxQuantity)
		}
		l.slots[i].Quantity = total
		return nil
	}
	i := v
	if !l.fixed() {
		i = l.NumItems()
	}
	if i >= len(l.slots) {
		return fmt.Errorf("%w: %s", types.ErrPocketFull, l.pocket.Name)
	}
	l.slots[i] = ItemSlot{Item: item, Quantity: quantity}
	return nil
}

// Remove takes quantity of item. A slot reaching zero is cleared and the
// slots after it shift left.
func (l *ItemList) Remove(item string, quantity int) error {
	if err := checkRange("quantity", quantity, 1, MaxQuantity); err != nil {
		return err
	}
	i := l.find(item)
	if i < 0 || item == types.ItemNone {
		return fmt.Errorf("%w: %s holds no %s", types.ErrInvalidValue, l.pocket.Name, item)
	}
	if quantity > l.slots[i].Quantity {
		return fmt.Errorf("%w: removing %d of %d %s", types.ErrOutOfRange, quantity, l.slots[i].Quantity, item)
	}
	l.slots[i].Quantity -= quantity
	if l.slots[i].Quantity == 0 {
		l.clear(i)
	}
	return nil
}

func (l *ItemList) clear(i int) {
	if l.fixed() {
		l.slots[i] = emptyItemSlot
		return
	}
	copy(l.slots[i:], l.slots[i+1:])
	l.slots[len(l.slots)-1] = emptyItemSlot
}

// Move moves the item at from to position to, shifting the items between.
func (l *ItemList) Move(from, to int) error {
	if l.fixed() {
		return fmt.Errorf("%w: %s slots are fixed", types.ErrUnsupported, l.pocket.Name)
	}
	n := l.NumItems()
	if err := checkRange("slot", from, 0, n-1); err != nil {
		return err
	}
	if err := checkRange("slot", to, 0, n-1); err != nil {
		return err
	}
	s := l.slots[from]
	if from < to {
		copy(l.slots[from:to], l.slots[from+1:to+1])
	} else {
		copy(l.slots[to+1:from+1], l.slots[to:from])
	}
	l.slots[to] = s
	return nil
}

// Set assigns slot index directly. "None" clears the slot. Outside fixed
// pockets index may not be past the first empty slot.
func (l *ItemList) Set(index int, item string, quantity int) error {
	if err := checkRange("slot", index, 0, len(l.slots)-1); err != nil {
		return err
	}
	if !l.fixed() {
		if err := checkRange("slot", index, 0, l.NumItems()); err != nil {
			return err
		}
	}
	if item == types.ItemNone {
		if l.slots[index].Item != types.ItemNone {
			l.clear(index)
		}
		return nil
	}
	if err := l.checkQuantity(quantity); err != nil {
		return err
	}
	v, err := l.checkItem(item)
	if err != nil {
		return err
	}
	if l.fixed() && v != index {
		return fmt.Errorf("%w: %s belongs in slot %d of %s", types.ErrInvalidValue, item, v, l.pocket.Name)
	}
	if i := l.find(item); i >= 0 && i != index {
		return fmt.Errorf("%w: %s already holds %s in slot %d", types.ErrInvalidValue, l.pocket.Name, item, i)
	}
	l.slots[index] = ItemSlot{Item: item, Quantity: quantity}
	return nil
}

// load fills the list from stored slots.
func (l *ItemList) load(stored []savefile.ItemSlot) error {
	n := 0
	for _, s := range stored {
		if s.Index == 0 || s.Quantity == 0 {
			continue
		}
		v := slices.IndexFunc(l.valid, func(e types.ItemEntry) bool { return e.GameIndex == s.Index })
		if v < 0 {
			if _, err := l.db.ItemByIndex(s.Index, l.game); err != nil {
				return invalid(err, "item index %d in %s", s.Index, l.pocket.Name)
			}
			return fmt.Errorf("%w: item index %d in %s", types.ErrInvalidValue, s.Index, l.pocket.Name)
		}
		i := n
		if l.fixed() {
			i = v
		}
		if i >= len(l.slots) {
			return fmt.Errorf("%w: %s overflows", types.ErrOutOfRange, l.pocket.Name)
		}
		l.slots[i] = ItemSlot{Item: l.valid[v].Name, Quantity: s.Quantity}
		n++
	}
	return nil
}

// store returns the slots as stored item indices.
func (l *ItemList) store() []savefile.ItemSlot {
	out := make([]savefile.ItemSlot, len(l.slots))
	for i, s := range l.slots {
		if s.Item == types.ItemNone {
			continue
		}
		v := l.validIndex(s.Item)
		out[i] = savefile.ItemSlot{Index: l.valid[v].GameIndex, Quantity: s.Quantity}
	}
	return out
}
