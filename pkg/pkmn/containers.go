package pkmn

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pkmn/internal/savefile"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// PartySize is the number of party slots.
const PartySize = savefile.PartySize

// MaxBoxNameChars bounds box names in every game that names boxes.
const MaxBoxNameChars = 8

// slotList is the slot storage shared by Party and Box. A packed list keeps
// its Pokémon contiguous from slot 0: parties in every game, and boxes in
// gen I/II, whose saves store a count followed by the entries.
type slotList struct {
	db     types.Database
	game   types.Game
	slots  []*Pokemon
	dex    *Pokedex
	packed bool
}

func newSlotList(db types.Database, game types.Game, n int, packed bool) slotList {
	l := slotList{db: db, game: game, slots: make([]*Pokemon, n), packed: packed}
	for i := range l.slots {
		l.slots[i] = &Pokemon{db: db, game: game}
	}
	return l
}

func (l *slotList) Game() types.Game { return l.game }
func (l *slotList) Len() int         { return len(l.slots) }

// NumPokemon counts occupied slots.
func (l *slotList) NumPokemon() int {
	n := 0
	for _, p := range l.slots {
		if !p.IsNone() {
			n++
		}
	}
	return n
}

// Get returns the Pokémon in slot index. An empty slot returns a "None"
// placeholder.
func (l *slotList) Get(index int) (*Pokemon, error) {
	if err := checkRange("slot", index, 0, len(l.slots)-1); err != nil {
		return nil, err
	}
	return l.slots[index], nil
}

// Pokemon returns every slot in order, placeholders included.
func (l *slotList) Pokemon() []*Pokemon {
	return slices.Clone(l.slots)
}

// Set stores a copy of c converted to the container's game. A "None"
// Pokémon clears the slot. Non-egg Pokémon are recorded as caught in the
// owning save's Pokédex.
func (l *slotList) Set(index int, c Creature) error {
	if err := checkRange("slot", index, 0, len(l.slots)-1); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: nil Pokémon", types.ErrInvalidValue)
	}
	p, err := c.ToGame(l.game)
	if err != nil {
		return err
	}
	n := l.NumPokemon()
	if p.IsNone() {
		if !l.packed {
			l.slots[index] = p
			return nil
		}
		if index > n {
			return fmt.Errorf("%w: slot %d is past the first empty slot %d", types.ErrOutOfRange, index, n)
		}
		if index < n {
			copy(l.slots[index:], l.slots[index+1:])
			l.slots[len(l.slots)-1] = p
		}
		return nil
	}
	if l.packed && index > n {
		return fmt.Errorf("%w: slot %d is past the first empty slot %d", types.ErrOutOfRange, index, n)
	}
	if l.dex != nil && !p.IsEgg() {
		if err := l.dex.SetHasCaught(p.Species(), true); err != nil {
			return err
		}
	}
	l.slots[index] = p
	return nil
}

func (l *slotList) load(stored []savefile.Slot) error {
	for i, sl := range stored {
		if sl.Empty() {
			continue
		}
		p, err := pokemonFromSlot(l.db, l.game, sl)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i+1, err)
		}
		l.slots[i] = p
	}
	return nil
}

func (l *slotList) store() ([]savefile.Slot, error) {
	out := make([]savefile.Slot, len(l.slots))
	for i, p := range l.slots {
		sl, err := slotFromPokemon(p)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		out[i] = sl
	}
	return out, nil
}

// Party is the six-slot party. Its Pokémon always fill slots 0 to
// NumPokemon()-1; clearing a slot shifts the later ones down.
type Party struct {
	slotList
}

// NewParty creates an empty party for game.
func NewParty(db types.Database, game types.Game) (*Party, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	return &Party{newSlotList(db, game, PartySize, true)}, nil
}

// Box is one PC box.
type Box struct {
	slotList
	name      string
	nameChars int
}

// NewBox creates an empty, unnamed box for game.
func NewBox(db types.Database, game types.Game) (*Box, error) {
	shape, err := pcShapeOf(game)
	if err != nil {
		return nil, err
	}
	return &Box{slotList: newSlotList(db, game, shape.boxSize, packedBoxes(game)), nameChars: shape.nameChars}, nil
}

// Name returns the box name, "" in gen I.
func (b *Box) Name() string { return b.name }

func (b *Box) SetName(name string) error {
	if b.nameChars == 0 {
		return fmt.Errorf("%w: %s boxes have no names", types.ErrUnsupported, b.game)
	}
	if err := checkText("box name", name, b.nameChars, b.game); err != nil {
		return err
	}
	b.name = name
	return nil
}

// packedBoxes reports whether game stores its boxes as count-prefixed lists.
func packedBoxes(game types.Game) bool { return game.Generation() <= 2 }

// PC is the set of boxes of a game.
type PC struct {
	game  types.Game
	boxes []*Box
}

type pcShape struct {
	numBoxes, boxSize, nameChars int
	nameFormat                   string
}

var gen4PCShape = pcShape{numBoxes: 18, boxSize: 30, nameChars: MaxBoxNameChars, nameFormat: "Box %d"}

func pcShapeOf(game types.Game) (pcShape, error) {
	if !game.Valid() {
		return pcShape{}, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	if game.Generation() == 4 {
		return gen4PCShape, nil
	}
	l, err := savefile.LayoutOf(saveTypeOf(game))
	if err != nil {
		return pcShape{}, err
	}
	shape := pcShape{numBoxes: l.NumBoxes, boxSize: l.BoxSize, nameChars: l.BoxNameChars, nameFormat: "BOX %d"}
	if game.Generation() == 2 {
		shape.nameFormat = "BOX%d"
	}
	return shape, nil
}

// NewPC creates a PC of empty boxes with default names.
func NewPC(db types.Database, game types.Game) (*PC, error) {
	shape, err := pcShapeOf(game)
	if err != nil {
		return nil, err
	}
	pc := &PC{game: game}
	for i := range shape.numBoxes {
		b := &Box{slotList: newSlotList(db, game, shape.boxSize, packedBoxes(game)), nameChars: shape.nameChars}
		if shape.nameChars > 0 {
			b.name = fmt.Sprintf(shape.nameFormat, i+1)
		}
		pc.boxes = append(pc.boxes, b)
	}
	return pc, nil
}

func (pc *PC) Game() types.Game { return pc.game }
func (pc *PC) NumBoxes() int    { return len(pc.boxes) }

// Box returns box index.
func (pc *PC) Box(index int) (*Box, error) {
	if err := checkRange("box", index, 0, len(pc.boxes)-1); err != nil {
		return nil, err
	}
	return pc.boxes[index], nil
}

func (pc *PC) Boxes() []*Box {
	return slices.Clone(pc.boxes)
}

// BoxNames returns the box names in order.
func (pc *PC) BoxNames() []string {
	out := make([]string, len(pc.boxes))
	for i, b := range pc.boxes {
		out[i] = b.name
	}
	return out
}

func (pc *PC) attach(dex *Pokedex) {
	for _, b := range pc.boxes {
		b.dex = dex
	}
}

// pokemonFromSlot decodes whichever record a stored slot holds.
func pokemonFromSlot(db types.Database, game types.Game, sl savefile.Slot) (*Pokemon, error) {
	switch {
	case sl.PK1 != nil:
		return fromPK1(db, game, *sl.PK1, sl.OTName, sl.Nickname)
	case sl.PK2 != nil:
		return fromPK2(db, game, *sl.PK2, sl.Egg, sl.OTName, sl.Nickname)
	case sl.PK3 != nil:
		return fromPK3(db, game, *sl.PK3)
	case sl.GCN != nil:
		return fromGCN(db, game, *sl.GCN)
	}
	return &Pokemon{db: db, game: game}, nil
}

// slotFromPokemon encodes p as the record of its game's platform.
func slotFromPokemon(p *Pokemon) (savefile.Slot, error) {
	if p.IsNone() {
		return savefile.Slot{}, nil
	}
	switch p.game.Platform() {
	case types.PlatformGen1:
		r, err := p.toPK1()
		return savefile.Slot{PK1: &r, OTName: p.otName, Nickname: p.nickname}, err
	case types.PlatformGen2:
		r, err := p.toPK2()
		return savefile.Slot{PK2: &r, OTName: p.otName, Nickname: p.nickname, Egg: p.egg}, err
	case types.PlatformGen3:
		r, err := p.toPK3()
		return savefile.Slot{PK3: &r}, err
	case types.PlatformGCN:
		r, err := p.toGCN()
		return savefile.Slot{GCN: &r}, err
	}
	return savefile.Slot{}, fmt.Errorf("%w: %s has no stored record format", types.ErrUnsupported, p.game)
}
