// Package savefile reads and writes whole save images. A Save holds the
// decoded contents of an image in per-generation record form; mapping
// records to names (species, items, moves) is left to the caller, which owns
// the Reference Database. Bytes not modelled by a Save are carried over
// unchanged from the image it was parsed from.
package savefile

import (
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// ItemSlot is one stored item. Index is the game's item index; an empty
// slot has Index 0.
type ItemSlot struct {
	Index    int
	Quantity int
}

// Pocket is one item list as stored. Slots always has the pocket capacity.
type Pocket struct {
	Name  string
	Slots []ItemSlot
}

// Slot holds one stored Pokémon. Exactly one record pointer is set for an
// occupied slot.
type Slot struct {
	PK1 *binfmt.PK1
	PK2 *binfmt.PK2
	PK3 *binfmt.PK3
	GCN *binfmt.GCN

	// Gen I/II lists keep names outside the record, and gen II marks eggs
	// in the species list.
	OTName   string
	Nickname string
	Egg      bool
}

// Empty reports whether the slot holds no Pokémon.
func (s Slot) Empty() bool {
	return s.PK1 == nil && s.PK2 == nil && s.PK3 == nil && s.GCN == nil
}

// Box is one PC box. Slots always has the box capacity.
type Box struct {
	Name  string
	Slots []Slot
}

// Time is a play time as stored.
type Time struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// Attribute describes a game-specific numeric attribute and its range.
type Attribute struct {
	Name     string
	Min, Max int
}

// Attribute and flag names.
const (
	AttrCasinoCoins       = "Casino coins"
	AttrTextSpeed         = "Text speed"
	AttrTextboxFrame      = "Textbox frame"
	AttrPikachuFriendship = "Pikachu friendship"
	FlagBattleScene       = "Enable battle scene"
	FlagBattleStyleSet    = "Battle style: set"
)

// Save is a decoded save image.
type Save struct {
	Type          types.SaveType
	Game          types.Game
	TrainerName   string
	TrainerID     uint32 // secret ID in the high half from gen III
	TrainerFemale bool
	RivalName     string
	Money         int
	Time          Time
	Numbers       map[string]int
	Flags         map[string]bool
	Pockets       []Pocket // bag pockets then the PC pocket, in Reference Database order
	Party         []Slot   // PartySize slots
	Boxes         []Box
	CurrentBox    int
	Seen          []bool // by national dex number - 1
	Caught        []bool

	raw   []byte
	codec codec
}

// PartySize is the number of party slots in every format.
const PartySize = 6

type codec interface {
	parse(raw []byte, s *Save) error
	write(s *Save, raw []byte) error
	blank() []byte
	layout() Layout
}

// Layout describes the fixed shape of a format.
type Layout struct {
	Size         int
	NumBoxes     int
	BoxSize      int
	BoxNameChars int // 0 when boxes are unnamed
	NameChars    int // trainer name
	MaxHours     int // 0 when play time is not stored
	HasRival     bool
	HasGender    bool
	HasSecretID  bool
	Attributes   []Attribute
	FlagNames    []string
}

func codecFor(t types.SaveType) (codec, error) {
	switch t {
	case types.SaveTypeRedBlue, types.SaveTypeYellow:
		return gen1Codec{yellow: t == types.SaveTypeYellow}, nil
	case types.SaveTypeGoldSilver:
		return gen2Codec{l: goldSilverLayout}, nil
	case types.SaveTypeCrystal:
		return gen2Codec{l: crystalLayout}, nil
	case types.SaveTypeRubySapphire:
		return gen3Codec{v: rubySapphireVariant}, nil
	case types.SaveTypeEmerald:
		return gen3Codec{v: emeraldVariant}, nil
	case types.SaveTypeFireRedLeafGreen:
		return gen3Codec{v: fireRedLeafGreenVariant}, nil
	case types.SaveTypeColosseum:
		return gcnCodec{v: colosseumVariant}, nil
	case types.SaveTypeXD:
		return gcnCodec{v: xdVariant}, nil
	}
	return nil, fmt.Errorf("%w: save type %v", types.ErrUnsupported, t)
}

// LayoutOf returns the layout of a save type.
func LayoutOf(t types.SaveType) (Layout, error) {
	c, err := codecFor(t)
	if err != nil {
		return Layout{}, err
	}
	return c.layout(), nil
}

// Detect identifies the format of a save image. Gen II checksums are tried
// before gen I; gen III and GameCube images are recognized by their
// signatures.
func Detect(data []byte) (types.SaveType, error) {
	if t := detectGCN(data); t != types.SaveTypeNone {
		return t, nil
	}
	switch len(data) {
	case gen3Size:
		if t := detectGen3(data); t != types.SaveTypeNone {
			return t, nil
		}
	case gen12Size, gen12SizeRTC:
		if t := detectGen2(data); t != types.SaveTypeNone {
			return t, nil
		}
		if t := detectGen1(data); t != types.SaveTypeNone {
			return t, nil
		}
	}
	return types.SaveTypeNone, fmt.Errorf("%w: no format matches %d bytes", types.ErrInvalidSave, len(data))
}

// Parse detects and decodes a save image. data is copied.
func Parse(data []byte) (*Save, error) {
	t, err := Detect(data)
	if err != nil {
		return nil, err
	}
	return ParseAs(data, t)
}

// ParseAs decodes a save image of a known format.
func ParseAs(data []byte, t types.SaveType) (*Save, error) {
	c, err := codecFor(t)
	if err != nil {
		return nil, err
	}
	s := newSave(t, c)
	s.raw = append([]byte(nil), data...)
	if err := c.parse(s.raw, s); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrInvalidSave, t, err)
	}
	return s, nil
}

// New returns a blank, valid save of type t.
func New(t types.SaveType) (*Save, error) {
	c, err := codecFor(t)
	if err != nil {
		return nil, err
	}
	return ParseAs(c.blank(), t)
}

func newSave(t types.SaveType, c codec) *Save {
	l := c.layout()
	s := &Save{
		Type:    t,
		Game:    t.Game(),
		Numbers: make(map[string]int),
		Flags:   make(map[string]bool),
		Party:   make([]Slot, PartySize),
		Boxes:   make([]Box, l.NumBoxes),
		codec:   c,
	}
	for i := range s.Boxes {
		s.Boxes[i].Slots = make([]Slot, l.BoxSize)
	}
	return s
}

// Layout returns the layout of the save's format.
func (s *Save) Layout() Layout {
	return s.codec.layout()
}

// Bytes encodes the save into a new image with valid checksums.
func (s *Save) Bytes() ([]byte, error) {
	out := append([]byte(nil), s.raw...)
	if err := s.codec.write(s, out); err != nil {
		return nil, fmt.Errorf("encoding %s save: %w", s.Type, err)
	}
	return out, nil
}

// Pocket returns the stored pocket with the given name.
func (s *Save) Pocket(name string) (*Pocket, bool) {
	for i := range s.Pockets {
		if s.Pockets[i].Name == name {
			return &s.Pockets[i], true
		}
	}
	return nil, false
}

// compact returns the occupied slots in order.
func compact(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, sl := range slots {
		if !sl.Empty() {
			out = append(out, sl)
		}
	}
	return out
}

func decodeBits(b []byte, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = b[i/8]&(1<<(i%8)) != 0
	}
	return out
}

func encodeBits(dst []byte, bits []bool) {
	for i, v := range bits {
		if v {
			dst[i/8] |= 1 << (i % 8)
		} else {
			dst[i/8] &^= 1 << (i % 8)
		}
	}
}
