package binfmt

import (
	"encoding/binary"
	"fmt"
)

// Gen II record sizes.
const (
	PK2BoxSize   = 32
	PK2PartySize = 48
)

// PK2 is a gen II Pokémon record. Stats are only stored in the party form.
type PK2 struct {
	Species    byte
	HeldItem   byte
	Moves      [4]byte
	OTID       uint16
	Experience uint32
	EVs        [5]uint16 // HP, Attack, Defense, Speed, Special
	IVs        uint16
	PP         [4]byte
	Friendship byte
	Pokerus    byte
	// Caught data as written by Crystal; Gold and Silver leave it zero.
	TimeOfDay   byte // 0-3
	LevelMet    byte // 0-63
	OTFemale    bool
	LocationMet byte // 0-127
	Level       byte
	Status      byte
	CurrentHP   uint16
	Stats       [6]uint16 // max HP, Attack, Defense, Speed, Special Attack, Special Defense
}

// DecodePK2 decodes a box or party record, chosen by len(b).
func DecodePK2(b []byte) (PK2, error) {
	if len(b) != PK2BoxSize && len(b) != PK2PartySize {
		return PK2{}, fmt.Errorf("%w: PK2 record of %d bytes", ErrShortBuffer, len(b))
	}
	p := PK2{
		Species:     b[0x00],
		HeldItem:    b[0x01],
		OTID:        binary.BigEndian.Uint16(b[0x06:]),
		Experience:  Uint24(b[0x08:]),
		IVs:         binary.BigEndian.Uint16(b[0x15:]),
		Friendship:  b[0x1B],
		Pokerus:     b[0x1C],
		TimeOfDay:   b[0x1D] >> 6,
		LevelMet:    b[0x1D] & 0x3F,
		OTFemale:    b[0x1E]&0x80 != 0,
		LocationMet: b[0x1E] & 0x7F,
		Level:       b[0x1F],
	}
	copy(p.Moves[:], b[0x02:0x06])
	for i := range p.EVs {
		p.EVs[i] = binary.BigEndian.Uint16(b[0x0B+2*i:])
	}
	copy(p.PP[:], b[0x17:0x1B])
	if len(b) == PK2PartySize {
		p.Status = b[0x20]
		p.CurrentHP = binary.BigEndian.Uint16(b[0x22:])
		for i := range p.Stats {
			p.Stats[i] = binary.BigEndian.Uint16(b[0x24+2*i:])
		}
	}
	return p, nil
}

// Box encodes the 32-byte box form.
func (p *PK2) Box() []byte {
	b := make([]byte, PK2BoxSize)
	b[0x00] = p.Species
	b[0x01] = p.HeldItem
	copy(b[0x02:], p.Moves[:])
	binary.BigEndian.PutUint16(b[0x06:], p.OTID)
	PutUint24(b[0x08:], p.Experience)
	for i, ev := range p.EVs {
		binary.BigEndian.PutUint16(b[0x0B+2*i:], ev)
	}
	binary.BigEndian.PutUint16(b[0x15:], p.IVs)
	copy(b[0x17:], p.PP[:])
	b[0x1B] = p.Friendship
	b[0x1C] = p.Pokerus
	b[0x1D] = p.TimeOfDay<<6 | p.LevelMet&0x3F
	b[0x1E] = p.LocationMet & 0x7F
	if p.OTFemale {
		b[0x1E] |= 0x80
	}
	b[0x1F] = p.Level
	return b
}

// Party encodes the 48-byte party form.
func (p *PK2) Party() []byte {
	b := make([]byte, PK2PartySize)
	copy(b, p.Box())
	b[0x20] = p.Status
	binary.BigEndian.PutUint16(b[0x22:], p.CurrentHP)
	for i, s := range p.Stats {
		binary.BigEndian.PutUint16(b[0x24+2*i:], s)
	}
	return b
}

// PK2FileSize is the size of a .pk2 file.
var PK2FileSize = ListSize(1, PK2PartySize)

// DecodePK2File decodes a .pk2 file.
func DecodePK2File(b []byte) (PK2, ListEntry, error) {
	return decodeGen12File(b, PK2PartySize, DecodePK2)
}

// EncodePK2File encodes a .pk2 file. Eggs are marked in the species list.
func EncodePK2File(p PK2, egg bool, otName, nickname string) ([]byte, error) {
	species := p.Species
	if egg {
		species = Gen2EggSpecies
	}
	return encodeGen12File(ListEntry{Species: species, Record: p.Party(), OTName: otName, Nickname: nickname}, PK2PartySize)
}
