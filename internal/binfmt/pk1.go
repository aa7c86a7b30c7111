package binfmt

import (
	"encoding/binary"
	"fmt"
)

// Gen I record sizes.
const (
	PK1BoxSize   = 33
	PK1PartySize = 44
)

// PK1 is a gen I Pokémon record. Stats are only stored in the party form;
// decoding a box record leaves them zero.
type PK1 struct {
	Species    byte
	CurrentHP  uint16
	BoxLevel   byte
	Status     byte
	Types      [2]byte
	CatchRate  byte
	Moves      [4]byte
	OTID       uint16
	Experience uint32
	EVs        [5]uint16 // HP, Attack, Defense, Speed, Special
	IVs        uint16    // Attack, Defense, Speed, Special nibbles from the top
	PP         [4]byte   // top two bits are PP Ups
	Level      byte
	Stats      [5]uint16 // max HP, Attack, Defense, Speed, Special
}

// DecodePK1 decodes a box or party record, chosen by len(b).
func DecodePK1(b []byte) (PK1, error) {
	if len(b) != PK1BoxSize && len(b) != PK1PartySize {
		return PK1{}, fmt.Errorf("%w: PK1 record of %d bytes", ErrShortBuffer, len(b))
	}
	p := PK1{
		Species:    b[0x00],
		CurrentHP:  binary.BigEndian.Uint16(b[0x01:]),
		BoxLevel:   b[0x03],
		Status:     b[0x04],
		Types:      [2]byte{b[0x05], b[0x06]},
		CatchRate:  b[0x07],
		OTID:       binary.BigEndian.Uint16(b[0x0C:]),
		Experience: Uint24(b[0x0E:]),
		IVs:        binary.BigEndian.Uint16(b[0x1B:]),
	}
	copy(p.Moves[:], b[0x08:0x0C])
	for i := range p.EVs {
		p.EVs[i] = binary.BigEndian.Uint16(b[0x11+2*i:])
	}
	copy(p.PP[:], b[0x1D:0x21])
	if len(b) == PK1PartySize {
		p.Level = b[0x21]
		for i := range p.Stats {
			p.Stats[i] = binary.BigEndian.Uint16(b[0x22+2*i:])
		}
	} else {
		p.Level = p.BoxLevel
	}
	return p, nil
}

// Box encodes the 33-byte box form.
func (p *PK1) Box() []byte {
	b := make([]byte, PK1BoxSize)
	b[0x00] = p.Species
	binary.BigEndian.PutUint16(b[0x01:], p.CurrentHP)
	b[0x03] = p.Level
	b[0x04] = p.Status
	b[0x05], b[0x06] = p.Types[0], p.Types[1]
	b[0x07] = p.CatchRate
	copy(b[0x08:], p.Moves[:])
	binary.BigEndian.PutUint16(b[0x0C:], p.OTID)
	PutUint24(b[0x0E:], p.Experience)
	for i, ev := range p.EVs {
		binary.BigEndian.PutUint16(b[0x11+2*i:], ev)
	}
	binary.BigEndian.PutUint16(b[0x1B:], p.IVs)
	copy(b[0x1D:], p.PP[:])
	return b
}

// Party encodes the 44-byte party form.
func (p *PK1) Party() []byte {
	b := make([]byte, PK1PartySize)
	copy(b, p.Box())
	b[0x21] = p.Level
	for i, s := range p.Stats {
		binary.BigEndian.PutUint16(b[0x22+2*i:], s)
	}
	return b
}

// IVNibbles splits a packed gen I/II IV word into Attack, Defense, Speed
// and Special.
func IVNibbles(w uint16) [4]int {
	return [4]int{int(w >> 12), int(w>>8) & 15, int(w>>4) & 15, int(w) & 15}
}

// PackIVs packs Attack, Defense, Speed and Special IVs into a gen I/II IV word.
func PackIVs(ivs [4]int) uint16 {
	return uint16(ivs[0]&15)<<12 | uint16(ivs[1]&15)<<8 | uint16(ivs[2]&15)<<4 | uint16(ivs[3]&15)
}

// PK1FileSize is the size of a .pk1 file. Gen I/II single-Pokémon files
// hold a one-entry list with the party record.
var PK1FileSize = ListSize(1, PK1PartySize)

// DecodePK1File decodes a .pk1 file.
func DecodePK1File(b []byte) (PK1, ListEntry, error) {
	return decodeGen12File(b, PK1PartySize, DecodePK1)
}

// EncodePK1File encodes a .pk1 file.
func EncodePK1File(p PK1, otName, nickname string) ([]byte, error) {
	return encodeGen12File(ListEntry{Species: p.Species, Record: p.Party(), OTName: otName, Nickname: nickname}, PK1PartySize)
}

func decodeGen12File[T any](b []byte, recordSize int, decode func([]byte) (T, error)) (T, ListEntry, error) {
	var zero T
	if len(b) != ListSize(1, recordSize) {
		return zero, ListEntry{}, fmt.Errorf("%w: file of %d bytes", ErrShortBuffer, len(b))
	}
	entries, err := DecodeList(b, 1, recordSize)
	if err != nil {
		return zero, ListEntry{}, err
	}
	if len(entries) != 1 {
		return zero, ListEntry{}, fmt.Errorf("%w: file holds %d Pokémon", ErrInvalidCount, len(entries))
	}
	rec, err := decode(entries[0].Record)
	return rec, entries[0], err
}

func encodeGen12File(e ListEntry, recordSize int) ([]byte, error) {
	out := make([]byte, ListSize(1, recordSize))
	if err := EncodeList(out, []ListEntry{e}, 1, recordSize); err != nil {
		return nil, err
	}
	return out, nil
}
