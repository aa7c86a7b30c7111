package binfmt

import (
	"encoding/binary"
	"fmt"
)

// GCNRecordSize is the size of a decrypted Colosseum/XD Pokémon record.
const GCNRecordSize = 0x84

// GCN text fields hold ten UTF-16 characters and a NUL.
const GCNNameChars = 11

const (
	gcnFlagEgg      = 1 << 0
	gcnFlagAbility  = 1 << 1
	gcnFlagOTFemale = 1 << 2
)

// GCN is a Colosseum/XD Pokémon record. All fields are big-endian.
//
//	0x00 personality      u32    0x1C moves      4 x (u16 move, u8 PP, u8 PP Ups)
//	0x04 OT ID            u32    0x2C IVs        6 x u8
//	0x08 species          u16    0x32 EVs        6 x u16
//	0x0A held item        u16    0x3E current HP u16, then 6 x u16 stats
//	0x0C experience       u32    0x4C contest    6 x u8
//	0x10 friendship       u8     0x52 ribbons    u32 (gen III ribbon word)
//	0x11 level            u8     0x56 OT name    11 x UTF-16
//	0x12 level met        u8     0x6C nickname   11 x UTF-16
//	0x13 ball             u8
//	0x14 location met     u16
//	0x16 origin game      u8
//	0x17 flags            u8 (egg, ability slot, OT female)
//	0x18 Pokérus          u8
//	0x19 markings         u8
//	0x1A status           u8
type GCN struct {
	Personality uint32
	OTID        uint32
	Species     uint16
	HeldItem    uint16
	Experience  uint32
	Friendship  byte
	Level       byte
	LevelMet    byte
	Ball        byte
	LocationMet uint16
	OriginGame  byte
	IsEgg       bool
	AbilitySlot byte
	OTFemale    bool
	Pokerus     byte
	Markings    byte
	Status      byte
	Moves       [4]uint16
	PP          [4]byte
	PPUps       [4]byte
	IVs         [6]byte
	EVs         [6]uint16
	CurrentHP   uint16
	Stats       [6]uint16
	Contest     [6]byte
	Ribbons     uint32
	OTName      string
	Nickname    string
}

// DecodeGCN decodes a GameCube record.
func DecodeGCN(b []byte) (GCN, error) {
	if len(b) != GCNRecordSize {
		return GCN{}, fmt.Errorf("%w: GCN record of %d bytes", ErrShortBuffer, len(b))
	}
	be := binary.BigEndian
	p := GCN{
		Personality: be.Uint32(b[0x00:]),
		OTID:        be.Uint32(b[0x04:]),
		Species:     be.Uint16(b[0x08:]),
		HeldItem:    be.Uint16(b[0x0A:]),
		Experience:  be.Uint32(b[0x0C:]),
		Friendship:  b[0x10],
		Level:       b[0x11],
		LevelMet:    b[0x12],
		Ball:        b[0x13],
		LocationMet: be.Uint16(b[0x14:]),
		OriginGame:  b[0x16],
		IsEgg:       b[0x17]&gcnFlagEgg != 0,
		OTFemale:    b[0x17]&gcnFlagOTFemale != 0,
		Pokerus:     b[0x18],
		Markings:    b[0x19],
		Status:      b[0x1A],
		CurrentHP:   be.Uint16(b[0x3E:]),
		Ribbons:     be.Uint32(b[0x52:]),
		OTName:      DecodeGCNText(b[0x56 : 0x56+2*GCNNameChars]),
		Nickname:    DecodeGCNText(b[0x6C : 0x6C+2*GCNNameChars]),
	}
	if b[0x17]&gcnFlagAbility != 0 {
		p.AbilitySlot = 1
	}
	for i := range 4 {
		m := b[0x1C+4*i:]
		p.Moves[i] = be.Uint16(m)
		p.PP[i] = m[2]
		p.PPUps[i] = m[3]
	}
	copy(p.IVs[:], b[0x2C:0x32])
	for i := range 6 {
		p.EVs[i] = be.Uint16(b[0x32+2*i:])
		p.Stats[i] = be.Uint16(b[0x40+2*i:])
	}
	copy(p.Contest[:], b[0x4C:0x52])
	return p, nil
}

// Encode encodes the record.
func (p *GCN) Encode() ([]byte, error) {
	b := make([]byte, GCNRecordSize)
	be := binary.BigEndian
	be.PutUint32(b[0x00:], p.Personality)
	be.PutUint32(b[0x04:], p.OTID)
	be.PutUint16(b[0x08:], p.Species)
	be.PutUint16(b[0x0A:], p.HeldItem)
	be.PutUint32(b[0x0C:], p.Experience)
	b[0x10] = p.Friendship
	b[0x11] = p.Level
	b[0x12] = p.LevelMet
	b[0x13] = p.Ball
	be.PutUint16(b[0x14:], p.LocationMet)
	b[0x16] = p.OriginGame
	if p.IsEgg {
		b[0x17] |= gcnFlagEgg
	}
	if p.AbilitySlot != 0 {
		b[0x17] |= gcnFlagAbility
	}
	if p.OTFemale {
		b[0x17] |= gcnFlagOTFemale
	}
	b[0x18] = p.Pokerus
	b[0x19] = p.Markings
	b[0x1A] = p.Status
	for i := range 4 {
		m := b[0x1C+4*i:]
		be.PutUint16(m, p.Moves[i])
		m[2] = p.PP[i]
		m[3] = p.PPUps[i]
	}
	copy(b[0x2C:], p.IVs[:])
	for i := range 6 {
		be.PutUint16(b[0x32+2*i:], p.EVs[i])
		be.PutUint16(b[0x40+2*i:], p.Stats[i])
	}
	be.PutUint16(b[0x3E:], p.CurrentHP)
	copy(b[0x4C:], p.Contest[:])
	be.PutUint32(b[0x52:], p.Ribbons)

	ot, err := EncodeGCNText(p.OTName, GCNNameChars)
	if err != nil {
		return nil, fmt.Errorf("encoding OT name: %w", err)
	}
	copy(b[0x56:], ot)
	nick, err := EncodeGCNText(p.Nickname, GCNNameChars)
	if err != nil {
		return nil, fmt.Errorf("encoding nickname: %w", err)
	}
	copy(b[0x6C:], nick)
	return b, nil
}

// IsEmptyGCN reports whether a stored record is an unused slot.
func IsEmptyGCN(b []byte) bool {
	return len(b) >= 0x0A && binary.BigEndian.Uint16(b[0x08:]) == 0
}
