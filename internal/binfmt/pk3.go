package binfmt

import (
	"encoding/binary"
	"fmt"
)

// Gen III record sizes.
const (
	PK3BoxSize   = 80
	PK3PartySize = 100
)

// Gen III text field sizes.
const (
	Gen3NicknameSize = 10
	Gen3OTNameSize   = 7
)

const (
	pk3DataOffset = 0x20
	pk3DataSize   = 48
	pk3BlockSize  = 12

	pk3LanguageEnglish = 0x02
	pk3FlagHasSpecies  = 0x02
	pk3FlagUseEggName  = 0x04
)

// Substructure orders indexed by personality % 24. Each entry gives the
// position of the Growth, Attacks, EVs and Misc blocks.
var pk3Orders = func() [24][4]int {
	perms := []string{
		"GAEM", "GAME", "GEAM", "GEMA", "GMAE", "GMEA",
		"AGEM", "AGME", "AEGM", "AEMG", "AMGE", "AMEG",
		"EGAM", "EGMA", "EAGM", "EAMG", "EMGA", "EMAG",
		"MGAE", "MGEA", "MAGE", "MAEG", "MEGA", "MEAG",
	}
	var out [24][4]int
	for i, p := range perms {
		for pos, c := range p {
			switch c {
			case 'G':
				out[i][0] = pos
			case 'A':
				out[i][1] = pos
			case 'E':
				out[i][2] = pos
			case 'M':
				out[i][3] = pos
			}
		}
	}
	return out
}()

// PK3 is a gen III Pokémon record in decrypted form.
type PK3 struct {
	Personality uint32
	OTID        uint32 // secret ID in the high half
	Nickname    string
	OTName      string
	Markings    byte

	// Growth
	Species    uint16
	HeldItem   uint16
	Experience uint32
	PPUps      byte
	Friendship byte

	// Attacks
	Moves [4]uint16
	PP    [4]byte

	// EVs and contest stats
	EVs     [6]byte // HP, Attack, Defense, Speed, Special Attack, Special Defense
	Contest [6]byte // Cool, Beauty, Cute, Smart, Tough, Feel

	// Misc
	Pokerus     byte
	LocationMet byte
	LevelMet    byte // 0 for hatched Pokémon
	OriginGame  byte
	Ball        byte
	OTFemale    bool
	IVs         [6]byte // HP, Attack, Defense, Speed, Special Attack, Special Defense
	IsEgg       bool
	AbilitySlot byte
	Ribbons     uint32

	// Party only
	Status      uint32
	Level       byte
	PokerusDays byte
	CurrentHP   uint16
	Stats       [6]uint16
}

// DecodePK3 decrypts and decodes a box or party record, chosen by len(b).
// The substructure checksum must match.
func DecodePK3(b []byte) (PK3, error) {
	if len(b) != PK3BoxSize && len(b) != PK3PartySize {
		return PK3{}, fmt.Errorf("%w: PK3 record of %d bytes", ErrShortBuffer, len(b))
	}
	p := PK3{
		Personality: binary.LittleEndian.Uint32(b[0x00:]),
		OTID:        binary.LittleEndian.Uint32(b[0x04:]),
		Nickname:    DecodeGen3Text(b[0x08 : 0x08+Gen3NicknameSize]),
		OTName:      DecodeGen3Text(b[0x14 : 0x14+Gen3OTNameSize]),
		Markings:    b[0x1B],
	}
	data := make([]byte, pk3DataSize)
	copy(data, b[pk3DataOffset:pk3DataOffset+pk3DataSize])
	crypt(data, p.Personality^p.OTID)
	if got, want := pk3Checksum(data), binary.LittleEndian.Uint16(b[0x1C:]); got != want {
		return PK3{}, fmt.Errorf("%w: PK3 data sums to %#04x, header says %#04x", ErrChecksum, got, want)
	}

	order := pk3Orders[p.Personality%24]
	block := func(i int) []byte { return data[order[i]*pk3BlockSize : (order[i]+1)*pk3BlockSize] }

	g := block(0)
	p.Species = binary.LittleEndian.Uint16(g[0:])
	p.HeldItem = binary.LittleEndian.Uint16(g[2:])
	p.Experience = binary.LittleEndian.Uint32(g[4:])
	p.PPUps = g[8]
	p.Friendship = g[9]

	a := block(1)
	for i := range p.Moves {
		p.Moves[i] = binary.LittleEndian.Uint16(a[2*i:])
	}
	copy(p.PP[:], a[8:12])

	e := block(2)
	copy(p.EVs[:], e[0:6])
	copy(p.Contest[:], e[6:12])

	m := block(3)
	p.Pokerus = m[0]
	p.LocationMet = m[1]
	origins := binary.LittleEndian.Uint16(m[2:])
	p.LevelMet = byte(origins & 0x7F)
	p.OriginGame = byte(origins>>7) & 0x0F
	p.Ball = byte(origins>>11) & 0x0F
	p.OTFemale = origins&0x8000 != 0
	ivWord := binary.LittleEndian.Uint32(m[4:])
	for i := range p.IVs {
		p.IVs[i] = byte(ivWord>>(5*i)) & 0x1F
	}
	p.IsEgg = ivWord&(1<<30) != 0
	p.AbilitySlot = byte(ivWord >> 31)
	p.Ribbons = binary.LittleEndian.Uint32(m[8:])

	if len(b) == PK3PartySize {
		p.Status = binary.LittleEndian.Uint32(b[0x50:])
		p.Level = b[0x54]
		p.PokerusDays = b[0x55]
		p.CurrentHP = binary.LittleEndian.Uint16(b[0x56:])
		for i := range p.Stats {
			p.Stats[i] = binary.LittleEndian.Uint16(b[0x58+2*i:])
		}
	}
	return p, nil
}

// Box encodes and encrypts the 80-byte box form.
func (p *PK3) Box() ([]byte, error) {
	b := make([]byte, PK3BoxSize)
	binary.LittleEndian.PutUint32(b[0x00:], p.Personality)
	binary.LittleEndian.PutUint32(b[0x04:], p.OTID)
	nick, err := EncodeGen3Text(p.Nickname, Gen3NicknameSize)
	if err != nil {
		return nil, fmt.Errorf("encoding nickname: %w", err)
	}
	copy(b[0x08:], nick)
	b[0x12] = pk3LanguageEnglish
	if p.Species != 0 {
		b[0x13] |= pk3FlagHasSpecies
	}
	if p.IsEgg {
		b[0x13] |= pk3FlagUseEggName
	}
	ot, err := EncodeGen3Text(p.OTName, Gen3OTNameSize)
	if err != nil {
		return nil, fmt.Errorf("encoding OT name: %w", err)
	}
	copy(b[0x14:], ot)
	b[0x1B] = p.Markings

	data := make([]byte, pk3DataSize)
	order := pk3Orders[p.Personality%24]
	block := func(i int) []byte { return data[order[i]*pk3BlockSize : (order[i]+1)*pk3BlockSize] }

	g := block(0)
	binary.LittleEndian.PutUint16(g[0:], p.Species)
	binary.LittleEndian.PutUint16(g[2:], p.HeldItem)
	binary.LittleEndian.PutUint32(g[4:], p.Experience)
	g[8] = p.PPUps
	g[9] = p.Friendship

	a := block(1)
	for i, mv := range p.Moves {
		binary.LittleEndian.PutUint16(a[2*i:], mv)
	}
	copy(a[8:], p.PP[:])

	e := block(2)
	copy(e[0:], p.EVs[:])
	copy(e[6:], p.Contest[:])

	m := block(3)
	m[0] = p.Pokerus
	m[1] = p.LocationMet
	origins := uint16(p.LevelMet&0x7F) | uint16(p.OriginGame&0x0F)<<7 | uint16(p.Ball&0x0F)<<11
	if p.OTFemale {
		origins |= 0x8000
	}
	binary.LittleEndian.PutUint16(m[2:], origins)
	var ivWord uint32
	for i, iv := range p.IVs {
		ivWord |= uint32(iv&0x1F) << (5 * i)
	}
	if p.IsEgg {
		ivWord |= 1 << 30
	}
	ivWord |= uint32(p.AbilitySlot&1) << 31
	binary.LittleEndian.PutUint32(m[4:], ivWord)
	binary.LittleEndian.PutUint32(m[8:], p.Ribbons)

	binary.LittleEndian.PutUint16(b[0x1C:], pk3Checksum(data))
	crypt(data, p.Personality^p.OTID)
	copy(b[pk3DataOffset:], data)
	return b, nil
}

// Party encodes the 100-byte party form.
func (p *PK3) Party() ([]byte, error) {
	box, err := p.Box()
	if err != nil {
		return nil, err
	}
	b := make([]byte, PK3PartySize)
	copy(b, box)
	binary.LittleEndian.PutUint32(b[0x50:], p.Status)
	b[0x54] = p.Level
	b[0x55] = p.PokerusDays
	binary.LittleEndian.PutUint16(b[0x56:], p.CurrentHP)
	for i, s := range p.Stats {
		binary.LittleEndian.PutUint16(b[0x58+2*i:], s)
	}
	return b, nil
}

// IsEmptyPK3 reports whether a stored record is an unused slot.
func IsEmptyPK3(b []byte) bool {
	for _, c := range b[:pk3DataOffset] {
		if c != 0 {
			return false
		}
	}
	return true
}

func crypt(data []byte, key uint32) {
	for i := 0; i+4 <= len(data); i += 4 {
		binary.LittleEndian.PutUint32(data[i:], binary.LittleEndian.Uint32(data[i:])^key)
	}
}

func pk3Checksum(data []byte) uint16 {
	var sum uint16
	for i := 0; i+2 <= len(data); i += 2 {
		sum += binary.LittleEndian.Uint16(data[i:])
	}
	return sum
}

// Gen III contest ribbons are stored as a 3-bit rank per category.
const (
	ribbonCategories  = 5
	ribbonRanks       = 4
	ribbonExtraOffset = 15
	ribbonExtraCount  = 12
)

// RibbonSet expands a gen III ribbon word into flags in the order of the
// gen III ribbon list: four ranks per contest category, then the twelve
// other ribbons.
func RibbonSet(word uint32) []bool {
	out := make([]bool, 0, ribbonCategories*ribbonRanks+ribbonExtraCount)
	for c := range ribbonCategories {
		rank := int(word>>(3*c)) & 7
		for r := range ribbonRanks {
			out = append(out, r < rank)
		}
	}
	for i := range ribbonExtraCount {
		out = append(out, word&(1<<(ribbonExtraOffset+i)) != 0)
	}
	return out
}

// RibbonWord packs flags in RibbonSet order. A contest category's rank is
// its highest set flag.
func RibbonWord(flags []bool) uint32 {
	var w uint32
	for c := range ribbonCategories {
		rank := 0
		for r := range ribbonRanks {
			if i := c*ribbonRanks + r; i < len(flags) && flags[i] {
				rank = r + 1
			}
		}
		w |= uint32(rank) << (3 * c)
	}
	for i := range ribbonExtraCount {
		if j := ribbonCategories*ribbonRanks + i; j < len(flags) && flags[j] {
			w |= 1 << (ribbonExtraOffset + i)
		}
	}
	return w
}
