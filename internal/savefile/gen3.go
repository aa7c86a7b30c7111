package savefile

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// A gen III image holds two save blocks of fourteen 4 KiB sections. The
// block with the higher save index is current; sections inside a block are
// rotated and identified by the id in their footer.
const (
	gen3Size          = 0x20000
	g3BlockSize       = 0xE000
	g3SectionSize     = 0x1000
	g3NumSections     = 14
	g3FooterID        = 0xFF4
	g3FooterChecksum  = 0xFF6
	g3FooterSignature = 0xFF8
	g3FooterIndex     = 0xFFC
	g3Signature       = 0x08012025
)

var g3Blocks = [2]int{0, g3BlockSize}

// g3DataSizes is the checksummed length of each section, by id.
var g3DataSizes = [g3NumSections]int{
	0xF2C, 0xF80, 0xF80, 0xF80, 0xF08,
	0xF80, 0xF80, 0xF80, 0xF80, 0xF80, 0xF80, 0xF80, 0xF80,
	0x7D0,
}

// Section 0 (trainer info) offsets.
const (
	g3PlayerName   = 0x00
	g3PlayerGender = 0x08
	g3PlayerID     = 0x0A
	g3TimePlayed   = 0x0E
	g3TextOptions  = 0x14
	g3BattleOpts   = 0x15
	g3DexOwned     = 0x28
	g3DexSeen      = 0x5C
	g3GameCode     = 0xAC

	g3NameSize     = 8
	g3DexBytes     = 49
	g3NumSpecies   = 386
	g3GameCodeRS   = 0
	g3GameCodeFRLG = 1

	g3BattleStyleSet = 1 << 1
	g3BattleSceneOff = 1 << 2
)

// PC buffer (sections 5-13 concatenated) offsets.
const (
	g3NumBoxes    = 14
	g3BoxSize     = 30
	g3BoxNameSize = 9
	g3PCRecords   = 4
	g3PCBoxNames  = g3PCRecords + g3NumBoxes*g3BoxSize*binfmt.PK3BoxSize
	g3PCFirst     = 5

	g3MaxMoney = 999999
	g3MaxCoins = 9999
)

type gen3Pocket struct {
	name     string
	offset   int
	capacity int
}

// gen3Variant holds what differs between Ruby/Sapphire, Emerald and
// FireRed/LeafGreen. Bag quantities and money are encrypted with the
// security key when securityKey is set.
type gen3Variant struct {
	saveType    types.SaveType
	gameCode    uint32
	securityKey int // section 0 offset, 0 when unencrypted
	teamSize    int // section 1
	party       int
	money       int
	coins       int
	pockets     []gen3Pocket // bag pockets then the PC pocket
	rivalName   int          // section 4 offset, 0 when the rival is fixed
	frames      int
	trainer     string
}

var rubySapphireVariant = gen3Variant{
	saveType: types.SaveTypeRubySapphire,
	gameCode: g3GameCodeRS,
	teamSize: 0x234,
	party:    0x238,
	money:    0x490,
	coins:    0x494,
	pockets: []gen3Pocket{
		{"Items", 0x560, 20},
		{"Key Items", 0x5B0, 20},
		{"Poké Balls", 0x600, 16},
		{"TMs & HMs", 0x640, 64},
		{"Berries", 0x740, 46},
		{"PC", 0x498, 50},
	},
	frames:  20,
	trainer: "BRENDAN",
}

var emeraldVariant = gen3Variant{
	saveType:    types.SaveTypeEmerald,
	securityKey: g3GameCode,
	teamSize:    0x234,
	party:       0x238,
	money:       0x490,
	coins:       0x494,
	pockets: []gen3Pocket{
		{"Items", 0x560, 30},
		{"Key Items", 0x5D8, 30},
		{"Poké Balls", 0x650, 16},
		{"TMs & HMs", 0x690, 64},
		{"Berries", 0x790, 46},
		{"PC", 0x498, 50},
	},
	frames:  20,
	trainer: "MAY",
}

var fireRedLeafGreenVariant = gen3Variant{
	saveType:    types.SaveTypeFireRedLeafGreen,
	gameCode:    g3GameCodeFRLG,
	securityKey: 0xAF8,
	teamSize:    0x34,
	party:       0x38,
	money:       0x290,
	coins:       0x294,
	pockets: []gen3Pocket{
		{"Items", 0x310, 42},
		{"Key Items", 0x3B8, 30},
		{"Poké Balls", 0x430, 13},
		{"TM Case", 0x464, 58},
		{"Berry Pouch", 0x54C, 43},
		{"PC", 0x298, 30},
	},
	rivalName: 0xBCC,
	frames:    10,
	trainer:   "RED",
}

type gen3Codec struct {
	v gen3Variant
}

func (c gen3Codec) layout() Layout {
	return Layout{
		Size:         gen3Size,
		NumBoxes:     g3NumBoxes,
		BoxSize:      g3BoxSize,
		BoxNameChars: g3BoxNameSize - 1,
		NameChars:    7,
		MaxHours:     65535,
		HasRival:     c.v.rivalName != 0,
		HasGender:    true,
		HasSecretID:  true,
		Attributes: []Attribute{
			{AttrCasinoCoins, 0, g3MaxCoins},
			{AttrTextSpeed, 0, 2},
			{AttrTextboxFrame, 0, c.v.frames - 1},
		},
		FlagNames: []string{FlagBattleScene, FlagBattleStyleSet},
	}
}

func gen3ChecksumOf(data []byte) uint16 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum += binary.LittleEndian.Uint32(data[i:])
	}
	return uint16(sum>>16) + uint16(sum)
}

// gen3Sections returns the sections of the block at off by id, or false
// when the block is not a valid save.
func gen3Sections(raw []byte, off int) ([g3NumSections][]byte, uint32, bool) {
	var out [g3NumSections][]byte
	var index uint32
	for i := range g3NumSections {
		sec := raw[off+i*g3SectionSize : off+(i+1)*g3SectionSize]
		if binary.LittleEndian.Uint32(sec[g3FooterSignature:]) != g3Signature {
			return out, 0, false
		}
		id := int(binary.LittleEndian.Uint16(sec[g3FooterID:]))
		if id >= g3NumSections || out[id] != nil {
			return out, 0, false
		}
		if gen3ChecksumOf(sec[:g3DataSizes[id]]) != binary.LittleEndian.Uint16(sec[g3FooterChecksum:]) {
			return out, 0, false
		}
		out[id] = sec
		index = binary.LittleEndian.Uint32(sec[g3FooterIndex:])
	}
	return out, index, true
}

// gen3Current returns the current block's sections.
func gen3Current(raw []byte) ([g3NumSections][]byte, bool) {
	var best [g3NumSections][]byte
	var bestIndex uint32
	found := false
	for _, off := range g3Blocks {
		secs, index, ok := gen3Sections(raw, off)
		if !ok {
			continue
		}
		if !found || index > bestIndex {
			best, bestIndex, found = secs, index, true
		}
	}
	return best, found
}

func detectGen3(data []byte) types.SaveType {
	if len(data) != gen3Size {
		return types.SaveTypeNone
	}
	secs, ok := gen3Current(data)
	if !ok {
		return types.SaveTypeNone
	}
	switch binary.LittleEndian.Uint32(secs[0][g3GameCode:]) {
	case g3GameCodeRS:
		return types.SaveTypeRubySapphire
	case g3GameCodeFRLG:
		return types.SaveTypeFireRedLeafGreen
	}
	return types.SaveTypeEmerald
}

func (v gen3Variant) key(trainer []byte) uint32 {
	if v.securityKey == 0 {
		return 0
	}
	return binary.LittleEndian.Uint32(trainer[v.securityKey:])
}

func gen3PCBuffer(secs [g3NumSections][]byte) []byte {
	var pc []byte
	for id := g3PCFirst; id < g3NumSections; id++ {
		pc = append(pc, secs[id][:g3DataSizes[id]]...)
	}
	return pc
}

func gen3StorePCBuffer(secs [g3NumSections][]byte, pc []byte) {
	for id := g3PCFirst; id < g3NumSections; id++ {
		n := copy(secs[id][:g3DataSizes[id]], pc)
		pc = pc[n:]
	}
}

func (c gen3Codec) parse(raw []byte, s *Save) error {
	v := c.v
	if len(raw) != gen3Size {
		return fmt.Errorf("%w: %d bytes", binfmt.ErrShortBuffer, len(raw))
	}
	secs, ok := gen3Current(raw)
	if !ok {
		return fmt.Errorf("%w: no valid save block", binfmt.ErrChecksum)
	}
	trainer, team := secs[0], secs[1]
	key := v.key(trainer)

	s.TrainerName = binfmt.DecodeGen3Text(trainer[g3PlayerName : g3PlayerName+g3NameSize])
	s.TrainerFemale = trainer[g3PlayerGender] != 0
	s.TrainerID = binary.LittleEndian.Uint32(trainer[g3PlayerID:])
	if v.rivalName != 0 {
		s.RivalName = binfmt.DecodeGen3Text(secs[4][v.rivalName : v.rivalName+g3NameSize])
	}
	s.Time = Time{
		Hours:   int(binary.LittleEndian.Uint16(trainer[g3TimePlayed:])),
		Minutes: int(trainer[g3TimePlayed+2]),
		Seconds: int(trainer[g3TimePlayed+3]),
		Frames:  int(trainer[g3TimePlayed+4]),
	}
	s.Numbers[AttrTextSpeed] = int(trainer[g3TextOptions] & 0x07)
	s.Numbers[AttrTextboxFrame] = int(trainer[g3TextOptions] >> 3)
	s.Flags[FlagBattleScene] = trainer[g3BattleOpts]&g3BattleSceneOff == 0
	s.Flags[FlagBattleStyleSet] = trainer[g3BattleOpts]&g3BattleStyleSet != 0
	s.Money = int(binary.LittleEndian.Uint32(team[v.money:]) ^ key)
	s.Numbers[AttrCasinoCoins] = int(binary.LittleEndian.Uint16(team[v.coins:]) ^ uint16(key))

	for _, p := range v.pockets {
		k := uint16(key)
		if p.name == "PC" {
			k = 0
		}
		s.Pockets = append(s.Pockets, Pocket{
			Name:  p.name,
			Slots: decodeSlotItems(team[p.offset:], p.capacity, binary.LittleEndian, k),
		})
	}

	s.Seen = decodeBits(trainer[g3DexSeen:], g3NumSpecies)
	s.Caught = decodeBits(trainer[g3DexOwned:], g3NumSpecies)

	count := int(binary.LittleEndian.Uint32(team[v.teamSize:]))
	if count > PartySize {
		return fmt.Errorf("%w: party of %d", binfmt.ErrInvalidCount, count)
	}
	for i := range count {
		off := v.party + i*binfmt.PK3PartySize
		rec, err := binfmt.DecodePK3(team[off : off+binfmt.PK3PartySize])
		if err != nil {
			return fmt.Errorf("party slot %d: %w", i+1, err)
		}
		s.Party[i] = Slot{PK3: &rec}
	}

	pc := gen3PCBuffer(secs)
	s.CurrentBox = int(binary.LittleEndian.Uint32(pc))
	if s.CurrentBox >= g3NumBoxes {
		return fmt.Errorf("%w: current box %d", binfmt.ErrInvalidCount, s.CurrentBox)
	}
	for b := range s.Boxes {
		name := g3PCBoxNames + b*g3BoxNameSize
		s.Boxes[b].Name = binfmt.DecodeGen3Text(pc[name : name+g3BoxNameSize])
		for i := range s.Boxes[b].Slots {
			off := g3PCRecords + (b*g3BoxSize+i)*binfmt.PK3BoxSize
			b3 := pc[off : off+binfmt.PK3BoxSize]
			if binfmt.IsEmptyPK3(b3) {
				continue
			}
			rec, err := binfmt.DecodePK3(b3)
			if err != nil {
				return fmt.Errorf("box %d slot %d: %w", b+1, i+1, err)
			}
			s.Boxes[b].Slots[i] = Slot{PK3: &rec}
		}
	}
	return nil
}

// write updates the current block in place and keeps its save index.
func (c gen3Codec) write(s *Save, raw []byte) error {
	v := c.v
	secs, ok := gen3Current(raw)
	if !ok {
		return fmt.Errorf("%w: no valid save block", binfmt.ErrChecksum)
	}
	trainer, team := secs[0], secs[1]
	key := v.key(trainer)

	name, err := binfmt.EncodeGen3Text(s.TrainerName, g3NameSize)
	if err != nil {
		return fmt.Errorf("trainer name: %w", err)
	}
	copy(trainer[g3PlayerName:], name)
	if v.rivalName != 0 {
		rival, err := binfmt.EncodeGen3Text(s.RivalName, g3NameSize)
		if err != nil {
			return fmt.Errorf("rival name: %w", err)
		}
		copy(secs[4][v.rivalName:], rival)
	}
	trainer[g3PlayerGender] = 0
	if s.TrainerFemale {
		trainer[g3PlayerGender] = 1
	}
	binary.LittleEndian.PutUint32(trainer[g3PlayerID:], s.TrainerID)
	binary.LittleEndian.PutUint16(trainer[g3TimePlayed:], uint16(s.Time.Hours))
	trainer[g3TimePlayed+2] = byte(s.Time.Minutes)
	trainer[g3TimePlayed+3] = byte(s.Time.Seconds)
	trainer[g3TimePlayed+4] = byte(s.Time.Frames)
	trainer[g3TextOptions] = byte(s.Numbers[AttrTextSpeed])&0x07 | byte(s.Numbers[AttrTextboxFrame])<<3
	trainer[g3BattleOpts] &^= g3BattleSceneOff | g3BattleStyleSet
	if !s.Flags[FlagBattleScene] {
		trainer[g3BattleOpts] |= g3BattleSceneOff
	}
	if s.Flags[FlagBattleStyleSet] {
		trainer[g3BattleOpts] |= g3BattleStyleSet
	}

	if s.Money < 0 || s.Money > g3MaxMoney {
		return fmt.Errorf("%w: money %d", binfmt.ErrOverflow, s.Money)
	}
	binary.LittleEndian.PutUint32(team[v.money:], uint32(s.Money)^key)
	coins := s.Numbers[AttrCasinoCoins]
	if coins < 0 || coins > g3MaxCoins {
		return fmt.Errorf("%w: casino coins %d", binfmt.ErrOverflow, coins)
	}
	binary.LittleEndian.PutUint16(team[v.coins:], uint16(coins)^uint16(key))

	for _, p := range v.pockets {
		stored, ok := s.Pocket(p.name)
		if !ok {
			continue
		}
		k := uint16(key)
		if p.name == "PC" {
			k = 0
		}
		encodeSlotItems(team[p.offset:], stored.Slots[:p.capacity], binary.LittleEndian, k)
	}

	encodeBits(trainer[g3DexSeen:g3DexSeen+g3DexBytes], s.Seen)
	encodeBits(trainer[g3DexOwned:g3DexOwned+g3DexBytes], s.Caught)

	party := compact(s.Party)
	binary.LittleEndian.PutUint32(team[v.teamSize:], uint32(len(party)))
	clear(team[v.party : v.party+PartySize*binfmt.PK3PartySize])
	for i, sl := range party {
		if sl.PK3 == nil {
			return fmt.Errorf("party slot %d holds a non gen III record", i+1)
		}
		rec, err := sl.PK3.Party()
		if err != nil {
			return fmt.Errorf("party slot %d: %w", i+1, err)
		}
		copy(team[v.party+i*binfmt.PK3PartySize:], rec)
	}

	pc := gen3PCBuffer(secs)
	binary.LittleEndian.PutUint32(pc, uint32(s.CurrentBox))
	for b, box := range s.Boxes {
		boxName, err := binfmt.EncodeGen3Text(box.Name, g3BoxNameSize)
		if err != nil {
			return fmt.Errorf("box %d name: %w", b+1, err)
		}
		copy(pc[g3PCBoxNames+b*g3BoxNameSize:], boxName)
		for i, sl := range box.Slots {
			off := g3PCRecords + (b*g3BoxSize+i)*binfmt.PK3BoxSize
			dst := pc[off : off+binfmt.PK3BoxSize]
			if sl.Empty() {
				clear(dst)
				continue
			}
			if sl.PK3 == nil {
				return fmt.Errorf("box %d slot %d holds a non gen III record", b+1, i+1)
			}
			rec, err := sl.PK3.Box()
			if err != nil {
				return fmt.Errorf("box %d slot %d: %w", b+1, i+1, err)
			}
			copy(dst, rec)
		}
	}
	gen3StorePCBuffer(secs, pc)

	for id, sec := range secs {
		binary.LittleEndian.PutUint16(sec[g3FooterChecksum:], gen3ChecksumOf(sec[:g3DataSizes[id]]))
	}
	return nil
}

func (c gen3Codec) blank() []byte {
	v := c.v
	raw := make([]byte, gen3Size)
	var secs [g3NumSections][]byte
	for id := range g3NumSections {
		sec := raw[id*g3SectionSize : (id+1)*g3SectionSize]
		binary.LittleEndian.PutUint16(sec[g3FooterID:], uint16(id))
		binary.LittleEndian.PutUint32(sec[g3FooterSignature:], g3Signature)
		binary.LittleEndian.PutUint32(sec[g3FooterIndex:], 1)
		secs[id] = sec
	}
	trainer, team := secs[0], secs[1]
	binary.LittleEndian.PutUint32(trainer[g3GameCode:], v.gameCode)
	var key uint32
	if v.securityKey != 0 {
		key = 0x5A3C96E1
		binary.LittleEndian.PutUint32(trainer[v.securityKey:], key)
	}
	name, _ := binfmt.EncodeGen3Text(v.trainer, g3NameSize)
	copy(trainer[g3PlayerName:], name)
	binary.LittleEndian.PutUint32(trainer[g3PlayerID:], 0x5678_1234)
	trainer[g3TextOptions] = 1
	if v.rivalName != 0 {
		rival, _ := binfmt.EncodeGen3Text("BLUE", g3NameSize)
		copy(secs[4][v.rivalName:], rival)
	}
	binary.LittleEndian.PutUint32(team[v.money:], 3000^key)
	binary.LittleEndian.PutUint16(team[v.coins:], uint16(key))
	for _, p := range v.pockets {
		k := uint16(key)
		if p.name == "PC" {
			k = 0
		}
		encodeSlotItems(team[p.offset:], make([]ItemSlot, p.capacity), binary.LittleEndian, k)
	}

	pc := gen3PCBuffer(secs)
	for b := range g3NumBoxes {
		boxName, _ := binfmt.EncodeGen3Text(fmt.Sprintf("BOX %d", b+1), g3BoxNameSize)
		copy(pc[g3PCBoxNames+b*g3BoxNameSize:], boxName)
	}
	gen3StorePCBuffer(secs, pc)
	for id, sec := range secs {
		binary.LittleEndian.PutUint16(sec[g3FooterChecksum:], gen3ChecksumOf(sec[:g3DataSizes[id]]))
	}
	return raw
}
