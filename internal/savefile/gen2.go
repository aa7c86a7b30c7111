package savefile

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// gen2Layout holds the offsets that differ between Gold/Silver and Crystal.
type gen2Layout struct {
	saveType       types.SaveType
	timePlayed     int
	money          int
	tmPocket       int
	items          int
	keyItems       int
	balls          int
	pcItems        int
	currentBox     int
	boxNames       int
	party          int
	owned          int
	seen           int
	currentBoxData int
	checksum       int
	checksumEnd    int // inclusive
	playerGender   int // 0 when the game has no player gender
}

var goldSilverLayout = gen2Layout{
	saveType:       types.SaveTypeGoldSilver,
	timePlayed:     0x2053,
	money:          0x23DB,
	tmPocket:       0x23E6,
	items:          0x241F,
	keyItems:       0x2449,
	balls:          0x2464,
	pcItems:        0x247E,
	currentBox:     0x2724,
	boxNames:       0x2727,
	party:          0x288A,
	owned:          0x2A4C,
	seen:           0x2A6C,
	currentBoxData: 0x2D6C,
	checksum:       0x2D69,
	checksumEnd:    0x2D68,
}

var crystalLayout = gen2Layout{
	saveType:       types.SaveTypeCrystal,
	timePlayed:     0x2052,
	money:          0x23DC,
	tmPocket:       0x23E7,
	items:          0x2420,
	keyItems:       0x244A,
	balls:          0x2465,
	pcItems:        0x247F,
	currentBox:     0x2700,
	boxNames:       0x2703,
	party:          0x2865,
	owned:          0x2A27,
	seen:           0x2A47,
	currentBoxData: 0x2D10,
	checksum:       0x2D0D,
	checksumEnd:    0x2B82,
	playerGender:   0x3E3D,
}

// Offsets shared by every gen II game.
const (
	g2Options      = 0x2000
	g2TextboxFrame = 0x2002
	g2PlayerID     = 0x2009
	g2PlayerName   = 0x200B
	g2RivalName    = 0x2021
	g2ChecksumFrom = 0x2009

	g2ItemsCapacity = 20
	g2KeyCapacity   = 25
	g2BallsCapacity = 12
	g2PCCapacity    = 50
	g2NumBoxes      = 14
	g2BoxSize       = 20
	g2BoxStride     = 0x450
	g2BoxesPerBank  = 7
	g2BoxNameSize   = 9
	g2DexBytes      = 32
	g2NumSpecies    = 251
	g2MaxMoney      = 999999
)

var g2Banks = [2]int{0x4000, 0x6000}

type gen2Codec struct {
	l gen2Layout
}

func (c gen2Codec) layout() Layout {
	return Layout{
		Size:         gen12Size,
		NumBoxes:     g2NumBoxes,
		BoxSize:      g2BoxSize,
		BoxNameChars: g2BoxNameSize - 1,
		NameChars:    7,
		MaxHours:     65535,
		HasRival:     true,
		HasGender:    c.l.playerGender != 0,
		Attributes:   []Attribute{{AttrTextSpeed, 0, 7}, {AttrTextboxFrame, 0, 7}},
		FlagNames:    []string{FlagBattleScene, FlagBattleStyleSet},
	}
}

func gen2ChecksumOf(raw []byte, l gen2Layout) uint16 {
	var sum uint16
	for _, b := range raw[g2ChecksumFrom : l.checksumEnd+1] {
		sum += uint16(b)
	}
	return sum
}

func detectGen2(data []byte) types.SaveType {
	for _, l := range []gen2Layout{goldSilverLayout, crystalLayout} {
		if gen2ChecksumOf(data, l) == binary.LittleEndian.Uint16(data[l.checksum:]) &&
			binfmt.ValidListHeader(data[l.party:], PartySize) {
			return l.saveType
		}
	}
	return types.SaveTypeNone
}

func g2BoxOffset(box int) int {
	return g2Banks[box/g2BoxesPerBank] + (box%g2BoxesPerBank)*g2BoxStride
}

func (c gen2Codec) parse(raw []byte, s *Save) error {
	l := c.l
	if len(raw) < gen12Size {
		return fmt.Errorf("%w: %d bytes", binfmt.ErrShortBuffer, len(raw))
	}
	if gen2ChecksumOf(raw, l) != binary.LittleEndian.Uint16(raw[l.checksum:]) {
		return fmt.Errorf("%w: main data", binfmt.ErrChecksum)
	}
	s.TrainerName = binfmt.DecodeGen12Text(raw[g2PlayerName : g2PlayerName+binfmt.Gen12NameSize])
	s.RivalName = binfmt.DecodeGen12Text(raw[g2RivalName : g2RivalName+binfmt.Gen12NameSize])
	s.TrainerID = uint32(binary.BigEndian.Uint16(raw[g2PlayerID:]))
	if l.playerGender != 0 {
		s.TrainerFemale = raw[l.playerGender]&1 != 0
	}
	s.Money = int(binfmt.Uint24(raw[l.money:]))
	s.Time = Time{
		Hours:   int(binary.BigEndian.Uint16(raw[l.timePlayed:])),
		Minutes: int(raw[l.timePlayed+2]),
		Seconds: int(raw[l.timePlayed+3]),
		Frames:  int(raw[l.timePlayed+4]),
	}
	s.Numbers[AttrTextSpeed] = int(raw[g2Options] & optTextSpeedMask)
	s.Numbers[AttrTextboxFrame] = int(raw[g2TextboxFrame] & 0x07)
	s.Flags[FlagBattleScene] = raw[g2Options]&optBattleSceneOff == 0
	s.Flags[FlagBattleStyleSet] = raw[g2Options]&optBattleStyleSet != 0

	items, err := decodeCountedItems(raw[l.items:], g2ItemsCapacity)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	keys, err := decodeKeyItems(raw[l.keyItems:], g2KeyCapacity)
	if err != nil {
		return fmt.Errorf("key items: %w", err)
	}
	balls, err := decodeCountedItems(raw[l.balls:], g2BallsCapacity)
	if err != nil {
		return fmt.Errorf("balls: %w", err)
	}
	pc, err := decodeCountedItems(raw[l.pcItems:], g2PCCapacity)
	if err != nil {
		return fmt.Errorf("PC items: %w", err)
	}
	s.Pockets = []Pocket{
		{Name: "Items", Slots: items},
		{Name: "KeyItems", Slots: keys},
		{Name: "Balls", Slots: balls},
		{Name: "TM/HM", Slots: decodeTMPocket(raw[l.tmPocket:])},
		{Name: "PC", Slots: pc},
	}

	s.Seen = decodeBits(raw[l.seen:], g2NumSpecies)
	s.Caught = decodeBits(raw[l.owned:], g2NumSpecies)

	if err := decodeGen2List(raw[l.party:], s.Party, binfmt.PK2PartySize); err != nil {
		return fmt.Errorf("party: %w", err)
	}
	s.CurrentBox = int(raw[l.currentBox] & 0x0F)
	if s.CurrentBox >= g2NumBoxes {
		return fmt.Errorf("%w: current box %d", binfmt.ErrInvalidCount, s.CurrentBox)
	}
	for i := range s.Boxes {
		off := g2BoxOffset(i)
		if i == s.CurrentBox {
			off = l.currentBoxData
		}
		if err := decodeGen2List(raw[off:], s.Boxes[i].Slots, binfmt.PK2BoxSize); err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
		name := l.boxNames + i*g2BoxNameSize
		s.Boxes[i].Name = binfmt.DecodeGen12Text(raw[name : name+g2BoxNameSize])
	}
	return nil
}

func decodeGen2List(b []byte, slots []Slot, recordSize int) error {
	entries, err := binfmt.DecodeList(b, len(slots), recordSize)
	if err != nil {
		return err
	}
	for i, e := range entries {
		rec, err := binfmt.DecodePK2(e.Record)
		if err != nil {
			return err
		}
		slots[i] = Slot{PK2: &rec, OTName: e.OTName, Nickname: e.Nickname, Egg: e.Species == binfmt.Gen2EggSpecies}
	}
	return nil
}

func encodeGen2List(dst []byte, slots []Slot, recordSize int) error {
	occupied := compact(slots)
	entries := make([]binfmt.ListEntry, 0, len(occupied))
	for _, sl := range occupied {
		if sl.PK2 == nil {
			return fmt.Errorf("slot holds a non gen II record")
		}
		rec := sl.PK2.Party()
		if recordSize == binfmt.PK2BoxSize {
			rec = sl.PK2.Box()
		}
		species := sl.PK2.Species
		if sl.Egg {
			species = binfmt.Gen2EggSpecies
		}
		entries = append(entries, binfmt.ListEntry{Species: species, Record: rec, OTName: sl.OTName, Nickname: sl.Nickname})
	}
	return binfmt.EncodeList(dst, entries, len(slots), recordSize)
}

func (c gen2Codec) write(s *Save, raw []byte) error {
	l := c.l
	name, err := binfmt.EncodeGen12Text(s.TrainerName, binfmt.Gen12NameSize)
	if err != nil {
		return fmt.Errorf("trainer name: %w", err)
	}
	copy(raw[g2PlayerName:], name)
	rival, err := binfmt.EncodeGen12Text(s.RivalName, binfmt.Gen12NameSize)
	if err != nil {
		return fmt.Errorf("rival name: %w", err)
	}
	copy(raw[g2RivalName:], rival)
	binary.BigEndian.PutUint16(raw[g2PlayerID:], uint16(s.TrainerID))
	if l.playerGender != 0 {
		raw[l.playerGender] = 0
		if s.TrainerFemale {
			raw[l.playerGender] = 1
		}
	}
	if s.Money < 0 || s.Money > g2MaxMoney {
		return fmt.Errorf("%w: money %d", binfmt.ErrOverflow, s.Money)
	}
	binfmt.PutUint24(raw[l.money:], uint32(s.Money))
	binary.BigEndian.PutUint16(raw[l.timePlayed:], uint16(s.Time.Hours))
	raw[l.timePlayed+2] = byte(s.Time.Minutes)
	raw[l.timePlayed+3] = byte(s.Time.Seconds)
	raw[l.timePlayed+4] = byte(s.Time.Frames)

	raw[g2Options] = writeOptions(raw[g2Options], s)
	raw[g2TextboxFrame] = raw[g2TextboxFrame]&^0x07 | byte(s.Numbers[AttrTextboxFrame])&0x07

	for _, p := range s.Pockets {
		switch p.Name {
		case "Items":
			encodeCountedItems(raw[l.items:], p.Slots)
		case "KeyItems":
			encodeKeyItems(raw[l.keyItems:], p.Slots)
		case "Balls":
			encodeCountedItems(raw[l.balls:], p.Slots)
		case "TM/HM":
			if err := encodeTMPocket(raw[l.tmPocket:], p.Slots); err != nil {
				return err
			}
		case "PC":
			encodeCountedItems(raw[l.pcItems:], p.Slots)
		}
	}

	encodeBits(raw[l.seen:l.seen+g2DexBytes], s.Seen)
	encodeBits(raw[l.owned:l.owned+g2DexBytes], s.Caught)

	if err := encodeGen2List(raw[l.party:], s.Party, binfmt.PK2PartySize); err != nil {
		return fmt.Errorf("party: %w", err)
	}
	raw[l.currentBox] = raw[l.currentBox]&0xF0 | byte(s.CurrentBox)
	for i, box := range s.Boxes {
		off := g2BoxOffset(i)
		if err := encodeGen2List(raw[off:], box.Slots, binfmt.PK2BoxSize); err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
		if i == s.CurrentBox {
			size := binfmt.ListSize(g2BoxSize, binfmt.PK2BoxSize)
			copy(raw[l.currentBoxData:l.currentBoxData+size], raw[off:off+size])
		}
		boxName, err := binfmt.EncodeGen12Text(box.Name, g2BoxNameSize)
		if err != nil {
			return fmt.Errorf("box %d name: %w", i+1, err)
		}
		copy(raw[l.boxNames+i*g2BoxNameSize:], boxName)
	}
	binary.LittleEndian.PutUint16(raw[l.checksum:], gen2ChecksumOf(raw, l))
	return nil
}

func (c gen2Codec) blank() []byte {
	l := c.l
	raw := make([]byte, gen12Size)
	trainer := "GOLD"
	if l.saveType == types.SaveTypeCrystal {
		trainer = "CHRIS"
	}
	name, _ := binfmt.EncodeGen12Text(trainer, binfmt.Gen12NameSize)
	copy(raw[g2PlayerName:], name)
	rival, _ := binfmt.EncodeGen12Text("SILVER", binfmt.Gen12NameSize)
	copy(raw[g2RivalName:], rival)
	binary.BigEndian.PutUint16(raw[g2PlayerID:], 0x1234)
	binfmt.PutUint24(raw[l.money:], 3000)
	raw[g2Options] = defaultTextOptions

	_ = encodeGen2List(raw[l.party:], make([]Slot, PartySize), binfmt.PK2PartySize)
	boxSlots := make([]Slot, g2BoxSize)
	for i := range g2NumBoxes {
		_ = encodeGen2List(raw[g2BoxOffset(i):], boxSlots, binfmt.PK2BoxSize)
		boxName, _ := binfmt.EncodeGen12Text(fmt.Sprintf("BOX%d", i+1), g2BoxNameSize)
		copy(raw[l.boxNames+i*g2BoxNameSize:], boxName)
	}
	_ = encodeGen2List(raw[l.currentBoxData:], boxSlots, binfmt.PK2BoxSize)
	encodeCountedItems(raw[l.items:], make([]ItemSlot, g2ItemsCapacity))
	encodeKeyItems(raw[l.keyItems:], make([]ItemSlot, g2KeyCapacity))
	encodeCountedItems(raw[l.balls:], make([]ItemSlot, g2BallsCapacity))
	encodeCountedItems(raw[l.pcItems:], make([]ItemSlot, g2PCCapacity))
	binary.LittleEndian.PutUint16(raw[l.checksum:], gen2ChecksumOf(raw, l))
	return raw
}
