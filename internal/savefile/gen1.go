package savefile

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

const (
	gen12Size    = 0x8000
	gen12SizeRTC = 0x8010
)

// Gen I offsets (international releases).
const (
	g1PlayerName        = 0x2598
	g1Owned             = 0x25A3
	g1Seen              = 0x25B6
	g1Bag               = 0x25C9
	g1Money             = 0x25F3
	g1RivalName         = 0x25F6
	g1Options           = 0x2601
	g1PlayerID          = 0x2605
	g1PikachuFriendship = 0x271C
	g1PCItems           = 0x27E6
	g1CurrentBox        = 0x284C
	g1Coins             = 0x2850
	g1TimeHours         = 0x2CED
	g1TimeMaxed         = 0x2CEE
	g1TimeMinutes       = 0x2CEF
	g1TimeSeconds       = 0x2CF0
	g1TimeFrames        = 0x2CF1
	g1Party             = 0x2F2C
	g1CurrentBoxData    = 0x30C0
	g1Checksum          = 0x3523

	g1BagCapacity   = 20
	g1PCCapacity    = 50
	g1NumBoxes      = 12
	g1BoxSize       = 20
	g1BoxStride     = 0x462
	g1BoxesPerBank  = 6
	g1BankChecksums = 0x1A4C
	g1DexBytes      = 19
	g1NumSpecies    = 151
)

var g1Banks = [2]int{0x4000, 0x6000}

// Option bits shared by gen I and II.
const (
	optTextSpeedMask   = 0x07
	optBattleStyleSet  = 0x40
	optBattleSceneOff  = 0x80
	defaultTextOptions = 0x03
)

type gen1Codec struct {
	yellow bool
}

func (c gen1Codec) layout() Layout {
	l := Layout{
		Size:       gen12Size,
		NumBoxes:   g1NumBoxes,
		BoxSize:    g1BoxSize,
		NameChars:  7,
		MaxHours:   255,
		HasRival:   true,
		Attributes: []Attribute{{AttrCasinoCoins, 0, 9999}, {AttrTextSpeed, 0, 7}},
		FlagNames:  []string{FlagBattleScene, FlagBattleStyleSet},
	}
	if c.yellow {
		// A zero friendship byte reads back as Red/Blue.
		l.Attributes = append(l.Attributes, Attribute{AttrPikachuFriendship, 1, 255})
	}
	return l
}

func gen1ChecksumOf(raw []byte) byte {
	var sum byte
	for _, b := range raw[g1PlayerName:g1Checksum] {
		sum += b
	}
	return ^sum
}

func detectGen1(data []byte) types.SaveType {
	if len(data) < gen12Size || data[g1Checksum] != gen1ChecksumOf(data) {
		return types.SaveTypeNone
	}
	if !binfmt.ValidListHeader(data[g1Party:], PartySize) {
		return types.SaveTypeNone
	}
	if data[g1PikachuFriendship] != 0 {
		return types.SaveTypeYellow
	}
	return types.SaveTypeRedBlue
}

func g1BoxOffset(box int) int {
	return g1Banks[box/g1BoxesPerBank] + (box%g1BoxesPerBank)*g1BoxStride
}

func (c gen1Codec) parse(raw []byte, s *Save) error {
	if len(raw) < gen12Size {
		return fmt.Errorf("%w: %d bytes", binfmt.ErrShortBuffer, len(raw))
	}
	if raw[g1Checksum] != gen1ChecksumOf(raw) {
		return fmt.Errorf("%w: main data", binfmt.ErrChecksum)
	}
	if c.yellow {
		s.Game = types.GameYellow
	}
	s.TrainerName = binfmt.DecodeGen12Text(raw[g1PlayerName : g1PlayerName+binfmt.Gen12NameSize])
	s.RivalName = binfmt.DecodeGen12Text(raw[g1RivalName : g1RivalName+binfmt.Gen12NameSize])
	s.TrainerID = uint32(binary.BigEndian.Uint16(raw[g1PlayerID:]))
	s.Money = binfmt.DecodeBCD(raw[g1Money : g1Money+3])
	s.Time = Time{
		Hours:   int(raw[g1TimeHours]),
		Minutes: int(raw[g1TimeMinutes]),
		Seconds: int(raw[g1TimeSeconds]),
		Frames:  int(raw[g1TimeFrames]),
	}
	s.Numbers[AttrCasinoCoins] = binfmt.DecodeBCD(raw[g1Coins : g1Coins+2])
	s.Numbers[AttrTextSpeed] = int(raw[g1Options] & optTextSpeedMask)
	if c.yellow {
		s.Numbers[AttrPikachuFriendship] = int(raw[g1PikachuFriendship])
	}
	s.Flags[FlagBattleScene] = raw[g1Options]&optBattleSceneOff == 0
	s.Flags[FlagBattleStyleSet] = raw[g1Options]&optBattleStyleSet != 0

	bag, err := decodeCountedItems(raw[g1Bag:], g1BagCapacity)
	if err != nil {
		return fmt.Errorf("bag: %w", err)
	}
	pc, err := decodeCountedItems(raw[g1PCItems:], g1PCCapacity)
	if err != nil {
		return fmt.Errorf("PC items: %w", err)
	}
	s.Pockets = []Pocket{{Name: "Items", Slots: bag}, {Name: "PC", Slots: pc}}

	s.Seen = decodeBits(raw[g1Seen:], g1NumSpecies)
	s.Caught = decodeBits(raw[g1Owned:], g1NumSpecies)

	if err := decodeGen1List(raw[g1Party:], s.Party, binfmt.PK1PartySize); err != nil {
		return fmt.Errorf("party: %w", err)
	}
	s.CurrentBox = int(raw[g1CurrentBox] & 0x7F)
	if s.CurrentBox >= g1NumBoxes {
		return fmt.Errorf("%w: current box %d", binfmt.ErrInvalidCount, s.CurrentBox)
	}
	for i := range s.Boxes {
		off := g1BoxOffset(i)
		if i == s.CurrentBox {
			off = g1CurrentBoxData
		}
		if err := decodeGen1List(raw[off:], s.Boxes[i].Slots, binfmt.PK1BoxSize); err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
	}
	return nil
}

func decodeGen1List(b []byte, slots []Slot, recordSize int) error {
	entries, err := binfmt.DecodeList(b, len(slots), recordSize)
	if err != nil {
		return err
	}
	for i, e := range entries {
		rec, err := binfmt.DecodePK1(e.Record)
		if err != nil {
			return err
		}
		slots[i] = Slot{PK1: &rec, OTName: e.OTName, Nickname: e.Nickname}
	}
	return nil
}

func encodeGen1List(dst []byte, slots []Slot, recordSize int) error {
	occupied := compact(slots)
	entries := make([]binfmt.ListEntry, 0, len(occupied))
	for _, sl := range occupied {
		if sl.PK1 == nil {
			return fmt.Errorf("slot holds a non gen I record")
		}
		rec := sl.PK1.Party()
		if recordSize == binfmt.PK1BoxSize {
			rec = sl.PK1.Box()
		}
		entries = append(entries, binfmt.ListEntry{Species: sl.PK1.Species, Record: rec, OTName: sl.OTName, Nickname: sl.Nickname})
	}
	return binfmt.EncodeList(dst, entries, len(slots), recordSize)
}

func (c gen1Codec) write(s *Save, raw []byte) error {
	name, err := binfmt.EncodeGen12Text(s.TrainerName, binfmt.Gen12NameSize)
	if err != nil {
		return fmt.Errorf("trainer name: %w", err)
	}
	copy(raw[g1PlayerName:], name)
	rival, err := binfmt.EncodeGen12Text(s.RivalName, binfmt.Gen12NameSize)
	if err != nil {
		return fmt.Errorf("rival name: %w", err)
	}
	copy(raw[g1RivalName:], rival)
	binary.BigEndian.PutUint16(raw[g1PlayerID:], uint16(s.TrainerID))
	money, err := binfmt.EncodeBCD(s.Money, 3)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	copy(raw[g1Money:], money)
	coins, err := binfmt.EncodeBCD(s.Numbers[AttrCasinoCoins], 2)
	if err != nil {
		return fmt.Errorf("casino coins: %w", err)
	}
	copy(raw[g1Coins:], coins)

	raw[g1TimeHours] = byte(s.Time.Hours)
	raw[g1TimeMaxed] = 0
	raw[g1TimeMinutes] = byte(s.Time.Minutes)
	raw[g1TimeSeconds] = byte(s.Time.Seconds)
	raw[g1TimeFrames] = byte(s.Time.Frames)

	raw[g1Options] = writeOptions(raw[g1Options], s)
	if c.yellow {
		raw[g1PikachuFriendship] = byte(s.Numbers[AttrPikachuFriendship])
	}

	for _, p := range s.Pockets {
		switch p.Name {
		case "Items":
			encodeCountedItems(raw[g1Bag:], p.Slots)
		case "PC":
			encodeCountedItems(raw[g1PCItems:], p.Slots)
		}
	}

	encodeBits(raw[g1Seen:g1Seen+g1DexBytes], s.Seen)
	encodeBits(raw[g1Owned:g1Owned+g1DexBytes], s.Caught)

	if err := encodeGen1List(raw[g1Party:], s.Party, binfmt.PK1PartySize); err != nil {
		return fmt.Errorf("party: %w", err)
	}
	raw[g1CurrentBox] = raw[g1CurrentBox]&0x80 | byte(s.CurrentBox)
	for i, box := range s.Boxes {
		if err := encodeGen1List(raw[g1BoxOffset(i):], box.Slots, binfmt.PK1BoxSize); err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
		if i == s.CurrentBox {
			copy(raw[g1CurrentBoxData:g1CurrentBoxData+g1BoxStride], raw[g1BoxOffset(i):])
		}
	}
	for _, bank := range g1Banks {
		writeGen1BankChecksums(raw, bank)
	}
	raw[g1Checksum] = gen1ChecksumOf(raw)
	return nil
}

func writeGen1BankChecksums(raw []byte, bank int) {
	sum := func(b []byte) byte {
		var s byte
		for _, c := range b {
			s += c
		}
		return ^s
	}
	raw[bank+g1BankChecksums] = sum(raw[bank : bank+g1BankChecksums])
	for i := range g1BoxesPerBank {
		off := bank + i*g1BoxStride
		raw[bank+g1BankChecksums+1+i] = sum(raw[off : off+g1BoxStride])
	}
}

func writeOptions(opts byte, s *Save) byte {
	opts = opts&^optTextSpeedMask | byte(s.Numbers[AttrTextSpeed])&optTextSpeedMask
	opts &^= optBattleSceneOff | optBattleStyleSet
	if !s.Flags[FlagBattleScene] {
		opts |= optBattleSceneOff
	}
	if s.Flags[FlagBattleStyleSet] {
		opts |= optBattleStyleSet
	}
	return opts
}

func (c gen1Codec) blank() []byte {
	raw := make([]byte, gen12Size)
	name, _ := binfmt.EncodeGen12Text("RED", binfmt.Gen12NameSize)
	copy(raw[g1PlayerName:], name)
	rival, _ := binfmt.EncodeGen12Text("BLUE", binfmt.Gen12NameSize)
	copy(raw[g1RivalName:], rival)
	binary.BigEndian.PutUint16(raw[g1PlayerID:], 0x1234)
	money, _ := binfmt.EncodeBCD(3000, 3)
	copy(raw[g1Money:], money)
	raw[g1Options] = defaultTextOptions
	if c.yellow {
		name, _ = binfmt.EncodeGen12Text("YELLOW", binfmt.Gen12NameSize)
		copy(raw[g1PlayerName:], name)
		raw[g1PikachuFriendship] = 90
	}

	empty := make([]Slot, PartySize)
	_ = encodeGen1List(raw[g1Party:], empty, binfmt.PK1PartySize)
	boxSlots := make([]Slot, g1BoxSize)
	for i := range g1NumBoxes {
		_ = encodeGen1List(raw[g1BoxOffset(i):], boxSlots, binfmt.PK1BoxSize)
	}
	_ = encodeGen1List(raw[g1CurrentBoxData:], boxSlots, binfmt.PK1BoxSize)
	encodeCountedItems(raw[g1Bag:], make([]ItemSlot, g1BagCapacity))
	encodeCountedItems(raw[g1PCItems:], make([]ItemSlot, g1PCCapacity))
	for _, bank := range g1Banks {
		writeGen1BankChecksums(raw, bank)
	}
	raw[g1Checksum] = gen1ChecksumOf(raw)
	return raw
}
