package savefile

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// A GameCube save is a GCI memory card file: a 0x40-byte header followed
// by the decrypted game payload. The payload layout is fixed per game.
//
//	0x0000 save counter  u32
//	0x0004 trainer name  11 x UTF-16
//	0x001C trainer ID    u32 (secret ID in the high half)
//	0x0020 money         u32
//	0x0028 party         6 x record
//	0x0340 bag pockets   (u16 item, u16 quantity) slots, pocket after pocket
//	       PC items      235 slots
//	       boxes         9 x UTF-16 name, then 30 records, box after box
//	       checksum      u32 sum of every preceding payload byte
const (
	gcnHeaderSize  = 0x40
	gcnMakerCode   = "01"
	gcnFileName    = 0x08
	gcnTrainerName = 0x0004
	gcnTrainerID   = 0x001C
	gcnMoney       = 0x0020
	gcnParty       = 0x0028
	gcnPockets     = 0x0340

	gcnBoxSize      = 30
	gcnBoxNameChars = 9
	gcnMaxMoney     = 9999999
)

type gcnVariant struct {
	saveType types.SaveType
	code     string
	fileName string
	numBoxes int
	pockets  []gen3Pocket // offsets unused; bag pockets then the PC pocket
	trainer  string
}

var colosseumVariant = gcnVariant{
	saveType: types.SaveTypeColosseum,
	code:     "GC6E",
	fileName: "pokemon_colosseum",
	numBoxes: 3,
	pockets: []gen3Pocket{
		{name: "Items", capacity: 20},
		{name: "Key Items", capacity: 43},
		{name: "Poké Balls", capacity: 16},
		{name: "TMs", capacity: 64},
		{name: "Berries", capacity: 46},
		{name: "Colognes", capacity: 3},
		{name: "PC", capacity: 235},
	},
	trainer: "WES",
}

var xdVariant = gcnVariant{
	saveType: types.SaveTypeXD,
	code:     "GXXE",
	fileName: "pokemon_xd",
	numBoxes: 8,
	pockets: []gen3Pocket{
		{name: "Items", capacity: 20},
		{name: "Key Items", capacity: 43},
		{name: "Poké Balls", capacity: 16},
		{name: "TMs", capacity: 64},
		{name: "Berries", capacity: 46},
		{name: "Colognes", capacity: 3},
		{name: "Battle CDs", capacity: 60},
		{name: "PC", capacity: 235},
	},
	trainer: "MICHAEL",
}

const gcnBoxBytes = 2*gcnBoxNameChars + gcnBoxSize*binfmt.GCNRecordSize

func (v gcnVariant) boxesOffset() int {
	off := gcnPockets
	for _, p := range v.pockets {
		off += 4 * p.capacity
	}
	return off
}

func (v gcnVariant) checksumOffset() int {
	return v.boxesOffset() + v.numBoxes*gcnBoxBytes
}

func (v gcnVariant) size() int {
	return gcnHeaderSize + v.checksumOffset() + 4
}

type gcnCodec struct {
	v gcnVariant
}

func (c gcnCodec) layout() Layout {
	return Layout{
		Size:         c.v.size(),
		NumBoxes:     c.v.numBoxes,
		BoxSize:      gcnBoxSize,
		BoxNameChars: gcnBoxNameChars - 1,
		NameChars:    binfmt.GCNNameChars - 1,
		HasSecretID:  true,
	}
}

func gcnChecksumOf(payload []byte) uint32 {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return sum
}

func (v gcnVariant) valid(data []byte) bool {
	if len(data) != v.size() || !bytes.HasPrefix(data, []byte(v.code)) {
		return false
	}
	payload := data[gcnHeaderSize:]
	sum := v.checksumOffset()
	return gcnChecksumOf(payload[:sum]) == binary.BigEndian.Uint32(payload[sum:])
}

func detectGCN(data []byte) types.SaveType {
	for _, v := range []gcnVariant{colosseumVariant, xdVariant} {
		if v.valid(data) {
			return v.saveType
		}
	}
	return types.SaveTypeNone
}

func (c gcnCodec) parse(raw []byte, s *Save) error {
	v := c.v
	if len(raw) != v.size() {
		return fmt.Errorf("%w: %d bytes", binfmt.ErrShortBuffer, len(raw))
	}
	if !v.valid(raw) {
		return fmt.Errorf("%w: payload", binfmt.ErrChecksum)
	}
	p := raw[gcnHeaderSize:]
	s.TrainerName = binfmt.DecodeGCNText(p[gcnTrainerName : gcnTrainerName+2*binfmt.GCNNameChars])
	s.TrainerID = binary.BigEndian.Uint32(p[gcnTrainerID:])
	s.Money = int(binary.BigEndian.Uint32(p[gcnMoney:]))

	off := gcnPockets
	for _, pk := range v.pockets {
		s.Pockets = append(s.Pockets, Pocket{
			Name:  pk.name,
			Slots: decodeSlotItems(p[off:], pk.capacity, binary.BigEndian, 0),
		})
		off += 4 * pk.capacity
	}

	for i := range PartySize {
		rec := p[gcnParty+i*binfmt.GCNRecordSize : gcnParty+(i+1)*binfmt.GCNRecordSize]
		if binfmt.IsEmptyGCN(rec) {
			continue
		}
		g, err := binfmt.DecodeGCN(rec)
		if err != nil {
			return fmt.Errorf("party slot %d: %w", i+1, err)
		}
		s.Party[i] = Slot{GCN: &g}
	}

	for b := range s.Boxes {
		box := p[v.boxesOffset()+b*gcnBoxBytes:]
		s.Boxes[b].Name = binfmt.DecodeGCNText(box[:2*gcnBoxNameChars])
		for i := range s.Boxes[b].Slots {
			at := 2*gcnBoxNameChars + i*binfmt.GCNRecordSize
			rec := box[at : at+binfmt.GCNRecordSize]
			if binfmt.IsEmptyGCN(rec) {
				continue
			}
			g, err := binfmt.DecodeGCN(rec)
			if err != nil {
				return fmt.Errorf("box %d slot %d: %w", b+1, i+1, err)
			}
			s.Boxes[b].Slots[i] = Slot{GCN: &g}
		}
	}
	return nil
}

func encodeGCNSlot(dst []byte, sl Slot) error {
	if sl.Empty() {
		clear(dst)
		return nil
	}
	if sl.GCN == nil {
		return fmt.Errorf("slot holds a non GameCube record")
	}
	rec, err := sl.GCN.Encode()
	if err != nil {
		return err
	}
	copy(dst, rec)
	return nil
}

func (c gcnCodec) write(s *Save, raw []byte) error {
	v := c.v
	p := raw[gcnHeaderSize:]
	name, err := binfmt.EncodeGCNText(s.TrainerName, binfmt.GCNNameChars)
	if err != nil {
		return fmt.Errorf("trainer name: %w", err)
	}
	copy(p[gcnTrainerName:], name)
	binary.BigEndian.PutUint32(p[gcnTrainerID:], s.TrainerID)
	if s.Money < 0 || s.Money > gcnMaxMoney {
		return fmt.Errorf("%w: money %d", binfmt.ErrOverflow, s.Money)
	}
	binary.BigEndian.PutUint32(p[gcnMoney:], uint32(s.Money))

	off := gcnPockets
	for _, pk := range v.pockets {
		if stored, ok := s.Pocket(pk.name); ok {
			encodeSlotItems(p[off:], stored.Slots[:pk.capacity], binary.BigEndian, 0)
		}
		off += 4 * pk.capacity
	}

	party := compact(s.Party)
	for i := range PartySize {
		var sl Slot
		if i < len(party) {
			sl = party[i]
		}
		dst := p[gcnParty+i*binfmt.GCNRecordSize : gcnParty+(i+1)*binfmt.GCNRecordSize]
		if err := encodeGCNSlot(dst, sl); err != nil {
			return fmt.Errorf("party slot %d: %w", i+1, err)
		}
	}

	for b, box := range s.Boxes {
		dst := p[v.boxesOffset()+b*gcnBoxBytes:]
		boxName, err := binfmt.EncodeGCNText(box.Name, gcnBoxNameChars)
		if err != nil {
			return fmt.Errorf("box %d name: %w", b+1, err)
		}
		copy(dst, boxName)
		for i, sl := range box.Slots {
			at := 2*gcnBoxNameChars + i*binfmt.GCNRecordSize
			if err := encodeGCNSlot(dst[at:at+binfmt.GCNRecordSize], sl); err != nil {
				return fmt.Errorf("box %d slot %d: %w", b+1, i+1, err)
			}
		}
	}

	binary.BigEndian.PutUint32(p[0:], binary.BigEndian.Uint32(p[0:])+1)
	sum := v.checksumOffset()
	binary.BigEndian.PutUint32(p[sum:], gcnChecksumOf(p[:sum]))
	return nil
}

func (c gcnCodec) blank() []byte {
	v := c.v
	raw := make([]byte, v.size())
	copy(raw, v.code)
	copy(raw[4:], gcnMakerCode)
	copy(raw[gcnFileName:], v.fileName)
	p := raw[gcnHeaderSize:]
	name, _ := binfmt.EncodeGCNText(v.trainer, binfmt.GCNNameChars)
	copy(p[gcnTrainerName:], name)
	binary.BigEndian.PutUint32(p[gcnTrainerID:], 0x5678_1234)
	binary.BigEndian.PutUint32(p[gcnMoney:], 3000)
	for b := range v.numBoxes {
		boxName, _ := binfmt.EncodeGCNText(fmt.Sprintf("BOX %d", b+1), gcnBoxNameChars)
		copy(p[v.boxesOffset()+b*gcnBoxBytes:], boxName)
	}
	sum := v.checksumOffset()
	binary.BigEndian.PutUint32(p[sum:], gcnChecksumOf(p[:sum]))
	return raw
}
