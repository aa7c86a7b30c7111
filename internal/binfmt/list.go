package binfmt

import "fmt"

// ListEntry is one Pokémon of a gen I/II list. Species is the byte from the
// species list, which differs from the record's own species for gen II eggs.
type ListEntry struct {
	Species  byte
	Record   []byte
	OTName   string
	Nickname string
}

// Gen2EggSpecies marks an egg in a gen II species list.
const Gen2EggSpecies = 0xFD

const listTerminator = 0xFF

// ListSize returns the storage size of a gen I/II list of capacity entries:
// count, species list with terminator, records, OT names, nicknames.
func ListSize(capacity, recordSize int) int {
	return 1 + capacity + 1 + capacity*(recordSize+2*Gen12NameSize)
}

// ValidListHeader reports whether b starts with a plausible list of
// capacity entries: a count in range and a terminated species list.
func ValidListHeader(b []byte, capacity int) bool {
	if len(b) < capacity+2 {
		return false
	}
	count := int(b[0])
	return count <= capacity && b[1+count] == listTerminator
}

// DecodeList decodes a gen I/II Pokémon list.
func DecodeList(b []byte, capacity, recordSize int) ([]ListEntry, error) {
	if len(b) < ListSize(capacity, recordSize) {
		return nil, fmt.Errorf("%w: list needs %d bytes, have %d", ErrShortBuffer, ListSize(capacity, recordSize), len(b))
	}
	count := int(b[0])
	if count > capacity {
		return nil, fmt.Errorf("%w: %d entries in a list of %d", ErrInvalidCount, count, capacity)
	}
	records := 2 + capacity
	otNames := records + capacity*recordSize
	nicknames := otNames + capacity*Gen12NameSize

	out := make([]ListEntry, count)
	for i := range out {
		rec := make([]byte, recordSize)
		copy(rec, b[records+i*recordSize:])
		out[i] = ListEntry{
			Species:  b[1+i],
			Record:   rec,
			OTName:   DecodeGen12Text(b[otNames+i*Gen12NameSize : otNames+(i+1)*Gen12NameSize]),
			Nickname: DecodeGen12Text(b[nicknames+i*Gen12NameSize : nicknames+(i+1)*Gen12NameSize]),
		}
	}
	return out, nil
}

// EncodeList encodes entries into dst as a gen I/II Pokémon list. Unused
// slots are zeroed; unused name fields hold a bare terminator.
func EncodeList(dst []byte, entries []ListEntry, capacity, recordSize int) error {
	size := ListSize(capacity, recordSize)
	if len(dst) < size {
		return fmt.Errorf("%w: list needs %d bytes, have %d", ErrShortBuffer, size, len(dst))
	}
	if len(entries) > capacity {
		return fmt.Errorf("%w: %d entries in a list of %d", ErrInvalidCount, len(entries), capacity)
	}
	clear(dst[:size])
	records := 2 + capacity
	otNames := records + capacity*recordSize
	nicknames := otNames + capacity*Gen12NameSize

	dst[0] = byte(len(entries))
	for i := len(entries) + 1; i < capacity+2; i++ {
		dst[i] = listTerminator
	}
	for i := range capacity {
		dst[otNames+i*Gen12NameSize] = gen12Terminator
		dst[nicknames+i*Gen12NameSize] = gen12Terminator
	}
	for i, e := range entries {
		if len(e.Record) != recordSize {
			return fmt.Errorf("%w: record %d is %d bytes, want %d", ErrShortBuffer, i, len(e.Record), recordSize)
		}
		ot, err := EncodeGen12Text(e.OTName, Gen12NameSize)
		if err != nil {
			return fmt.Errorf("encoding OT name %d: %w", i, err)
		}
		nick, err := EncodeGen12Text(e.Nickname, Gen12NameSize)
		if err != nil {
			return fmt.Errorf("encoding nickname %d: %w", i, err)
		}
		dst[1+i] = e.Species
		copy(dst[records+i*recordSize:], e.Record)
		copy(dst[otNames+i*Gen12NameSize:], ot)
		copy(dst[nicknames+i*Gen12NameSize:], nick)
	}
	return nil
}
