package binfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGen12Text(t *testing.T) {
	b, err := EncodeGen12Text("PIKACHU", Gen12NameSize)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x8F, 0x88, 0x8A, 0x80, 0x82, 0x87, 0x94, 0x50, 0x50, 0x50, 0x50}, b)
	assert.Equal(t, "PIKACHU", DecodeGen12Text(b))

	b, err = EncodeGen12Text("Mr. Mime 2", Gen12NameSize)
	require.NoError(t, err)
	assert.Equal(t, "Mr. Mime 2", DecodeGen12Text(b))

	_, err = EncodeGen12Text("ABCDEFGHIJK", Gen12NameSize)
	assert.ErrorIs(t, err, ErrTextTooLong)
	_, err = EncodeGen12Text("é", Gen12NameSize)
	assert.ErrorIs(t, err, ErrUnencodable)
	assert.False(t, ValidGen12Text("Flabébé"))
	assert.True(t, ValidGen12Text("RED"))
}

func TestGen3Text(t *testing.T) {
	b, err := EncodeGen3Text("Torchic", Gen3NicknameSize)
	require.NoError(t, err)
	assert.Equal(t, byte(0xCE), b[0])
	assert.Equal(t, byte(0xFF), b[7])
	assert.Equal(t, "Torchic", DecodeGen3Text(b))

	// A full-length nickname has no terminator.
	b, err = EncodeGen3Text("ABCDEFGHIJ", Gen3NicknameSize)
	require.NoError(t, err)
	assert.Equal(t, byte(0xC4), b[9])
	assert.Equal(t, "ABCDEFGHIJ", DecodeGen3Text(b))

	_, err = EncodeGen3Text("ABCDEFGH", Gen3OTNameSize)
	assert.ErrorIs(t, err, ErrTextTooLong)
	assert.True(t, ValidGen3Text("Pokémon ♀"))
}

func TestGCNText(t *testing.T) {
	b, err := EncodeGCNText("Wes", GCNNameChars)
	require.NoError(t, err)
	assert.Len(t, b, 22)
	assert.Equal(t, []byte{0, 'W', 0, 'e', 0, 's', 0, 0}, b[:8])
	assert.Equal(t, "Wes", DecodeGCNText(b))

	_, err = EncodeGCNText("ABCDEFGHIJK", GCNNameChars)
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestBCD(t *testing.T) {
	b, err := EncodeBCD(123456, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0x56}, b)
	assert.Equal(t, 123456, DecodeBCD(b))
	assert.Equal(t, 9999, DecodeBCD([]byte{0x99, 0x99}))

	_, err = EncodeBCD(10000, 2)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = EncodeBCD(-1, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	u := make([]byte, 3)
	PutUint24(u, 1059860)
	assert.Equal(t, uint32(1059860), Uint24(u))
}

func TestList(t *testing.T) {
	capacity, size := 6, PK1PartySize
	buf := make([]byte, ListSize(capacity, size))
	assert.Len(t, buf, 404)

	rec := make([]byte, size)
	rec[0] = 0x54
	entries := []ListEntry{
		{Species: 0x54, Record: rec, OTName: "ASH", Nickname: "PIKACHU"},
		{Species: 0x99, Record: make([]byte, size), OTName: "ASH", Nickname: "BULBASAUR"},
	}
	require.NoError(t, EncodeList(buf, entries, capacity, size))
	assert.Equal(t, byte(2), buf[0])
	assert.Equal(t, []byte{0x54, 0x99, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf[1:8])

	got, err := DecodeList(buf, capacity, size)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	assert.ErrorIs(t, EncodeList(buf, make([]ListEntry, 7), capacity, size), ErrInvalidCount)
	buf[0] = 7
	_, err = DecodeList(buf, capacity, size)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = DecodeList(buf[:100], capacity, size)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPK1(t *testing.T) {
	p := PK1{
		Species:    0x54,
		CurrentHP:  35,
		Status:     0,
		Types:      [2]byte{0x17, 0x17},
		CatchRate:  190,
		Moves:      [4]byte{84, 45, 0, 0},
		OTID:       0xBEEF,
		Experience: 1059860,
		EVs:        [5]uint16{1, 2, 3, 4, 65535},
		IVs:        PackIVs([4]int{15, 10, 10, 10}),
		PP:         [4]byte{30, 40, 0, 0},
		Level:      100,
		Stats:      [5]uint16{200, 150, 100, 250, 140},
	}
	party, err := DecodePK1(p.Party())
	require.NoError(t, err)
	want := p
	want.BoxLevel = 100
	assert.Equal(t, want, party)

	box, err := DecodePK1(p.Box())
	require.NoError(t, err)
	assert.Equal(t, byte(100), box.Level)
	assert.Equal(t, [5]uint16{}, box.Stats)

	assert.Equal(t, [4]int{15, 10, 10, 10}, IVNibbles(p.IVs))

	file, err := EncodePK1File(p, "ASH", "SPARKY")
	require.NoError(t, err)
	assert.Len(t, file, 69)
	got, entry, err := DecodePK1File(file)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "SPARKY", entry.Nickname)
	assert.Equal(t, "ASH", entry.OTName)

	_, _, err = DecodePK1File(file[:68])
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPK2(t *testing.T) {
	p := PK2{
		Species:     158,
		HeldItem:    146,
		Moves:       [4]byte{10, 43, 0, 0},
		OTID:        12345,
		Experience:  135,
		IVs:         PackIVs([4]int{1, 2, 3, 4}),
		PP:          [4]byte{35, 30, 0, 0},
		Friendship:  70,
		Pokerus:     0x21,
		TimeOfDay:   2,
		LevelMet:    5,
		OTFemale:    true,
		LocationMet: 100,
		Level:       6,
		Status:      0x08,
		CurrentHP:   20,
		Stats:       [6]uint16{22, 14, 13, 10, 11, 12},
	}
	got, err := DecodePK2(p.Party())
	require.NoError(t, err)
	assert.Equal(t, p, got)

	box, err := DecodePK2(p.Box())
	require.NoError(t, err)
	assert.True(t, box.OTFemale)
	assert.Equal(t, byte(100), box.LocationMet)
	assert.Zero(t, box.CurrentHP)

	file, err := EncodePK2File(p, true, "GOLD", "EGG")
	require.NoError(t, err)
	assert.Len(t, file, 73)
	assert.Equal(t, byte(Gen2EggSpecies), file[1])
	rec, entry, err := DecodePK2File(file)
	require.NoError(t, err)
	assert.Equal(t, byte(158), rec.Species)
	assert.Equal(t, byte(Gen2EggSpecies), entry.Species)
}

func testPK3() PK3 {
	return PK3{
		Personality: 0x12345678,
		OTID:        0x1234ABCD,
		Nickname:    "Mudkip",
		OTName:      "MAY",
		Markings:    0x05,
		Species:     283,
		HeldItem:    139,
		Experience:  560,
		PPUps:       0x03,
		Friendship:  70,
		Moves:       [4]uint16{33, 45, 55, 0},
		PP:          [4]byte{35, 40, 25, 0},
		EVs:         [6]byte{1, 2, 3, 4, 5, 6},
		Contest:     [6]byte{10, 0, 0, 0, 0, 255},
		Pokerus:     0x00,
		LocationMet: 16,
		LevelMet:    5,
		OriginGame:  3,
		Ball:        12,
		OTFemale:    true,
		IVs:         [6]byte{30, 31, 31, 31, 30, 31},
		AbilitySlot: 0,
		Ribbons:     RibbonWord([]bool{true, true}),
		Status:      0,
		Level:       10,
		CurrentHP:   30,
		Stats:       [6]uint16{31, 20, 18, 14, 16, 17},
	}
}

func TestPK3RoundTrip(t *testing.T) {
	for _, pid := range []uint32{0, 1, 5, 23, 0x12345678, 0xFFFFFFFF} {
		p := testPK3()
		p.Personality = pid
		party, err := p.Party()
		require.NoError(t, err)
		require.Len(t, party, PK3PartySize)
		got, err := DecodePK3(party)
		require.NoError(t, err, "pid %#x", pid)
		assert.Equal(t, p, got, "pid %#x", pid)

		box, err := p.Box()
		require.NoError(t, err)
		gotBox, err := DecodePK3(box)
		require.NoError(t, err)
		assert.Equal(t, p.Species, gotBox.Species)
		assert.Zero(t, gotBox.Level)
	}
}

func TestPK3Encryption(t *testing.T) {
	p := testPK3()
	b, err := p.Box()
	require.NoError(t, err)

	// The encrypted block does not contain the plain species index.
	plain := []byte{byte(p.Species), byte(p.Species >> 8)}
	found := false
	for i := 0x20; i+1 < 0x50; i += 2 {
		if b[i] == plain[0] && b[i+1] == plain[1] {
			found = true
		}
	}
	assert.False(t, found)

	b[0x30] ^= 0xFF
	_, err = DecodePK3(b)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = DecodePK3(b[:79])
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPK3EggAndAbility(t *testing.T) {
	p := testPK3()
	p.IsEgg = true
	p.AbilitySlot = 1
	b, err := p.Box()
	require.NoError(t, err)
	assert.Equal(t, byte(0x06), b[0x13])
	got, err := DecodePK3(b)
	require.NoError(t, err)
	assert.True(t, got.IsEgg)
	assert.Equal(t, byte(1), got.AbilitySlot)
	assert.False(t, IsEmptyPK3(b))
	assert.True(t, IsEmptyPK3(make([]byte, PK3BoxSize)))
}

func TestRibbons(t *testing.T) {
	flags := RibbonSet(0)
	assert.Len(t, flags, 32)
	assert.NotContains(t, flags, true)

	// Cool rank 2 and Champion.
	w := uint32(2) | 1<<15
	flags = RibbonSet(w)
	assert.Equal(t, []bool{true, true, false, false}, flags[0:4])
	assert.True(t, flags[20])
	assert.Equal(t, w, RibbonWord(flags))

	// A higher rank implies the lower ones.
	only := make([]bool, 32)
	only[6] = true // Beauty Hyper
	assert.Equal(t, uint32(3)<<3, RibbonWord(only))
	assert.Equal(t, []bool{true, true, true, false}, RibbonSet(RibbonWord(only))[4:8])

	// World is the last ribbon.
	only = make([]bool, 32)
	only[31] = true
	assert.Equal(t, uint32(1)<<26, RibbonWord(only))
}

func TestGCN(t *testing.T) {
	p := GCN{
		Personality: 0xCAFEBABE,
		OTID:        0x00010002,
		Species:     197,
		HeldItem:    200,
		Experience:  125000,
		Friendship:  255,
		Level:       50,
		LevelMet:    25,
		Ball:        4,
		LocationMet: 0,
		OriginGame:  15,
		IsEgg:       false,
		AbilitySlot: 1,
		OTFemale:    false,
		Pokerus:     0,
		Markings:    0x0F,
		Status:      0,
		Moves:       [4]uint16{44, 98, 0, 0},
		PP:          [4]byte{15, 30, 0, 0},
		PPUps:       [4]byte{3, 0, 0, 0},
		IVs:         [6]byte{31, 31, 31, 31, 31, 31},
		EVs:         [6]uint16{252, 0, 4, 0, 0, 252},
		CurrentHP:   170,
		Stats:       [6]uint16{170, 90, 130, 85, 80, 150},
		Contest:     [6]byte{1, 2, 3, 4, 5, 6},
		Ribbons:     1 << 15,
		OTName:      "Wes",
		Nickname:    "Umbreon",
	}
	b, err := p.Encode()
	require.NoError(t, err)
	require.Len(t, b, GCNRecordSize)
	got, err := DecodeGCN(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.False(t, IsEmptyGCN(b))
	assert.True(t, IsEmptyGCN(make([]byte, GCNRecordSize)))

	p.Nickname = "ABCDEFGHIJK"
	_, err = p.Encode()
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestValidListHeader(t *testing.T) {
	b := make([]byte, ListSize(6, PK1PartySize))
	assert.False(t, ValidListHeader(b, 6))
	require.NoError(t, EncodeList(b, nil, 6, PK1PartySize))
	assert.True(t, ValidListHeader(b, 6))
	b[0] = 7
	assert.False(t, ValidListHeader(b, 6))
}
