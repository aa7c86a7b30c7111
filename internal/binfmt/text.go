// Package binfmt implements the byte-level codecs shared by the save-file
// and single-Pokémon file formats: in-game text encodings, BCD numbers, the
// gen I/II Pokémon list structure and the PK1, PK2, PK3 and GameCube
// Pokémon records.
package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

// Codec errors.
var (
	ErrShortBuffer  = errors.New("buffer too short")
	ErrChecksum     = errors.New("checksum mismatch")
	ErrUnencodable  = errors.New("character has no in-game encoding")
	ErrTextTooLong  = errors.New("text too long for field")
	ErrInvalidCount = errors.New("invalid entry count")
	ErrOverflow     = errors.New("value does not fit field")
)

const (
	gen12Terminator = 0x50
	gen3Terminator  = 0xFF
)

// Gen12NameSize is the storage size of a gen I/II name field, including the
// terminator.
const Gen12NameSize = 11

type charTable struct {
	decode map[byte]rune
	encode map[rune]byte
}

func newCharTable(ranges map[byte]string) charTable {
	t := charTable{decode: make(map[byte]rune), encode: make(map[rune]byte)}
	for start, chars := range ranges {
		b := start
		for _, r := range chars {
			t.decode[b] = r
			if _, ok := t.encode[r]; !ok {
				t.encode[r] = b
			}
			b++
		}
	}
	return t
}

var gen12Chars = newCharTable(map[byte]string{
	0x7F: " ",
	0x80: "ABCDEFGHIJKLMNOPQRSTUVWXYZ():;[]",
	0xA0: "abcdefghijklmnopqrstuvwxyz",
	0xE0: "'",
	0xE3: "-",
	0xE6: "?!.",
	0xEF: "♂",
	0xF3: "/,♀0123456789",
})

var gen3Chars = newCharTable(map[byte]string{
	0x00: " ",
	0x1B: "é",
	0xA1: "0123456789!?.-",
	0xB0: "…“”‘'♂♀",
	0xB8: ",",
	0xBA: "/ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
})

func decodeTable(t charTable, b []byte, terminator byte) string {
	out := make([]rune, 0, len(b))
	for _, c := range b {
		if c == terminator {
			break
		}
		if r, ok := t.decode[c]; ok {
			out = append(out, r)
		}
	}
	return string(out)
}

func encodeTable(t charTable, s string, size int, terminator byte, pad byte) ([]byte, error) {
	out := make([]byte, size)
	for i := range out {
		out[i] = pad
	}
	n := 0
	for _, r := range s {
		c, ok := t.encode[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnencodable, r)
		}
		if n >= size {
			return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrTextTooLong, s, size)
		}
		out[n] = c
		n++
	}
	if n < size {
		out[n] = terminator
	}
	return out, nil
}

// DecodeGen12Text decodes a gen I/II string up to its terminator.
func DecodeGen12Text(b []byte) string {
	return decodeTable(gen12Chars, b, gen12Terminator)
}

// EncodeGen12Text encodes s into a field of size bytes. At least one byte
// is left for the terminator.
func EncodeGen12Text(s string, size int) ([]byte, error) {
	if len([]rune(s)) >= size {
		return nil, fmt.Errorf("%w: %q exceeds %d characters", ErrTextTooLong, s, size-1)
	}
	return encodeTable(gen12Chars, s, size, gen12Terminator, gen12Terminator)
}

// DecodeGen3Text decodes a gen III string up to its terminator.
func DecodeGen3Text(b []byte) string {
	return decodeTable(gen3Chars, b, gen3Terminator)
}

// EncodeGen3Text encodes s into a field of size bytes. A string filling the
// whole field carries no terminator, as in Pokémon nicknames.
func EncodeGen3Text(s string, size int) ([]byte, error) {
	return encodeTable(gen3Chars, s, size, gen3Terminator, gen3Terminator)
}

// DecodeGCNText decodes a big-endian UTF-16 string up to a NUL.
func DecodeGCNText(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.BigEndian.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// EncodeGCNText encodes s as big-endian UTF-16 into a field of chars code
// units, the last of which is always NUL.
func EncodeGCNText(s string, chars int) ([]byte, error) {
	units := utf16.Encode([]rune(s))
	if len(units) >= chars {
		return nil, fmt.Errorf("%w: %q exceeds %d characters", ErrTextTooLong, s, chars-1)
	}
	out := make([]byte, 2*chars)
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out, nil
}

// ValidGen12Text reports whether every character of s has a gen I/II encoding.
func ValidGen12Text(s string) bool {
	for _, r := range s {
		if _, ok := gen12Chars.encode[r]; !ok {
			return false
		}
	}
	return true
}

// ValidGen3Text reports whether every character of s has a gen III encoding.
func ValidGen3Text(s string) bool {
	for _, r := range s {
		if _, ok := gen3Chars.encode[r]; !ok {
			return false
		}
	}
	return true
}
