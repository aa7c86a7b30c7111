package binfmt

import "fmt"

// DecodeBCD decodes big-endian packed BCD. Invalid nibbles decode as 9.
func DecodeBCD(b []byte) int {
	v := 0
	for _, c := range b {
		v = v*100 + int(min(c>>4, 9))*10 + int(min(c&0x0F, 9))
	}
	return v
}

// EncodeBCD encodes v as big-endian packed BCD into n bytes.
func EncodeBCD(v, n int) ([]byte, error) {
	limit := 1
	for range 2 * n {
		limit *= 10
	}
	if v < 0 || v >= limit {
		return nil, fmt.Errorf("%w: %d does not fit %d BCD bytes", ErrOverflow, v, n)
	}
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		lo := v % 10
		v /= 10
		hi := v % 10
		v /= 10
		out[i] = byte(hi<<4 | lo)
	}
	return out, nil
}

// Uint24 reads a big-endian 24-bit value.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutUint24 writes a big-endian 24-bit value.
func PutUint24(b []byte, v uint32) {
	b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
}
