package savefile

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
)

const itemListTerminator = 0xFF

// countedListSize is the size of a gen I/II item list: count, entries,
// terminator.
func countedListSize(capacity, entrySize int) int {
	return 1 + capacity*entrySize + 1
}

// decodeCountedItems decodes a gen I/II (item, quantity) list.
func decodeCountedItems(b []byte, capacity int) ([]ItemSlot, error) {
	count := int(b[0])
	if count > capacity {
		return nil, fmt.Errorf("%w: %d items in a pocket of %d", binfmt.ErrInvalidCount, count, capacity)
	}
	out := make([]ItemSlot, capacity)
	for i := range count {
		out[i] = ItemSlot{Index: int(b[1+2*i]), Quantity: int(b[2+2*i])}
	}
	return out, nil
}

func encodeCountedItems(dst []byte, slots []ItemSlot) {
	capacity := len(slots)
	clear(dst[:countedListSize(capacity, 2)])
	n := 0
	for _, sl := range slots {
		if sl.Index == 0 || sl.Quantity == 0 {
			continue
		}
		dst[1+2*n] = byte(sl.Index)
		dst[2+2*n] = byte(sl.Quantity)
		n++
	}
	dst[0] = byte(n)
	dst[1+2*n] = itemListTerminator
}

// decodeKeyItems decodes the gen II key item list, which stores indices only.
func decodeKeyItems(b []byte, capacity int) ([]ItemSlot, error) {
	count := int(b[0])
	if count > capacity {
		return nil, fmt.Errorf("%w: %d key items in a pocket of %d", binfmt.ErrInvalidCount, count, capacity)
	}
	out := make([]ItemSlot, capacity)
	for i := range count {
		out[i] = ItemSlot{Index: int(b[1+i]), Quantity: 1}
	}
	return out, nil
}

func encodeKeyItems(dst []byte, slots []ItemSlot) {
	clear(dst[:countedListSize(len(slots), 1)])
	n := 0
	for _, sl := range slots {
		if sl.Index == 0 || sl.Quantity == 0 {
			continue
		}
		dst[1+n] = byte(sl.Index)
		n++
	}
	dst[0] = byte(n)
	dst[1+n] = itemListTerminator
}

// gen2TMIndices are the item indices of the gen II TM/HM pocket slots:
// TM01-TM50 then HM01-HM07.
var gen2TMIndices = func() []int {
	var out []int
	for i := 191; i <= 249; i++ {
		if i == 195 || i == 220 {
			continue
		}
		out = append(out, i)
	}
	return out
}()

func decodeTMPocket(b []byte) []ItemSlot {
	out := make([]ItemSlot, len(gen2TMIndices))
	for i, idx := range gen2TMIndices {
		if q := int(b[i]); q > 0 {
			out[i] = ItemSlot{Index: idx, Quantity: q}
		}
	}
	return out
}

func encodeTMPocket(dst []byte, slots []ItemSlot) error {
	clear(dst[:len(gen2TMIndices)])
	for _, sl := range slots {
		if sl.Index == 0 || sl.Quantity == 0 {
			continue
		}
		pos := -1
		for i, idx := range gen2TMIndices {
			if idx == sl.Index {
				pos = i
			}
		}
		if pos < 0 {
			return fmt.Errorf("item index %d is not a TM or HM", sl.Index)
		}
		dst[pos] = byte(sl.Quantity)
	}
	return nil
}

// decodeSlotItems decodes an array of (u16 item, u16 quantity) slots.
// Quantities are XORed with key.
func decodeSlotItems(b []byte, capacity int, order binary.ByteOrder, key uint16) []ItemSlot {
	out := make([]ItemSlot, capacity)
	n := 0
	for i := range capacity {
		idx := order.Uint16(b[4*i:])
		if idx == 0 {
			continue
		}
		out[n] = ItemSlot{Index: int(idx), Quantity: int(order.Uint16(b[4*i+2:]) ^ key)}
		n++
	}
	return out
}

func encodeSlotItems(dst []byte, slots []ItemSlot, order binary.ByteOrder, key uint16) {
	clear(dst[:4*len(slots)])
	n := 0
	for _, sl := range slots {
		if sl.Index == 0 || sl.Quantity == 0 {
			continue
		}
		order.PutUint16(dst[4*n:], uint16(sl.Index))
		order.PutUint16(dst[4*n+2:], uint16(sl.Quantity)^key)
		n++
	}
	// Empty slots hold a zero item and the encrypted zero quantity.
	for i := n; i < len(slots); i++ {
		order.PutUint16(dst[4*i+2:], key)
	}
}
