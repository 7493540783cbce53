package bytecode

import "encoding/binary"

// StringTable collects every string literal referenced by a program into a
// single active data segment, one entry per distinct value: `[length:4 LE |
// UTF-8 bytes]`. Equal literals share one offset, and every reference uses
// the pointer past the length prefix (offset+4), per spec.md §4.GW.
type StringTable struct {
	offsets map[string]uint32
	order   []string
	cursor  uint32
}

func newStringTable() *StringTable {
	return &StringTable{offsets: map[string]uint32{}}
}

// Intern returns the data pointer for s (past its 4-byte length prefix),
// adding a new entry the first time s is seen.
func (t *StringTable) Intern(s string) uint32 {
	if off, ok := t.offsets[s]; ok {
		return off + 4
	}
	base := t.cursor
	t.offsets[s] = base
	t.order = append(t.order, s)
	t.cursor += 4 + uint32(len(s))
	return base + 4
}

// Segment serializes every interned string in first-use order.
func (t *StringTable) Segment() []byte {
	out := make([]byte, 0, t.cursor)
	for _, s := range t.order {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		out = append(out, lenBuf[:]...)
		out = append(out, s...)
	}
	return out
}
