package bytecode

import "github.com/nyxlang/nyxc/internal/types"

// sizeOf returns a resolved type's in-memory size in bytes for layout
// purposes: every scalar and pointer-shaped value is 8 bytes except the
// 4-byte bool/markup/string-tag-class of values, matching the bytecode
// backend's uniform "struct field is i64 unless it's a small tag" model.
func sizeOf(t *types.Type) int {
	if t == nil {
		return 8
	}
	switch t.Kind {
	case types.Bool:
		return 4
	default:
		return 8
	}
}

// align rounds n up to a 4-byte boundary, per spec.md §4.GW's struct layout
// rule ("4-byte alignment between fields").
func align(n int) int {
	return (n + 3) &^ 3
}

// StructLayout is one struct's field-offset map and total size.
type StructLayout struct {
	Offsets map[string]int
	Order   []string
	Size    int
}

// VariantLayout is one enum variant's field-offset map within its payload,
// following the tag-then-payload shape `{ tag: 4 bytes, payload }`.
type VariantLayout struct {
	Name    string
	Offsets map[string]int
	Size    int
}

// EnumLayout holds every variant's payload layout plus the max payload size
// the enum's representation must reserve.
type EnumLayout struct {
	Variants   map[string]*VariantLayout
	MaxPayload int
}

// computeStructLayouts lays out every struct in the table with 4-byte
// alignment between fields and a 4-byte-aligned total size.
func computeStructLayouts(table *types.Table) map[string]*StructLayout {
	out := make(map[string]*StructLayout, len(table.Structs))
	for name, st := range table.Structs {
		layout := &StructLayout{Offsets: map[string]int{}}
		off := 0
		for _, fname := range st.FieldOrder {
			layout.Offsets[fname] = off
			layout.Order = append(layout.Order, fname)
			off = align(off + sizeOf(st.Fields[fname]))
		}
		layout.Size = align(off)
		out[name] = layout
	}
	return out
}

// computeEnumLayouts lays out every enum's variants: tag is the first 4
// bytes, each variant gets its own field-offset map starting at offset 4.
func computeEnumLayouts(table *types.Table) map[string]*EnumLayout {
	out := make(map[string]*EnumLayout, len(table.Enums))
	for name, en := range table.Enums {
		layout := &EnumLayout{Variants: map[string]*VariantLayout{}}
		for _, v := range en.Variants {
			vl := &VariantLayout{Name: v.Name, Offsets: map[string]int{}}
			off := 4
			if v.Fields != nil {
				for _, fname := range v.Order {
					vl.Offsets[fname] = off
					off = align(off + sizeOf(v.Fields[fname]))
				}
			} else {
				for i, elemT := range v.Tuple {
					vl.Offsets[tupleFieldName(i)] = off
					off = align(off + sizeOf(elemT))
				}
			}
			vl.Size = off
			if vl.Size > layout.MaxPayload {
				layout.MaxPayload = vl.Size
			}
			layout.Variants[v.Name] = vl
		}
		out[name] = layout
	}
	return out
}

func tupleFieldName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return string(rune('0' + i))
}
