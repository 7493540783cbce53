package native

import "github.com/nyxlang/nyxc/internal/types"

// isPointerKind reports whether a resolved type is heap-allocated and
// therefore refcounted at runtime, per spec.md §4.GN: "reference-counted
// heap objects are used for strings, arrays, and structs containing
// pointer-typed fields."
func isPointerKind(t *types.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case types.String, types.Array, types.Slice, types.Struct, types.Enum:
		return true
	default:
		return false
	}
}

// StructLayout is this backend's own per-struct layout record, separate from
// the bytecode backend's, listing fields in order and recording which are
// pointer-typed so a destructor can be emitted for them.
type StructLayout struct {
	Fields    []string
	Pointers  map[string]bool
	HasPtrFld bool
}

func computeStructLayouts(table *types.Table) map[string]*StructLayout {
	out := make(map[string]*StructLayout, len(table.Structs))
	for name, st := range table.Structs {
		layout := &StructLayout{Pointers: map[string]bool{}}
		for _, fname := range st.FieldOrder {
			layout.Fields = append(layout.Fields, fname)
			if isPointerKind(st.Fields[fname]) {
				layout.Pointers[fname] = true
				layout.HasPtrFld = true
			}
		}
		out[name] = layout
	}
	return out
}

// computeActorLayouts lays out each actor's state fields the same way a
// struct's fields are laid out, reading from table.Actors since actor state
// isn't recorded in table.Structs.
func computeActorLayouts(table *types.Table) map[string]*StructLayout {
	out := make(map[string]*StructLayout, len(table.Actors))
	for name, fields := range table.Actors {
		layout := &StructLayout{Pointers: map[string]bool{}}
		for fname, ft := range fields {
			layout.Fields = append(layout.Fields, fname)
			if isPointerKind(ft) {
				layout.Pointers[fname] = true
				layout.HasPtrFld = true
			}
		}
		out[name] = layout
	}
	return out
}

// actorHash is the deterministic string-hash spec.md §4.GN names for
// dispatching on an actor's mailbox tag: `actor_name + "_" + message_name`.
// FNV-1a, since it is the smallest well-known deterministic string hash and
// nothing in the pack already carries one for this purpose.
func actorHash(actorName, message string) uint32 {
	s := actorName + "_" + message
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
