// Package bytecode is the GW backend: it turns a monomorphized program into
// a module for a linear-memory stack machine, following spec.md §4.GW.
// There is no importable third-party encoder for this module's custom
// binary shape in the retrieved corpus — the pack's only WASM-adjacent
// library, tetratelabs/wazero, keeps its binary encoder under an internal/
// package that is not importable outside its own module — so the section
// and instruction encoding is built directly on encoding/binary, the same
// way a hand-written lexer avoids a third-party tokenizing library and just
// writes the byte-level logic directly.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Opcode is one stack-machine instruction. The set is intentionally small:
// every expression in spec.md §4.GW lowers to a short sequence of these.
type Opcode byte

const (
	OpConstI64 Opcode = iota
	OpConstF64
	OpConstI32
	OpLocalGet
	OpLocalSet
	OpGlobalGet
	OpGlobalSet
	OpLoad64
	OpLoad32
	OpStore64
	OpStore32
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAddF
	OpSubF
	OpMulF
	OpDivF
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
	OpNeg
	OpCall
	OpCallIndirect
	OpCallImport
	OpBumpAlloc
	OpIf
	OpElse
	OpEnd
	OpLoop
	OpBreak
	OpBreakIf
	OpContinue
	OpReturn
	OpDrop
	OpStrConcat
)

// asm accumulates encoded instructions, each an opcode plus its operand
// bytes, already serialized (so a function body is just []byte built
// incrementally).
type asm struct {
	buf bytes.Buffer
}

func newAsm() *asm { return &asm{} }

func (a *asm) op(o Opcode) *asm {
	a.buf.WriteByte(byte(o))
	return a
}

func (a *asm) u32(v uint32) *asm {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	a.buf.Write(b[:])
	return a
}

func (a *asm) i64(v int64) *asm {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	a.buf.Write(b[:])
	return a
}

func (a *asm) f64(v float64) *asm {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	a.buf.Write(b[:])
	return a
}

func (a *asm) str(s string) *asm {
	a.u32(uint32(len(s)))
	a.buf.WriteString(s)
	return a
}

func (a *asm) bytes() []byte { return a.buf.Bytes() }

// HeapBase is where the bump allocator starts handing out memory, leaving
// the low page for the string table's data segment.
const HeapBase = 4096

// LocalType is the bytecode type assigned to a pre-declared local (spec.md
// §4.GW's "locals pre-allocation" rule).
type LocalType byte

const (
	LocalI64 LocalType = iota
	LocalF64
	LocalI32
)

// Func is one compiled function: its locals (in pre-allocation order), its
// instruction stream, and its arity (first N locals are parameters).
type Func struct {
	Name      string
	ParamCount int
	Locals    []LocalType
	LocalIdx  map[string]int
	Code      []byte
}

// Module is the GW backend's whole compiled output before final byte
// serialization: host imports, the function-reference table (for lambdas),
// the string table's data segment, and every compiled function.
type Module struct {
	Imports   []string
	Strings   *StringTable
	Functions []*Func
	FuncIndex map[string]int
	TableSize int // number of lambda slots in the function-reference table
}

func newModule() *Module {
	return &Module{
		Imports: []string{
			"print_int", "print_float", "print_bool", "print_string",
			"read_int", "int_to_string", "str_concat", "wall_time",
			"dom_create", "dom_append", "dom_attr", "dom_text",
		},
		Strings:   newStringTable(),
		FuncIndex: map[string]int{},
	}
}

// Encode serializes the module to the backend's binary container: a magic
// header, a memory/global section (one page, heap_ptr global at HeapBase),
// the import names, the string table's data segment, the function-reference
// table size, then each function's locals and code.
func (m *Module) Encode() []byte {
	var out bytes.Buffer
	out.WriteString("NYXW")
	writeU32(&out, 1) // format version

	writeU32(&out, 1) // one linear memory page
	writeU32(&out, HeapBase)

	writeU32(&out, uint32(len(m.Imports)))
	for _, name := range m.Imports {
		writeString(&out, name)
	}

	data := m.Strings.Segment()
	writeU32(&out, uint32(len(data)))
	out.Write(data)

	writeU32(&out, uint32(m.TableSize))

	writeU32(&out, uint32(len(m.Functions)))
	for _, f := range m.Functions {
		writeString(&out, f.Name)
		writeU32(&out, uint32(f.ParamCount))
		writeU32(&out, uint32(len(f.Locals)))
		for _, lt := range f.Locals {
			out.WriteByte(byte(lt))
		}
		writeU32(&out, uint32(len(f.Code)))
		out.Write(f.Code)
	}
	return out.Bytes()
}

func writeU32(out *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	out.Write(b[:])
}

func writeString(out *bytes.Buffer, s string) {
	writeU32(out, uint32(len(s)))
	out.WriteString(s)
}
