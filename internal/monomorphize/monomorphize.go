// Package monomorphize turns a checked program into a flat list of concrete,
// first-order functions: every generic function call is resolved to a
// concrete instantiation, every impl/component/actor method becomes a free
// function addressed by its mangled name, and every async function is
// lowered into a polling state machine. Every backend (bytecode, shader,
// native, host-source, interpreter) consumes this Program instead of the
// checked AST directly, so none of them re-derive generic dispatch.
package monomorphize

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/types"
)

// FuncKind records where a flattened function came from, used by the
// backends to decide how to wire up a receiver/self slot.
type FuncKind int

const (
	KindPlain FuncKind = iota
	KindMethod
	KindHandler
	KindGeneric
	KindFuturePoll
)

// Func is one flattened, concrete, first-order function.
type Func struct {
	Name         string
	Receiver     string // struct/actor/component type name for methods/handlers, "" otherwise
	Kind         FuncKind
	Params       []*ast.Param
	ReturnType   ast.TypeExpr
	ResolvedType *types.Type // Kind == types.Func
	Effects      types.EffectSet
	Body         *ast.Block
}

// Program is the monomorphizer's contract output: every call site resolved,
// every method flattened, every async function lowered.
type Program struct {
	Checked     *types.Program
	Table       *types.Table
	Funcs       []*Func
	FuncsByName map[string]*Func
	// Items holds every non-function top-level item unchanged (structs,
	// enums, consts, traits, shaders, components, actors, tests, use/mod,
	// macros, comptime blocks already folded), plus the struct declarations
	// generated for lowered async functions.
	Items []ast.Item
}

type ctx struct {
	table       *types.Table
	checked     *types.Program
	funcs       []*Func
	byName      map[string]*Func
	generics    map[string]*ast.FuncDecl
	genericInfo map[string]*types.FuncInfo
	// instantiated caches a mangled generic name to avoid re-instantiating
	// the same (function, type-args) pair across call sites.
	instantiated map[string]*Func
	items        []ast.Item
	errs         *diag.ErrorList
}

// Monomorphize is the M component's entry point: spec.md §4.M's generic
// instantiation, impl/method flattening and async lowering, run to a fixed
// point over a growing work queue exactly as the original implementation's
// MonoContext.concrete_items loop does.
func Monomorphize(checked *types.Program) (*Program, *diag.ErrorList) {
	c := &ctx{
		table:        checked.Table,
		checked:      checked,
		byName:       map[string]*Func{},
		generics:     map[string]*ast.FuncDecl{},
		genericInfo:  map[string]*types.FuncInfo{},
		instantiated: map[string]*Func{},
		errs:         diag.NewErrorList(),
	}

	for _, it := range checked.AST.Items {
		switch n := it.(type) {
		case *ast.FuncDecl:
			if len(n.Generics) > 0 {
				c.generics[n.Name] = n
				c.genericInfo[n.Name] = checked.Funcs[n.Name]
				continue
			}
			c.register(&Func{
				Name: n.Name, Kind: KindPlain,
				Params: n.Params, ReturnType: n.ReturnType,
				ResolvedType: checked.Funcs[n.Name].Type, Effects: checked.Funcs[n.Name].Effects,
				Body: n.Body,
			})
		case *ast.ImplDecl:
			for _, m := range n.Methods {
				name := mangle.Method(n.Type, m.Name)
				info := checked.Funcs[name]
				c.register(&Func{
					Name: name, Receiver: n.Type, Kind: KindMethod,
					Params: m.Params, ReturnType: m.ReturnType,
					ResolvedType: info.Type, Effects: info.Effects, Body: m.Body,
				})
			}
		case *ast.ComponentDecl:
			for _, m := range n.Methods {
				name := mangle.Method(n.Name, m.Name)
				info := checked.Funcs[name]
				c.register(&Func{
					Name: name, Receiver: n.Name, Kind: KindMethod,
					Params: m.Params, ReturnType: m.ReturnType,
					ResolvedType: info.Type, Effects: info.Effects, Body: m.Body,
				})
			}
			c.items = append(c.items, it)
		case *ast.ActorDecl:
			for _, h := range n.Handlers {
				name := mangle.Method(n.Name, h.Message)
				info := checked.Funcs[name]
				c.register(&Func{
					Name: name, Receiver: n.Name, Kind: KindHandler,
					Params: h.Params, ResolvedType: info.Type, Effects: info.Effects, Body: h.Body,
				})
			}
			c.items = append(c.items, it)
		default:
			c.items = append(c.items, it)
		}
	}

	// Fixed-point work queue: scanning a function can append freshly
	// instantiated generics or a generated poll function, both of which
	// must themselves be scanned for further calls.
	for i := 0; i < len(c.funcs); i++ {
		c.processFunc(c.funcs[i])
	}

	return &Program{
		Checked: checked, Table: c.table,
		Funcs: c.funcs, FuncsByName: c.byName, Items: c.items,
	}, c.errs
}

func (c *ctx) register(f *Func) {
	c.funcs = append(c.funcs, f)
	c.byName[f.Name] = f
}

func (c *ctx) processFunc(f *Func) {
	if f.Body == nil {
		return
	}
	en := newEnv(nil)
	if f.Receiver != "" {
		en.define("self", &types.Type{Kind: types.Struct, Name: f.Receiver, Fields: receiverFields(c.table, f.Receiver)})
	}
	for i, p := range f.Params {
		if f.ResolvedType != nil && i < len(f.ResolvedType.Params) {
			en.define(p.Name, f.ResolvedType.Params[i])
		} else {
			en.define(p.Name, types.ResolveTypeExpr(p.Type, c.table))
		}
	}

	if f.Effects.Contains(types.Async) {
		c.lowerAsync(f, en)
		return
	}
	f.Body = c.scanBlock(f.Body, en)
}

// receiverFields looks up the field-type table for whichever kind of
// receiver a flattened method belongs to (struct, component, actor),
// falling back to an empty map for actors/components whose field table
// uses a different resolved shape than a struct's Fields map.
func receiverFields(table *types.Table, typeName string) map[string]*types.Type {
	if st, ok := table.Structs[typeName]; ok {
		return st.Fields
	}
	if props, ok := table.Components[typeName]; ok {
		return props
	}
	if state, ok := table.Actors[typeName]; ok {
		return state
	}
	return map[string]*types.Type{}
}
