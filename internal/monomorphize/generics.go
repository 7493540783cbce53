package monomorphize

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/types"
)

// unify binds formal's generic placeholders against actual's concrete
// shape, recording each binding the first time a placeholder is seen and
// refusing to rebind it to something different later (the same rule the
// original implementation's unify enforces: a type parameter used twice in
// a signature must see the same concrete type at every occurrence).
func unify(formal, actual *types.Type, bindings map[string]*types.Type) bool {
	if formal == nil || actual == nil {
		return true
	}
	if formal.Kind == types.Generic {
		if existing, ok := bindings[formal.Name]; ok {
			return existing.Equal(actual) || existing.Kind == types.Unknown || actual.Kind == types.Unknown
		}
		bindings[formal.Name] = actual
		return true
	}
	if actual.Kind == types.Unknown {
		return true
	}
	switch formal.Kind {
	case types.Array, types.Slice, types.Option, types.Ref:
		return unify(formal.Elem, actual.Elem, bindings)
	case types.Result:
		return unify(formal.Elem, actual.Elem, bindings) && unify(formal.ErrElem, actual.ErrElem, bindings)
	case types.Tuple:
		if len(formal.Elems) != len(actual.Elems) {
			return true
		}
		for i := range formal.Elems {
			if !unify(formal.Elems[i], actual.Elems[i], bindings) {
				return false
			}
		}
		return true
	case types.Func:
		for i := range formal.Params {
			if i < len(actual.Params) && !unify(formal.Params[i], actual.Params[i], bindings) {
				return false
			}
		}
		return unify(formal.Return, actual.Return, bindings)
	default:
		return true
	}
}

// inferTypeArgs unifies a generic function's declared parameter types
// against the argument types observed at a call site, then checks every
// trait bound the function's generics declared against the program's
// recorded trait implementations (spec.md §4.M's bound-checking step). Any
// bound an inferred type argument fails to satisfy is reported through errs
// immediately, since this is the only pass with both the resolved type
// argument and the call site in hand.
func (c *ctx) inferTypeArgs(name string, info *types.FuncInfo, argTypes []*types.Type, span source.Span) (map[string]*types.Type, bool) {
	bindings := map[string]*types.Type{}
	for i, formal := range info.Type.Params {
		if i < len(argTypes) {
			unify(formal, argTypes[i], bindings)
		}
	}
	ok := true
	for _, bound := range info.Bounds {
		t, hasBinding := bindings[bound.Param]
		if !hasBinding || t == nil {
			continue
		}
		for _, trait := range bound.Bounds {
			if !c.table.TraitImpls[[2]string{trait, t.Name}] {
				c.errs.Add(diag.Type, span, fmt.Sprintf(
					"%s does not satisfy bound %s required by %s's type parameter %s",
					t.Name, trait, name, bound.Param))
				ok = false
			}
		}
	}
	return bindings, ok
}

// instantiateGeneric produces (or returns the cached) concrete Func for a
// generic function called with the given argument types. Matches the
// original implementation's instantiate: unify, mangle by resolved type
// names, clone-and-substitute on first use, then queue the clone for its
// own call-site scan.
func (c *ctx) instantiateGeneric(name string, argTypes []*types.Type, span source.Span) *Func {
	info, ok := c.genericInfo[name]
	if !ok {
		return nil
	}
	bindings, _ := c.inferTypeArgs(name, info, argTypes, span)

	typeArgNames := make([]string, len(info.Generics))
	typeArgTypes := make([]*types.Type, len(info.Generics))
	for i, g := range info.Generics {
		t := bindings[g]
		if t == nil {
			t = types.UnknownType()
		}
		typeArgNames[i] = t.MangleName()
		typeArgTypes[i] = t
	}
	mangled := mangle.Generic(name, typeArgNames)
	if existing, ok := c.instantiated[mangled]; ok {
		return existing
	}

	subst := map[string]*types.Type{}
	for i, g := range info.Generics {
		subst[g] = typeArgTypes[i]
	}

	decl := c.generics[name]
	clone := cloneFunc(decl)
	clone.Name = mangled
	substituteFunc(clone, subst)

	resolved := &types.Type{
		Kind:    types.Func,
		Params:  substituteTypes(info.Type.Params, subst),
		Return:  substituteType(info.Type.Return, subst),
		Effects: info.Effects,
	}

	f := &Func{
		Name: mangled, Kind: KindGeneric,
		Params: clone.Params, ReturnType: clone.ReturnType,
		ResolvedType: resolved, Effects: info.Effects, Body: clone.Body,
	}
	c.instantiated[mangled] = f
	c.register(f)
	return f
}
