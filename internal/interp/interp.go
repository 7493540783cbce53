package interp

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/source"
)

// Interpreter holds the global state a single run shares: the flattened
// function table, every non-function item (structs/enums/actors/components),
// the global environment (consts), and the actor runtime.
type Interpreter struct {
	prog    *monomorphize.Program
	funcs   map[string]*monomorphize.Func
	structs map[string]*ast.StructDecl
	enums   map[string]*ast.EnumDecl
	actors  map[string]*ast.ActorDecl
	global  *Env
	actorRT *actorRuntime
	errs    *diag.ErrorList
}

// New builds an Interpreter ready to run a monomorphized program: every
// const item is evaluated up front into the global environment, matching
// the way the comptime folder already resolved every compile-time value.
func New(prog *monomorphize.Program) *Interpreter {
	it := &Interpreter{
		prog:    prog,
		funcs:   prog.FuncsByName,
		structs: map[string]*ast.StructDecl{},
		enums:   map[string]*ast.EnumDecl{},
		actors:  map[string]*ast.ActorDecl{},
		global:  NewEnv(nil),
		errs:    diag.NewErrorList(),
	}
	it.actorRT = newActorRuntime(it)
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.StructDecl:
			it.structs[n.Name] = n
		case *ast.EnumDecl:
			it.enums[n.Name] = n
		case *ast.ActorDecl:
			it.actors[n.Name] = n
		case *ast.ConstDecl:
			it.global.Define(n.Name, it.Eval(n.Value, it.global))
		}
	}
	return it
}

// Errors returns diagnostics accumulated by runtime failures (panics,
// unresolved builtin calls); spec.md's Runtime error kind carries no span.
func (it *Interpreter) Errors() *diag.ErrorList { return it.errs }

func (it *Interpreter) runtimeError(format string, args ...interface{}) {
	it.errs.Add(diag.Runtime, source.Span{}, fmt.Sprintf(format, args...))
}

// RunMain looks up the synthesized or user-declared `main` function and
// calls it with no arguments, the CLI driver's `run` target contract.
func (it *Interpreter) RunMain() *Value {
	fn, ok := it.funcs["main"]
	if !ok {
		it.runtimeError("no main function")
		return Unit()
	}
	return it.Call(fn, nil, nil)
}

// RunTests evaluates every test item's body and returns the names of the
// ones whose body ran to completion without a runtime error, matching the
// `test` target's contract of executing each `test "name": body` in
// isolation with a fresh environment.
func (it *Interpreter) RunTests() (passed, failed []string) {
	for _, item := range it.prog.Items {
		t, ok := item.(*ast.TestDecl)
		if !ok {
			continue
		}
		before := len(it.errs.Errors)
		en := NewEnv(it.global)
		it.evalBlock(t.Body, en)
		if len(it.errs.Errors) > before {
			failed = append(failed, t.Name)
		} else {
			passed = append(passed, t.Name)
		}
	}
	return passed, failed
}

// Call invokes a flattened function (plain, method, handler, or generated
// poll routine) with already-evaluated arguments. self is non-nil for
// method/handler/poll calls (bound as the "self" local).
func (it *Interpreter) Call(fn *monomorphize.Func, self *Value, args []*Value) *Value {
	en := NewEnv(it.global)
	allArgs := args
	if self != nil {
		if len(fn.Params) > 0 && fn.Params[0].Name == "self" {
			// The CallExpr rewrite in internal/monomorphize/scan.go already
			// passes the receiver as args[0] for method/handler calls
			// dispatched through a flattened name; this path instead covers
			// callers (dynamic method dispatch, poll routines) that hand
			// the receiver in separately.
			allArgs = append([]*Value{self}, args...)
		} else {
			en.Define("self", self)
		}
	}
	for i, p := range fn.Params {
		if i < len(allArgs) {
			en.Define(p.Name, allArgs[i])
		}
	}
	result := it.evalBlock(fn.Body, en)
	if result != nil && result.Kind == VReturn {
		return result.Inner
	}
	if result != nil && result.IsControl() {
		return Unit()
	}
	return result
}

// CallByName resolves a flattened function by name and calls it with no
// receiver, reporting false when no function has that name.
func (it *Interpreter) CallByName(name string, args []*Value) (*Value, bool) {
	fn, ok := it.funcs[name]
	if !ok {
		return nil, false
	}
	return it.Call(fn, nil, args), true
}

// CallValue invokes a VLambda or VNative value (a first-class function
// passed to map/filter/reduce/foreach, or returned from a component method).
func (it *Interpreter) CallValue(fn *Value, args []*Value) *Value {
	switch fn.Kind {
	case VNative:
		return it.callBuiltin(fn.Name, args)
	case VLambda:
		if fn.Body == nil {
			if named, ok := it.funcs[fn.Name]; ok {
				return it.Call(named, fn.Self, args)
			}
		}
		en := NewEnv(fn.Closure)
		if fn.Self != nil {
			en.Define("self", fn.Self)
		}
		for i, p := range fn.Params {
			if i < len(args) {
				en.Define(p.Name, args[i])
			}
		}
		result := it.Eval(fn.Body, en)
		if result != nil && result.Kind == VReturn {
			return result.Inner
		}
		return result
	default:
		it.runtimeError("value is not callable: %s", fn)
		return Unit()
	}
}

// evalBlock evaluates every statement in order, short-circuiting as soon as
// a statement yields a control-flow carrier (break/continue/return).
func (it *Interpreter) evalBlock(b *ast.Block, en *Env) *Value {
	if b == nil {
		return Unit()
	}
	var last *Value = Unit()
	for _, s := range b.Stmts {
		last = it.evalStmt(s, en)
		if last != nil && last.IsControl() {
			return last
		}
	}
	return last
}

func (it *Interpreter) evalStmt(s ast.Statement, en *Env) *Value {
	switch n := s.(type) {
	case *ast.LetStmt:
		v := it.Eval(n.Decl.Value, en)
		en.Define(n.Decl.Name, v)
		return Unit()
	case *ast.ReturnStmt:
		var v *Value = Unit()
		if n.Value != nil {
			v = it.Eval(n.Value, en)
		}
		return ReturnValue(v)
	case *ast.WhileStmt:
		for it.Eval(n.Cond, en).Truthy() {
			r := it.evalBlock(n.Body, NewEnv(en))
			if r != nil && r.Kind == VBreak {
				break
			}
			if r != nil && r.Kind == VReturn {
				return r
			}
		}
		return Unit()
	case *ast.ForStmt:
		return it.evalFor(n, en)
	case *ast.LoopStmt:
		for {
			r := it.evalBlock(n.Body, NewEnv(en))
			if r != nil && r.Kind == VBreak {
				break
			}
			if r != nil && r.Kind == VReturn {
				return r
			}
		}
		return Unit()
	case *ast.BreakStmt:
		return BreakValue()
	case *ast.ContinueStmt:
		return ContinueValue()
	case *ast.ExprStmt:
		return it.Eval(n.Expr, en)
	default:
		return Unit()
	}
}

func (it *Interpreter) evalFor(n *ast.ForStmt, en *Env) *Value {
	items := it.iterate(n.Iter, en)
	inner := NewEnv(en)
	for _, item := range items {
		inner.Define(n.Name, item)
		r := it.evalBlock(n.Body, inner)
		if r != nil && r.Kind == VBreak {
			break
		}
		if r != nil && r.Kind == VReturn {
			return r
		}
	}
	return Unit()
}

// iterate materializes the sequence a for-loop walks: a range expression's
// integer sequence, or an existing array/slice/tuple's elements.
func (it *Interpreter) iterate(e ast.Expression, en *Env) []*Value {
	if r, ok := e.(*ast.RangeExpr); ok {
		start := int64(0)
		if r.Start != nil {
			start = it.Eval(r.Start, en).Int
		}
		end := it.Eval(r.End, en).Int
		if r.Inclusive {
			end++
		}
		out := make([]*Value, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, Int(i))
		}
		return out
	}
	v := it.Eval(e, en)
	if v.Kind == VArray || v.Kind == VTuple {
		return v.Arr
	}
	return nil
}

// Eval is the expression evaluator, exported so builtins (map/filter/reduce)
// and the async executor can recurse into lambda bodies and await targets.
func (it *Interpreter) Eval(e ast.Expression, en *Env) *Value {
	if e == nil {
		return Unit()
	}
	switch n := e.(type) {
	case *ast.IntLit:
		return Int(parseIntLit(n.Value))
	case *ast.FloatLit:
		return Float(parseFloatLit(n.Value))
	case *ast.BoolLit:
		return Bool(n.Value)
	case *ast.StringLit:
		return Str(n.Value)
	case *ast.FStringLit:
		return it.evalFString(n, en)
	case *ast.Ident:
		if v, ok := en.Get(n.Name); ok {
			return v
		}
		if fn, ok := it.funcs[n.Name]; ok {
			return &Value{Kind: VLambda, Name: fn.Name}
		}
		if _, ok := it.Lookup(n.Name); ok {
			return &Value{Kind: VNative, Name: n.Name}
		}
		it.runtimeError("unresolved identifier %q", n.Name)
		return Unit()
	case *ast.EnumConstructor:
		return it.evalEnumConstructor(n, en)
	case *ast.StructLit:
		return it.evalStructLit(n, en)
	case *ast.TupleLit:
		elems := make([]*Value, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = it.Eval(el, en)
		}
		return Tuple(elems)
	case *ast.ArrayLit:
		elems := make([]*Value, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = it.Eval(el, en)
		}
		return Arr(elems)
	case *ast.IndexExpr:
		col := it.Eval(n.Collection, en)
		idx := it.Eval(n.Index, en)
		if col.Kind == VArray || col.Kind == VTuple {
			i := int(idx.Int)
			if i < 0 || i >= len(col.Arr) {
				it.runtimeError("index %d out of range", i)
				return Unit()
			}
			return col.Arr[i]
		}
		return Unit()
	case *ast.FieldExpr:
		obj := it.Eval(n.Object, en)
		return it.evalField(obj, n.Field)
	case *ast.CallExpr:
		return it.evalCall(n, en)
	case *ast.MethodCallExpr:
		// Unresolved at monomorphize time (receiver type unknown); fall
		// back to dynamic dispatch on the runtime value's struct name.
		recv := it.Eval(n.Receiver, en)
		args := make([]*Value, len(n.Args))
		for i, a := range n.Args {
			args[i] = it.Eval(a, en)
		}
		if recv.Kind == VStruct {
			if fn, ok := it.funcs[mangle.Method(recv.Name, n.Method)]; ok {
				return it.Call(fn, recv, args)
			}
		}
		it.runtimeError("unresolved method call %s.%s", recv, n.Method)
		return Unit()
	case *ast.LambdaExpr:
		return &Value{Kind: VLambda, Params: n.Params, Body: n.Body, Closure: en}
	case *ast.BinaryExpr:
		return it.evalBinary(n, en)
	case *ast.UnaryExpr:
		return it.evalUnary(n, en)
	case *ast.AssignExpr:
		return it.evalAssign(n, en)
	case *ast.BlockExpr:
		return it.evalBlock(n.Block, NewEnv(en))
	case *ast.IfExpr:
		return it.evalIf(n, en)
	case *ast.MatchExpr:
		return it.evalMatch(n, en)
	case *ast.ReturnExpr:
		var v *Value = Unit()
		if n.Value != nil {
			v = it.Eval(n.Value, en)
		}
		return ReturnValue(v)
	case *ast.BreakExpr:
		return BreakValue()
	case *ast.ContinueExpr:
		return ContinueValue()
	case *ast.TryExpr:
		return it.evalTry(n, en)
	case *ast.CastExpr:
		return it.evalCast(n, en)
	case *ast.RangeExpr:
		return Arr(it.iterate(n, en))
	case *ast.AwaitExpr:
		return it.evalAwait(n, en)
	case *ast.SpawnExpr:
		return it.evalSpawn(n, en)
	case *ast.SendExpr:
		return it.evalSend(n, en)
	case *ast.MacroCallExpr:
		return it.evalMacroCall(n, en)
	case *ast.ComptimeExpr:
		// Should already be folded away by internal/comptime; evaluate
		// directly as a defensive fallback.
		return it.Eval(n.Inner, en)
	case *ast.MarkupElement:
		return it.evalMarkup(n, en)
	default:
		it.runtimeError("unhandled expression %T", n)
		return Unit()
	}
}

func (it *Interpreter) evalField(obj *Value, field string) *Value {
	switch obj.Kind {
	case VStruct:
		if v, ok := obj.Fields[field]; ok {
			return v
		}
	case VTuple:
		if idx, ok := tupleFieldIndex(field); ok && idx < len(obj.Arr) {
			return obj.Arr[idx]
		}
	case VVariant:
		if v, ok := obj.Fields[field]; ok {
			return v
		}
	}
	// Method values: `obj.method` used as a first-class callable.
	if fn, ok := it.funcs[mangle.Method(obj.Name, field)]; ok {
		return &Value{Kind: VLambda, Name: fn.Name, Self: obj}
	}
	it.runtimeError("no field %q on %s", field, obj)
	return Unit()
}

func tupleFieldIndex(field string) (int, bool) {
	if len(field) == 1 && field[0] >= '0' && field[0] <= '9' {
		return int(field[0] - '0'), true
	}
	return 0, false
}

func (it *Interpreter) evalFString(n *ast.FStringLit, en *Env) *Value {
	var b []byte
	for _, part := range n.Parts {
		if part.IsExpr {
			b = append(b, it.Eval(part.Expr, en).String()...)
		} else {
			b = append(b, part.Text...)
		}
	}
	return Str(string(b))
}

func (it *Interpreter) evalEnumConstructor(n *ast.EnumConstructor, en *Env) *Value {
	if n.Fields != nil {
		fields := map[string]*Value{}
		for k, v := range n.Fields {
			fields[k] = it.Eval(v, en)
		}
		return Variant(n.Enum, n.Variant, nil, fields)
	}
	payload := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		payload[i] = it.Eval(a, en)
	}
	return Variant(n.Enum, n.Variant, payload, nil)
}

func (it *Interpreter) evalStructLit(n *ast.StructLit, en *Env) *Value {
	fields := map[string]*Value{}
	for k, v := range n.Fields {
		fields[k] = it.Eval(v, en)
	}
	return Struct(n.TypeName, fields, n.Order)
}

func (it *Interpreter) evalCall(n *ast.CallExpr, en *Env) *Value {
	args := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = it.Eval(a, en)
	}
	if id, ok := n.Callee.(*ast.Ident); ok {
		if fn, ok := it.funcs[id.Name]; ok {
			return it.Call(fn, nil, args)
		}
		if v, ok := en.Get(id.Name); ok && (v.Kind == VLambda || v.Kind == VNative) {
			return it.CallValue(v, args)
		}
		if _, ok := it.Lookup(id.Name); ok {
			return it.callBuiltin(id.Name, args)
		}
		it.runtimeError("call to unresolved function %q", id.Name)
		return Unit()
	}
	fn := it.Eval(n.Callee, en)
	return it.CallValue(fn, args)
}

func (it *Interpreter) evalIf(n *ast.IfExpr, en *Env) *Value {
	if it.Eval(n.Cond, en).Truthy() {
		return it.evalBlock(n.Then, NewEnv(en))
	}
	if n.ElseIf != nil {
		return it.evalIf(n.ElseIf, en)
	}
	if n.Else != nil {
		return it.evalBlock(n.Else, NewEnv(en))
	}
	return Unit()
}

func (it *Interpreter) evalTry(n *ast.TryExpr, en *Env) *Value {
	v := it.Eval(n.Expr, en)
	if v.Kind == VVariant {
		switch v.Variant {
		case "Ok", "Some":
			if len(v.Payload) > 0 {
				return v.Payload[0]
			}
			return Unit()
		case "Err", "None":
			return ReturnValue(v)
		}
	}
	return v
}

func (it *Interpreter) evalCast(n *ast.CastExpr, en *Env) *Value {
	v := it.Eval(n.Expr, en)
	name := ""
	if nt, ok := n.Type.(*ast.NamedType); ok {
		name = nt.Name
	}
	switch name {
	case "Int":
		switch v.Kind {
		case VFloat:
			return Int(int64(v.Float))
		case VBool:
			if v.Bool {
				return Int(1)
			}
			return Int(0)
		default:
			return v
		}
	case "Float":
		if v.Kind == VInt {
			return Float(float64(v.Int))
		}
		return v
	case "String":
		return Str(v.String())
	default:
		return v
	}
}

func (it *Interpreter) evalMacroCall(n *ast.MacroCallExpr, en *Env) *Value {
	args := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = it.Eval(a, en)
	}
	switch n.Name {
	case "println":
		return it.callBuiltin("println", args)
	case "print":
		return it.callBuiltin("print", args)
	case "dbg":
		if len(args) > 0 {
			fmt.Printf("[dbg] %s\n", args[0])
		}
		if len(args) > 0 {
			return args[0]
		}
		return Unit()
	default:
		it.runtimeError("unsupported macro %q!", n.Name)
		return Unit()
	}
}
