package interp

import (
	"runtime"

	"github.com/nyxlang/nyxc/internal/ast"
)

// evalAwait handles `await expr` from a synchronous caller (main, a test, or
// any non-async function): it evaluates expr to a Future struct value and
// drives it to completion with the same block_on loop the `block_on`
// builtin exposes explicitly. Inside an async function's own body, await
// points are already rewritten away by the monomorphizer (internal/
// monomorphize/async.go) into match arms against the generated poll
// routine, so this path is only reached from a caller that never went
// through that lowering.
func (it *Interpreter) evalAwait(n *ast.AwaitExpr, en *Env) *Value {
	future := it.Eval(n.Expr, en)
	return it.blockOn(future)
}

// pollOnce polls a Future struct value exactly once, invoking its generated
// `<Name>_poll` function, and returns the resulting Poll::Pending /
// Poll::Ready(value) variant.
func (it *Interpreter) pollOnce(future *Value) *Value {
	if future == nil || future.Kind != VStruct {
		return readyVariant(Unit())
	}
	pollName := future.Name + "_poll"
	fn, ok := it.funcs[pollName]
	if !ok {
		it.runtimeError("no poll routine for future %q", future.Name)
		return readyVariant(Unit())
	}
	return it.Call(fn, future, nil)
}

func readyVariant(v *Value) *Value {
	return Variant("Poll", "Ready", []*Value{v}, nil)
}

// blockOn polls future in a loop, yielding the scheduler briefly between
// pending polls, until a Ready value is produced — spec.md §4.I's
// `block_on` contract.
func (it *Interpreter) blockOn(future *Value) *Value {
	for {
		r := it.pollOnce(future)
		if r.Kind != VVariant {
			return r
		}
		switch r.Variant {
		case "Ready":
			if len(r.Payload) > 0 {
				return r.Payload[0]
			}
			return Unit()
		case "Pending":
			runtime.Gosched()
			continue
		default:
			return r
		}
	}
}

// spawnTask schedules future on a background goroutine that polls it to
// completion, fire-and-forget; the scheduling model remains single-threaded
// cooperative from the language's point of view (spec.md §5), this merely
// keeps the host interpreter from blocking the caller while the task runs.
func (it *Interpreter) spawnTask(future *Value) *Value {
	go func() {
		it.blockOn(future)
	}()
	return future
}

func isReady(v *Value) bool {
	return v != nil && v.Kind == VVariant && v.Variant == "Ready"
}

func isPending(v *Value) bool {
	return v != nil && v.Kind == VVariant && v.Variant == "Pending"
}

func unwrapReady(v *Value) *Value {
	if isReady(v) && len(v.Payload) > 0 {
		return v.Payload[0]
	}
	return Unit()
}
