package interp

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/mangle"
)

// message is one FIFO mailbox entry: the handler name to dispatch to and its
// already-evaluated arguments.
type message struct {
	handler string
	args    []*Value
}

// actorInstance is a spawned actor's private state plus its mailbox. Per
// spec.md §5, the only sanctioned mutation of State is from inside a
// handler running on this instance's own goroutine.
type actorInstance struct {
	id     string
	typ    string
	state  *Value // VStruct
	inbox  chan message
	done   chan struct{}
	mu     sync.Mutex // guards state during dispatch, though only one goroutine ever touches it
}

// actorRuntime tracks every live actor instance, keyed by the uuid minted at
// spawn time (per SPEC_FULL.md's domain-stack wiring of google/uuid here).
type actorRuntime struct {
	it        *Interpreter
	mu        sync.Mutex
	instances map[string]*actorInstance
}

func newActorRuntime(it *Interpreter) *actorRuntime {
	return &actorRuntime{it: it, instances: map[string]*actorInstance{}}
}

// spawn starts a new actor's run loop on its own goroutine and returns a
// struct value the rest of the interpreter treats like any other value,
// carrying its mailbox id under the "__id" field so `send` can find it
// again (mirrors the native backend's `self.__mailbox` handle, spec.md
// §4.GN).
func (rt *actorRuntime) spawn(decl *ast.ActorDecl, fields map[string]*Value, order []string) *Value {
	id := uuid.New().String()
	fields["__id"] = Str(id)
	order = append(order, "__id")
	state := Struct(decl.Name, fields, order)

	inst := &actorInstance{
		id: id, typ: decl.Name, state: state,
		inbox: make(chan message, 64),
		done:  make(chan struct{}),
	}
	rt.mu.Lock()
	rt.instances[id] = inst
	rt.mu.Unlock()

	go rt.runLoop(inst)
	return state
}

func (rt *actorRuntime) runLoop(inst *actorInstance) {
	for msg := range inst.inbox {
		fn, ok := rt.it.funcs[msg.handler]
		if !ok {
			continue
		}
		inst.mu.Lock()
		rt.it.Call(fn, inst.state, msg.args)
		inst.mu.Unlock()
	}
	close(inst.done)
}

// send delivers a message to target's mailbox without blocking the caller,
// per spec.md §5 ("The `send` operation is non-blocking and returns unit").
func (rt *actorRuntime) send(target *Value, actorType, messageName string, args []*Value) {
	if target == nil || target.Kind != VStruct {
		return
	}
	idVal, ok := target.Fields["__id"]
	if !ok {
		return
	}
	rt.mu.Lock()
	inst, ok := rt.instances[idVal.Str]
	rt.mu.Unlock()
	if !ok {
		return
	}
	handler := mangle.Method(actorType, messageName)
	select {
	case inst.inbox <- message{handler: handler, args: args}:
	default:
		go func() { inst.inbox <- message{handler: handler, args: args} }()
	}
}

func (it *Interpreter) evalSpawn(n *ast.SpawnExpr, en *Env) *Value {
	if n.Actor != "" {
		decl, ok := it.actors[n.Actor]
		if !ok {
			it.runtimeError("spawn of unknown actor %q", n.Actor)
			return Unit()
		}
		fields := map[string]*Value{}
		var order []string
		for _, sv := range decl.State {
			if expr, given := n.Fields[sv.Name]; given {
				fields[sv.Name] = it.Eval(expr, en)
			} else if sv.Value != nil {
				fields[sv.Name] = it.Eval(sv.Value, en)
			} else {
				fields[sv.Name] = Unit()
			}
			order = append(order, sv.Name)
		}
		for k, v := range n.Fields {
			if _, already := fields[k]; !already {
				fields[k] = it.Eval(v, en)
				order = append(order, k)
			}
		}
		return it.actorRT.spawn(decl, fields, order)
	}
	// `spawn expr` schedules an async expression's future on the executor.
	future := it.Eval(n.Expr, en)
	return it.spawnTask(future)
}

func (it *Interpreter) evalSend(n *ast.SendExpr, en *Env) *Value {
	target := it.Eval(n.Target, en)
	args := make([]*Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = it.Eval(a, en)
	}
	actorType := target.Name
	it.actorRT.send(target, actorType, n.Message, args)
	return Unit()
}
