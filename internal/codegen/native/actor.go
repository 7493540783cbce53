package native

import "github.com/nyxlang/nyxc/internal/ast"

// compileActorRunLoop emits `{Actor}_run(self)`, per spec.md §4.GN: a loop
// that calls `mq_pop`, backs off with `sleep(0.001)` on an empty mailbox,
// and otherwise dispatches on the message's deterministic tag hash into
// the matching handler, releasing the payload once the handler returns.
func compileActorRunLoop(gc *genCtx, a *ast.ActorDecl) string {
	fb := newFuncBuilder(a.Name+"_run", []string{"self"})
	head := fb.newBlock("poll_head")
	fb.emitf("br %s", head.label)
	fb.switchTo(head)

	tag := fb.reg()
	data := fb.reg()
	ok := fb.reg()
	fb.emitf("%s, %s, %s = call mq_pop, self.__mailbox", ok, tag, data)

	empty := fb.newBlock("poll_empty")
	dispatch := fb.newBlock("poll_dispatch")
	fb.emitf("br.if %s, %s, %s", ok, dispatch.label, empty.label)

	fb.switchTo(empty)
	fb.emitf("call sleep, 0.001")
	fb.emitf("br %s", head.label)

	fb.switchTo(dispatch)
	for _, h := range a.Handlers {
		hashVal := actorHash(a.Name, h.Message)
		match := fb.reg()
		fb.emitf("%s = eq %s, %d", match, tag, hashVal)
		handlerBlk := fb.newBlock("handle_" + h.Message)
		nextTest := fb.newBlock("dispatch_next")
		fb.emitf("br.if %s, %s, %s", match, handlerBlk.label, nextTest.label)

		fb.switchTo(handlerBlk)
		fb.emitf("call %s, self, %s", mangleHandler(a.Name, h.Message), data)
		fb.emitf("call release, %s", data)
		fb.emitf("br %s", head.label)

		fb.switchTo(nextTest)
	}
	fb.emitf("call release, %s", data)
	fb.emitf("br %s", head.label)

	return fb.text()
}

func mangleHandler(actor, message string) string {
	return actor + "_" + message
}

// compileActorSpawn emits `{Actor}_spawn(...)`: heap-allocate the actor
// struct, initialize its explicit fields, register the destructor if any
// field is pointer-typed, and hand it to `spawn(fn_ptr, self_ptr)`.
func compileActorSpawn(gc *genCtx, a *ast.ActorDecl) string {
	params := make([]string, len(a.State))
	for i, s := range a.State {
		params[i] = s.Name
	}
	fb := newFuncBuilder(a.Name+"_spawn", params)
	self := fb.reg()
	fb.emitf("%s = alloc %s", self, a.Name)
	for _, s := range a.State {
		fb.emitf("setfield %s, %s, %%%s", self, s.Name, s.Name)
	}
	layout := gc.structs[a.Name]
	if layout != nil && layout.HasPtrFld {
		fb.emitf("register_destructor %s, %s_destroy", self, a.Name)
	}
	fb.emitf("call spawn, %s_run, %s", a.Name, self)
	fb.emitf("ret %s", self)
	return fb.text()
}

// compileDestructor emits `{Type}_destroy(self)` for every pointer-bearing
// struct: load each pointer field and release it, per spec.md §4.GN.
func compileDestructor(name string, layout *StructLayout) string {
	fb := newFuncBuilder(name+"_destroy", []string{"self"})
	for _, f := range layout.Fields {
		if !layout.Pointers[f] {
			continue
		}
		r := fb.reg()
		fb.emitf("%s = getfield self, %s", r, f)
		fb.emitf("call release, %s", r)
	}
	return fb.text()
}

