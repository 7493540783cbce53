// Package stdlib is the out-of-scope "stdlib registry" collaborator reduced
// to exactly the interface the core needs (spec.md §1's out-of-scope list):
// the name, parameter/return type names, and effect set of every built-in
// function the checker must accept as resolvable and the interpreter must be
// able to dispatch. It implements no printing/IO/DOM itself — the host
// environment named in spec.md §1 does that; this package only carries the
// metadata.
package stdlib

// Param is a built-in function's formal parameter, named the way the
// original implementation's BuiltinFn shape names them (loosely-typed
// "Any"/"Int"/"Float" strings rather than a resolved types.Type, so this
// package stays independent of internal/types and can be consulted by both
// the checker and the interpreter without a dependency cycle).
type Param struct {
	Name string
	Type string
}

// Signature describes one built-in's calling convention.
type Signature struct {
	Name    string
	Params  []Param
	Return  string
	Effects []string
	Doc     string
}

var registry = map[string]Signature{}

func add(name string, effects []string, ret string, doc string, params ...Param) {
	registry[name] = Signature{Name: name, Params: params, Return: ret, Effects: effects, Doc: doc}
}

func p(name, typ string) Param { return Param{Name: name, Type: typ} }

func init() {
	// I/O
	add("print", []string{"IO"}, "Unit", "Print value to console", p("value", "Any"))
	add("println", []string{"IO"}, "Unit", "Print value with newline", p("value", "Any"))
	add("read_line", []string{"IO"}, "String", "Read line from stdin")
	add("read_file", []string{"IO"}, "String", "Read file contents", p("path", "String"))
	add("write_file", []string{"IO"}, "Unit", "Write to file", p("path", "String"), p("content", "String"))

	// Math
	add("abs", []string{"Pure"}, "Int", "Absolute value", p("x", "Int"))
	add("sqrt", []string{"Pure"}, "Float", "Square root", p("x", "Float"))
	add("pow", []string{"Pure"}, "Float", "Power", p("base", "Float"), p("exp", "Float"))
	add("sin", []string{"Pure"}, "Float", "Sine", p("x", "Float"))
	add("cos", []string{"Pure"}, "Float", "Cosine", p("x", "Float"))
	add("tan", []string{"Pure"}, "Float", "Tangent", p("x", "Float"))
	add("floor", []string{"Pure"}, "Int", "Floor", p("x", "Float"))
	add("ceil", []string{"Pure"}, "Int", "Ceiling", p("x", "Float"))
	add("round", []string{"Pure"}, "Int", "Round", p("x", "Float"))
	add("min", []string{"Pure"}, "Int", "Minimum", p("a", "Int"), p("b", "Int"))
	add("max", []string{"Pure"}, "Int", "Maximum", p("a", "Int"), p("b", "Int"))
	add("clamp", []string{"Pure"}, "Int", "Clamp between bounds", p("x", "Int"), p("lo", "Int"), p("hi", "Int"))

	// Vector math (shared with the shader backend's built-in dispatch)
	add("vec2", []string{"Pure"}, "Vec2", "Create 2D vector", p("x", "Float"), p("y", "Float"))
	add("vec3", []string{"Pure"}, "Vec3", "Create 3D vector", p("x", "Float"), p("y", "Float"), p("z", "Float"))
	add("vec4", []string{"Pure"}, "Vec4", "Create 4D vector", p("x", "Float"), p("y", "Float"), p("z", "Float"), p("w", "Float"))
	add("dot", []string{"Pure"}, "Float", "Dot product", p("a", "Vec3"), p("b", "Vec3"))
	add("cross", []string{"Pure"}, "Vec3", "Cross product", p("a", "Vec3"), p("b", "Vec3"))
	add("normalize", []string{"Pure"}, "Vec3", "Normalize vector", p("v", "Vec3"))
	add("length", []string{"Pure"}, "Float", "Vector length", p("v", "Vec3"))
	add("distance", []string{"Pure"}, "Float", "Distance between points", p("a", "Vec3"), p("b", "Vec3"))
	add("mix", []string{"Pure"}, "Float", "Linear interpolation", p("a", "Float"), p("b", "Float"), p("t", "Float"))
	add("smoothstep", []string{"Pure"}, "Float", "Smooth step", p("edge0", "Float"), p("edge1", "Float"), p("x", "Float"))
	add("step", []string{"Pure"}, "Float", "Step function", p("edge", "Float"), p("x", "Float"))
	add("reflect", []string{"Pure"}, "Vec3", "Reflect vector", p("i", "Vec3"), p("n", "Vec3"))
	add("fract", []string{"Pure"}, "Float", "Fractional part", p("x", "Float"))

	// Collections
	add("len", []string{"Pure"}, "Int", "Get length", p("collection", "Any"))
	add("push", []string{"Alloc"}, "Unit", "Push to array", p("array", "Array"), p("value", "Any"))
	add("pop", []string{"Alloc"}, "Any", "Pop from array", p("array", "Array"))
	add("map", []string{"Pure"}, "Array", "Map over array", p("array", "Array"), p("fn", "Function"))
	add("filter", []string{"Pure"}, "Array", "Filter array", p("array", "Array"), p("fn", "Function"))
	add("reduce", []string{"Pure"}, "Any", "Reduce array", p("array", "Array"), p("initial", "Any"), p("fn", "Function"))
	add("foreach", []string{"IO"}, "Unit", "Iterate array with side effects", p("array", "Array"), p("fn", "Function"))
	add("range", []string{"Pure"}, "Array", "Create range", p("start", "Int"), p("end", "Int"))

	// Map (hash map)
	add("map_new", []string{"Alloc"}, "Any", "Create new map")
	add("map_set", []string{"Alloc"}, "Unit", "Set map key", p("map", "Any"), p("key", "String"), p("value", "Any"))
	add("map_get", []string{"Pure"}, "Any", "Get map value", p("map", "Any"), p("key", "String"))

	// Networking
	add("http_get", []string{"IO"}, "String", "Issue an HTTP GET request", p("url", "String"))
	add("http_post", []string{"IO"}, "String", "Issue an HTTP POST request", p("url", "String"), p("body", "String"))
	add("socket_connect", []string{"IO"}, "Int", "Connect TCP socket", p("host", "String"), p("port", "Int"))
	add("socket_send", []string{"IO"}, "Unit", "Send data", p("sock", "Int"), p("data", "String"))
	add("socket_recv", []string{"IO"}, "String", "Receive data", p("sock", "Int"))

	// JSON
	add("json_parse", []string{"Pure"}, "Any", "Parse a JSON string into a value", p("text", "String"))
	add("json_stringify", []string{"Pure"}, "String", "Serialize a value to a JSON string", p("value", "Any"))

	// String
	add("split", []string{"Pure"}, "Array", "Split string", p("s", "String"), p("sep", "String"))
	add("join", []string{"Pure"}, "String", "Join array to string", p("arr", "Array"), p("sep", "String"))
	add("trim", []string{"Pure"}, "String", "Trim whitespace", p("s", "String"))
	add("to_upper", []string{"Pure"}, "String", "To uppercase", p("s", "String"))
	add("to_lower", []string{"Pure"}, "String", "To lowercase", p("s", "String"))
	add("contains", []string{"Pure"}, "Bool", "Check contains", p("s", "String"), p("sub", "String"))
	add("replace", []string{"Pure"}, "String", "Replace substring", p("s", "String"), p("from", "String"), p("to", "String"))

	// Conversion
	add("to_string", []string{"Pure"}, "String", "Convert to string", p("value", "Any"))
	add("to_int", []string{"Pure"}, "Int", "Convert to int", p("value", "Any"))
	add("to_float", []string{"Pure"}, "Float", "Convert to float", p("value", "Any"))

	// Debug
	add("dbg", []string{"IO"}, "Any", "Debug print and return", p("value", "Any"))
	add("assert", []string{"Panic"}, "Unit", "Assert condition", p("condition", "Bool"), p("message", "String"))
	add("panic", []string{"Panic"}, "Never", "Panic with message", p("message", "String"))

	// Time
	add("now", []string{"IO"}, "Float", "Current time in seconds")
	add("sleep", []string{"IO"}, "Unit", "Sleep for seconds", p("seconds", "Float"))

	// Actors
	add("spawn", []string{"Unsafe"}, "ActorRef", "Spawn actor", p("actor", "Actor"))
	add("send", []string{"Unsafe"}, "Unit", "Send message", p("actor", "ActorRef"), p("message", "Message"))

	// Async executor surface the interpreter's scheduler exposes; the
	// monomorphizer's lowered state machines call poll_once on a future
	// whose concrete poll function cannot be resolved statically.
	add("block_on", []string{"IO", "Async"}, "Any", "Drive a future to completion", p("future", "Any"))
	add("spawn_task", []string{"Async"}, "Any", "Schedule a future on the executor", p("future", "Any"))
	add("poll_once", []string{"Async"}, "Any", "Poll a future exactly once", p("future", "Any"))

	// Embedded general-purpose script bridge (supplemented feature: the
	// original implementation's py_eval/py_exec/py_import FFI, reduced here
	// to the interface surface the interpreter's script bridge consults).
	add("script_eval", []string{"IO", "Unsafe"}, "Any", "Evaluate an expression in the embedded script interpreter", p("code", "String"))
	add("script_exec", []string{"IO", "Unsafe"}, "Unit", "Execute a statement in the embedded script interpreter", p("code", "String"))

	// UI
	add("mount", []string{"IO", "Reactive"}, "Unit", "Mount component to DOM", p("component", "Any"), p("selector", "String"))
}

// Lookup returns the built-in signature for name, if any.
func Lookup(name string) (Signature, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns every registered built-in name, used by the checker to seed
// its identifier-resolution scope.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}
