// Package mangle derives the flat function names the monomorphizer emits:
// one mangled name per generic instantiation, and one flattened name per
// impl method, so every downstream backend can address functions by a
// single unqualified string.
package mangle

import (
	"strconv"
	"strings"
)

// Generic produces the mangled name for a concrete instantiation of a generic
// function, e.g. Generic("identity", []string{"Int"}) -> "identity_Int" and
// Generic("pair", []string{"Int", "String"}) -> "pair_Int_String".
func Generic(name string, typeArgs []string) string {
	if len(typeArgs) == 0 {
		return name
	}
	return name + "_" + strings.Join(typeArgs, "_")
}

// Method flattens an impl method into a free function name, e.g.
// Method("Stack", "push") -> "Stack_push". This is the name both the impl
// flattening pass and every method-call rewrite must agree on.
func Method(typeName, methodName string) string {
	return typeName + "_" + methodName
}

// Future names the generated state-machine struct for an async function.
func Future(fnName string) string {
	return fnName + "_Future"
}

// Poll names the generated poll function driving a Future struct.
func Poll(fnName string) string {
	return Future(fnName) + "_poll"
}

// AwaitField names the field on a Future struct holding the nth await point's
// suspended sub-future (zero-indexed).
func AwaitField(n int) string {
	return "_await_" + strconv.Itoa(n)
}

// AwaitResultField names the field holding the nth await point's resolved value.
func AwaitResultField(n int) string {
	return AwaitField(n) + "_result"
}
