package ir

// IsCallable reports whether v holds a Go function value. The IR treats such
// values as opaque black boxes: never introspected, never compared for
// equality, only captured by reference and invoked.
//
// There is deliberately no FuncIdentity/comparable-key helper here: Go gives
// no way to distinguish two closures compiled from the same function literal
// by reflection. reflect.Value.Pointer() returns the function's code entry
// point, which every closure produced from that literal shares regardless of
// what each one captured, so it cannot stand in for the source system's
// id(value). Callers that need a conservative equality (optimizer.CSE) must
// treat any two callables as unequal rather than rely on a pointer compare.
func IsCallable(v any) bool {
	return isCallable(v)
}
