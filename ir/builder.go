package ir

import "github.com/Iweisc/ioc/typelattice"

// Input declares a named input parameter for the graph. typ is the declared
// element type; pass nil for typelattice.Any{}.
func (g *Graph) Input(name string, typ typelattice.Type) NodeID {
	if typ == nil {
		typ = typelattice.Any{}
	}
	n := &Node{
		Kind:       KindInput,
		Params:     map[string]any{"name": name},
		OutputType: typ,
		Metadata:   map[string]any{},
	}
	n.ID = g.nextID(KindInput)
	id := g.addNode(n)
	g.track(id, "input "+name)
	return id
}

// Constant creates a node holding a literal value. Its output type is
// inferred from the value via typelattice.Infer.
func (g *Graph) Constant(value any) NodeID {
	n := &Node{
		Kind:       KindConstant,
		Params:     map[string]any{"value": value},
		OutputType: typelattice.Infer(value),
		Metadata:   map[string]any{},
	}
	n.ID = g.nextID(KindConstant)
	id := g.addNode(n)
	g.track(id, "constant")
	return id
}

// Filter retains elements of input for which predicate returns true, in
// original order. Output type equals the input's type.
func (g *Graph) Filter(input NodeID, predicate any) (NodeID, error) {
	return g.unary(KindFilter, input, map[string]any{"predicate": predicate},
		map[string]any{"parallelizable": true}, preserveType)
}

// Map transforms each element of input with transform, one output per input,
// in original order. Output type is conservatively List(Any) unless refined
// by a later pass (spec.md §3).
func (g *Graph) Map(input NodeID, transform any) (NodeID, error) {
	return g.unary(KindMap, input, map[string]any{"transform": transform},
		map[string]any{"parallelizable": true, "vectorizable": true},
		func(typelattice.Type) typelattice.Type { return typelattice.List{Elem: typelattice.Any{}} })
}

// Reduce left-folds input with operation, starting from initial if non-nil,
// else from the first element. Fails at invocation time (ErrEmptyReduce) if
// input is empty and initial is nil.
func (g *Graph) Reduce(input NodeID, operation any, initial any) (NodeID, error) {
	return g.unary(KindReduce, input, map[string]any{"operation": operation, "initial": initial},
		map[string]any{"parallelizable": false},
		func(typelattice.Type) typelattice.Type { return typelattice.Any{} })
}

// Sort stably orders input ascending (or descending if reverse is true),
// comparing by key(element) when key is non-nil, else by element itself.
func (g *Graph) Sort(input NodeID, key any, reverse bool) (NodeID, error) {
	return g.unary(KindSort, input, map[string]any{"key": key, "reverse": reverse},
		map[string]any{}, preserveType)
}

// GroupBy partitions input into a mapping from key(element) to the
// subsequence of elements producing that key, in input order.
func (g *Graph) GroupBy(input NodeID, keyFn any) (NodeID, error) {
	return g.unary(KindGroupBy, input, map[string]any{"key": keyFn},
		map[string]any{},
		func(typelattice.Type) typelattice.Type { return typelattice.Any{} })
}

// Flatten concatenates one nesting level of input.
func (g *Graph) Flatten(input NodeID) (NodeID, error) {
	return g.unary(KindFlatten, input, map[string]any{}, map[string]any{}, preserveType)
}

// Distinct keeps the first occurrence of each element, preserving order.
func (g *Graph) Distinct(input NodeID) (NodeID, error) {
	return g.unary(KindDistinct, input, map[string]any{}, map[string]any{}, preserveType)
}

// Assert is a pass-through in type and shape: it evaluates predicate on
// input's value and fails at invocation time with the given message if the
// predicate returns false.
func (g *Graph) Assert(input NodeID, predicate any, message string) (NodeID, error) {
	return g.unary(KindAssert, input, map[string]any{"predicate": predicate, "message": message},
		map[string]any{}, preserveType)
}

// Join produces the cross product of left and right filtered by the
// two-argument predicate on, yielding (l, r) pairs in left-outer-then-
// right-inner order.
func (g *Graph) Join(left, right NodeID, on any) (NodeID, error) {
	if !g.HasNode(left) || !g.HasNode(right) {
		return "", ErrInvalidReference
	}
	n := &Node{
		Kind:       KindJoin,
		Inputs:     []NodeID{left, right},
		Params:     map[string]any{"on": on},
		OutputType: typelattice.List{Elem: typelattice.Any{}},
		Metadata:   map[string]any{},
	}
	n.ID = g.nextID(KindJoin)
	id := g.addNode(n)
	g.track(id, "join")
	return id, nil
}

func preserveType(t typelattice.Type) typelattice.Type { return t }

// unary is the shared constructor body for every single-input kind: it
// validates the input reference, infers the output type from the input's
// declared type via deriveType, and records the node.
func (g *Graph) unary(kind Kind, input NodeID, params, metadata map[string]any,
	deriveType func(typelattice.Type) typelattice.Type) (NodeID, error) {
	if arity[kind] != 1 {
		return "", ErrInvalidArity
	}
	inNode, ok := g.Node(input)
	if !ok {
		return "", ErrInvalidReference
	}
	n := &Node{
		Kind:       kind,
		Inputs:     []NodeID{input},
		Params:     params,
		OutputType: deriveType(inNode.OutputType),
		Metadata:   metadata,
	}
	n.ID = g.nextID(kind)
	id := g.addNode(n)
	g.track(id, string(kind))
	return id, nil
}

func (g *Graph) track(id NodeID, note string) {
	if g.Tracker != nil {
		g.Tracker.TrackCreated(id, note)
	}
}
