// Package ioc is an embedded dataflow compiler and optimizing runtime for a
// small declarative algebra of collection operations (filter, map, reduce,
// sort, group-by, join, flatten, distinct, assertion, input, output,
// constant).
//
// A caller builds an intent graph with package ir, optionally rewrites it
// with package optimizer, and compiles it with package solver into an
// executable Plan guided by a persistent profiler.Store of measured
// execution costs. Package typelattice supplies the structural type system
// nodes declare their output types in. Packages provenance, differential,
// and tracediag are optional collaborators: a creation/rewrite history
// tracker, an optimizer soundness harness, and a step tracer/bisector,
// respectively. Command ioc (cmd/ioc) is a thin CLI front end.
//
// This root package carries no exported API of its own; it exists only to
// hold this overview doc comment, following the teacher's convention of a
// module-level doc.go.
//
//	go get github.com/Iweisc/ioc
package ioc
