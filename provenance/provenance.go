// Package provenance provides the default implementation of the ir.Tracker
// collaborator contract: a reverse-chain log of how every node in a graph
// came to exist and how the optimizer subsequently rewrote it.
//
// The core never depends on a Tracker being present — ir.Graph.Tracker is
// nil by default — but when one is attached, every structural change calls
// it, so the chain recorded here is always complete for the graph it was
// attached to from the start.
package provenance

import (
	"fmt"
	"sync"

	"github.com/Iweisc/ioc/ir"
)

// Transformation records one optimizer rewrite that produced or touched a
// node: the pass that ran, the node identifiers it consumed, and a short
// human-readable description.
type Transformation struct {
	Pass        string
	Originals   []ir.NodeID
	Description string
}

// Entry is the provenance record for one node: where and how it was
// created, plus the ordered log of transformations that subsequently
// touched it.
type Entry struct {
	Node            ir.NodeID
	CreatedNote     string
	Transformations []Transformation
}

// IsOptimized reports whether any optimizer pass has touched this node
// since creation.
func (e *Entry) IsOptimized() bool {
	return len(e.Transformations) > 0
}

// Chain renders a human-readable creation-to-latest-rewrite history, one
// line per event, oldest first.
func (e *Entry) Chain() []string {
	lines := make([]string, 0, 1+len(e.Transformations))
	lines = append(lines, fmt.Sprintf("created: %s", e.CreatedNote))
	for _, t := range e.Transformations {
		lines = append(lines, fmt.Sprintf("%s: %s (from %v)", t.Pass, t.Description, t.Originals))
	}
	return lines
}

// InMemoryTracker is the default ir.Tracker: a mutex-guarded map from
// NodeID to Entry, safe to attach to a Graph built and read from multiple
// goroutines per spec.md §5's single-mutex convention.
type InMemoryTracker struct {
	mu      sync.Mutex
	entries map[ir.NodeID]*Entry
}

// NewInMemoryTracker returns an empty tracker ready to attach to a Graph's
// Tracker field.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{entries: make(map[ir.NodeID]*Entry)}
}

// TrackCreated records a new node's creation note, satisfying ir.Tracker.
func (t *InMemoryTracker) TrackCreated(id ir.NodeID, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = &Entry{Node: id, CreatedNote: note}
}

// TrackTransformation appends one rewrite event to result's entry,
// satisfying ir.Tracker. If result has no prior entry (an optimizer pass
// produced a node id this tracker never saw created — should not happen in
// practice, but the core never assumes a Tracker is complete) an entry is
// synthesized on the fly.
func (t *InMemoryTracker) TrackTransformation(result ir.NodeID, pass string, originals []ir.NodeID, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[result]
	if !ok {
		e = &Entry{Node: result, CreatedNote: "unknown"}
		t.entries[result] = e
	}
	e.Transformations = append(e.Transformations, Transformation{
		Pass:        pass,
		Originals:   append([]ir.NodeID(nil), originals...),
		Description: description,
	})
}

// Entry returns the recorded provenance for id, or (nil, false) if this
// tracker never saw it created or transformed.
func (t *InMemoryTracker) Entry(id ir.NodeID) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	return e, ok
}

// Len reports how many nodes this tracker has a record for.
func (t *InMemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

var _ ir.Tracker = (*InMemoryTracker)(nil)
