// Package trace produces deterministic records of backward passes.
//
// A trace captures only logical facts: the graph's fingerprint and the
// ordered node visits of the backward executor with their resulting
// gradients. It contains no timestamps, pointers or any runtime-dependent
// values, so the same graph always yields byte-identical canonical output.
// Traces are observational only and never affect execution behavior.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"

	"scalargrad/internal/graph"
)

// Event records one node visit in the backward executor's reverse
// topological walk.
//
// Node and Operands are positions within the forward topological order, which
// is itself deterministic for a given graph. Operand positions are always
// smaller than the node's own position.
type Event struct {
	// Seq is the processing position in the backward walk, starting at 0.
	Seq int `json:"seq"`

	// Node is the node's position in the forward topological order.
	Node int `json:"node"`

	Op    string  `json:"op"`
	Value float64 `json:"value"`

	// Grad is the node's gradient at the moment it was processed. Because
	// consumers are processed first, this is also the node's final gradient.
	Grad float64 `json:"grad"`

	Operands []int `json:"operands,omitempty"`
}

// BackwardTrace is the canonical record of one backward pass.
type BackwardTrace struct {
	Fingerprint string  `json:"fingerprint"`
	Events      []Event `json:"events"`
}

// Record captures the backward pass that ran over the graph rooted at root.
//
// It must be called after graph.Backward. Gradients are read, never written;
// the executor's processing order is reproduced exactly because each node's
// gradient is final by the time the executor reaches it.
func Record(root *graph.Node) (*BackwardTrace, error) {
	order, err := graph.TopologicalOrder(root)
	if err != nil {
		return nil, err
	}
	fp, err := graph.Fingerprint(root)
	if err != nil {
		return nil, err
	}

	index := make(map[*graph.Node]int, len(order))
	for i, n := range order {
		index[n] = i
	}

	events := make([]Event, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		ev := Event{
			Seq:   len(events),
			Node:  i,
			Op:    n.Op().String(),
			Value: n.Value(),
			Grad:  n.Grad(),
		}
		for _, o := range n.Operands() {
			ev.Operands = append(ev.Operands, index[o])
		}
		events = append(events, ev)
	}

	return &BackwardTrace{Fingerprint: fp, Events: events}, nil
}

// Validate checks basic invariants and returns a descriptive error.
func (t *BackwardTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.Fingerprint == "" {
		return errors.New("fingerprint is required")
	}
	for i, e := range t.Events {
		if e.Seq != i {
			return fmt.Errorf("events[%d].seq = %d, want %d", i, e.Seq, i)
		}
		if e.Op == "" {
			return fmt.Errorf("events[%d].op is required", i)
		}
		for j, pos := range e.Operands {
			if pos < 0 || pos >= len(t.Events) {
				return fmt.Errorf("events[%d].operands[%d] = %d out of range", i, j, pos)
			}
			if pos >= e.Node {
				return fmt.Errorf("events[%d].operands[%d] = %d does not precede node %d", i, j, pos, e.Node)
			}
		}
	}
	return nil
}

// CanonicalJSON returns the byte-stable encoding of the trace.
//
// Field order is fixed by the struct declarations and events are already in
// processing order, so no additional sorting is needed.
func (t *BackwardTrace) CanonicalJSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(t, "", "  ")
}
