// Package graph implements a reverse-mode automatic-differentiation engine
// over scalar values.
//
// It is intentionally split into:
//   - Immutable graph structure: a Node's value, op and operands are fixed at
//     construction and never change.
//   - Mutable gradient state: a Node's gradient is written only by Backward
//     (accumulation) and ZeroGradients (reset).
//
// Graphs are DAGs, not trees: a node may be an operand of several consumers.
// The backward pass walks a topological order in reverse, so every consumer
// has contributed to a shared operand's gradient before that operand is
// itself processed. This is the multivariate chain rule with fan-in.
package graph
