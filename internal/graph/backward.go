package graph

// Backward computes the gradient of root with respect to every node reachable
// from it, writing results into each node's gradient accumulator.
//
// The root's gradient is seeded to 1 (dC/dC = 1) and the topological order is
// walked in reverse, so by the time a node is processed every one of its
// consumers has already added its contribution. Calling Backward on a leaf
// sets the leaf's own gradient to 1 and propagates nothing.
//
// Backward does not clear prior gradients; call ZeroGradients between
// independent passes over the same graph.
func Backward(root *Node) error {
	order, err := TopologicalOrder(root)
	if err != nil {
		return err
	}

	root.grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		order[i].propagate()
	}
	return nil
}
