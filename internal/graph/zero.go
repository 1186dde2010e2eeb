package graph

// ZeroGradients resets the gradient of every node reachable from root to
// zero, visiting each node exactly once regardless of fan-in.
//
// It is idempotent: repeated calls, or calls over overlapping subgraphs,
// leave every reachable gradient at zero. The traversal is iterative and
// identity-deduplicated, so it terminates even on graphs too deep for a
// recursive walk.
func ZeroGradients(root *Node) error {
	if root == nil {
		return invalidf("nil root")
	}

	seen := map[*Node]struct{}{root: {}}
	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n.grad = 0

		for _, o := range n.operands {
			if o == nil {
				return invalidf("nil operand on %s node", n.op)
			}
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			stack = append(stack, o)
		}
	}
	return nil
}
