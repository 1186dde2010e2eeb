package graph

// frame is one level of the explicit DFS stack: a node and the index of the
// next operand to descend into.
type frame struct {
	node *Node
	next int
}

// Traversal colors. A gray node is on the active DFS path; reaching a gray
// node again is a back edge, i.e. a cycle.
const (
	white = 0
	gray  = 1
	black = 2
)

// TopologicalOrder returns every node reachable from root, ordered so that
// each operand appears strictly before every node that consumes it. Each node
// appears exactly once regardless of how many consumers reference it.
//
// The walk is an iterative depth-first post-order with an explicit stack, so
// deep graphs cannot exhaust the call stack, and the visited set is keyed by
// exact node identity, so distinct nodes are never aliased. Operands are
// visited in operand order, which makes the result deterministic for a given
// graph.
//
// A cyclic operand chain is a caller error; it is detected via the in-progress
// marking and reported as an error wrapping ErrCycleFound with one witness
// path, rather than recursing forever.
func TopologicalOrder(root *Node) ([]*Node, error) {
	if root == nil {
		return nil, invalidf("nil root")
	}

	color := make(map[*Node]int)
	order := make([]*Node, 0)
	stack := []frame{{node: root}}
	color[root] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.node.operands) {
			child := top.node.operands[top.next]
			top.next++
			if child == nil {
				return nil, invalidf("nil operand on %s node", top.node.op)
			}
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{node: child})
			case gray:
				return nil, cycleError(witnessPath(stack, child))
			}
			// black: already emitted, nothing to do.
			continue
		}

		color[top.node] = black
		order = append(order, top.node)
		stack = stack[:len(stack)-1]
	}

	return order, nil
}

// witnessPath reconstructs one cycle from the active DFS path: the segment
// from the first occurrence of the revisited node to the top of the stack,
// closed with the revisited node again. Nodes are anonymous, so the path is
// reported by op kind.
func witnessPath(stack []frame, revisited *Node) []string {
	start := 0
	for i := range stack {
		if stack[i].node == revisited {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node.op.String())
	}
	path = append(path, revisited.op.String())
	return path
}
