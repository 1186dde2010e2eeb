package graph

// Node is a vertex in a scalar computation graph.
//
// value, op and operands are fixed at construction. grad is the only mutable
// field; it accumulates contributions during Backward and is cleared by
// ZeroGradients. A node constructed by NewLeaf has no operands; a node
// constructed by an op function holds exactly as many operands as the op's
// arity requires.
type Node struct {
	value    float64
	grad     float64
	op       Op
	operands []*Node
}

// NewLeaf creates a leaf node holding the given value and a zero gradient.
func NewLeaf(value float64) *Node {
	return &Node{value: value, op: OpLeaf}
}

// Value returns the forward-computed scalar.
func (n *Node) Value() float64 { return n.value }

// Grad returns the accumulated gradient. For a leaf it is meaningful only
// after a backward pass through a graph that contains the leaf.
func (n *Node) Grad() float64 { return n.grad }

// Op returns the operation that produced the node.
func (n *Node) Op() Op { return n.op }

// Operands returns a copy of the node's operand list in operand order.
func (n *Node) Operands() []*Node {
	out := make([]*Node, len(n.operands))
	copy(out, n.operands)
	return out
}

func newNode(value float64, op Op, operands ...*Node) *Node {
	for _, o := range operands {
		if o == nil {
			panic("graph: nil operand")
		}
	}
	return &Node{value: value, op: op, operands: operands}
}
