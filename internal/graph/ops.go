package graph

import "math"

// Op identifies the operation that produced a node.
//
// The set is closed: dispatch is a switch over these kinds, which keeps the
// pairing of forward rule, backward rule and arity checkable in one place.
type Op int

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow
	OpExp
	OpRelu
)

// Arity returns the operand count the op requires.
func (op Op) Arity() int {
	switch op {
	case OpExp, OpRelu:
		return 1
	case OpAdd, OpMul, OpPow:
		return 2
	default:
		return 0
	}
}

func (op Op) String() string {
	switch op {
	case OpLeaf:
		return "leaf"
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpPow:
		return "pow"
	case OpExp:
		return "exp"
	case OpRelu:
		return "relu"
	default:
		return "unknown"
	}
}

// ParseOp maps an op name (as used in expression files) to its kind.
// OpLeaf is not parseable: leaves are declared, not computed.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "add":
		return OpAdd, true
	case "mul":
		return OpMul, true
	case "pow":
		return OpPow, true
	case "exp":
		return OpExp, true
	case "relu":
		return OpRelu, true
	default:
		return OpLeaf, false
	}
}

// Add returns a node computing a + b.
func Add(a, b *Node) *Node {
	return newNode(a.value+b.value, OpAdd, a, b)
}

// Mul returns a node computing a * b.
func Mul(a, b *Node) *Node {
	return newNode(a.value*b.value, OpMul, a, b)
}

// Pow returns a node computing base raised to exponent.
//
// The exponent participates in the graph as an ordinary operand but is
// treated as a frozen constant during differentiation: Backward never
// contributes gradient to it.
func Pow(base, exponent *Node) *Node {
	return newNode(math.Pow(base.value, exponent.value), OpPow, base, exponent)
}

// Exp returns a node computing e raised to a.
func Exp(a *Node) *Node {
	return newNode(math.Exp(a.value), OpExp, a)
}

// Relu returns a node computing max(0, a).
func Relu(a *Node) *Node {
	v := a.value
	if v < 0 {
		v = 0
	}
	return newNode(v, OpRelu, a)
}

// propagate applies the node's local gradient rule, accumulating into each
// operand's gradient using the node's current gradient and the operands'
// forward values. Backward calls it once per node, consumers first.
func (n *Node) propagate() {
	g := n.grad
	switch n.op {
	case OpAdd:
		n.operands[0].grad += g
		n.operands[1].grad += g
	case OpMul:
		a, b := n.operands[0], n.operands[1]
		a.grad += b.value * g
		b.grad += a.value * g
	case OpPow:
		base, exp := n.operands[0], n.operands[1]
		base.grad += exp.value * math.Pow(base.value, exp.value-1) * g
		// exp is a frozen constant: no contribution.
	case OpExp:
		// d/dx e^x = e^x, already available as the forward value.
		n.operands[0].grad += n.value * g
	case OpRelu:
		// Sub-gradient at the kink is defined as 0.
		if n.value > 0 {
			n.operands[0].grad += g
		}
	}
}
