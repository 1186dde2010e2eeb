package cli

import (
	"scalargrad/internal/expr"
	"scalargrad/internal/graph"
)

// DemoProgram builds the built-in demonstration expression
//
//	f = relu(a*b + pow(c, e))
//
// with a=2, b=3, c=-2, e=2. Forward value is 10; after a backward pass the
// gradients are a=3, b=2, c=-4 and e=0 (the exponent never receives
// gradient).
func DemoProgram() *expr.Program {
	a := graph.NewLeaf(2)
	b := graph.NewLeaf(3)
	c := graph.NewLeaf(-2)
	e := graph.NewLeaf(2)
	root := graph.Relu(graph.Add(graph.Mul(a, b), graph.Pow(c, e)))

	return &expr.Program{
		Root: root,
		Leaves: map[string]*graph.Node{
			"a": a,
			"b": b,
			"c": c,
			"e": e,
		},
	}
}
