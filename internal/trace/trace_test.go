package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalargrad/internal/graph"
)

func demoRoot(t *testing.T) *graph.Node {
	t.Helper()
	a := graph.NewLeaf(2)
	b := graph.NewLeaf(3)
	c := graph.NewLeaf(-2)
	e := graph.NewLeaf(2)
	root := graph.Relu(graph.Add(graph.Mul(a, b), graph.Pow(c, e)))
	require.NoError(t, graph.Backward(root))
	return root
}

func TestRecord_DemoGraph(t *testing.T) {
	root := demoRoot(t)

	tr, err := Record(root)
	require.NoError(t, err)
	require.NoError(t, tr.Validate())

	require.Len(t, tr.Events, 8, "4 leaves + mul + pow + add + relu")

	first := tr.Events[0]
	assert.Equal(t, 0, first.Seq)
	assert.Equal(t, "relu", first.Op, "root is processed first")
	assert.InDelta(t, 10.0, first.Value, 1e-12)
	assert.InDelta(t, 1.0, first.Grad, 1e-12, "root seed")

	for i, e := range tr.Events {
		assert.Equal(t, i, e.Seq)
		for _, pos := range e.Operands {
			assert.Less(t, pos, e.Node, "operands precede their consumer")
		}
	}
}

func TestRecord_ByteStableAcrossRuns(t *testing.T) {
	first, err := Record(demoRoot(t))
	require.NoError(t, err)
	second, err := Record(demoRoot(t))
	require.NoError(t, err)

	b1, err := first.CanonicalJSON()
	require.NoError(t, err)
	b2, err := second.CanonicalJSON()
	require.NoError(t, err)

	assert.Equal(t, b1, b2, "independent builds of the same graph must trace identically")
	assert.Equal(t, ComputeTraceHash(b1), ComputeTraceHash(b2))
}

func TestRecord_FingerprintMatchesGraph(t *testing.T) {
	root := demoRoot(t)
	fp, err := graph.Fingerprint(root)
	require.NoError(t, err)

	tr, err := Record(root)
	require.NoError(t, err)
	assert.Equal(t, fp, tr.Fingerprint)
}

func TestValidate_RejectsBrokenTraces(t *testing.T) {
	cases := []struct {
		name string
		tr   *BackwardTrace
	}{
		{"nil", nil},
		{"missing fingerprint", &BackwardTrace{}},
		{"bad seq", &BackwardTrace{
			Fingerprint: "fp",
			Events:      []Event{{Seq: 1, Op: "leaf"}},
		}},
		{"missing op", &BackwardTrace{
			Fingerprint: "fp",
			Events:      []Event{{Seq: 0}},
		}},
		{"operand after consumer", &BackwardTrace{
			Fingerprint: "fp",
			Events: []Event{
				{Seq: 0, Node: 1, Op: "exp", Operands: []int{1}},
				{Seq: 1, Node: 0, Op: "leaf"},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.tr.Validate())
		})
	}
}

func TestComputeTraceHash_Empty(t *testing.T) {
	assert.Equal(t, "", ComputeTraceHash(nil))
}
