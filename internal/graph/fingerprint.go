package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Fingerprint returns a stable identity for the graph rooted at root.
//
// The hash is computed over the canonical topological order: each node
// contributes its op kind, the bit pattern of its forward value, and the
// positions of its operands within the order. Two graphs with the same
// structure and the same leaf values therefore produce the same fingerprint
// across runs and processes. Gradient state never participates, so the
// fingerprint is unchanged by Backward and ZeroGradients.
func Fingerprint(root *Node) (string, error) {
	order, err := TopologicalOrder(root)
	if err != nil {
		return "", err
	}

	index := make(map[*Node]int, len(order))
	for i, n := range order {
		index[n] = i
	}

	h := sha256.New()
	buf := make([]byte, 8)
	writeU64 := func(v uint64) {
		binary.BigEndian.PutUint64(buf, v)
		h.Write(buf)
	}

	writeU64(uint64(len(order)))
	for _, n := range order {
		writeU64(uint64(n.op))
		writeU64(math.Float64bits(n.value))
		writeU64(uint64(len(n.operands)))
		for _, o := range n.operands {
			writeU64(uint64(index[o]))
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
