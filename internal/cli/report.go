package cli

import (
	"encoding/json"

	"scalargrad/internal/expr"
	"scalargrad/internal/graph"
)

// LeafGradient is one named input's value and accumulated gradient.
type LeafGradient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Grad  float64 `json:"grad"`
}

// Report is the result of evaluating and differentiating one expression.
//
// Gradients are ordered by leaf name, so rendering is deterministic for a
// given program.
type Report struct {
	Fingerprint string         `json:"fingerprint"`
	Value       float64        `json:"value"`
	Gradients   []LeafGradient `json:"gradients"`
}

// BuildReport assembles a Report from a program whose backward pass has run.
func BuildReport(p *expr.Program) (*Report, error) {
	fp, err := graph.Fingerprint(p.Root)
	if err != nil {
		return nil, err
	}

	rep := &Report{Fingerprint: fp, Value: p.Root.Value()}
	for _, name := range p.LeafNames() {
		leaf := p.Leaves[name]
		rep.Gradients = append(rep.Gradients, LeafGradient{
			Name:  name,
			Value: leaf.Value(),
			Grad:  leaf.Grad(),
		})
	}
	return rep, nil
}

// JSON returns the canonical machine-readable encoding of the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
