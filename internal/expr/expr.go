package expr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"scalargrad/internal/graph"
)

var ErrInvalidProgram = errors.New("invalid expression program")

// ProgramError wraps deterministic expression validation failures.
type ProgramError struct {
	Kind error
	Msg  string
}

func (e *ProgramError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ProgramError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &ProgramError{Kind: ErrInvalidProgram, Msg: fmt.Sprintf(format, args...)}
}

// LeafDef declares a named input with a fixed scalar value.
type LeafDef struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// NodeDef declares a named computed node. Args reference names defined
// earlier in the file, either leaves or other nodes.
type NodeDef struct {
	Name string   `yaml:"name"`
	Op   string   `yaml:"op"`
	Args []string `yaml:"args"`
}

// File is the on-disk expression format.
type File struct {
	Leaves []LeafDef `yaml:"leaves"`
	Nodes  []NodeDef `yaml:"nodes"`
	Output string    `yaml:"output"`
}

// Program is a built expression graph plus the name bindings needed for
// gradient reporting.
type Program struct {
	Root   *graph.Node
	Leaves map[string]*graph.Node
}

// LeafNames returns the declared leaf names in lexical order.
func (p *Program) LeafNames() []string {
	names := make([]string, 0, len(p.Leaves))
	for name := range p.Leaves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and parses the expression file at path.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expression: %w", err)
	}
	return Parse(data)
}

// Parse builds a Program from expression file bytes.
//
// Decoding is strict: unknown fields are rejected so a typo cannot silently
// change the expression's meaning. Validation is deterministic and reports
// the first offending entry in file order.
func Parse(data []byte) (*Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalidf("empty expression file")
		}
		return nil, fmt.Errorf("parse expression yaml: %w", err)
	}

	return build(f)
}

func build(f File) (*Program, error) {
	if len(f.Leaves) == 0 {
		return nil, invalidf("no leaves declared")
	}
	if f.Output == "" {
		return nil, invalidf("output is required")
	}

	byName := make(map[string]*graph.Node, len(f.Leaves)+len(f.Nodes))
	leaves := make(map[string]*graph.Node, len(f.Leaves))

	for i, l := range f.Leaves {
		if l.Name == "" {
			return nil, invalidf("leaf %d: name is required", i)
		}
		if _, exists := byName[l.Name]; exists {
			return nil, invalidf("duplicate name: %q", l.Name)
		}
		n := graph.NewLeaf(l.Value)
		byName[l.Name] = n
		leaves[l.Name] = n
	}

	for i, d := range f.Nodes {
		if d.Name == "" {
			return nil, invalidf("node %d: name is required", i)
		}
		if _, exists := byName[d.Name]; exists {
			return nil, invalidf("duplicate name: %q", d.Name)
		}

		op, ok := graph.ParseOp(d.Op)
		if !ok {
			return nil, invalidf("node %q: unknown op %q", d.Name, d.Op)
		}
		if len(d.Args) != op.Arity() {
			return nil, invalidf("node %q: op %s takes %d args, got %d",
				d.Name, op, op.Arity(), len(d.Args))
		}

		args := make([]*graph.Node, len(d.Args))
		for j, ref := range d.Args {
			arg, defined := byName[ref]
			if !defined {
				return nil, invalidf("node %q: arg %d references undefined name %q", d.Name, j, ref)
			}
			args[j] = arg
		}

		byName[d.Name] = apply(op, args)
	}

	root, ok := byName[f.Output]
	if !ok {
		return nil, invalidf("output references undefined name %q", f.Output)
	}

	return &Program{Root: root, Leaves: leaves}, nil
}

// apply binds a parsed op to its argument nodes. Arity was checked against
// op.Arity() above, so the indexing here cannot be out of range.
func apply(op graph.Op, args []*graph.Node) *graph.Node {
	switch op {
	case graph.OpAdd:
		return graph.Add(args[0], args[1])
	case graph.OpMul:
		return graph.Mul(args[0], args[1])
	case graph.OpPow:
		return graph.Pow(args[0], args[1])
	case graph.OpExp:
		return graph.Exp(args[0])
	case graph.OpRelu:
		return graph.Relu(args[0])
	default:
		panic(fmt.Sprintf("expr: unhandled op %s", op))
	}
}
