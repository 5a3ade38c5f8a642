// Package circuit implements the backend circuit representation: the op
// set a BFV-flavored evaluation runtime actually understands, the
// relinearization-insertion transform, and dead-code elimination by
// output-reachability pruning.
package circuit

import (
	"fmt"

	"github.com/fhecircuit/compiler/graph"
)

// Kind is the backend operation tag carried by every node.
type Kind int

const (
	// InputCiphertext loads ciphertext number Index (spec.md §3/§4.4).
	InputCiphertext Kind = iota
	// Literal carries a constant scalar operand.
	Literal
	// Add is binary addition.
	Add
	// Sub is binary subtraction.
	Sub
	// Multiply is binary multiplication.
	Multiply
	// ShiftLeft rotates SIMD slots left.
	ShiftLeft
	// ShiftRight rotates SIMD slots right.
	ShiftRight
	// SwapRows swaps the two SIMD rows of its operand.
	SwapRows
	// OutputCiphertext marks its operand as a circuit result.
	OutputCiphertext
	// Relinearize reduces a ciphertext produced by Multiply back to
	// degree 2. Inserted by the relinearization pass; never present in a
	// freshly lowered circuit.
	Relinearize
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case InputCiphertext:
		return "InputCiphertext"
	case Literal:
		return "Literal"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Multiply:
		return "Multiply"
	case ShiftLeft:
		return "ShiftLeft"
	case ShiftRight:
		return "ShiftRight"
	case SwapRows:
		return "SwapRows"
	case OutputCiphertext:
		return "OutputCiphertext"
	case Relinearize:
		return "Relinearize"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LiteralValue is the sum type of backend literal payloads. OuterLiteral in
// spec.md's terms: currently only a scalar unsigned 64-bit integer.
type LiteralValue struct {
	U64 uint64
}

// Op is the label carried by every backend graph node.
type Op struct {
	Kind    Kind
	Index   int          // meaningful only when Kind == InputCiphertext: the positional input index
	Literal LiteralValue // meaningful only when Kind == Literal
}

// String implements fmt.Stringer.
func (op Op) String() string {
	switch op.Kind {
	case InputCiphertext:
		return fmt.Sprintf("InputCiphertext(%d)", op.Index)
	case Literal:
		return fmt.Sprintf("Literal(Scalar(U64(%d)))", op.Literal.U64)
	default:
		return op.Kind.String()
	}
}

// Role identifies the operand position an edge fills for its destination
// node. It mirrors ir.Role one-for-one (spec.md §4.4's edge-role lowering
// table is the identity map).
type Role int

const (
	// LeftOperand is the first operand of a binary operation.
	LeftOperand Role = iota
	// RightOperand is the second operand of a binary operation.
	RightOperand
	// UnaryOperand is the sole operand of a unary operation.
	UnaryOperand
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case LeftOperand:
		return "LeftOperand"
	case RightOperand:
		return "RightOperand"
	case UnaryOperand:
		return "UnaryOperand"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Scheme tags which HE scheme a Circuit targets. BFV is the only scheme
// this core supports (spec.md §1 Non-goals).
type Scheme int

const (
	// BFV is the Brakerski-Fan-Vercauteren scheme.
	BFV Scheme = iota
)

// String implements fmt.Stringer.
func (s Scheme) String() string {
	switch s {
	case BFV:
		return "BFV"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Circuit is the backend DAG a compiled circuit function lowers to: a
// Scheme tag plus the op graph, with node/edge label enums and an
// iteration order consistent with insertion and subsequent pruning
// (spec.md §3/§6).
type Circuit struct {
	Scheme Scheme
	Graph  *graph.Graph[Op, Role]
}

// New returns an empty Circuit targeting the given scheme.
func New(scheme Scheme) *Circuit {
	return &Circuit{
		Scheme: scheme,
		Graph:  graph.New[Op, Role](),
	}
}

// Outputs enumerates the ids of every OutputCiphertext node, in the order
// they appear in the graph's node iteration order.
func (c *Circuit) Outputs() []graph.NodeID {
	var outs []graph.NodeID
	for _, id := range c.Graph.Nodes() {
		if op, ok := c.Graph.Label(id); ok && op.Kind == OutputCiphertext {
			outs = append(outs, id)
		}
	}
	return outs
}

// Prune returns the subgraph containing exactly the output nodes and their
// transitive predecessors (spec.md §4.6): the final transform of the
// compilation pipeline. Node identities of surviving nodes are preserved.
func (c *Circuit) Prune() *Circuit {
	return &Circuit{
		Scheme: c.Scheme,
		Graph:  c.Graph.FromReachable(c.Outputs()),
	}
}

// ErrShape indicates a structural invariant was violated: a node's incoming
// edges don't match the arity/roles its operation requires. This signals
// an implementation bug in a pass upstream, not a user error. No pass in
// this module checks operand roles, so nothing here constructs or raises
// ErrShape.
type ErrShape struct {
	Node graph.NodeID
	Op   Op
	Msg  string
}

func (e *ErrShape) Error() string {
	return fmt.Sprintf("circuit: node %d (%s): %s", e.Node, e.Op, e.Msg)
}
