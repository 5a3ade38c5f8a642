// Package ir implements the frontend intermediate representation: the DAG
// of operations a captured user circuit function builds up, plus the
// Context that, once installed as the process-wide ambient context for the
// duration of a Capture, makes node insertion available to
// operator-overload-style glue code without threading a builder argument
// through every call site.
package ir

import "fmt"

// Kind is the frontend operation tag carried by every node.
type Kind int

const (
	// InputCiphertext loads a ciphertext from one of the circuit's inputs.
	InputCiphertext Kind = iota
	// Add is binary addition.
	Add
	// Sub is binary subtraction.
	Sub
	// Multiply is binary multiplication.
	Multiply
	// RotateLeft rotates the SIMD slots of its operand left by the amount
	// given by its second operand.
	RotateLeft
	// RotateRight rotates the SIMD slots of its operand right by the
	// amount given by its second operand.
	RotateRight
	// SwapRows swaps the two SIMD rows of its (unary) operand.
	SwapRows
	// Literal carries a constant operand value.
	Literal
	// Output marks its (unary) operand as a circuit result.
	Output
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case InputCiphertext:
		return "InputCiphertext"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Multiply:
		return "Multiply"
	case RotateLeft:
		return "RotateLeft"
	case RotateRight:
		return "RotateRight"
	case SwapRows:
		return "SwapRows"
	case Literal:
		return "Literal"
	case Output:
		return "Output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LiteralValue is the sum type of literal node payloads. The only
// currently-inhabited variant is an unsigned 64-bit integer (spec.md §3).
type LiteralValue struct {
	U64 uint64
}

// Op is the label carried by every frontend graph node.
type Op struct {
	Kind    Kind
	Literal LiteralValue // meaningful only when Kind == Literal
}

// String implements fmt.Stringer.
func (op Op) String() string {
	if op.Kind == Literal {
		return fmt.Sprintf("Literal(U64(%d))", op.Literal.U64)
	}
	return op.Kind.String()
}

// Role identifies the operand position an edge fills for its destination
// node.
type Role int

const (
	// Left is the first operand of a binary operation.
	Left Role = iota
	// Right is the second operand of a binary operation.
	Right
	// Unary is the sole operand of a unary operation.
	Unary
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Unary:
		return "Unary"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
