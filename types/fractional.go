// Package types implements the frontend value types usable as the inputs
// and outputs of a captured circuit function (spec.md §6: "Frontend value
// API (collaborator contract)"). Each type wraps an ir.CircuitNode and
// implements ir.Value, recording its own construction and every operation
// applied to it on the ambient ir.Context.
//
// This is distinct from codec.Fractional, which only knows how to turn a
// float64 into plaintext polynomial coefficients and back; types.Fractional
// is the graph-building handle a user circuit function actually computes
// with.
package types

import (
	"github.com/fhecircuit/compiler/ir"
)

// Fractional is a circuit-graph value representing a quasi fixed-point
// number: IntBits bits of integer precision, with the remainder of the
// backing plaintext polynomial holding the fractional part (see
// codec.Fractional for the encoding itself).
type Fractional struct {
	ir.CircuitNode
	IntBits int
}

// NewFractionalInput allocates a new input node for a Fractional value with
// the given integer-bit precision. Must be called during a circuit
// capture.
func NewFractionalInput(intBits int) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddInput()
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: intBits}
	})
}

// FractionalLiteral wraps a constant unsigned integer as a Fractional
// operand, deduplicated against any existing literal node of the same
// value on the ambient context.
func FractionalLiteral(v uint64, intBits int) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddLiteral(v)
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: intBits}
	})
}

// NumCiphertexts implements ir.Value: a Fractional always occupies exactly
// one backing ciphertext.
func (f Fractional) NumCiphertexts() int {
	return 1
}

// Output implements ir.Value, recording f's backing node as a circuit
// output.
func (f Fractional) Output() {
	ir.WithContext(func(ctx *ir.Context) any {
		ctx.AddOutput(f.ID())
		return nil
	})
}

// Add returns a + b as a new graph node.
func (f Fractional) Add(other Fractional) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddAddition(f.ID(), other.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}

// Sub returns a - b as a new graph node.
func (f Fractional) Sub(other Fractional) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddSubtraction(f.ID(), other.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}

// Mul returns a * b as a new graph node. Multiplication grows ciphertext
// degree; a later compiler pass (circuit.InsertRelinearizations) restores
// it, so Mul itself records no relinearization.
func (f Fractional) Mul(other Fractional) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddMultiplication(f.ID(), other.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}

// RotateLeft rotates f's SIMD slots left by amount slots.
func (f Fractional) RotateLeft(amount Fractional) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddRotateLeft(f.ID(), amount.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}

// RotateRight rotates f's SIMD slots right by amount slots.
func (f Fractional) RotateRight(amount Fractional) Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddRotateRight(f.ID(), amount.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}

// SwapRows swaps f's two SIMD rows.
func (f Fractional) SwapRows() Fractional {
	return ir.WithContext(func(ctx *ir.Context) Fractional {
		id := ctx.AddSwapRows(f.ID())
		return Fractional{CircuitNode: ir.NewCircuitNode(ctx, id), IntBits: f.IntBits}
	})
}
