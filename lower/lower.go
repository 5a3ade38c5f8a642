// Package lower implements the deterministic rewrite from the frontend
// intermediate representation (ir) to the backend circuit representation
// (circuit), per spec.md §4.4: a one-to-one mapping from the frontend op
// set to the backend op set that preserves graph topology, operand-role
// edges, and node identities.
package lower

import (
	"fmt"

	"github.com/fhecircuit/compiler/circuit"
	"github.com/fhecircuit/compiler/graph"
	"github.com/fhecircuit/compiler/ir"
)

// Lower rewrites ctx's frontend graph into a backend Circuit targeting
// scheme. Node ids are preserved; InputCiphertext nodes carry the
// positional input index ctx assigned them at AddInput time, rather than
// an index inferred from the frontend node id (spec.md §4.4's "Ambiguous
// source behavior" / §9's positional-input design note).
func Lower(ctx *ir.Context, scheme circuit.Scheme) *circuit.Circuit {
	mapped := graph.Map(ctx.Graph(),
		func(id graph.NodeID, op ir.Op) circuit.Op {
			return lowerOp(ctx, id, op)
		},
		lowerRole,
	)

	return &circuit.Circuit{
		Scheme: scheme,
		Graph:  mapped,
	}
}

func lowerOp(ctx *ir.Context, id graph.NodeID, op ir.Op) circuit.Op {
	switch op.Kind {
	case ir.InputCiphertext:
		position, ok := ctx.InputIndex(id)
		if !ok {
			panic(fmt.Errorf("lower: node %d is tagged InputCiphertext but has no recorded input ordinal", id))
		}
		return circuit.Op{Kind: circuit.InputCiphertext, Index: position}
	case ir.Add:
		return circuit.Op{Kind: circuit.Add}
	case ir.Sub:
		return circuit.Op{Kind: circuit.Sub}
	case ir.Multiply:
		return circuit.Op{Kind: circuit.Multiply}
	case ir.RotateLeft:
		return circuit.Op{Kind: circuit.ShiftLeft}
	case ir.RotateRight:
		return circuit.Op{Kind: circuit.ShiftRight}
	case ir.SwapRows:
		return circuit.Op{Kind: circuit.SwapRows}
	case ir.Literal:
		return circuit.Op{Kind: circuit.Literal, Literal: circuit.LiteralValue{U64: op.Literal.U64}}
	case ir.Output:
		return circuit.Op{Kind: circuit.OutputCiphertext}
	default:
		panic(fmt.Errorf("lower: node %d has unrecognized frontend op %s", id, op))
	}
}

func lowerRole(role ir.Role) circuit.Role {
	switch role {
	case ir.Left:
		return circuit.LeftOperand
	case ir.Right:
		return circuit.RightOperand
	case ir.Unary:
		return circuit.UnaryOperand
	default:
		panic(fmt.Errorf("lower: unrecognized frontend role %s", role))
	}
}
