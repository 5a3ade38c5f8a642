package compiler

import (
	"github.com/fhecircuit/compiler/circuit"
	"github.com/fhecircuit/compiler/ir"
	"github.com/fhecircuit/compiler/lower"
)

// CompiledCircuit bundles a pruned, relinearized backend circuit with the
// metadata describing it.
type CompiledCircuit struct {
	Circuit  *circuit.Circuit
	Metadata CircuitMetadata
}

// Compile orchestrates the full pipeline (spec.md §4.7): install a fresh
// Context as the ambient capture target, invoke fn to populate the
// frontend graph and collect its declared outputs, retire the ambient
// context, lower to the backend op set (§4.4), insert relinearizations
// (§4.5), prune unreachable nodes (§4.6), and attach a metadata record.
//
// fn is the captured circuit function: it builds its inputs from the
// ambient context (e.g. via types.NewFractionalInput) and returns the
// ir.Value results that should become circuit outputs; Compile calls
// Output() on each of them.
func Compile(pl ParamsLiteral, signature CallSignature, fn func() []ir.Value) (*CompiledCircuit, error) {
	params, err := NewParams(pl)
	if err != nil {
		return nil, err
	}

	ctx := ir.NewContext()

	ir.Capture(ctx, func() {
		for _, v := range fn() {
			v.Output()
		}
	})

	lowered := lower.Lower(ctx, params.Scheme)
	circuit.InsertRelinearizations(lowered)
	pruned := lowered.Prune()

	return &CompiledCircuit{
		Circuit: pruned,
		Metadata: CircuitMetadata{
			Params:    params,
			Signature: signature,
		},
	}, nil
}
