package compiler

// CallSignature describes the plaintext types a compiled circuit expects
// as input and produces as output, by type name (spec.md §4.7/§6: "a call
// signature describing input and output plaintext types"). The runtime
// that would resolve these names back to concrete Go types is out of this
// core's scope; CallSignature only records them.
type CallSignature struct {
	InputTypes  []string
	OutputTypes []string
}

// CircuitMetadata is attached to every compiled circuit: the scheme
// parameters it was compiled against plus its call signature (spec.md §6
// "Parameters interface").
type CircuitMetadata struct {
	Params    Params
	Signature CallSignature
}
