// Package compiler implements the façade that orchestrates ir capture,
// lowering, relinearization, and pruning into a finished circuit.Circuit
// (spec.md §4.7), plus the scheme-parameter records the rest of the
// pipeline is parameterized by.
package compiler

import (
	"fmt"

	"github.com/fhecircuit/compiler/circuit"
	"golang.org/x/exp/constraints"
)

// nonNegative reports whether v is zero or positive, generic over any
// integer type a future ParamsLiteral field might use (mirrors the
// teacher's use of constraints.Integer for generic bounds, e.g.
// structs.Map's key type).
func nonNegative[T constraints.Integer](v T) bool {
	return v >= 0
}

// SecurityLevel names a target classical security level. TC128 is the only
// level this core's parameter search targets (spec.md §4.7 Non-goals leave
// the search heuristic itself out of scope; only its call contract is
// specified here).
type SecurityLevel int

const (
	// TC128 targets 128 bits of security under the usual LWE estimators.
	TC128 SecurityLevel = iota
)

func (s SecurityLevel) String() string {
	switch s {
	case TC128:
		return "TC128"
	default:
		return fmt.Sprintf("SecurityLevel(%d)", int(s))
	}
}

// PlainModulusConstraint pins the plaintext modulus search performed during
// Compile. Raw is the only variant this core implements (spec.md §9: the
// original ships Raw(u64) plus variants the core doesn't need).
type PlainModulusConstraint struct {
	raw uint64
}

// Raw requests exactly modulus as the plaintext modulus, skipping any
// search over candidate moduli.
func Raw(modulus uint64) PlainModulusConstraint {
	return PlainModulusConstraint{raw: modulus}
}

// Modulus returns the plaintext modulus this constraint pins.
func (c PlainModulusConstraint) Modulus() uint64 {
	return c.raw
}

// ParamsLiteral is the user-facing, not-yet-validated parameter request:
// a plaintext modulus constraint and a noise margin, from which NewParams
// derives (or fails to derive) a full Params record.
type ParamsLiteral struct {
	PlainModulusConstraint PlainModulusConstraint
	NoiseMarginBits        int
	SecurityLevel          SecurityLevel
}

// Params is the validated scheme-parameter record the rest of the pipeline
// consumes: a lattice dimension, plaintext and coefficient moduli, the
// target scheme, and the security level they were chosen to satisfy
// (spec.md §6 Parameters interface).
type Params struct {
	LatticeDimension uint64
	PlainModulus     uint64
	CoeffModulus     []uint64
	Scheme           circuit.Scheme
	SecurityLevel    SecurityLevel
	NoiseMarginBits  int
}

// ErrUnsatisfiableParams is wrapped by the error NewParams returns when no
// lattice dimension and coefficient modulus chain satisfy the requested
// plaintext modulus and noise margin at the requested security level.
var ErrUnsatisfiableParams = fmt.Errorf("compiler: unsatisfiable parameters")

// NewParams derives a full Params record from pl. The lattice dimension and
// coefficient modulus chain are chosen by a parameter-search heuristic that
// this core treats as an external concern (spec.md §4.7): the contract is
// that NewParams either returns parameters meeting the constraint and noise
// margin, or fails with ErrUnsatisfiableParams. The search implemented here
// covers the single Raw constraint variant this core supports.
func NewParams(pl ParamsLiteral) (Params, error) {
	if pl.PlainModulusConstraint.Modulus() <= 1 {
		return Params{}, fmt.Errorf("%w: plain modulus must be greater than 1", ErrUnsatisfiableParams)
	}
	if !nonNegative(pl.NoiseMarginBits) {
		return Params{}, fmt.Errorf("%w: negative noise margin", ErrUnsatisfiableParams)
	}

	dimension, coeffModulus, err := searchLatticeDimension(pl)
	if err != nil {
		return Params{}, err
	}

	return Params{
		LatticeDimension: dimension,
		PlainModulus:     pl.PlainModulusConstraint.Modulus(),
		CoeffModulus:     coeffModulus,
		Scheme:           circuit.BFV,
		SecurityLevel:    pl.SecurityLevel,
		NoiseMarginBits:  pl.NoiseMarginBits,
	}, nil
}

// candidateDimensions are the power-of-two lattice dimensions this search
// considers, smallest first, mirroring the teacher's convention of
// expressing ring degree as a LogN ladder (rlwe.ParametersLiteral.LogN)
// rather than an arbitrary dimension.
var candidateDimensions = []uint64{4096, 8192, 16384, 32768}

// searchLatticeDimension picks the smallest candidate dimension whose noise
// budget (estimated coarsely as bits-per-level times available levels)
// meets the requested margin, assigning one placeholder coefficient modulus
// (defaultCoeffModulusPrime, 2^60) per level.
func searchLatticeDimension(pl ParamsLiteral) (uint64, []uint64, error) {
	const bitsPerLevel = 60

	for _, n := range candidateDimensions {
		levels := maxLevelsFor(n)
		if levels*bitsPerLevel < pl.NoiseMarginBits {
			continue
		}

		coeffModulus := make([]uint64, levels)
		for i := range coeffModulus {
			coeffModulus[i] = defaultCoeffModulusPrime
		}

		return n, coeffModulus, nil
	}

	return 0, nil, fmt.Errorf("%w: no candidate lattice dimension meets a %d-bit noise margin", ErrUnsatisfiableParams, pl.NoiseMarginBits)
}

// defaultCoeffModulusPrime stands in for a properly generated NTT-friendly
// prime; selecting primes that satisfy the scheme's security and NTT
// constraints is the external parameter-search concern spec.md §4.7 places
// out of scope.
const defaultCoeffModulusPrime = uint64(1) << 60

func maxLevelsFor(n uint64) int {
	switch {
	case n <= 4096:
		return 2
	case n <= 8192:
		return 4
	case n <= 16384:
		return 8
	default:
		return 16
	}
}
