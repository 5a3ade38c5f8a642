// Package codec implements the Fractional plaintext encoding: a carryless,
// fixed-point-like mapping between an IEEE-754 double and the coefficients
// of a BFV plaintext polynomial (spec.md §4.1).
//
// Each bit of the double's mantissa lands on exactly one polynomial
// coefficient. Bits contributing to the integer part occupy the low-order
// coefficients with the value's own sign; bits contributing to the fractional part
// wrap around to the high-order coefficients with inverted sign, the same
// way a two's-complement digit represents a negative value once it exceeds
// half the modulus. This lets addition and multiplication of the encoded
// polynomials compute addition and multiplication of the underlying
// doubles with no extra shift step, at the cost of being exact only up to
// plain_modulus overflow per coefficient.
package codec

import (
	"fmt"
	"math"
)

// mantissaDigits is the number of significant bits a float64 mantissa
// carries, including the implicit leading 1 (IEEE-754 binary64).
const mantissaDigits = 53

// ErrFheType is wrapped by every error Encode returns: val cannot be
// represented as this scheme's plaintext type (NaN, infinite, or an integer
// part wider than IntBits).
var ErrFheType = fmt.Errorf("codec: invalid fhe type")

// ErrIncorrectCiphertextCount is wrapped by the error Decode returns when
// given a plaintext count other than the one this type expects
// (NumCiphertexts, spec.md §3).
var ErrIncorrectCiphertextCount = fmt.Errorf("codec: incorrect ciphertext count")

// Fractional encodes and decodes float64 values as single-polynomial BFV
// plaintexts. IntBits reserves the low-order IntBits coefficients for the
// integer part of the value; the remainder of the polynomial holds the
// fractional part. Go has no const generics, so IntBits is a runtime field
// rather than a type parameter (spec.md §9 Open Question: const-generic
// INT_BITS).
type Fractional struct {
	IntBits int
}

// NewFractional returns a codec reserving intBits low-order coefficients
// for the integer part of encoded values.
func NewFractional(intBits int) Fractional {
	return Fractional{IntBits: intBits}
}

// Encode maps val onto the coefficients of a degree-latticeDimension
// plaintext polynomial over Z_plainModulus.
//
// Encoding fails if val is NaN or infinite, or if val's integer part needs
// more than IntBits bits to represent. Subnormals and zero flush to the
// all-zero polynomial.
func (f Fractional) Encode(val float64, latticeDimension int, plainModulus uint64) ([]uint64, error) {
	if math.IsNaN(val) {
		return nil, fmt.Errorf("%w: value is NaN", ErrFheType)
	}
	if math.IsInf(val, 0) {
		return nil, fmt.Errorf("%w: value is infinite", ErrFheType)
	}

	n := latticeDimension
	coeffs := make([]uint64, n)

	if val == 0 || isSubnormal(val) {
		return coeffs, nil
	}

	bits := math.Float64bits(val)

	const signMask = uint64(1) << 63
	const mantissaMask = uint64(0xFFFFFFFFFFFFF)
	const expMask = ^mantissaMask & ^signMask

	mantissa := bits&mantissaMask | (mantissaMask + 1)
	exp := bits & expMask
	power := int64(exp>>(mantissaDigits-1)) - 1023
	sign := (bits & signMask) >> 63

	if power+1 > int64(f.IntBits) {
		return nil, fmt.Errorf("%w: integer part of %v exceeds %d-bit precision", ErrFheType, val, f.IntBits)
	}

	for i := 0; i < mantissaDigits; i++ {
		bitValue := (mantissa & (uint64(1) << i)) >> i
		bitPower := power - int64(mantissaDigits-i-1)

		var coeffIndex int64
		digitSign := sign
		if bitPower >= 0 {
			coeffIndex = bitPower
		} else {
			// Fractional digits wrap to the high-order coefficients and
			// invert sign, mirroring two's-complement for negative powers.
			coeffIndex = int64(n) + bitPower
			digitSign = ^sign & 1
		}

		var coeff uint64
		switch {
		case digitSign == 0:
			coeff = bitValue
		case bitValue > 0:
			coeff = plainModulus - bitValue
		}

		coeffs[coeffIndex] = coeff
	}

	return coeffs, nil
}

// Decode recovers a float64 from plaintexts, which must hold exactly one
// polynomial (Fractional's NumCiphertexts is always 1). Coefficient slices
// shorter than latticeDimension are treated as zero-padded.
func (f Fractional) Decode(plaintexts [][]uint64, latticeDimension int, plainModulus uint64) (float64, error) {
	if len(plaintexts) != 1 {
		return 0, fmt.Errorf("%w: expected 1 plaintext, got %d", ErrIncorrectCiphertextCount, len(plaintexts))
	}

	coeffs := plaintexts[0]
	n := latticeDimension
	negativeCutoff := (plainModulus + 2) / 2 // ceil((t+1)/2), correct for both odd and even t

	limit := n
	if len(coeffs) < limit {
		limit = len(coeffs)
	}

	var val float64
	for i := 0; i < limit; i++ {
		var power int64
		if i < f.IntBits {
			power = int64(i)
		} else {
			power = int64(i) - int64(n)
		}

		sign := 1.0
		if power < 0 {
			sign = -1.0
		}

		coeff := coeffs[i]
		if coeff < negativeCutoff {
			val += sign * float64(coeff) * math.Exp2(float64(power))
		} else {
			val -= sign * float64(plainModulus-coeff) * math.Exp2(float64(power))
		}
	}

	return val, nil
}

func isSubnormal(val float64) bool {
	bits := math.Float64bits(val)
	expBits := (bits >> (mantissaDigits - 1)) & 0x7FF
	mantissaBits := bits & 0xFFFFFFFFFFFFF
	return expBits == 0 && mantissaBits != 0
}
