package compiler_test

import (
	"errors"
	"testing"

	"github.com/fhecircuit/compiler/compiler"
	"github.com/stretchr/testify/require"
)

func TestNewParamsSatisfiesLowNoiseMargin(t *testing.T) {
	params, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(600),
		NoiseMarginBits:        5,
		SecurityLevel:          compiler.TC128,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(600), params.PlainModulus)
	require.NotZero(t, params.LatticeDimension)
	require.NotEmpty(t, params.CoeffModulus)
}

func TestNewParamsPicksSmallestSufficientDimension(t *testing.T) {
	small, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(600),
		NoiseMarginBits:        1,
	})
	require.NoError(t, err)

	large, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(600),
		NoiseMarginBits:        500,
	})
	require.NoError(t, err)

	require.Less(t, small.LatticeDimension, large.LatticeDimension)
}

func TestNewParamsFailsOnZeroModulus(t *testing.T) {
	_, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(0),
		NoiseMarginBits:        5,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, compiler.ErrUnsatisfiableParams))
}

func TestNewParamsFailsOnModulusOfOne(t *testing.T) {
	_, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(1),
		NoiseMarginBits:        5,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, compiler.ErrUnsatisfiableParams))
}

func TestNewParamsCarriesNoiseMarginBits(t *testing.T) {
	params, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(600),
		NoiseMarginBits:        5,
	})
	require.NoError(t, err)
	require.Equal(t, 5, params.NoiseMarginBits)
}

func TestNewParamsFailsWhenNoiseMarginUnsatisfiable(t *testing.T) {
	_, err := compiler.NewParams(compiler.ParamsLiteral{
		PlainModulusConstraint: compiler.Raw(600),
		NoiseMarginBits:        1_000_000,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, compiler.ErrUnsatisfiableParams))
}
