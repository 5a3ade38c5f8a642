package ir_test

import (
	"testing"

	"github.com/fhecircuit/compiler/ir"
	"github.com/stretchr/testify/require"
)

func TestAddInputAssignsPositionalOrdinals(t *testing.T) {
	ctx := ir.NewContext()

	a := ctx.AddInput()
	b := ctx.AddInput()

	ai, ok := ctx.InputIndex(a)
	require.True(t, ok)
	require.Equal(t, 0, ai)

	bi, ok := ctx.InputIndex(b)
	require.True(t, ok)
	require.Equal(t, 1, bi)
}

func TestAddLiteralDeduplicates(t *testing.T) {
	ctx := ir.NewContext()

	first := ctx.AddLiteral(7)
	second := ctx.AddLiteral(7)

	require.Equal(t, first, second)
	require.Equal(t, 1, ctx.Graph().Len())

	other := ctx.AddLiteral(9)
	require.NotEqual(t, first, other)
	require.Equal(t, 2, ctx.Graph().Len())
}

func TestAddAdditionWiresOperandRoles(t *testing.T) {
	ctx := ir.NewContext()

	a := ctx.AddInput()
	b := ctx.AddInput()
	add := ctx.AddAddition(a, b)

	in := ctx.Graph().In(add)
	require.Len(t, in, 2)

	roles := map[ir.Role]bool{}
	for _, e := range in {
		roles[e.Role] = true
	}
	require.True(t, roles[ir.Left])
	require.True(t, roles[ir.Right])
}

func TestAddOutputWiresUnaryRole(t *testing.T) {
	ctx := ir.NewContext()

	a := ctx.AddInput()
	out := ctx.AddOutput(a)

	in := ctx.Graph().In(out)
	require.Len(t, in, 1)
	require.Equal(t, ir.Unary, in[0].Role)
}

func TestHandleIDPanicsOnMultiNodeHandle(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.AddInput()
	b := ctx.AddInput()

	h := ir.NewCircuitNode(ctx, a, b)

	require.Panics(t, func() { h.ID() })
	require.Equal(t, []interface{}{a, b}, []interface{}{h.IDs()[0], h.IDs()[1]})
}

func TestWithContextPanicsWithoutCapture(t *testing.T) {
	require.PanicsWithError(t, ir.ErrContextMissing.Error(), func() {
		ir.WithContext(func(ctx *ir.Context) int {
			return 0
		})
	})
}

func TestCaptureInstallsAndRetiresAmbientContext(t *testing.T) {
	ctx := ir.NewContext()

	var seen *ir.Context
	ir.Capture(ctx, func() {
		ir.WithContext(func(c *ir.Context) struct{} {
			seen = c
			return struct{}{}
		})
	})

	require.Same(t, ctx, seen)
	require.PanicsWithError(t, ir.ErrContextMissing.Error(), func() {
		ir.WithContext(func(c *ir.Context) int { return 0 })
	})
}

func TestCaptureRetiresContextEvenOnPanic(t *testing.T) {
	ctx := ir.NewContext()

	func() {
		defer func() { _ = recover() }()
		ir.Capture(ctx, func() {
			panic("boom")
		})
	}()

	require.PanicsWithError(t, ir.ErrContextMissing.Error(), func() {
		ir.WithContext(func(c *ir.Context) int { return 0 })
	})
}
