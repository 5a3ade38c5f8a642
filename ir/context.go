package ir

import (
	"fmt"
	"sync"

	"github.com/fhecircuit/compiler/graph"
)

// Context bundles the frontend graph under construction together with the
// arena backing Handle spans. A Context is single-threaded by construction:
// nothing inside it is safe for concurrent use, matching the teacher's
// convention that stateful builders (e.g. rlwe.KeyGenerator) are
// goroutine-confined unless documented otherwise.
type Context struct {
	graph      *graph.Graph[Op, Role]
	inputIndex map[graph.NodeID]int
	nextInput  int
	arena      []graph.NodeID
}

// NewContext returns an empty Context ready to record a circuit capture.
// Two contexts created this way and used from separate goroutines are fully
// independent; this is the concurrent path spec.md §5 describes as
// "independent graphs" for separate threads.
func NewContext() *Context {
	return &Context{
		graph:      graph.New[Op, Role](),
		inputIndex: make(map[graph.NodeID]int),
	}
}

// Graph returns the frontend graph under construction.
func (c *Context) Graph() *graph.Graph[Op, Role] {
	return c.graph
}

// AddInput inserts an InputCiphertext node and assigns it the next
// positional input ordinal (the order in which inputs were added to this
// context). Recording the ordinal explicitly at insertion time, rather than
// inferring it later from node-id density, resolves the ambiguity spec.md
// §4.4/§9 flags around the "HACKHACK" positional-input convention.
func (c *Context) AddInput() graph.NodeID {
	id := c.graph.AddNode(Op{Kind: InputCiphertext})
	c.inputIndex[id] = c.nextInput
	c.nextInput++
	return id
}

// InputIndex returns the positional ordinal assigned to id by AddInput. The
// second return value is false if id is not an input node of this context.
func (c *Context) InputIndex(id graph.NodeID) (int, bool) {
	idx, ok := c.inputIndex[id]
	return idx, ok
}

func (c *Context) addBinary(kind Kind, left, right graph.NodeID) graph.NodeID {
	id := c.graph.AddNode(Op{Kind: kind})
	c.graph.AddEdge(left, id, Left)
	c.graph.AddEdge(right, id, Right)
	return id
}

func (c *Context) addUnary(kind Kind, operand graph.NodeID) graph.NodeID {
	id := c.graph.AddNode(Op{Kind: kind})
	c.graph.AddEdge(operand, id, Unary)
	return id
}

// AddAddition inserts an Add node with left and right as its operands.
func (c *Context) AddAddition(left, right graph.NodeID) graph.NodeID {
	return c.addBinary(Add, left, right)
}

// AddSubtraction inserts a Sub node with left and right as its operands.
func (c *Context) AddSubtraction(left, right graph.NodeID) graph.NodeID {
	return c.addBinary(Sub, left, right)
}

// AddMultiplication inserts a Multiply node with left and right as its
// operands.
func (c *Context) AddMultiplication(left, right graph.NodeID) graph.NodeID {
	return c.addBinary(Multiply, left, right)
}

// AddRotateLeft inserts a RotateLeft node; left is the ciphertext being
// rotated, right is the rotation amount operand.
func (c *Context) AddRotateLeft(left, right graph.NodeID) graph.NodeID {
	return c.addBinary(RotateLeft, left, right)
}

// AddRotateRight inserts a RotateRight node; left is the ciphertext being
// rotated, right is the rotation amount operand.
func (c *Context) AddRotateRight(left, right graph.NodeID) graph.NodeID {
	return c.addBinary(RotateRight, left, right)
}

// AddSwapRows inserts a SwapRows node, which swaps the two SIMD rows of its
// single operand.
func (c *Context) AddSwapRows(operand graph.NodeID) graph.NodeID {
	return c.addUnary(SwapRows, operand)
}

// AddOutput inserts an Output node capturing operand as a circuit result.
func (c *Context) AddOutput(operand graph.NodeID) graph.NodeID {
	return c.addUnary(Output, operand)
}

// AddLiteral returns the id of an existing literal node whose value equals
// v, inserting a new one only if none exists. Deduplication is a linear
// scan over the graph's nodes; acceptable because literal counts in a
// circuit are small (spec.md §4.3).
func (c *Context) AddLiteral(v uint64) graph.NodeID {
	for _, id := range c.graph.Nodes() {
		label, ok := c.graph.Label(id)
		if ok && label.Kind == Literal && label.Literal.U64 == v {
			return id
		}
	}
	return c.graph.AddNode(Op{Kind: Literal, Literal: LiteralValue{U64: v}})
}

// Handle is a cheaply-copyable reference to one or more node ids backing a
// frontend value. It stores a (start, len) span into its owning Context's
// arena rather than its own growable slice, so that a Handle remains copy-
// by-value cheap even for future multi-ciphertext value types (spec.md §9,
// "Arena-backed index slices").
type Handle struct {
	ctx   *Context
	start int
	len   int
}

func (c *Context) newHandle(ids ...graph.NodeID) Handle {
	start := len(c.arena)
	c.arena = append(c.arena, ids...)
	return Handle{ctx: c, start: start, len: len(ids)}
}

// IDs returns the node ids backing h, in the order they were recorded.
func (h Handle) IDs() []graph.NodeID {
	return h.ctx.arena[h.start : h.start+h.len]
}

// ID returns the single node id backing h. It panics if h backs more than
// one node.
func (h Handle) ID() graph.NodeID {
	if h.len != 1 {
		panic(fmt.Errorf("ir: Handle.ID: handle backs %d node ids, want 1", h.len))
	}
	return h.ctx.arena[h.start]
}

// CircuitNode is the value wrapper a concrete FHE type (e.g. a Fractional
// or Unsigned plaintext type) embeds to gain graph-backed node storage. It
// plays the role the original implementation's CircuitNode<T> plays.
type CircuitNode struct {
	Handle
}

// NewCircuitNode wraps ids as a CircuitNode backed by ctx's arena.
func NewCircuitNode(ctx *Context, ids ...graph.NodeID) CircuitNode {
	return CircuitNode{Handle: ctx.newHandle(ids...)}
}

// NumCiphertexts is implemented by every FHE value type, declaring how many
// backing ciphertexts (and so backing node ids) a value occupies.
type NumCiphertexts interface {
	NumCiphertexts() int
}

// Value is implemented by frontend types usable as the input or output of a
// captured circuit function (spec.md §6).
type Value interface {
	NumCiphertexts
	// Output records every node backing the value as a circuit output.
	Output()
}

var (
	captureMu sync.Mutex
	current   *Context
)

// ErrContextMissing is the panic value raised when WithContext is invoked
// outside of a Capture window. A running circuit capture cannot proceed
// without its context, so this is treated as a fatal programming error
// rather than a recoverable one (spec.md §7).
var ErrContextMissing = fmt.Errorf("ir: no active context: WithContext called outside of Capture")

// Capture installs ctx as the ambient context for the duration of fn, then
// retires the ambient handle even if fn panics. Because the ambient handle
// is process-wide, concurrent Capture calls from separate goroutines are
// serialized by an internal mutex: this implementation favors a strictly
// single-active-capture model over the spec's looser "independent contexts
// per thread" wording (see SPEC_FULL.md §5/Open Questions). Callers who
// need concurrent circuit construction should build their graphs with
// NewContext directly and skip the ambient accessor, which requires no
// serialization.
func Capture(ctx *Context, fn func()) {
	captureMu.Lock()
	defer captureMu.Unlock()

	current = ctx
	defer func() { current = nil }()

	fn()
}

// WithContext borrows the current ambient context for the duration of fn.
// It panics with ErrContextMissing if no Capture is in progress.
func WithContext[R any](fn func(ctx *Context) R) R {
	if current == nil {
		panic(ErrContextMissing)
	}
	return fn(current)
}
