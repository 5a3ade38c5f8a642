package circuit

import "github.com/fhecircuit/compiler/graph"

// InsertRelinearizations normalizes c in place so that every Multiply
// node's output is consumed through a freshly inserted Relinearize node
// (spec.md §4.5): each BFV multiplication grows ciphertext degree, and a
// consumer expecting a degree-2 ciphertext needs a relinearization step
// between producer and consumer.
//
// Multiply nodes are visited in the graph's stable, id-ordered traversal
// (graph.Nodes() returns insertion order). A Multiply already wrapped by a
// prior call is left alone: its entire consumer set is checked for being
// exactly one Relinearize node before wrapping, so running the pass twice
// produces the same graph as running it once (spec.md §4.5/§8).
func InsertRelinearizations(c *Circuit) {
	multiplies := multiplyNodes(c)

	for _, m := range multiplies {
		consumers := c.Graph.Out(m)
		if alreadyRelinearized(c, consumers) {
			continue
		}

		// A terminal multiplication (no consumers) still gets wrapped, so
		// that re-running the pass recognizes it as already processed;
		// dead-code elimination later removes both m and r, since neither
		// is an ancestor of any output (spec.md §4.5 "Terminal
		// multiplications").
		r := c.Graph.AddNode(Op{Kind: Relinearize})
		c.Graph.AddEdge(m, r, UnaryOperand)

		for _, e := range consumers {
			c.Graph.RemoveEdge(m, e.Node, e.Role)
			c.Graph.AddEdge(r, e.Node, e.Role)
		}
	}
}

// alreadyRelinearized reports whether m's consumer set already consists of
// exactly one Relinearize node, meaning a prior call already wrapped m.
func alreadyRelinearized(c *Circuit, consumers []graph.Edge[Role]) bool {
	if len(consumers) != 1 {
		return false
	}
	op, ok := c.Graph.Label(consumers[0].Node)
	return ok && op.Kind == Relinearize
}

// multiplyNodes snapshots the Multiply node ids present before the pass
// starts mutating the graph, in stable id order.
func multiplyNodes(c *Circuit) []graph.NodeID {
	var ids []graph.NodeID
	for _, id := range c.Graph.Nodes() {
		if op, ok := c.Graph.Label(id); ok && op.Kind == Multiply {
			ids = append(ids, id)
		}
	}
	return ids
}
