// Package graph implements a stable-identity directed acyclic graph (DAG)
// primitive used by the ir and circuit packages. Nodes are addressed by an
// integer NodeID assigned at insertion time and never reused within the
// lifetime of a Graph, mirroring the way the teacher library addresses RNS
// moduli and ring levels by a stable integer index rather than through a
// third-party graph engine (see ring.RNSRing's ModuliChain/AtLevel
// convention).
package graph

import (
	"fmt"
	"sort"
)

// NodeID identifies a node within a Graph. A removed node's id is never
// reused for a different node in the same Graph's lifetime.
type NodeID int

// Edge pairs a role label with the node at the other end of the edge. The
// same Edge type backs both the outgoing and incoming adjacency lists; which
// end it refers to depends on which list it was read from.
type Edge[E comparable] struct {
	Node NodeID
	Role E
}

// Graph is a directed acyclic graph whose nodes carry a label of type N and
// whose edges carry a role of type E.
//
// Graph is not safe for concurrent use; callers needing concurrent graph
// construction should build independent Graph values on separate goroutines
// (see ir.NewContext).
type Graph[N any, E comparable] struct {
	labels map[NodeID]N
	order  []NodeID // insertion order of currently-live nodes
	out    map[NodeID][]Edge[E]
	in     map[NodeID][]Edge[E]
	next   NodeID
}

// New returns an empty Graph.
func New[N any, E comparable]() *Graph[N, E] {
	return &Graph[N, E]{
		labels: make(map[NodeID]N),
		out:    make(map[NodeID][]Edge[E]),
		in:     make(map[NodeID][]Edge[E]),
	}
}

// empty allocates a Graph sharing no state with g, preserving g's id
// counter. Used by FromReachable (Map copies the counter itself, since its
// result has different type parameters) so that surviving node ids are
// never reassigned and fresh ids inserted into a derived graph never
// collide with ids from the source graph.
func (g *Graph[N, E]) empty() *Graph[N, E] {
	out := New[N, E]()
	out.next = g.next
	return out
}

// AddNode inserts a node with the given label and returns its id.
func (g *Graph[N, E]) AddNode(label N) NodeID {
	id := g.next
	g.next++
	g.labels[id] = label
	g.order = append(g.order, id)
	return id
}

// AddEdge inserts an edge from -> to carrying the given role. Both endpoints
// must already exist in the graph.
func (g *Graph[N, E]) AddEdge(from, to NodeID, role E) {
	if _, ok := g.labels[from]; !ok {
		panic(fmt.Errorf("graph: AddEdge: source node %d does not exist", from))
	}
	if _, ok := g.labels[to]; !ok {
		panic(fmt.Errorf("graph: AddEdge: destination node %d does not exist", to))
	}
	g.out[from] = append(g.out[from], Edge[E]{Node: to, Role: role})
	g.in[to] = append(g.in[to], Edge[E]{Node: from, Role: role})
}

// RemoveNode deletes a node and all edges incident to it. The node's id is
// never reassigned.
func (g *Graph[N, E]) RemoveNode(id NodeID) {
	if _, ok := g.labels[id]; !ok {
		return
	}

	for _, e := range g.out[id] {
		g.in[e.Node] = removeIncident(g.in[e.Node], id)
	}
	for _, e := range g.in[id] {
		g.out[e.Node] = removeIncident(g.out[e.Node], id)
	}

	delete(g.out, id)
	delete(g.in, id)
	delete(g.labels, id)

	for i, n := range g.order {
		if n == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// RemoveEdge deletes one edge from -> to carrying role. If no such edge
// exists, it is a no-op.
func (g *Graph[N, E]) RemoveEdge(from, to NodeID, role E) {
	g.out[from] = removeOne(g.out[from], to, role)
	g.in[to] = removeOne(g.in[to], from, role)
}

func removeOne[E comparable](edges []Edge[E], neighbor NodeID, role E) []Edge[E] {
	for i, e := range edges {
		if e.Node == neighbor && e.Role == role {
			return append(edges[:i:i], edges[i+1:]...)
		}
	}
	return edges
}

func removeIncident[E comparable](edges []Edge[E], neighbor NodeID) []Edge[E] {
	kept := edges[:0]
	for _, e := range edges {
		if e.Node != neighbor {
			kept = append(kept, e)
		}
	}
	return kept
}

// Label returns the label of id. The second return value is false if id is
// not present (e.g. it was removed).
func (g *Graph[N, E]) Label(id NodeID) (N, bool) {
	l, ok := g.labels[id]
	return l, ok
}

// Nodes returns the ids of every live node, in insertion order.
func (g *Graph[N, E]) Nodes() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of live nodes.
func (g *Graph[N, E]) Len() int {
	return len(g.order)
}

// Out returns the edges leaving id, in insertion order.
func (g *Graph[N, E]) Out(id NodeID) []Edge[E] {
	return g.out[id]
}

// In returns the edges entering id, in insertion order.
func (g *Graph[N, E]) In(id NodeID) []Edge[E] {
	return g.in[id]
}

// addEdgeRaw inserts an edge without the AddEdge existence checks, used
// internally by Map and FromReachable when replaying edges from a source
// graph whose endpoints are already known to exist.
func (g *Graph[N, E]) addEdgeRaw(from, to NodeID, role E) {
	g.out[from] = append(g.out[from], Edge[E]{Node: to, Role: role})
	g.in[to] = append(g.in[to], Edge[E]{Node: from, Role: role})
}

// insertWithID adds a node under an already-allocated id, used internally
// by Map and FromReachable to preserve ids across a rewrite.
func (g *Graph[N, E]) insertWithID(id NodeID, label N) {
	g.labels[id] = label
	g.order = append(g.order, id)
}

// Ancestors returns the set of roots together with every node that has a
// directed path (following incoming, i.e. producer-to-consumer reversed,
// edges) to one of the roots.
func Ancestors[N any, E comparable](g *Graph[N, E], roots []NodeID) map[NodeID]bool {
	seen := make(map[NodeID]bool, len(roots))

	var visit func(id NodeID)
	visit = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, e := range g.In(id) {
			visit(e.Node)
		}
	}

	for _, r := range roots {
		visit(r)
	}

	return seen
}

// FromReachable returns the subgraph containing exactly roots and their
// transitive predecessors (ancestors in the data-dependency sense), with
// node ids preserved.
func (g *Graph[N, E]) FromReachable(roots []NodeID) *Graph[N, E] {
	keep := Ancestors(g, roots)

	out := g.empty()
	for _, id := range g.order {
		if keep[id] {
			label, _ := g.Label(id)
			out.insertWithID(id, label)
		}
	}
	for _, id := range out.order {
		for _, e := range g.Out(id) {
			if keep[e.Node] {
				out.addEdgeRaw(id, e.Node, e.Role)
			}
		}
	}

	return out
}

// Map applies nodeFn to every node label and edgeFn to every edge role,
// producing a new graph of possibly different label types with the same
// ids, topology, and iteration order as g.
func Map[N any, M any, E comparable, F comparable](g *Graph[N, E], nodeFn func(NodeID, N) M, edgeFn func(E) F) *Graph[M, F] {
	out := &Graph[M, F]{
		labels: make(map[NodeID]M, len(g.labels)),
		out:    make(map[NodeID][]Edge[F], len(g.out)),
		in:     make(map[NodeID][]Edge[F], len(g.in)),
		next:   g.next,
	}

	for _, id := range g.order {
		label, _ := g.Label(id)
		out.insertWithID(id, nodeFn(id, label))
	}
	for _, id := range out.order {
		for _, e := range g.Out(id) {
			out.addEdgeRaw(id, e.Node, edgeFn(e.Role))
		}
	}

	return out
}

// Equal reports whether a and b are isomorphic under node- and edge-label
// equality: there exists a bijection between their nodes that preserves
// labels, edge roles, and topology.
//
// Rather than searching for a general subgraph isomorphism, Equal relies on
// a canonicalization: since a and b are DAGs, each node's identity is fully
// determined by its own label and the (role, canonical-form) pairs of its
// predecessors. A node's canonical form is therefore a hash computed
// bottom-up over its ancestry, and two graphs are isomorphic iff they
// produce the same multiset of canonical forms. This is the
// cheaper-than-general-isomorphism scheme spec'd for graph equality, used
// only in tests.
func Equal[N any, E comparable](a, b *Graph[N, E]) bool {
	ha := canonicalForms(a)
	hb := canonicalForms(b)

	if len(ha) != len(hb) {
		return false
	}

	sort.Strings(ha)
	sort.Strings(hb)

	for i := range ha {
		if ha[i] != hb[i] {
			return false
		}
	}

	return true
}

func canonicalForms[N any, E comparable](g *Graph[N, E]) []string {
	memo := make(map[NodeID]string, g.Len())

	var form func(id NodeID) string
	form = func(id NodeID) string {
		if h, ok := memo[id]; ok {
			return h
		}

		in := g.In(id)
		parts := make([]string, len(in))
		for i, e := range in {
			parts[i] = fmt.Sprintf("%v<-%s", e.Role, form(e.Node))
		}
		sort.Strings(parts)

		label, _ := g.Label(id)
		h := fmt.Sprintf("%v[%d]", label, len(parts))
		for _, p := range parts {
			h += ";" + p
		}

		memo[id] = h
		return h
	}

	forms := make([]string, 0, g.Len())
	for _, id := range g.Nodes() {
		forms = append(forms, form(id))
	}

	return forms
}
