// Package flownet models flow networks: directed graphs with exact edge
// capacities, one source, and one sink. It computes maximum flow with an
// augmenting-path (Ford-Fulkerson) procedure over the node structure itself,
// representing residual capacity as real reverse edges.
//
// The package is built for small, embeddable problems (scheduling, matching,
// capacity questions reducible to max-flow) rather than for very large
// graphs; there is no scaling or blocking-flow machinery.
package flownet

import (
	"fmt"
	"iter"

	"flownet/pkg/apperror"
)

// Role distinguishes the two singleton endpoints from ordinary nodes.
type Role int

const (
	// RolePlain is an ordinary interior node.
	RolePlain Role = iota
	// RoleSource is the single traversal root of a network.
	RoleSource
	// RoleSink is the single consuming endpoint of a network.
	RoleSink
)

// String returns the string representation of the Role.
func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleSink:
		return "sink"
	default:
		return "node"
	}
}

// edge is one outgoing entry of a node. Edges live in both a lookup map and
// an order slice so iteration follows insertion order deterministically,
// while lookup stays O(1).
type edge struct {
	to       *Node
	capacity Amount
}

// Edge is one directed capacity entry, as yielded by the edge iterators.
type Edge struct {
	From     *Node
	To       *Node
	Capacity Amount
}

// Node is a vertex with flow-network behavior. Edges and parent
// back-references are created, adjusted, and deleted automatically through
// AddFlow and ReduceFlow; callers never manage the reverse index themselves.
//
// Parent references are plain registry pointers keyed by node key. They are
// non-owning: removing the last edge into a node removes the back-reference,
// and nothing else keeps a parent alive.
//
// A Node is not safe for concurrent mutation.
type Node struct {
	key  string
	role Role

	edges map[string]*edge // by child key
	order []*edge          // insertion order, drives deterministic traversal

	parents map[string]*Node // nodes holding an edge into this one

	// consumed accumulates everything sent into a sink. Meaningless for
	// other roles.
	consumed Amount
}

// NewNode creates a standalone plain node. Nodes that belong to a Network
// are usually created through Network.AddEdge or Network.AddNode instead.
func NewNode(key string) *Node {
	return newNode(key, RolePlain)
}

func newNode(key string, role Role) *Node {
	return &Node{
		key:     key,
		role:    role,
		edges:   make(map[string]*edge),
		parents: make(map[string]*Node),
	}
}

// Key returns the unique node identifier.
func (n *Node) Key() string {
	return n.key
}

// Role returns the node's role within its network.
func (n *Node) Role() Role {
	return n.role
}

// Flow returns the total outgoing capacity of this node. A sink reports
// Infinite: it consumes without bound and never forwards.
func (n *Node) Flow() Amount {
	if n.role == RoleSink {
		return Infinite
	}
	total := Zero
	for _, e := range n.order {
		total = total.Add(e.capacity)
	}
	return total
}

// Consumed returns the running total a sink has absorbed. Zero for other
// roles.
func (n *Node) Consumed() Amount {
	return n.consumed
}

// Capacity returns the capacity of the edge to child, if one exists.
func (n *Node) Capacity(child *Node) (Amount, bool) {
	e, ok := n.edges[child.key]
	if !ok {
		return Zero, false
	}
	return e.capacity, true
}

// Degree returns the number of outgoing edges.
func (n *Node) Degree() int {
	return len(n.order)
}

// AddFlow increases the capacity of the edge to child by amount, creating
// the edge if absent and registering this node in the child's parent set.
//
// A sink consumes instead: amount is added to its running counter and no
// edge is created.
//
// Adding flow to the node itself fails with CodeSelfLoop.
func (n *Node) AddFlow(child *Node, amount Amount) error {
	if child == n {
		return apperror.NewWithField(apperror.CodeSelfLoop, "cannot add flow to self", n.key)
	}
	if n.role == RoleSink {
		n.consumed = n.consumed.Add(amount)
		return nil
	}
	if e, ok := n.edges[child.key]; ok {
		e.capacity = e.capacity.Add(amount)
		return nil
	}
	e := &edge{to: child, capacity: amount}
	n.edges[child.key] = e
	n.order = append(n.order, e)
	child.parents[n.key] = n
	return nil
}

// ReduceFlow decreases the edge to child by amount. When amount reaches or
// exceeds the current capacity, the edge entry is deleted entirely and the
// back-reference removed from the child; zero-capacity edges are never kept.
// Passing Infinite removes the edge unconditionally.
//
// Fails with CodeSelfLoop for the node itself and CodeEdgeNotFound when no
// edge to child exists.
func (n *Node) ReduceFlow(child *Node, amount Amount) error {
	if child == n {
		return apperror.NewWithField(apperror.CodeSelfLoop, "cannot remove flow from self", n.key)
	}
	e, ok := n.edges[child.key]
	if !ok {
		return apperror.NewWithField(apperror.CodeEdgeNotFound,
			fmt.Sprintf("no edge from %q to %q", n.key, child.key), child.key)
	}
	if amount.Cmp(e.capacity) < 0 {
		e.capacity = e.capacity.Sub(amount)
		return nil
	}
	delete(n.edges, child.key)
	for i, o := range n.order {
		if o == e {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	delete(child.parents, n.key)
	return nil
}

// RemoveEdge deletes the edge to child regardless of its capacity.
func (n *Node) RemoveEdge(child *Node) error {
	return n.ReduceFlow(child, Infinite)
}

// Children iterates over direct successors in edge-insertion order. The
// sequence is finite and restartable.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, e := range n.order {
			if !yield(e.to) {
				return
			}
		}
	}
}

// Parents iterates over the nodes currently holding an edge into this one.
// Order is unspecified.
func (n *Node) Parents() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, p := range n.parents {
			if !yield(p) {
				return
			}
		}
	}
}

// Edges iterates over this node's outgoing edges in insertion order,
// yielding one (from, to, capacity) entry per edge.
func (n *Node) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range n.order {
			if !yield(Edge{From: n, To: e.to, Capacity: e.capacity}) {
				return
			}
		}
	}
}

// DFSEdges performs a depth-first traversal of outgoing edges rooted at
// this node, yielding (parent, child) pairs in discovery order. Every
// reachable node is visited at most once; the immediate children are
// discovered first, then the traversal pops the most recently pushed pair.
//
// Edges are followed regardless of capacity; zero-capacity edges appear in
// the traversal just like any other.
func (n *Node) DFSEdges() iter.Seq2[*Node, *Node] {
	return func(yield func(*Node, *Node) bool) {
		type pair struct {
			parent, child *Node
		}
		stack := make([]pair, 0, len(n.order))
		visited := make(map[*Node]bool, len(n.order)+1)
		visited[n] = true
		for _, e := range n.order {
			stack = append(stack, pair{parent: n, child: e.to})
			visited[e.to] = true
		}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(p.parent, p.child) {
				return
			}
			for _, e := range p.child.order {
				if !visited[e.to] {
					visited[e.to] = true
					stack = append(stack, pair{parent: p.child, child: e.to})
				}
			}
		}
	}
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	switch n.role {
	case RoleSource:
		return fmt.Sprintf("Source(%s)", n.key)
	case RoleSink:
		return fmt.Sprintf("Sink(%s)", n.key)
	default:
		return fmt.Sprintf("Node(%s)", n.key)
	}
}
