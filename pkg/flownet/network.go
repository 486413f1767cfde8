package flownet

import (
	"fmt"
	"iter"

	"flownet/pkg/apperror"
)

// Reserved keys of the two singleton endpoints. They are registered at
// construction and assumed distinct from every user key.
const (
	SourceKey = "+"
	SinkKey   = "-"
)

// Network owns an insertion-ordered registry of nodes, including the two
// singletons created up front: one source and one sink. Multiple logical
// sources or sinks in a problem are merged onto the singletons, which keeps
// the network small.
//
// A Network is built empty and grown on demand: AddEdge auto-creates any
// node key it has not seen. Solving never mutates the receiver; MaxFlow
// operates on an internal deep copy.
//
// A Network is not safe for concurrent mutation. Concurrent callers solve
// on their own clones instead of locking.
type Network struct {
	nodes  map[string]*Node
	order  []*Node // registration order, source and sink first
	source *Node
	sink   *Node
}

// New creates an empty network holding just the source and sink singletons.
func New() *Network {
	source := newNode(SourceKey, RoleSource)
	sink := newNode(SinkKey, RoleSink)
	return &Network{
		nodes:  map[string]*Node{SourceKey: source, SinkKey: sink},
		order:  []*Node{source, sink},
		source: source,
		sink:   sink,
	}
}

// Source returns the singleton source node.
func (fn *Network) Source() *Node {
	return fn.source
}

// Sink returns the singleton sink node.
func (fn *Network) Sink() *Node {
	return fn.sink
}

// GetNode looks a node up by key. Fails with CodeNodeNotFound for
// unregistered keys.
func (fn *Network) GetNode(key string) (*Node, error) {
	n, ok := fn.nodes[key]
	if !ok {
		return nil, apperror.NewWithField(apperror.CodeNodeNotFound,
			fmt.Sprintf("node %q is not registered", key), key)
	}
	return n, nil
}

// AddNode registers a new plain node under key. Fails with
// CodeDuplicateNode when the key is taken and with CodeReservedKey when the
// key belongs to one of the singletons.
func (fn *Network) AddNode(key string) (*Node, error) {
	if key == SourceKey || key == SinkKey {
		return nil, apperror.NewWithField(apperror.CodeReservedKey,
			"key is reserved for the source/sink singletons", key)
	}
	if _, ok := fn.nodes[key]; ok {
		return nil, apperror.NewWithField(apperror.CodeDuplicateNode,
			fmt.Sprintf("node %q is already registered", key), key)
	}
	return fn.ensure(key), nil
}

// ensure returns the node registered under key, creating a plain node when
// the key is new.
func (fn *Network) ensure(key string) *Node {
	if n, ok := fn.nodes[key]; ok {
		return n
	}
	n := newNode(key, RolePlain)
	fn.nodes[key] = n
	fn.order = append(fn.order, n)
	return n
}

// AddEdge adds capacity from the node under parentKey to the node under
// childKey, auto-creating either node when its key is unregistered. The
// reserved keys address the singletons themselves.
func (fn *Network) AddEdge(parentKey, childKey string, capacity Amount) error {
	parent := fn.ensure(parentKey)
	child := fn.ensure(childKey)
	return parent.AddFlow(child, capacity)
}

// NodeCount returns the number of registered nodes, singletons included.
func (fn *Network) NodeCount() int {
	return len(fn.order)
}

// EdgeCount returns the number of distinct directed edges.
func (fn *Network) EdgeCount() int {
	count := 0
	for range fn.Edges() {
		count++
	}
	return count
}

// Nodes iterates over all registered nodes in registration order, source
// and sink first.
func (fn *Network) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range fn.order {
			if !yield(n) {
				return
			}
		}
	}
}

// Edges iterates over every edge of the network exactly once, yielding
// (parent, child, capacity) entries. The traversal merges each registered
// node's depth-first reachable edges so that nodes unreachable from the
// source are still covered, deduplicating (parent, child) pairs across
// roots.
func (fn *Network) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		type pair struct {
			from, to *Node
		}
		seen := make(map[pair]bool)
		for _, root := range fn.order {
			for parent, child := range root.DFSEdges() {
				p := pair{from: parent, to: child}
				if seen[p] {
					continue
				}
				seen[p] = true
				e := parent.edges[child.key]
				if !yield(Edge{From: parent, To: child, Capacity: e.capacity}) {
					return
				}
			}
		}
	}
}

// Clone builds an independent copy of the network by replaying every edge
// into a fresh instance: new node objects, identical topology and
// capacities, and a zeroed sink counter.
func (fn *Network) Clone() *Network {
	clone := New()
	for e := range fn.Edges() {
		// Replayed edges cannot be self-loops, so AddEdge cannot fail.
		_ = clone.AddEdge(e.From.key, e.To.key, e.Capacity)
	}
	return clone
}

// MaxFlow computes the maximum flow from source to sink. The receiver is
// left untouched: the augmenting procedure runs on a clone, and the result
// is the increase of the clone's sink counter. Repeated calls on an
// unmodified network return the same value.
func (fn *Network) MaxFlow() (Amount, error) {
	clone := fn.Clone()
	start := clone.sink.consumed
	if err := clone.AugmentToMaxFlow(); err != nil {
		return Zero, err
	}
	return clone.sink.consumed.Sub(start), nil
}

// AugmentToMaxFlow drains as much capacity as possible from the source
// into the sink, mutating the receiver. It repeatedly finds one augmenting
// path by depth-first search, pushes the path's bottleneck along it, and
// stops when no source-to-sink path remains. The sink's counter ends up
// holding everything that arrived.
//
// Pushing flow reduces each forward edge by the bottleneck and adds the
// bottleneck as a reverse edge from child to parent; those reverse entries
// are what lets a later path cancel flow sent earlier.
//
// Callers wanting a non-destructive answer use MaxFlow instead.
func (fn *Network) AugmentToMaxFlow() error {
	parentMap := fn.findSourceToSinkPath()
	for len(parentMap) > 0 {
		bottleneck := Infinite
		for node := fn.sink; node != fn.source; {
			parent := parentMap[node]
			e, ok := parent.edges[node.key]
			if !ok {
				return apperror.NewWithField(apperror.CodeEdgeNotFound,
					fmt.Sprintf("path edge from %q to %q vanished", parent.key, node.key), node.key)
			}
			bottleneck = bottleneck.Min(e.capacity)
			node = parent
		}
		for node := fn.sink; node != fn.source; {
			parent := parentMap[node]
			if err := parent.ReduceFlow(node, bottleneck); err != nil {
				return err
			}
			if err := node.AddFlow(parent, bottleneck); err != nil {
				return err
			}
			node = parent
		}
		parentMap = fn.findSourceToSinkPath()
	}
	return nil
}

// findSourceToSinkPath runs a depth-first search from the source, stopping
// as soon as the sink is discovered, and returns the path as a child-to-
// parent map covering exactly the nodes on it. An empty result means the
// sink is unreachable.
//
// Depth-first discovery does not yield shortest paths; only the number of
// augmenting iterations differs from a breadth-first variant, not the
// final flow.
func (fn *Network) findSourceToSinkPath() map[*Node]*Node {
	discovered := make(map[*Node]*Node)
	for parent, child := range fn.source.DFSEdges() {
		discovered[child] = parent
		if child == fn.sink {
			break
		}
	}
	if _, ok := discovered[fn.sink]; !ok {
		return nil
	}

	child := fn.sink
	parent := discovered[child]
	path := map[*Node]*Node{child: parent}
	for parent != fn.source {
		child = parent
		parent = discovered[child]
		path[child] = parent
	}
	return path
}
