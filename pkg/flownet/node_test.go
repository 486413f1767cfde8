package flownet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flownet/pkg/apperror"
)

func TestNode_AddFlow(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")

	require.NoError(t, a.AddFlow(b, NewAmount(5)))

	cap1, ok := a.Capacity(b)
	require.True(t, ok)
	assert.Equal(t, "5", cap1.String())

	// Adding again accumulates on the same edge.
	require.NoError(t, a.AddFlow(b, NewAmount(3)))
	cap2, _ := a.Capacity(b)
	assert.Equal(t, "8", cap2.String())
	assert.Equal(t, 1, a.Degree())
}

func TestNode_AddFlow_RegistersParent(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")

	require.NoError(t, a.AddFlow(b, NewAmount(1)))

	var parents []*Node
	for p := range b.Parents() {
		parents = append(parents, p)
	}
	require.Len(t, parents, 1)
	assert.Same(t, a, parents[0])
}

func TestNode_SelfLoopRejected(t *testing.T) {
	a := NewNode("a")

	err := a.AddFlow(a, NewAmount(1))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeSelfLoop))

	err = a.ReduceFlow(a, NewAmount(1))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeSelfLoop))
}

func TestNode_ReduceFlow(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	require.NoError(t, a.AddFlow(b, NewAmount(10)))

	// Reducing by less leaves a smaller positive capacity.
	require.NoError(t, a.ReduceFlow(b, NewAmount(4)))
	cap1, ok := a.Capacity(b)
	require.True(t, ok)
	assert.Equal(t, "6", cap1.String())

	// Reducing by the exact remainder deletes the edge, not keeps it at zero.
	require.NoError(t, a.ReduceFlow(b, NewAmount(6)))
	_, ok = a.Capacity(b)
	assert.False(t, ok)
	assert.Equal(t, 0, a.Degree())

	// Back-reference is cleaned up with the edge.
	count := 0
	for range b.Parents() {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestNode_ReduceFlow_MissingEdge(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")

	err := a.ReduceFlow(b, NewAmount(1))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeEdgeNotFound))
}

func TestNode_ReduceFlow_DefaultRemovesUnconditionally(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	require.NoError(t, a.AddFlow(b, NewAmount(1000)))

	require.NoError(t, a.ReduceFlow(b, Infinite))
	_, ok := a.Capacity(b)
	assert.False(t, ok)
}

func TestNode_RemoveEdge(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	require.NoError(t, a.AddFlow(b, NewAmount(7)))
	require.NoError(t, a.RemoveEdge(b))
	assert.Equal(t, 0, a.Degree())
}

func TestNode_Children_InsertionOrder(t *testing.T) {
	a := NewNode("a")
	keys := []string{"c", "b", "e", "d"}
	for _, k := range keys {
		require.NoError(t, a.AddFlow(NewNode(k), NewAmount(1)))
	}

	var got []string
	for child := range a.Children() {
		got = append(got, child.Key())
	}
	assert.Equal(t, keys, got)

	// The sequence restarts from the beginning on re-iteration.
	var again []string
	for child := range a.Children() {
		again = append(again, child.Key())
	}
	assert.Equal(t, keys, again)
}

func TestNode_Edges(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	require.NoError(t, a.AddFlow(b, NewAmount(2)))
	require.NoError(t, a.AddFlow(c, NewAmount(4)))

	var got []Edge
	for e := range a.Edges() {
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Same(t, a, got[0].From)
	assert.Same(t, b, got[0].To)
	assert.Equal(t, "2", got[0].Capacity.String())
	assert.Same(t, c, got[1].To)
	assert.Equal(t, "4", got[1].Capacity.String())
}

func TestNode_Flow(t *testing.T) {
	a := NewNode("a")
	require.NoError(t, a.AddFlow(NewNode("b"), NewAmount(2)))
	require.NoError(t, a.AddFlow(NewNode("c"), NewAmount(3)))
	assert.Equal(t, "5", a.Flow().String())
}

func TestNode_DFSEdges(t *testing.T) {
	// a -> b -> d
	//   -> c
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	d := NewNode("d")
	require.NoError(t, a.AddFlow(b, NewAmount(1)))
	require.NoError(t, a.AddFlow(c, NewAmount(1)))
	require.NoError(t, b.AddFlow(d, NewAmount(1)))

	var pairs [][2]string
	for parent, child := range a.DFSEdges() {
		pairs = append(pairs, [2]string{parent.Key(), child.Key()})
	}

	// Immediate children are discovered first; then the most recently
	// pushed pair is explored, so c precedes b's subtree.
	assert.Equal(t, [][2]string{{"a", "c"}, {"a", "b"}, {"b", "d"}}, pairs)
}

func TestNode_DFSEdges_VisitsOnce(t *testing.T) {
	// Cycle a -> b -> a plus branch b -> c.
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	require.NoError(t, a.AddFlow(b, NewAmount(1)))
	require.NoError(t, b.AddFlow(a, NewAmount(1)))
	require.NoError(t, b.AddFlow(c, NewAmount(1)))

	count := 0
	for range a.DFSEdges() {
		count++
		require.Less(t, count, 10, "traversal must terminate on cyclic graphs")
	}
	assert.Equal(t, 2, count) // (a,b) and (b,c); a itself is already visited
}

func TestSink_ConsumesInsteadOfForwarding(t *testing.T) {
	fn := New()
	sink := fn.Sink()
	a := NewNode("a")

	require.NoError(t, sink.AddFlow(a, NewAmount(5)))
	require.NoError(t, sink.AddFlow(a, NewAmount(2)))

	assert.Equal(t, "7", sink.Consumed().String())
	assert.Equal(t, 0, sink.Degree(), "sink never forwards")
	assert.True(t, sink.Flow().IsInfinite())
}

func TestNode_String(t *testing.T) {
	fn := New()
	assert.Equal(t, "Source(+)", fn.Source().String())
	assert.Equal(t, "Sink(-)", fn.Sink().String())
	assert.Equal(t, "Node(x)", NewNode("x").String())
}
