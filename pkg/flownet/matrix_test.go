package flownet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flownet/pkg/apperror"
)

func intMatrix(rows [][]int64) [][]Amount {
	out := make([][]Amount, len(rows))
	for i, row := range rows {
		out[i] = make([]Amount, len(row))
		for j, v := range row {
			out[i][j] = NewAmount(v)
		}
	}
	return out
}

func TestFromAdjacencyMatrix(t *testing.T) {
	// Index 0 is the source, index 2 the sink; 0 -> 1 -> 2.
	matrix := intMatrix([][]int64{
		{0, 5, 0},
		{0, 0, 3},
		{0, 0, 0},
	})

	fn, err := FromAdjacencyMatrix(matrix, []int{0}, []int{2})
	require.NoError(t, err)

	flow, err := fn.MaxFlow()
	require.NoError(t, err)
	assert.Equal(t, "3", flow.String())

	// Index 1 became a plain node keyed by its position.
	n, err := fn.GetNode("1")
	require.NoError(t, err)
	assert.Equal(t, RolePlain, n.Role())
}

func TestFromAdjacencyMatrix_MergesMultipleSourcesAndSinks(t *testing.T) {
	// Two source rows and two sink rows collapse onto the singletons.
	matrix := intMatrix([][]int64{
		{0, 0, 4, 0, 0},
		{0, 0, 6, 0, 0},
		{0, 0, 0, 5, 2},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	})

	fn, err := FromAdjacencyMatrix(matrix, []int{0, 1}, []int{3, 4})
	require.NoError(t, err)

	// The source edge to index 2 accumulated both rows.
	middle, err := fn.GetNode("2")
	require.NoError(t, err)
	capacity, ok := fn.Source().Capacity(middle)
	require.True(t, ok)
	assert.Equal(t, "10", capacity.String())

	flow, err := fn.MaxFlow()
	require.NoError(t, err)
	assert.Equal(t, "7", flow.String())
}

func TestFromAdjacencyMatrix_SinkWinsOverSource(t *testing.T) {
	matrix := intMatrix([][]int64{
		{0, 1},
		{0, 0},
	})

	fn, err := FromAdjacencyMatrix(matrix, []int{0}, []int{0, 1})
	require.NoError(t, err)

	// Index 0 resolved to the sink, so both endpoints are singletons and
	// the network only has the 0 -> 1 cell left, which is sink -> sink
	// territory: nothing usable remains.
	flow, err := fn.MaxFlow()
	require.NoError(t, err)
	assert.True(t, flow.IsZero())
}

func TestFromAdjacencyMatrix_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		matrix  [][]Amount
		sources []int
		sinks   []int
	}{
		{"empty", nil, nil, nil},
		{"ragged row", intMatrix([][]int64{{0, 1}, {0}}), []int{0}, []int{1}},
		{"source out of range", intMatrix([][]int64{{0}}), []int{5}, nil},
		{"sink out of range", intMatrix([][]int64{{0}}), nil, []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAdjacencyMatrix(tt.matrix, tt.sources, tt.sinks)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidMatrix))
		})
	}
}
