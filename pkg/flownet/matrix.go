package flownet

import (
	"fmt"
	"strconv"

	"flownet/pkg/apperror"
)

// FromAdjacencyMatrix builds a network from an N×N capacity matrix.
//
// Row i / column j holds the capacity of the edge i→j. Indices listed in
// sinks map onto the sink singleton, indices in sources onto the source
// singleton (sinks win when an index appears in both), and every other
// index becomes a plain node keyed by its decimal index. One edge is added
// per cell, skipping only cells whose endpoints resolve to the same node —
// the diagonal and pairs of merged singleton indices. Zero-capacity cells
// produce real zero-capacity edges.
func FromAdjacencyMatrix(matrix [][]Amount, sources, sinks []int) (*Network, error) {
	size := len(matrix)
	if size == 0 {
		return nil, apperror.New(apperror.CodeInvalidMatrix, "adjacency matrix is empty")
	}

	sourceSet := make(map[int]bool, len(sources))
	for _, i := range sources {
		if i < 0 || i >= size {
			return nil, apperror.NewWithField(apperror.CodeInvalidMatrix,
				fmt.Sprintf("source index %d out of range [0, %d)", i, size), "sources")
		}
		sourceSet[i] = true
	}
	sinkSet := make(map[int]bool, len(sinks))
	for _, i := range sinks {
		if i < 0 || i >= size {
			return nil, apperror.NewWithField(apperror.CodeInvalidMatrix,
				fmt.Sprintf("sink index %d out of range [0, %d)", i, size), "sinks")
		}
		sinkSet[i] = true
	}

	keys := make([]string, size)
	for i := range keys {
		switch {
		case sinkSet[i]:
			keys[i] = SinkKey
		case sourceSet[i]:
			keys[i] = SourceKey
		default:
			keys[i] = strconv.Itoa(i)
		}
	}

	fn := New()
	for i, row := range matrix {
		if len(row) != size {
			return nil, apperror.NewWithField(apperror.CodeInvalidMatrix,
				fmt.Sprintf("row %d has %d columns, want %d", i, len(row), size),
				fmt.Sprintf("matrix[%d]", i))
		}
		for j, capacity := range row {
			if keys[i] == keys[j] {
				continue
			}
			if err := fn.AddEdge(keys[i], keys[j], capacity); err != nil {
				return nil, err
			}
		}
	}
	return fn, nil
}
