package flownet

import (
	"fmt"
	"strings"
)

// String renders the network as a capacity matrix with one row per
// registered node, in registration order. Cells are right-aligned to the
// width of the largest capacity; the diagonal and the sink's row (the sink
// never forwards) are marked with a placeholder. Each row carries a label:
// "Source", "Sink (<consumed>)", or the plain node's key.
func (fn *Network) String() string {
	widest := Zero
	hasEdges := false
	for e := range fn.Edges() {
		hasEdges = true
		if e.Capacity.Cmp(widest) > 0 {
			widest = e.Capacity
		}
	}
	width := 1
	if hasEdges {
		width = len(widest.String())
	}

	rows := make([]string, 0, len(fn.order))
	for _, node := range fn.order {
		cells := make([]string, 0, len(fn.order))
		for _, other := range fn.order {
			var text string
			switch {
			case other == node || node == fn.sink:
				text = "-"
			default:
				e, ok := node.edges[other.key]
				if !ok {
					text = "0"
				} else {
					text = e.capacity.String()
				}
			}
			cells = append(cells, fmt.Sprintf(" %*s", width, text))
		}
		row := fmt.Sprintf("[%s], #", strings.Join(cells, ", "))
		switch node {
		case fn.source:
			row += " Source"
		case fn.sink:
			row += fmt.Sprintf(" Sink (%s)", fn.sink.consumed)
		default:
			row += fmt.Sprintf(" %s", node.key)
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		last := len(rows) - 1
		rows[last] = strings.Replace(rows[last], "], #", "]] #", 1)
	}
	return "[" + strings.Join(rows, "\n ")
}
