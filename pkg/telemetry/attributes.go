package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Сеть
	AttrNetworkNodes = "network.nodes"
	AttrNetworkEdges = "network.edges"

	// Решение
	AttrMaxFlow     = "solve.max_flow"
	AttrSolveCached = "solve.cached"
	AttrSolveSource = "solve.source"

	// Матрица
	AttrMatrixSize = "matrix.size"

	// HTTP
	AttrRequestID = "http.request_id"
)

// NetworkAttributes возвращает атрибуты сети
func NetworkAttributes(nodes, edges int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrNetworkNodes, nodes),
		attribute.Int(AttrNetworkEdges, edges),
	}
}

// SolveAttributes возвращает атрибуты решения.
// Поток передаётся строкой: значение точное и может быть бесконечным.
func SolveAttributes(maxFlow string, cached bool, source string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrMaxFlow, maxFlow),
		attribute.Bool(AttrSolveCached, cached),
		attribute.String(AttrSolveSource, source),
	}
}

// MatrixAttributes возвращает атрибуты матричного запроса
func MatrixAttributes(size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrMatrixSize, size),
	}
}
