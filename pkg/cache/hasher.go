package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"flownet/pkg/flownet"
)

// NetworkHash вычисляет хеш сети для использования как ключ кэша.
// Две сети с одинаковыми узлами и рёбрами дают одинаковый хеш
// независимо от порядка добавления.
func NetworkHash(fn *flownet.Network) string {
	if fn == nil {
		return ""
	}

	data := networkToCanonical(fn)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// networkToCanonical создаёт детерминированное представление сети
func networkToCanonical(fn *flownet.Network) []byte {
	keys := make([]string, 0, fn.NodeCount())
	for node := range fn.Nodes() {
		keys = append(keys, node.Key())
	}
	sort.Strings(keys)

	type edgeData struct {
		from, to string
		capacity string
	}
	edges := make([]edgeData, 0, fn.EdgeCount())
	for e := range fn.Edges() {
		// Ёмкость сериализуем точной строкой, без float-округления
		edges = append(edges, edgeData{e.From.Key(), e.To.Key(), e.Capacity.String()})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	var result []byte

	for _, k := range keys {
		result = append(result, []byte(fmt.Sprintf("n:%s;", k))...)
	}
	for _, e := range edges {
		result = append(result, []byte(fmt.Sprintf("e:%s:%s:%s;", e.from, e.to, e.capacity))...)
	}

	return result
}

// BuildSolveKey строит ключ кэша для результата решения
func BuildSolveKey(networkHash string) string {
	return fmt.Sprintf("solve:%s", networkHash)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
