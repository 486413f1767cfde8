package cache

import (
	"context"
	"encoding/json"
	"time"

	"flownet/pkg/flownet"
)

// SolverCache специализированный кэш для результатов расчёта потока
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedSolveResult кэшированный результат
type CachedSolveResult struct {
	MaxFlow           flownet.Amount   `json:"max_flow"`
	NodeCount         int              `json:"node_count"`
	EdgeCount         int              `json:"edge_count"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	FlowEdges         []*FlowEdgeCache `json:"flow_edges,omitempty"`
	ComputedAt        time.Time        `json:"computed_at"`
}

// FlowEdgeCache остаточное ребро решённой сети
type FlowEdgeCache struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Capacity flownet.Amount `json:"capacity"`
}

// NewSolverCache создаёт кэш для результатов решателя
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат по хешу сети
func (sc *SolverCache) Get(ctx context.Context, fn *flownet.Network) (*CachedSolveResult, bool, error) {
	key := BuildSolveKey(NetworkHash(fn))

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат в кэш
func (sc *SolverCache) Set(ctx context.Context, fn *flownet.Network, result *CachedSolveResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	key := BuildSolveKey(NetworkHash(fn))

	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// Invalidate удаляет кэш для сети
func (sc *SolverCache) Invalidate(ctx context.Context, fn *flownet.Network) error {
	return sc.cache.Delete(ctx, BuildSolveKey(NetworkHash(fn)))
}

// InvalidateAll удаляет весь кэш результатов
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}
