package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"flownet/pkg/apperror"
	"flownet/pkg/cache"
	"flownet/pkg/config"
	"flownet/pkg/flownet"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
	"flownet/pkg/telemetry"
	"flownet/services/solver-svc/internal/repository"
)

// Происхождение сети в запросе
const (
	SourceEdges  = "edges"
	SourceMatrix = "matrix"
)

// EdgeInput ребро из запроса
type EdgeInput struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Capacity flownet.Amount `json:"capacity"`
}

// SolveInput описание сети: либо список рёбер, либо матрица смежности
// с индексами источников и стоков.
type SolveInput struct {
	Name    string             `json:"name,omitempty"`
	Edges   []EdgeInput        `json:"edges,omitempty"`
	Matrix  [][]flownet.Amount `json:"matrix,omitempty"`
	Sources []int              `json:"sources,omitempty"`
	Sinks   []int              `json:"sinks,omitempty"`
}

// ResidualEdge ребро остаточной сети после решения
type ResidualEdge struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Capacity flownet.Amount `json:"capacity"`
}

// SolveOutput результат решения
type SolveOutput struct {
	RunID             string         `json:"run_id,omitempty"`
	MaxFlow           flownet.Amount `json:"max_flow"`
	NodeCount         int            `json:"node_count"`
	EdgeCount         int            `json:"edge_count"`
	ComputationTimeMs float64        `json:"computation_time_ms"`
	Cached            bool           `json:"cached"`
	ResidualEdges     []ResidualEdge `json:"residual_edges,omitempty"`
}

// SolverService решает задачу максимального потока поверх pkg/flownet:
// валидация входа, кэш по каноническому хешу сети, история расчётов.
type SolverService struct {
	cfg         config.SolverConfig
	metrics     *metrics.Metrics
	solverCache *cache.SolverCache
	runs        repository.RunRepository // nil, если база отключена
}

// NewSolverService создаёт сервис решателя
func NewSolverService(cfg config.SolverConfig, solverCache *cache.SolverCache, runs repository.RunRepository) *SolverService {
	return &SolverService{
		cfg:         cfg,
		metrics:     metrics.Get(),
		solverCache: solverCache,
		runs:        runs,
	}
}

// Solve строит сеть из входа, считает максимальный поток и сохраняет
// расчёт в историю. Повторный запрос с той же сетью отдаётся из кэша.
func (s *SolverService) Solve(ctx context.Context, in *SolveInput) (*SolveOutput, error) {
	source := inputSource(in)

	ctx, span := telemetry.StartSpan(ctx, "SolverService.Solve",
		telemetry.WithAttributes(attribute.String(telemetry.AttrSolveSource, source)),
	)
	defer span.End()

	fn, err := s.buildNetwork(in)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	nodeCount := fn.NodeCount()
	edgeCount := fn.EdgeCount()
	span.SetAttributes(telemetry.NetworkAttributes(nodeCount, edgeCount)...)

	if s.metrics != nil {
		s.metrics.RecordNetworkSize("solve", nodeCount, edgeCount)
	}

	// Кэш
	if s.solverCache != nil {
		cached, found, err := s.solverCache.Get(ctx, fn)
		if err == nil && found {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(true)
			}
			telemetry.AddEvent(ctx, "cache_hit",
				attribute.String(telemetry.AttrMaxFlow, cached.MaxFlow.String()),
			)
			span.SetAttributes(attribute.Bool(telemetry.AttrSolveCached, true))

			out := &SolveOutput{
				MaxFlow:           cached.MaxFlow,
				NodeCount:         cached.NodeCount,
				EdgeCount:         cached.EdgeCount,
				ComputationTimeMs: cached.ComputationTimeMs,
				Cached:            true,
				ResidualEdges:     fromCachedEdges(cached.FlowEdges),
			}
			s.persistRun(ctx, in, fn, out, source)
			return out, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
	}
	span.SetAttributes(attribute.Bool(telemetry.AttrSolveCached, false))

	// Решаем на клоне, исходная сеть остаётся нетронутой
	solved := fn.Clone()
	start := time.Now()

	if err := s.augmentWithTimeout(ctx, solved); err != nil {
		if s.metrics != nil {
			s.metrics.RecordSolveOperation(source, false, time.Since(start))
		}
		telemetry.SetError(ctx, err)
		return nil, err
	}

	elapsed := time.Since(start)
	maxFlow := solved.Sink().Consumed()

	span.SetAttributes(telemetry.SolveAttributes(maxFlow.String(), false, source)...)

	if s.metrics != nil {
		s.metrics.RecordSolveOperation(source, true, elapsed)
		if !maxFlow.IsInfinite() {
			f, _ := maxFlow.Decimal().Float64()
			s.metrics.RecordMaxFlow(source, f)
		}
	}

	out := &SolveOutput{
		MaxFlow:           maxFlow,
		NodeCount:         nodeCount,
		EdgeCount:         edgeCount,
		ComputationTimeMs: float64(elapsed.Microseconds()) / 1000.0,
		Cached:            false,
		ResidualEdges:     residualEdges(solved),
	}

	// Сохраняем в кэш
	if s.solverCache != nil {
		result := &cache.CachedSolveResult{
			MaxFlow:           out.MaxFlow,
			NodeCount:         out.NodeCount,
			EdgeCount:         out.EdgeCount,
			ComputationTimeMs: out.ComputationTimeMs,
			FlowEdges:         toCachedEdges(out.ResidualEdges),
		}
		if err := s.solverCache.Set(ctx, fn, result, 0); err != nil {
			logger.Log.Warn("Failed to cache solve result", "error", err)
		}
	}

	s.persistRun(ctx, in, fn, out, source)

	return out, nil
}

// Render строит сеть и возвращает её текстовое матричное представление.
// При solved=true сеть сперва доводится до максимального потока, так что
// матрица показывает остаточные ёмкости.
func (s *SolverService) Render(ctx context.Context, in *SolveInput, solved bool) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "SolverService.Render")
	defer span.End()

	fn, err := s.buildNetwork(in)
	if err != nil {
		telemetry.SetError(ctx, err)
		return "", err
	}

	span.SetAttributes(telemetry.NetworkAttributes(fn.NodeCount(), fn.EdgeCount())...)

	if solved {
		fn = fn.Clone()
		if err := s.augmentWithTimeout(ctx, fn); err != nil {
			telemetry.SetError(ctx, err)
			return "", err
		}
	}

	return fn.String(), nil
}

// ListRuns возвращает страницу истории расчётов
func (s *SolverService) ListRuns(ctx context.Context, opts *repository.ListOptions) ([]*repository.RunSummary, int64, error) {
	if s.runs == nil {
		return nil, 0, apperror.New(apperror.CodeNotFound, "run history is disabled")
	}
	if opts == nil {
		opts = &repository.ListOptions{}
	}
	if opts.Limit <= 0 && s.cfg.KeepRuns > 0 {
		opts.Limit = s.cfg.KeepRuns
	}
	return s.runs.List(ctx, opts)
}

// GetRun возвращает один расчёт по идентификатору
func (s *SolverService) GetRun(ctx context.Context, id string) (*repository.Run, error) {
	if s.runs == nil {
		return nil, apperror.New(apperror.CodeNotFound, "run history is disabled")
	}
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRunNotFound {
			return nil, apperror.NewWithField(apperror.CodeNotFound,
				fmt.Sprintf("solve run %q not found", id), "id")
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load solve run")
	}
	return run, nil
}

// DeleteRun удаляет расчёт из истории
func (s *SolverService) DeleteRun(ctx context.Context, id string) error {
	if s.runs == nil {
		return apperror.New(apperror.CodeNotFound, "run history is disabled")
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		if err == repository.ErrRunNotFound {
			return apperror.NewWithField(apperror.CodeNotFound,
				fmt.Sprintf("solve run %q not found", id), "id")
		}
		return apperror.Wrap(err, apperror.CodeInternal, "failed to delete solve run")
	}
	return nil
}

// augmentWithTimeout выполняет насыщение сети с учётом solve_timeout.
// Поиск пути в pkg/flownet не прерываем, поэтому по таймауту просто
// бросаем расчёт и возвращаем ошибку.
func (s *SolverService) augmentWithTimeout(ctx context.Context, fn *flownet.Network) error {
	if s.cfg.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SolveTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn.AugmentToMaxFlow()
	}()

	select {
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), apperror.CodeTimeout, "solve aborted")
	case err := <-done:
		return err
	}
}

// buildNetwork валидирует вход и собирает из него сеть
func (s *SolverService) buildNetwork(in *SolveInput) (*flownet.Network, error) {
	if in == nil {
		return nil, apperror.New(apperror.CodeNilInput, "request body is required")
	}

	if len(in.Edges) == 0 && len(in.Matrix) == 0 {
		return nil, apperror.New(apperror.CodeEmptyGraph, "either edges or matrix must be provided")
	}
	if len(in.Edges) > 0 && len(in.Matrix) > 0 {
		return nil, apperror.New(apperror.CodeInvalidArgument, "edges and matrix are mutually exclusive")
	}

	if in.Matrix != nil {
		if err := s.checkLimits(len(in.Matrix), len(in.Matrix)*len(in.Matrix)); err != nil {
			return nil, err
		}
		for i, row := range in.Matrix {
			for j, c := range row {
				if c.Sign() < 0 {
					return nil, apperror.NewWithField(apperror.CodeNegativeCapacity,
						fmt.Sprintf("matrix[%d][%d] has negative capacity %s", i, j, c), "matrix")
				}
			}
		}
		return flownet.FromAdjacencyMatrix(in.Matrix, in.Sources, in.Sinks)
	}

	if err := s.checkLimits(0, len(in.Edges)); err != nil {
		return nil, err
	}

	fn := flownet.New()
	for i, e := range in.Edges {
		if e.From == "" || e.To == "" {
			return nil, apperror.NewWithField(apperror.CodeInvalidArgument,
				fmt.Sprintf("edge %d is missing from/to", i), "edges")
		}
		if e.Capacity.Sign() < 0 {
			return nil, apperror.NewWithField(apperror.CodeNegativeCapacity,
				fmt.Sprintf("edge %s -> %s has negative capacity %s", e.From, e.To, e.Capacity), "edges")
		}
		if err := fn.AddEdge(e.From, e.To, e.Capacity); err != nil {
			return nil, err
		}
	}

	if err := s.checkLimits(fn.NodeCount(), fn.EdgeCount()); err != nil {
		return nil, err
	}

	return fn, nil
}

func (s *SolverService) checkLimits(nodes, edges int) error {
	if s.cfg.MaxNodes > 0 && nodes > s.cfg.MaxNodes {
		return apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("network exceeds node limit of %d", s.cfg.MaxNodes))
	}
	if s.cfg.MaxEdges > 0 && edges > s.cfg.MaxEdges {
		return apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("network exceeds edge limit of %d", s.cfg.MaxEdges))
	}
	return nil
}

// persistRun записывает расчёт в историю, best effort
func (s *SolverService) persistRun(ctx context.Context, in *SolveInput, fn *flownet.Network, out *SolveOutput, source string) {
	if s.runs == nil {
		return
	}

	requestData, err := json.Marshal(in)
	if err != nil {
		logger.Log.Warn("Failed to marshal solve request", "error", err)
		return
	}
	resultData, err := json.Marshal(out)
	if err != nil {
		logger.Log.Warn("Failed to marshal solve result", "error", err)
		return
	}

	run := &repository.Run{
		Name:              in.Name,
		Source:            source,
		NetworkHash:       cache.NetworkHash(fn),
		MaxFlow:           out.MaxFlow.String(),
		Cached:            out.Cached,
		NodeCount:         out.NodeCount,
		EdgeCount:         out.EdgeCount,
		ComputationTimeMs: out.ComputationTimeMs,
		RequestData:       requestData,
		ResultData:        resultData,
	}

	if err := s.runs.Create(ctx, run); err != nil {
		logger.Log.Warn("Failed to persist solve run", "error", err)
		return
	}
	out.RunID = run.ID
}

func inputSource(in *SolveInput) string {
	if in != nil && len(in.Matrix) > 0 {
		return SourceMatrix
	}
	return SourceEdges
}

func residualEdges(fn *flownet.Network) []ResidualEdge {
	var edges []ResidualEdge
	for e := range fn.Edges() {
		edges = append(edges, ResidualEdge{
			From:     e.From.Key(),
			To:       e.To.Key(),
			Capacity: e.Capacity,
		})
	}
	return edges
}

func toCachedEdges(edges []ResidualEdge) []*cache.FlowEdgeCache {
	out := make([]*cache.FlowEdgeCache, 0, len(edges))
	for _, e := range edges {
		out = append(out, &cache.FlowEdgeCache{From: e.From, To: e.To, Capacity: e.Capacity})
	}
	return out
}

func fromCachedEdges(edges []*cache.FlowEdgeCache) []ResidualEdge {
	var out []ResidualEdge
	for _, e := range edges {
		out = append(out, ResidualEdge{From: e.From, To: e.To, Capacity: e.Capacity})
	}
	return out
}
