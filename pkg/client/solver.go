package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"flownet/pkg/flownet"
)

// Edge ребро сети в запросе
type Edge struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Capacity flownet.Amount `json:"capacity"`
}

// SolveRequest описание сети: список рёбер либо матрица смежности
type SolveRequest struct {
	Name    string             `json:"name,omitempty"`
	Edges   []Edge             `json:"edges,omitempty"`
	Matrix  [][]flownet.Amount `json:"matrix,omitempty"`
	Sources []int              `json:"sources,omitempty"`
	Sinks   []int              `json:"sinks,omitempty"`
}

// SolveResult результат решения
type SolveResult struct {
	RunID             string         `json:"run_id,omitempty"`
	MaxFlow           flownet.Amount `json:"max_flow"`
	NodeCount         int            `json:"node_count"`
	EdgeCount         int            `json:"edge_count"`
	ComputationTimeMs float64        `json:"computation_time_ms"`
	Cached            bool           `json:"cached"`
	ResidualEdges     []Edge         `json:"residual_edges,omitempty"`
}

// RunSummary краткая информация о расчёте
type RunSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	Source            string    `json:"source"`
	MaxFlow           string    `json:"max_flow"`
	Cached            bool      `json:"cached"`
	NodeCount         int       `json:"node_count"`
	EdgeCount         int       `json:"edge_count"`
	ComputationTimeMs float64   `json:"computation_time_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// Run расчёт с сохранённым запросом и результатом
type Run struct {
	RunSummary
	NetworkHash string          `json:"network_hash"`
	Request     json.RawMessage `json:"request,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// RunList страница истории расчётов
type RunList struct {
	Runs  []RunSummary `json:"runs"`
	Total int64        `json:"total"`
}

// ListRunsOptions параметры листинга
type ListRunsOptions struct {
	Limit  int
	Offset int
	Source string
}

// Solve решает задачу максимального потока
func (c *SolverClient) Solve(ctx context.Context, req *SolveRequest) (*SolveResult, error) {
	var out SolveResult
	if err := c.do(ctx, "POST", "/v1/solve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SolveWithTimeout решает с таймаутом поверх контекста
func (c *SolverClient) SolveWithTimeout(ctx context.Context, req *SolveRequest, timeout time.Duration) (*SolveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Solve(ctx, req)
}

// Render возвращает текстовое представление сети. При solved сеть
// сначала решается.
func (c *SolverClient) Render(ctx context.Context, req *SolveRequest, solved bool) (string, error) {
	body := struct {
		*SolveRequest
		Solved bool `json:"solved,omitempty"`
	}{SolveRequest: req, Solved: solved}

	var out struct {
		Matrix string `json:"matrix"`
	}
	if err := c.do(ctx, "POST", "/v1/render", body, &out); err != nil {
		return "", err
	}
	return out.Matrix, nil
}

// ListRuns возвращает страницу истории расчётов
func (c *SolverClient) ListRuns(ctx context.Context, opts *ListRunsOptions) (*RunList, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Source != "" {
			q.Set("source", opts.Source)
		}
	}

	path := "/v1/runs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out RunList
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun возвращает расчёт по идентификатору
func (c *SolverClient) GetRun(ctx context.Context, id string) (*Run, error) {
	var out Run
	if err := c.do(ctx, "GET", "/v1/runs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRun удаляет расчёт из истории
func (c *SolverClient) DeleteRun(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/v1/runs/"+url.PathEscape(id), nil, nil)
}

// Healthz проверяет доступность сервиса
func (c *SolverClient) Healthz(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "GET", "/healthz", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}
