package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"flownet/pkg/apperror"
	"flownet/services/solver-svc/internal/repository"
)

type runSummaryResponse struct {
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

type listRunsResponse struct {
	Runs  []runSummaryResponse `json:"runs"`
	Total int64                `json:"total"`
}

type runResponse struct {
	runSummaryResponse
	NetworkHash string          `json:"network_hash"`
	Request     json.RawMessage `json:"request,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// ListRuns обрабатывает GET /v1/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	opts := &repository.ListOptions{
		Source: r.URL.Query().Get("source"),
	}

	var err error
	if opts.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		writeError(w, apperror.New(apperror.CodeInvalidPagination, "limit and offset must be non-negative"))
		return
	}

	runs, total, err := h.svc.ListRuns(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listRunsResponse{
		Runs:  make([]runSummaryResponse, 0, len(runs)),
		Total: total,
	}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, runSummaryResponse{
			ID:                run.ID,
			Name:              run.Name,
			Source:            run.Source,
			MaxFlow:           run.MaxFlow,
			Cached:            run.Cached,
			NodeCount:         run.NodeCount,
			EdgeCount:         run.EdgeCount,
			ComputationTimeMs: run.ComputationTimeMs,
			CreatedAt:         run.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRun обрабатывает GET /v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		runSummaryResponse: runSummaryResponse{
			ID:                run.ID,
			Name:              run.Name,
			Source:            run.Source,
			MaxFlow:           run.MaxFlow,
			Cached:            run.Cached,
			NodeCount:         run.NodeCount,
			EdgeCount:         run.EdgeCount,
			ComputationTimeMs: run.ComputationTimeMs,
			CreatedAt:         run.CreatedAt,
		},
		NetworkHash: run.NetworkHash,
		Request:     run.RequestData,
		Result:      run.ResultData,
	})
}

// DeleteRun обрабатывает DELETE /v1/runs/{id}
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRun(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewWithField(apperror.CodeInvalidPagination,
			name+" must be an integer", name)
	}
	return v, nil
}
