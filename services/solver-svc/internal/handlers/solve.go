package handlers

import (
	"net/http"

	"flownet/services/solver-svc/internal/service"
)

// renderRequest запрос на текстовое представление сети
type renderRequest struct {
	service.SolveInput
	Solved bool `json:"solved,omitempty"`
}

type renderResponse struct {
	Matrix string `json:"matrix"`
}

// Solve обрабатывает POST /v1/solve
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var in service.SolveInput
	if err := h.decode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Solve(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Render обрабатывает POST /v1/render
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	matrix, err := h.svc.Render(r.Context(), &req.SolveInput, req.Solved)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{Matrix: matrix})
}

// Healthz обрабатывает GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
