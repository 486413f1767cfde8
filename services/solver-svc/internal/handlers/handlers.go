// Package handlers exposes the solver over an HTTP JSON API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"flownet/pkg/apperror"
	"flownet/pkg/config"
	"flownet/pkg/logger"
	"flownet/services/solver-svc/internal/service"
)

// Handler HTTP обработчики сервиса решателя
type Handler struct {
	svc *service.SolverService
	cfg *config.Config
}

// NewHandler создаёт обработчики
func NewHandler(svc *service.SolverService, cfg *config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

// Routes регистрирует маршруты сервиса
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/solve", h.Solve)
	mux.HandleFunc("POST /v1/render", h.Render)
	mux.HandleFunc("GET /v1/runs", h.ListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", h.GetRun)
	mux.HandleFunc("DELETE /v1/runs/{id}", h.DeleteRun)
	mux.HandleFunc("GET /v1/runs/{id}/export", h.ExportRun)
	mux.HandleFunc("GET /healthz", h.Healthz)
}

// errorBody тело ответа с ошибкой
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if h.cfg.HTTP.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.HTTP.MaxBodyBytes)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatusOf(err)

	body := errorBody{
		Code:    string(apperror.CodeInternal),
		Message: "internal error",
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Code = string(appErr.Code)
		body.Message = appErr.Message
		body.Field = appErr.Field
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: body})
}
