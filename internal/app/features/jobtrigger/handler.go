// internal/app/features/jobtrigger/handler.go
package jobtrigger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/dalemusser/daycarehub/internal/app/system/tasks"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Runner runs a registered job immediately. *tasks.Scheduler satisfies it.
type Runner interface {
	RunNow(ctx context.Context, name string) (any, error)
}

// Handler lets an external scheduler or an operator fire a maintenance job.
type Handler struct {
	Jobs  Runner
	Log   *zap.Logger
	Audit *auditlog.Logger
}

func NewHandler(jobs Runner, logger *zap.Logger) *Handler {
	return &Handler{Jobs: jobs, Log: logger}
}

type runResponse struct {
	Job    string `json:"job"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Run handles POST /jobs/{name}.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, _ := auth.CallerFrom(r.Context())

	res, err := h.Jobs.RunNow(r.Context(), name)
	if !errors.Is(err, tasks.ErrUnknownJob) {
		h.Audit.JobTriggered(r.Context(), c.UID, name, err)
	}
	switch {
	case errors.Is(err, tasks.ErrUnknownJob):
		writeJSON(w, http.StatusNotFound, runResponse{Job: name, Error: err.Error()})
		return
	case errors.Is(err, tasks.ErrJobRunning):
		writeJSON(w, http.StatusConflict, runResponse{Job: name, Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, runResponse{Job: name, Error: err.Error()})
		return
	}

	h.Log.Info("job triggered on demand", zap.String("job", name), zap.String("uid", c.UID))
	writeJSON(w, http.StatusOK, runResponse{Job: name, Result: res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
