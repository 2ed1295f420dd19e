package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/IBBoard/bbreplay-sub000/internal/api/response"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

const defaultRunLimit = 50

// RunReader is the read side of the run store.
type RunReader interface {
	List(ctx context.Context, limit int) ([]*storage.Run, error)
	ListByReplay(ctx context.Context, replay string) ([]*storage.Run, error)
	Get(ctx context.Context, id string) (*storage.Run, error)
	Events(ctx context.Context, id, eventType string) ([]storage.RunEvent, error)
	Stats(ctx context.Context) (*storage.RunStats, error)
	Delete(ctx context.Context, id string) error
}

// RunHandler handles stored reconstruction runs.
type RunHandler struct {
	runs RunReader
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs RunReader) *RunHandler {
	return &RunHandler{runs: runs}
}

// ListRuns returns the newest runs. ?replay= narrows to one replay and
// ?limit= caps the count.
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("replay"); name != "" {
		runs, err := h.runs.ListByReplay(r.Context(), name)
		if err != nil {
			response.InternalError(w, err)
			return
		}
		response.List(w, nonNil(runs), len(runs), 0)
		return
	}

	limit := defaultRunLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			response.BadRequest(w, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = l
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.List(w, nonNil(runs), len(runs), limit)
}

// GetRun returns one run.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		runError(w, err)
		return
	}
	response.Success(w, run)
}

// GetRunEvents returns a run's events in order, optionally filtered by ?type=.
func (h *RunHandler) GetRunEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	if _, err := h.runs.Get(r.Context(), id); err != nil {
		runError(w, err)
		return
	}

	evts, err := h.runs.Events(r.Context(), id, r.URL.Query().Get("type"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if evts == nil {
		evts = []storage.RunEvent{}
	}
	response.List(w, evts, len(evts), 0)
}

// DeleteRun removes a run and its events.
func (h *RunHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.runs.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		runError(w, err)
		return
	}
	response.NoContent(w)
}

// GetStats returns coverage aggregated over every run.
func (h *RunHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.runs.Stats(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, stats)
}

func runError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrRunNotFound) {
		response.NotFound(w, err)
		return
	}
	response.InternalError(w, err)
}

func nonNil(runs []*storage.Run) []*storage.Run {
	if runs == nil {
		return []*storage.Run{}
	}
	return runs
}
