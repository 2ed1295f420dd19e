package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/IBBoard/bbreplay-sub000/internal/api/response"
	"github.com/IBBoard/bbreplay-sub000/internal/api/websocket"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
	"github.com/IBBoard/bbreplay-sub000/internal/metrics"
	"github.com/IBBoard/bbreplay-sub000/internal/reconstruct"
)

// ReplayConfig configures the replay handler.
type ReplayConfig struct {
	// Dir is the working replay directory.
	Dir string
	// Options are passed to every reconstruction.
	Options replay.Options
	// StreamRate is the number of events per second sent to stream clients.
	StreamRate float64
	// Metrics, when set, counts every reconstruction.
	Metrics *metrics.RunMetrics
}

// ReconstructResult is returned by a synchronous reconstruction.
type ReconstructResult struct {
	RunID   string                   `json:"run_id,omitempty"`
	Summary *events.RunFinishedEvent `json:"summary"`
}

// StreamResult tells a client where to listen for a stream.
type StreamResult struct {
	Replay    string  `json:"replay"`
	WebSocket string  `json:"websocket"`
	Rate      float64 `json:"rate"`
}

// ReplayHandler lists replays and reconstructs them on request.
type ReplayHandler struct {
	cfg   ReplayConfig
	store events.RunStore
	hub   *websocket.Hub

	// base is cancelled on shutdown and stops running streams.
	base context.Context
	wg   sync.WaitGroup
}

// NewReplayHandler creates a ReplayHandler. store may be nil, in which case
// runs are not recorded.
func NewReplayHandler(base context.Context, cfg ReplayConfig, store events.RunStore, hub *websocket.Hub) *ReplayHandler {
	if cfg.StreamRate <= 0 {
		cfg.StreamRate = 10
	}
	return &ReplayHandler{cfg: cfg, store: store, hub: hub, base: base}
}

// ListReplays returns the replay pairs in the working directory.
func (h *ReplayHandler) ListReplays(w http.ResponseWriter, r *http.Request) {
	pairs, err := replayfinder.List(h.cfg.Dir)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if pairs == nil {
		pairs = []replayfinder.Pair{}
	}
	response.List(w, pairs, len(pairs), 0)
}

// Reconstruct plays a replay to completion and returns its summary. A
// reconstruction that fails part way is still a 201: the run is stored
// and the summary says where it stopped.
func (h *ReplayHandler) Reconstruct(w http.ResponseWriter, r *http.Request) {
	pair, ok := h.find(w, r)
	if !ok {
		return
	}

	d := h.dispatcher()
	var recorder *events.RecorderObserver
	if h.store != nil {
		recorder = events.NewRecorderObserver(h.store)
		d.Register(recorder)
	}

	summary, err := reconstruct.Run(r.Context(), pair, h.cfg.Options, d)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	result := ReconstructResult{Summary: summary}
	if recorder != nil {
		result.RunID = recorder.LastRunID()
	}
	response.Created(w, result)
}

// Stream starts a paced reconstruction in the background and publishes its
// events to WebSocket clients subscribed to the replay.
func (h *ReplayHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil || h.hub.IsStopped() {
		response.ServiceUnavailable(w, errors.New("event stream is not running"))
		return
	}
	pair, ok := h.find(w, r)
	if !ok {
		return
	}

	// Fail fast on unreadable files rather than in the background.
	rep, err := reconstruct.Open(r.Context(), pair, h.cfg.Options)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	d := h.dispatcher()
	if h.store != nil {
		d.Register(events.NewRecorderObserver(h.store))
	}
	d.Register(events.NewPacedObserver(h.base, websocket.NewWebSocketObserver(h.hub, pair.Name), h.cfg.StreamRate))

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		summary := events.Play(h.base, pair.Name, rep, d)
		log.Printf("[ReplayHandler] Stream of %s finished after %d events (completed=%t)",
			pair.Name, summary.Events, summary.Completed)
	}()

	response.Accepted(w, StreamResult{
		Replay:    pair.Name,
		WebSocket: "/ws?replay=" + url.QueryEscape(pair.Name),
		Rate:      h.cfg.StreamRate,
	})
}

func (h *ReplayHandler) dispatcher() *events.EventDispatcher {
	d := events.NewEventDispatcher()
	if h.cfg.Metrics != nil {
		d.Register(metrics.NewObserver(h.cfg.Metrics))
	}
	return d
}

// GetMetrics returns this process's reconstruction counters.
func (h *ReplayHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Metrics == nil {
		response.ServiceUnavailable(w, errors.New("metrics are not enabled"))
		return
	}
	response.Success(w, h.cfg.Metrics.GetStats())
}

// Wait blocks until every running stream has finished.
func (h *ReplayHandler) Wait() {
	h.wg.Wait()
}

func (h *ReplayHandler) find(w http.ResponseWriter, r *http.Request) (replayfinder.Pair, bool) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("replay name is required"))
		return replayfinder.Pair{}, false
	}
	pair, err := replayfinder.Find(h.cfg.Dir, name)
	if errors.Is(err, replayfinder.ErrNotFound) {
		response.NotFound(w, err)
		return replayfinder.Pair{}, false
	}
	if err != nil {
		response.InternalError(w, err)
		return replayfinder.Pair{}, false
	}
	if !pair.Complete() {
		response.BadRequest(w, fmt.Errorf("replay %s has no game log", name))
		return replayfinder.Pair{}, false
	}
	return pair, true
}
