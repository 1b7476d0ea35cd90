package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kdimtricp/vlabel/internal/annotation"
)

type mutation func(s *annotation.Session) error

// mutate decodes the request outside the session lock, then applies the
// resulting mutation and answers with the snapshot.
func (app *App) mutate(build func(r *http.Request) (mutation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := app.workspace(w, r)
		if !ok {
			return
		}

		fn, err := build(r)
		if err != nil {
			app.renderError(w, http.StatusBadRequest, err.Error())
			return
		}

		snap, err := ws.Do(fn)
		app.respond(w, r, snap, err)
	}
}

// plain wraps a mutation that needs nothing from the request.
func plain(fn mutation) func(r *http.Request) (mutation, error) {
	return func(r *http.Request) (mutation, error) { return fn, nil }
}

// withBody decodes a JSON body of type T and hands it to fn.
func withBody[T any](fn func(s *annotation.Session, body T) error) func(r *http.Request) (mutation, error) {
	return func(r *http.Request) (mutation, error) {
		var body T
		if err := decodeJSON(r, &body); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return func(s *annotation.Session) error { return fn(s, body) }, nil
	}
}

// withIndex parses the {index} URL parameter.
func withIndex(fn func(index int, r *http.Request) (mutation, error)) func(r *http.Request) (mutation, error) {
	return func(r *http.Request) (mutation, error) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			return nil, fmt.Errorf("invalid interval index %q", chi.URLParam(r, "index"))
		}
		return fn(index, r)
	}
}

type durationRequest struct {
	Duration float64 `json:"duration"`
}

type decodeErrorRequest struct {
	Reason string `json:"reason"`
}

type timeRequest struct {
	Time float64 `json:"time"`
}

type seekRequest struct {
	Frame int `json:"frame"`
}

type stepRequest struct {
	Direction annotation.Direction `json:"direction"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type draftRequest struct {
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Behavior *string `json:"behavior"`
}

type behaviorRequest struct {
	Behavior string `json:"behavior"`
}

type wheelRequest struct {
	DeltaY float64 `json:"deltaY"`
}

func (app *App) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	ws := app.Labeling.CreateWorkspace()
	writeJSON(w, http.StatusCreated, struct {
		ID       string              `json:"id"`
		Snapshot annotation.Snapshot `json:"snapshot"`
	}{
		ID:       ws.ID,
		Snapshot: ws.Snapshot(),
	})
}

func (app *App) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Snapshot())
}

func (app *App) CloseSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Labeling.CloseWorkspace(chi.URLParam(r, "id")); err != nil {
		app.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MetadataHandler takes the duration the player read from the video.
func (app *App) MetadataHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	var body durationRequest
	if err := decodeJSON(r, &body); err != nil {
		app.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := app.Labeling.ReportDuration(r.Context(), ws, body.Duration)
	if err != nil && statusFor(err) == http.StatusInternalServerError {
		// SetDuration only rejects bad input.
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Snapshot: &snap})
		return
	}
	app.respond(w, r, snap, err)
}

// EventsHandler streams a snapshot after every state change, starting with
// the current one.
func (app *App) EventsHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, cancel := ws.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(snap annotation.Snapshot) bool {
		data, err := json.Marshal(snap)
		if err != nil {
			log.Printf("Error marshaling snapshot: %v", err)
			return true
		}
		if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(ws.Snapshot()) {
		return
	}

	clientGone := r.Context().Done()
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if !send(snap) {
				return
			}
		case <-clientGone:
			return
		}
	}
}

func decodeErrorMutation(s *annotation.Session, body decodeErrorRequest) error {
	s.DecodeFailed(body.Reason)
	return nil
}

func syncTimeMutation(s *annotation.Session, body timeRequest) error {
	if _, ok := s.Video(); !ok {
		return annotation.ErrNoVideo
	}
	s.SyncTime(body.Time)
	return nil
}

func seekMutation(s *annotation.Session, body seekRequest) error {
	if _, ok := s.Video(); !ok {
		return annotation.ErrNoVideo
	}
	s.SeekToFrame(body.Frame)
	return nil
}

func stepMutation(s *annotation.Session, body stepRequest) error {
	if body.Direction != annotation.Forward && body.Direction != annotation.Backward {
		return fmt.Errorf("%w: direction must be 1 or -1", errBadRequest)
	}
	s.StepFrame(body.Direction)
	return nil
}

func keyMutation(s *annotation.Session, ev annotation.KeyEvent) error {
	return s.HandleKey(ev)
}

func frameRateMutation(s *annotation.Session, body valueRequest) error {
	s.SetFrameRateInput(body.Value)
	return nil
}

func frameIntervalMutation(s *annotation.Session, body valueRequest) error {
	s.SetFrameIntervalInput(body.Value)
	return nil
}

func draftMutation(s *annotation.Session, body draftRequest) error {
	var b *annotation.Behavior
	if body.Behavior != nil {
		v := annotation.Behavior(*body.Behavior)
		b = &v
	}
	return s.EditDraft(body.Start, body.End, b)
}

// commitMutation commits the draft under the requested behavior, or the
// draft's selected one when none is given.
func commitMutation(s *annotation.Session, body behaviorRequest) error {
	b := annotation.Behavior(body.Behavior)
	if b == "" {
		b = s.Draft().Behavior
	}
	_, err := s.Commit(b)
	return err
}

func updateIntervalMutation(index int, r *http.Request) (mutation, error) {
	var body behaviorRequest
	if err := decodeJSON(r, &body); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return func(s *annotation.Session) error {
		return s.UpdateBehavior(index, annotation.Behavior(body.Behavior))
	}, nil
}

func removeIntervalMutation(index int, _ *http.Request) (mutation, error) {
	return func(s *annotation.Session) error { return s.RemoveInterval(index) }, nil
}

func wheelMutation(s *annotation.Session, body wheelRequest) error {
	s.WheelZoom(body.DeltaY)
	return nil
}

func beginDragMutation(s *annotation.Session, p annotation.Point) error {
	s.BeginDrag(p)
	return nil
}

func dragMutation(s *annotation.Session, p annotation.Point) error {
	s.DragTo(p)
	return nil
}

// unit adapts a session method with no result into a mutation.
func unit(fn func(s *annotation.Session)) mutation {
	return func(s *annotation.Session) error {
		fn(s)
		return nil
	}
}
