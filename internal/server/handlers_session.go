package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/repline/internal/engine"
	"github.com/claude/repline/internal/workout"
)

type startSessionRequest struct {
	Template *workout.Template `json:"template"`
	History  workout.History   `json:"history,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Template == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template is required"})
		return
	}

	history := req.History
	if history == nil && s.db != nil {
		names := exerciseNames(req.Template)
		h, err := s.db.ExerciseHistory(r.Context(), names)
		if err != nil {
			// History is a pre-fill convenience; start without it.
			s.log.Warn("exercise history lookup failed", "error", err)
		} else {
			history = h
		}
	}

	sess := s.engine.Start(req.Template, history)
	writeJSON(w, http.StatusCreated, sess)
}

func exerciseNames(tpl *workout.Template) []string {
	planned := tpl.MainSet
	if len(planned) == 0 {
		planned = tpl.Exercises
	}
	names := make([]string, 0, len(planned))
	for _, te := range planned {
		names = append(names, te.Name)
	}
	return names
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.engine.Session()
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	s.engine.Discard()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionMetrics(w http.ResponseWriter, r *http.Request) {
	if s.engine.Session() == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Metrics())
}

func (s *Server) handleLastSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.engine.LastSummary()
	if sum == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed session"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sum, err := s.engine.Complete(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if sum == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.TogglePause(); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleRecoverSession(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Recover() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "nothing to recover"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

type secondsRequest struct {
	Seconds int `json:"seconds"`
}

func (s *Server) handleStartRest(w http.ResponseWriter, r *http.Request) {
	var req secondsRequest
	decodeOptional(r, &req)
	if err := s.engine.StartRestTimer(req.Seconds); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.SkipRestTimer(); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleExtendRest(w http.ResponseWriter, r *http.Request) {
	var req secondsRequest
	decodeOptional(r, &req)
	if err := s.engine.ExtendRestTimer(req.Seconds); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleSetDefaultRest(w http.ResponseWriter, r *http.Request) {
	var req secondsRequest
	decodeOptional(r, &req)
	if err := s.engine.SetDefaultRest(req.Seconds); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

type indexRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleSetCurrentExercise(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.engine.SetCurrentExercise(req.Index); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	if err := s.engine.AddSet(exIdx); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

type updateSetRequest struct {
	Field       string   `json:"field,omitempty"`
	Value       string   `json:"value,omitempty"`
	WeightDelta *float64 `json:"weight_delta,omitempty"`
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	setIdx, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	var err error
	switch {
	case req.WeightDelta != nil:
		err = s.engine.IncrementWeight(exIdx, setIdx, *req.WeightDelta)
	case req.Field == string(workout.FieldWeight) || req.Field == string(workout.FieldReps):
		err = s.engine.UpdateSet(exIdx, setIdx, workout.SetField(req.Field), req.Value)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "field must be weight or reps"})
		return
	}
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	setIdx, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	if err := s.engine.RemoveSet(exIdx, setIdx); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	setIdx, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	if err := s.engine.CompleteSet(exIdx, setIdx); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.engine.UpdateNotes(exIdx, req.Notes); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handleSwapExercise(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(w, r, "exercise")
	if !ok {
		return
	}
	var desc workout.ExerciseDescriptor
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if desc.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if err := s.engine.SwapExercise(exIdx, desc); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoSession):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrSessionCompleted), errors.Is(err, engine.ErrCompletionInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.log.Error("session operation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || idx < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name + " index"})
		return 0, false
	}
	return idx, true
}

// decodeOptional tolerates an empty or absent body.
func decodeOptional(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(v)
}
