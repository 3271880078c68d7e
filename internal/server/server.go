// Package server exposes the session engine and workout history over
// a REST API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/repline/internal/engine"
	"github.com/claude/repline/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	engine *engine.Engine
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. db may be nil
// in a history-less deployment; history endpoints then report 503.
func New(eng *engine.Engine, db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Live session (API key required — mutations come from the
	// companion client, reads share the same surface)
	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/", s.handleStartSession)
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDiscardSession)
		r.Get("/metrics", s.handleSessionMetrics)
		r.Get("/summary", s.handleLastSummary)
		r.Post("/complete", s.handleCompleteSession)
		r.Post("/pause", s.handleTogglePause)
		r.Post("/recover", s.handleRecoverSession)

		r.Post("/rest", s.handleStartRest)
		r.Post("/rest/skip", s.handleSkipRest)
		r.Post("/rest/extend", s.handleExtendRest)
		r.Put("/rest/default", s.handleSetDefaultRest)

		r.Put("/current-exercise", s.handleSetCurrentExercise)
		r.Post("/exercises/{exercise}/sets", s.handleAddSet)
		r.Patch("/exercises/{exercise}/sets/{set}", s.handleUpdateSet)
		r.Delete("/exercises/{exercise}/sets/{set}", s.handleRemoveSet)
		r.Post("/exercises/{exercise}/sets/{set}/complete", s.handleCompleteSet)
		r.Put("/exercises/{exercise}/notes", s.handleUpdateNotes)
		r.Post("/exercises/{exercise}/swap", s.handleSwapExercise)
	})

	// History (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/records", s.handleQueryRecords)
}

// SetMCP mounts the MCP transport handler. Must be called before the
// server starts accepting requests.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
