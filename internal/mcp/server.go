// Package mcp exposes the live session and workout history to AI
// clients over the Model Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/repline/internal/engine"
	"github.com/claude/repline/internal/storage"
	"github.com/claude/repline/internal/workout"
)

// DataSource abstracts the history store for MCP tools.
type DataSource interface {
	QueryWorkouts(ctx context.Context, start, end time.Time, typeFilter string) ([]storage.WorkoutRow, error)
	QueryPersonalRecords(ctx context.Context, exerciseFilter string, workoutID *uuid.UUID) ([]storage.PersonalRecordRow, error)
	ExerciseHistory(ctx context.Context, names []string) (workout.History, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// New creates an MCP server with all tools and resources registered.
func New(eng *engine.Engine, ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Repline", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Repline personal training server. Inspect the live workout session, its derived metrics, and the lifter's workout history and personal records. Tools are read-only; the session itself is driven by the lifter."),
	)

	h := &handlers{eng: eng, ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetLiveMetrics, Handler: h.getLiveMetrics},
		server.ServerTool{Tool: toolGetLastSummary, Handler: h.getLastSummary},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
	)

	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	eng *engine.Engine
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"repline://active_session",
	"Active Session",
	mcp.WithResourceDescription("The in-progress workout session with its derived metrics, or an idle marker when no session is running"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"repline://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Completed workouts from the last 30 days"),
	mcp.WithMIMEType("application/json"),
)
