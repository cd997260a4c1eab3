// Package mcp exposes the workout log read-only to Model Context Protocol
// clients.
package mcp

import (
	"log/slog"

	"github.com/carpenike/stacked/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// recentLimit is how many workouts the recent_workouts resource returns.
const recentLimit = 10

// New creates an MCP server with all tools and resources registered.
func New(store storage.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Stacked", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Stacked workout log. Search workouts, read a workout with its volume summary, list a day's workouts and summarize a month. Read-only."),
	)

	h := &handlers{store: store, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolSearchWorkouts, Handler: h.searchWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolWorkoutsOnDate, Handler: h.workoutsOnDate},
		server.ServerTool{Tool: toolMonthSummary, Handler: h.monthSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// Serve runs s over stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store storage.Store
	log   *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"stacked://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The most recent workouts, newest first"),
	mcp.WithMIMEType("application/json"),
)
