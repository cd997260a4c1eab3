package mcp

import (
	"context"
	"encoding/json"

	"github.com/carpenike/stacked/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.store.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	models.SortByDateDesc(workouts)
	if workouts == nil {
		workouts = []models.Workout{}
	}
	if len(workouts) > recentLimit {
		workouts = workouts[:recentLimit]
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
