package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/carpenike/stacked/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolSearchWorkouts = mcp.NewTool("search_workouts",
	mcp.WithDescription("Search workouts by name, date (YYYY-MM-DD, YYYY-MM, YYYY or M/D/YYYY) or exercise name. Returns matching workouts newest first."),
	mcp.WithString("query", mcp.Description("Case-insensitive search text. Empty returns every workout.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout with its exercise, set and volume totals."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
	mcp.WithString("unit", mcp.Description("Unit for the volume total. Defaults to the saved setting."), mcp.Enum("kg", "lbs")),
)

var toolWorkoutsOnDate = mcp.NewTool("workouts_on_date",
	mcp.WithDescription("List the workouts logged on a calendar day."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYY-MM-DD")),
)

var toolMonthSummary = mcp.NewTool("month_summary",
	mcp.WithDescription("Count workouts, exercises and sets in a month with a per-day breakdown."),
	mcp.WithString("month", mcp.Required(), mcp.Description("Month as YYYY-MM")),
)

// jsonResult wraps v as a JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return mcp.NewToolResultText(string(data))
}

// --- Tool handlers ---

func (h *handlers) searchWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.store.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp search_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	found := models.SearchWorkouts(workouts, req.GetString("query", ""))
	models.SortByDateDesc(found)
	if limit := req.GetInt("limit", 20); limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	if found == nil {
		found = []models.Workout{}
	}
	return jsonResult(found), nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	var unit models.WeightUnit
	if u := req.GetString("unit", ""); u != "" {
		if unit, err = models.ParseWeightUnit(u); err != nil {
			return mcp.NewToolResultError(models.UserMessage(err)), nil
		}
	} else {
		settings, err := h.store.GetSettings(ctx)
		if err != nil {
			h.log.Error("mcp get_workout settings", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		unit = settings.WeightUnit
	}

	w, err := h.store.GetWorkout(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return mcp.NewToolResultError("workout " + id + " not found"), nil
		}
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"workout": w,
		"summary": models.Summarize(w, unit),
	}), nil
}

func (h *handlers) workoutsOnDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	if !models.ValidDate(date) {
		return mcp.NewToolResultError("invalid date format: want YYYY-MM-DD"), nil
	}

	workouts, err := h.store.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp workouts_on_date", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	onDate := models.WorkoutsOnDate(workouts, date)
	if onDate == nil {
		onDate = []models.Workout{}
	}
	return jsonResult(onDate), nil
}

func (h *handlers) monthSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("month")
	if err != nil {
		return mcp.NewToolResultError("month parameter is required"), nil
	}
	month, err := models.ParseMonth(raw)
	if err != nil {
		return mcp.NewToolResultError(models.UserMessage(err)), nil
	}

	workouts, err := h.store.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp month_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(models.SummarizeMonth(workouts, month)), nil
}
