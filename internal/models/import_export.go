package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ExportVersion is written into every export document.
const ExportVersion = "1.0"

// ExportDocument is the backup file format: all workouts plus settings.
type ExportDocument struct {
	Workouts   []Workout   `json:"workouts"`
	Settings   AppSettings `json:"settings"`
	ExportDate string      `json:"exportDate"`
	Version    string      `json:"version"`
}

// NewExport builds an export document stamped with now.
func NewExport(workouts []Workout, settings AppSettings, now time.Time) ExportDocument {
	if workouts == nil {
		workouts = []Workout{}
	}
	return ExportDocument{
		Workouts:   workouts,
		Settings:   settings.Normalized(),
		ExportDate: now.UTC().Format(time.RFC3339),
		Version:    ExportVersion,
	}
}

// ExportFilename is the suggested download name for an export made at now.
func ExportFilename(now time.Time) string {
	return "stacked-backup-" + now.Format(dateLayout) + ".json"
}

// ImportDocument is a parsed export document ready to overwrite storage.
type ImportDocument struct {
	Workouts []Workout
	Settings AppSettings
	Legacy   int // workouts upcast from the legacy shape
	Version  string
}

// ParseImport decodes an export document. Workouts go through the legacy
// normalizer; missing or unreadable settings fall back to the defaults.
// Anything that is not a JSON object with a workouts array is rejected.
func ParseImport(data []byte) (*ImportDocument, error) {
	var raw struct {
		Workouts json.RawMessage `json:"workouts"`
		Settings json.RawMessage `json:"settings"`
		Version  string          `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("models: parse import: %w: %v", ErrInvalidInput, err)
	}
	trimmed := bytes.TrimSpace(raw.Workouts)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("models: parse import: %w: workouts must be a list", ErrInvalidInput)
	}

	workouts, legacy, err := DecodeWorkouts(trimmed)
	if err != nil {
		return nil, fmt.Errorf("models: parse import: %w: %v", ErrInvalidInput, err)
	}

	settings := DefaultSettings()
	if present(raw.Settings) {
		if s, err := DecodeSettings(raw.Settings); err == nil {
			settings = s
		}
	}

	return &ImportDocument{Workouts: workouts, Settings: settings, Legacy: legacy, Version: raw.Version}, nil
}
