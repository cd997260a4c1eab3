package models

import (
	"encoding/json"
	"fmt"
)

// AppSettings holds user preferences. WeightUnit is the display unit and the
// default for newly added exercises.
type AppSettings struct {
	WeightUnit WeightUnit `json:"weightUnit"`
}

// DefaultSettings returns the settings used before anything has been saved.
func DefaultSettings() AppSettings {
	return AppSettings{WeightUnit: DefaultWeightUnit}
}

// Normalized returns s with an unknown weight unit replaced by the default.
func (s AppSettings) Normalized() AppSettings {
	if !s.WeightUnit.Valid() {
		s.WeightUnit = DefaultWeightUnit
	}
	return s
}

// Validate rejects settings with an unsupported weight unit.
func (s AppSettings) Validate() error {
	if !s.WeightUnit.Valid() {
		return fmt.Errorf("models: invalid weight unit %q: %w", s.WeightUnit, ErrInvalidInput)
	}
	return nil
}

// DecodeSettings parses stored settings. Anything unreadable yields the defaults.
func DecodeSettings(data []byte) (AppSettings, error) {
	var s AppSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("models: decode settings: %w", err)
	}
	return s.Normalized(), nil
}
