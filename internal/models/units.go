package models

import (
	"fmt"
	"strings"
)

// WeightUnit is the unit a weight is recorded or displayed in.
type WeightUnit string

// Supported weight units.
const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lbs"
)

// DefaultWeightUnit is used when no settings have been saved.
const DefaultWeightUnit = Kilograms

// KgPerLb is the conversion factor from pounds to kilograms.
const KgPerLb = 0.453592

// ValidWeightUnits lists acceptable weight units.
var ValidWeightUnits = []WeightUnit{Kilograms, Pounds}

// Valid reports whether u is a supported unit.
func (u WeightUnit) Valid() bool {
	return u == Kilograms || u == Pounds
}

// ParseWeightUnit accepts "kg" or "lbs" (case-insensitive, "lb" allowed).
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs":
		return Kilograms, nil
	case "lbs", "lb":
		return Pounds, nil
	}
	return "", fmt.Errorf("models: invalid weight unit %q: %w", s, ErrInvalidInput)
}

// ToKg converts weight recorded in unit to kilograms.
func ToKg(weight float64, unit WeightUnit) float64 {
	if unit == Pounds {
		return weight * KgPerLb
	}
	return weight
}

// FromKg converts kilograms to the target unit.
func FromKg(kg float64, target WeightUnit) float64 {
	if target == Pounds {
		return kg / KgPerLb
	}
	return kg
}

// Convert converts weight between units via kilograms.
func Convert(weight float64, from, to WeightUnit) float64 {
	if from == to {
		return weight
	}
	return FromKg(ToKg(weight, from), to)
}
