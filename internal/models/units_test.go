package models

import (
	"errors"
	"testing"
)

func TestToKg(t *testing.T) {
	if got := ToKg(100, Kilograms); got != 100 {
		t.Errorf("ToKg(100, kg) = %v, want 100", got)
	}
	if got := ToKg(100, Pounds); !approxEqual(got, 45.3592, 1e-9) {
		t.Errorf("ToKg(100, lbs) = %v, want 45.3592", got)
	}
}

func TestFromKg(t *testing.T) {
	if got := FromKg(45.3592, Pounds); !approxEqual(got, 100, 1e-9) {
		t.Errorf("FromKg(45.3592, lbs) = %v, want 100", got)
	}
	if got := FromKg(80, Kilograms); got != 80 {
		t.Errorf("FromKg(80, kg) = %v, want 80", got)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	weights := []float64{0, 0.5, 1, 2.5, 45, 100, 137.5, 225, 1000.25}
	for _, u := range ValidWeightUnits {
		for _, w := range weights {
			got := FromKg(ToKg(w, u), u)
			if !approxEqual(got, w, 1e-6) {
				t.Errorf("round trip %v %s = %v", w, u, got)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	if got := Convert(10, Kilograms, Kilograms); got != 10 {
		t.Errorf("Convert(10, kg, kg) = %v, want 10", got)
	}
	if got := Convert(22.0462, Pounds, Kilograms); !approxEqual(got, 10, 1e-4) {
		t.Errorf("Convert(22.0462, lbs, kg) = %v, want ~10", got)
	}
}

func TestParseWeightUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    WeightUnit
		wantErr bool
	}{
		{"kg", Kilograms, false},
		{"KG", Kilograms, false},
		{"lbs", Pounds, false},
		{" lb ", Pounds, false},
		{"stone", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeightUnit(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseWeightUnit(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
