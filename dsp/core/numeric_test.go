package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		expected float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, expected: 0},
		{name: "above", value: 2, lo: 0, hi: 1, expected: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, expected: 1},
		{name: "nan", value: math.NaN(), lo: 20, hi: 100, expected: 20},
		{name: "inf", value: math.Inf(1), lo: 20, hi: 100, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	if db := LinearToDB(linear); math.Abs(db+6) > 1e-10 {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}

	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}

	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestPeakAndRMS(t *testing.T) {
	buf := []float64{0.5, -1, 0.5, 0}

	if got := Peak(buf); got != 1 {
		t.Fatalf("Peak = %v, want 1", got)
	}

	if got := RMS(buf); math.Abs(got-math.Sqrt(1.5/4)) > 1e-15 {
		t.Fatalf("RMS = %v", got)
	}

	if Peak(nil) != 0 || RMS(nil) != 0 {
		t.Fatal("empty input must give 0")
	}
}
