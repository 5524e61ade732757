package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeDBMatchesResponse(t *testing.T) {
	sr := 48000.0

	for _, freq := range []float64{0, 100, 1000, 10000, 20000} {
		want := 20 * math.Log10(cmplx.Abs(testCoeffs.Response(freq, sr)))
		if got := testCoeffs.MagnitudeDB(freq, sr); !almostEqual(got, want, 1e-12) {
			t.Errorf("freq=%v: got %v want %v", freq, got, want)
		}
	}

	// DC gain is sum(b) / (1 + a1 + a2).
	if got, want := testCoeffs.MagnitudeDB(0, sr), 20*math.Log10(1/0.84); !almostEqual(got, want, 1e-12) {
		t.Fatalf("DC: got %v dB want %v", got, want)
	}
}

func TestMagnitudeDBPassthrough(t *testing.T) {
	c := Coefficients{B0: 1}
	for _, freq := range []float64{10, 1000, 20000} {
		if db := c.MagnitudeDB(freq, 48000); math.Abs(db) > 1e-12 {
			t.Fatalf("freq=%v: got %v dB want 0", freq, db)
		}
	}
}

func TestStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"fir", Coefficients{B0: 1}, true},
		{"test section", testCoeffs, true},
		{"pole on unit circle", Coefficients{B0: 1, A2: 1}, false},
		{"real pole outside", Coefficients{B0: 1, A1: -1.5, A2: 0.4}, false},
		{"near-unit complex poles", Coefficients{B0: 1, A1: -1.99, A2: 0.999}, true},
		{"nan", Coefficients{B0: 1, A1: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Stable(); got != tt.want {
				t.Fatalf("Stable() = %v, want %v", got, tt.want)
			}
		})
	}
}
