package smoother

import (
	"math"
	"testing"
)

const (
	testSampleRate = 48000.0
	tol            = 1e-9
)

func mustNew(t *testing.T, value float64) *Smoother {
	t.Helper()

	s, err := New(testSampleRate, DefaultRampSeconds, value)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return s
}

func TestRampLengthFromTime(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0)
	if s.RampLength() != 240 {
		t.Fatalf("RampLength() = %d, want 240 (5 ms at 48 kHz)", s.RampLength())
	}
}

func TestResetRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	var s Smoother

	bad := []struct{ sr, ramp float64 }{
		{0, 0.005},
		{-1, 0.005},
		{math.NaN(), 0.005},
		{48000, -0.1},
		{48000, math.Inf(1)},
	}

	for _, b := range bad {
		if err := s.Reset(b.sr, b.ramp); err == nil {
			t.Errorf("Reset(%v, %v) should fail", b.sr, b.ramp)
		}
	}
}

func TestReachesTargetAfterRampAndStays(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0.2)
	s.SetTargetValue(1.5)

	if !s.IsSmoothing() {
		t.Fatal("expected ramp to start")
	}

	got := s.Skip(s.RampLength())
	if got != 1.5 {
		t.Fatalf("after full ramp got %v, want 1.5", got)
	}

	if s.IsSmoothing() {
		t.Fatal("ramp should be complete")
	}

	for range 10 {
		if v := s.Skip(64); v != 1.5 {
			t.Fatalf("value drifted to %v", v)
		}
	}
}

func TestSetTargetIsContinuous(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0)
	s.SetTargetValue(1)

	prev := s.CurrentValue()
	maxStep := 1.0 / float64(s.RampLength())

	for range s.RampLength() {
		v := s.Next()
		if d := math.Abs(v - prev); d > maxStep+tol {
			t.Fatalf("step %v exceeds %v", d, maxStep)
		}
		prev = v
	}
}

func TestRetargetMidRampStartsFromCurrent(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0)
	s.SetTargetValue(1)
	mid := s.Skip(s.RampLength() / 2)

	s.SetTargetValue(-1)

	if s.CurrentValue() != mid {
		t.Fatalf("retarget moved current from %v to %v", mid, s.CurrentValue())
	}

	if s.Remaining() != s.RampLength() {
		t.Fatalf("Remaining() = %d, want full ramp %d", s.Remaining(), s.RampLength())
	}

	if got := s.Skip(s.RampLength()); got != -1 {
		t.Fatalf("got %v, want -1", got)
	}
}

func TestSameTargetDoesNotRestartRamp(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0)
	s.SetTargetValue(1)
	s.Skip(100)

	remaining := s.Remaining()
	s.SetTargetValue(1)

	if s.Remaining() != remaining {
		t.Fatalf("Remaining() = %d, want %d", s.Remaining(), remaining)
	}
}

func TestSetCurrentAndTargetSnaps(t *testing.T) {
	t.Parallel()

	s := mustNew(t, 0)
	s.SetTargetValue(10)
	s.Skip(3)
	s.SetCurrentAndTargetValue(4)

	if s.CurrentValue() != 4 || s.TargetValue() != 4 || s.IsSmoothing() {
		t.Fatalf("snap failed: current=%v target=%v smoothing=%v",
			s.CurrentValue(), s.TargetValue(), s.IsSmoothing())
	}
}

func TestZeroRampAdoptsImmediately(t *testing.T) {
	t.Parallel()

	s, err := New(testSampleRate, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	s.SetTargetValue(3)

	if s.CurrentValue() != 3 || s.IsSmoothing() {
		t.Fatalf("zero ramp: current=%v smoothing=%v", s.CurrentValue(), s.IsSmoothing())
	}
}

func TestGranularityDoesNotChangeConvergedValue(t *testing.T) {
	t.Parallel()

	const total = 1000

	whole := mustNew(t, 0.1)
	chunked := mustNew(t, 0.1)
	perSample := mustNew(t, 0.1)

	for _, s := range []*Smoother{whole, chunked, perSample} {
		s.SetTargetValue(0.9)
	}

	whole.Skip(total)

	for left := total; left > 0; {
		n := min(left, 64)
		chunked.Skip(n)
		left -= n
	}

	for range total {
		perSample.Next()
	}

	if whole.CurrentValue() != chunked.CurrentValue() || whole.CurrentValue() != perSample.CurrentValue() {
		t.Fatalf("final values differ: whole=%v chunked=%v per-sample=%v",
			whole.CurrentValue(), chunked.CurrentValue(), perSample.CurrentValue())
	}

	// Within the ramp the paths agree up to rounding.
	a := mustNew(t, 0)
	b := mustNew(t, 0)
	a.SetTargetValue(1)
	b.SetTargetValue(1)
	a.Skip(100)

	for range 100 {
		b.Next()
	}

	if math.Abs(a.CurrentValue()-b.CurrentValue()) > tol {
		t.Fatalf("mid-ramp mismatch: %v vs %v", a.CurrentValue(), b.CurrentValue())
	}
}

func TestZeroValueSmoother(t *testing.T) {
	t.Parallel()

	var s Smoother
	s.SetTargetValue(2)

	if s.CurrentValue() != 2 {
		t.Fatalf("zero-value smoother should adopt target, got %v", s.CurrentValue())
	}
}
