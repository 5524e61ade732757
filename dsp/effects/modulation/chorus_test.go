package modulation

import (
	"math"
	"testing"
)

func newTestChorus(t *testing.T, mut func(*ChorusParams)) *Chorus {
	t.Helper()

	params := DefaultChorusParams()
	if mut != nil {
		mut(&params)
	}

	c, err := NewChorus(48000, params)
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	return c
}

func TestChorusProcessInPlaceMatchesSample(t *testing.T) {
	c1 := newTestChorus(t, nil)
	c2 := newTestChorus(t, nil)

	in := make([]float64, 128)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 31)
	}

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = c1.ProcessSample(x)
	}

	got := append([]float64(nil), in...)
	c2.ProcessInPlace(got)

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > 1e-12 {
			t.Fatalf("sample %d: got=%g want=%g", i, got[i], want[i])
		}
	}
}

func TestChorusResetRestoresState(t *testing.T) {
	c := newTestChorus(t, func(p *ChorusParams) { p.Feedback = 0.4 })

	in := make([]float64, 960)
	in[0] = 1

	out1 := append([]float64(nil), in...)
	c.ProcessInPlace(out1)

	c.Reset()

	out2 := append([]float64(nil), in...)
	c.ProcessInPlace(out2)

	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("sample %d after reset: got=%g want=%g", i, out2[i], out1[i])
		}
	}
}

func TestChorusImpulseArrivesAtCentreDelay(t *testing.T) {
	// Zero depth makes the delay constant.
	c := newTestChorus(t, func(p *ChorusParams) {
		p.Depth = 0
		p.CentreDelayMs = 5
		p.Mix = 1
	})

	in := make([]float64, 400)
	in[0] = 1
	c.ProcessInPlace(in)

	// 5 ms at 48 kHz is 240 samples.
	peak := 0
	for i := range in {
		if math.Abs(in[i]) > math.Abs(in[peak]) {
			peak = i
		}
	}

	if peak != 240 {
		t.Fatalf("impulse peak at %d, want 240", peak)
	}
}

func TestChorusParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*ChorusParams)
	}{
		{"zero rate", func(p *ChorusParams) { p.RateHz = 0 }},
		{"negative depth", func(p *ChorusParams) { p.Depth = -0.1 }},
		{"zero delay", func(p *ChorusParams) { p.CentreDelayMs = 0 }},
		{"delay too long", func(p *ChorusParams) { p.CentreDelayMs = MaxChorusCentreDelayMs + 1 }},
		{"nan delay", func(p *ChorusParams) { p.CentreDelayMs = math.NaN() }},
		{"feedback minus one", func(p *ChorusParams) { p.Feedback = -1 }},
		{"mix two", func(p *ChorusParams) { p.Mix = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultChorusParams()
			tt.mut(&p)

			if err := p.Validate(); err == nil {
				t.Fatalf("%+v accepted", p)
			}

			if _, err := NewChorus(48000, p); err == nil {
				t.Fatal("NewChorus accepted invalid params")
			}
		})
	}

	if _, err := NewChorus(0, DefaultChorusParams()); err == nil {
		t.Fatal("zero sample rate accepted")
	}
}

func TestChorusSetParamsKeepsOldOnError(t *testing.T) {
	c := newTestChorus(t, nil)

	want := ChorusParams{RateHz: 3, Depth: 1, CentreDelayMs: 12, Feedback: 0.2, Mix: 0.4}
	if err := c.SetParams(want); err != nil {
		t.Fatal(err)
	}

	if err := c.SetParams(ChorusParams{RateHz: 3}); err == nil {
		t.Fatal("zero centre delay accepted")
	}

	if c.Params() != want {
		t.Fatalf("Params() = %+v, want %+v", c.Params(), want)
	}
}

func TestChorusTrackKeepsBufferAndAdvancesPhase(t *testing.T) {
	c := newTestChorus(t, func(p *ChorusParams) { p.RateHz = 2 })

	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = math.Sin(float64(i) * 0.1)
	}

	orig := append([]float64(nil), buf...)

	c.Track(buf)

	for i := range buf {
		if buf[i] != orig[i] {
			t.Fatalf("Track modified sample %d", i)
		}
	}

	want := twoPi * 2 * 512 / 48000
	if diff := math.Abs(c.Phase() - want); diff > 1e-12 {
		t.Fatalf("Phase() = %v, want %v", c.Phase(), want)
	}

	if c.line.Read(1) != orig[len(orig)-1] {
		t.Fatal("delay line did not receive tracked input")
	}
}

func TestChorusFiniteUnderExtremeSettings(t *testing.T) {
	c := newTestChorus(t, func(p *ChorusParams) {
		*p = ChorusParams{RateHz: 100, Depth: 1, CentreDelayMs: 1, Feedback: MaxFeedback, Mix: 1}
	})

	for i := range 48000 {
		out := c.ProcessSample(0.5 * math.Sin(float64(i)*0.05))
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("non-finite output at %d", i)
		}
	}
}
