package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fxchain/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator([]core.FormatOption{core.WithSampleRate(48000)})

	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	n1, err := NewGenerator(nil, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n2, err := NewGenerator(nil, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}

		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise out of range at %d: %v", i, n1[i])
		}
	}

	n3, err := NewGenerator(nil, WithSeed(43)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for i := range n1 {
		if n1[i] != n3[i] {
			same = false
			break
		}
	}

	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("expected error for negative peak")
	}
}

func TestParseWaveform(t *testing.T) {
	for w := range numWaveforms {
		got, err := ParseWaveform(" " + w.String() + " ")
		if err != nil || got != w {
			t.Fatalf("ParseWaveform(%q) = %v, %v", w, got, err)
		}
	}

	if got, err := ParseWaveform("SWEEP"); err != nil || got != WaveSweep {
		t.Fatalf("case-insensitive parse: %v, %v", got, err)
	}

	if _, err := ParseWaveform("square"); err == nil {
		t.Fatal("expected error for unknown waveform")
	}
}

func TestSourceContinuesAcrossBlocks(t *testing.T) {
	g := NewGenerator(nil, WithSeed(5), WithSweep(50, 5000, 0.01))

	for w := range numWaveforms {
		t.Run(w.String(), func(t *testing.T) {
			whole, err := g.Generate(w, 440, 0.7, 1000)
			if err != nil {
				t.Fatal(err)
			}

			src, err := g.Source(w, 440, 0.7)
			if err != nil {
				t.Fatal(err)
			}

			parts := make([]float64, 1000)
			for start := 0; start < len(parts); start += 64 {
				src.Fill(parts[start:min(start+64, len(parts))])
			}

			for i := range whole {
				if whole[i] != parts[i] {
					t.Fatalf("sample %d: block %v != whole %v", i, parts[i], whole[i])
				}

				if math.Abs(whole[i]) > 0.7+1e-12 {
					t.Fatalf("sample %d exceeds amplitude: %v", i, whole[i])
				}
			}
		})
	}
}

func TestImpulseTrainSpacing(t *testing.T) {
	g := NewGenerator([]core.FormatOption{core.WithSampleRate(1024)})

	x, err := g.Generate(WaveImpulse, 128, 1, 40)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range x {
		want := 0.0
		if i%8 == 0 {
			want = 1
		}

		if v != want {
			t.Fatalf("sample %d: got %v want %v", i, v, want)
		}
	}
}

func TestSweepRestarts(t *testing.T) {
	g := NewGenerator([]core.FormatOption{core.WithSampleRate(1000)}, WithSweep(10, 100, 0.1))

	x, err := g.Generate(WaveSweep, 0, 1, 250)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 50 {
		if x[i] != x[i+100] || x[i] != x[i+200] {
			t.Fatalf("sweep did not restart at sample %d", i)
		}
	}
}

func TestRenderCopiesChannels(t *testing.T) {
	src, err := NewGenerator(nil).Source(WaveSaw, 1000, 1)
	if err != nil {
		t.Fatal(err)
	}

	ch := [][]float64{make([]float64, 32), make([]float64, 32)}
	src.Render(ch)

	for i := range ch[0] {
		if ch[0][i] != ch[1][i] {
			t.Fatalf("channel mismatch at %d", i)
		}
	}

	src.Render(nil)
}

func TestSourceRejects(t *testing.T) {
	tests := []struct {
		name string
		g    *Generator
		w    Waveform
		freq float64
		amp  float64
	}{
		{"unknown waveform", NewGenerator(nil), numWaveforms, 440, 1},
		{"negative amplitude", NewGenerator(nil), WaveSine, 440, -1},
		{"zero frequency", NewGenerator(nil), WaveSine, 0, 1},
		{"above nyquist", NewGenerator(nil), WaveSaw, 24000, 1},
		{"sweep above rate", NewGenerator([]core.FormatOption{core.WithSampleRate(40)}), WaveSweep, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.g.Source(tt.w, tt.freq, tt.amp); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := NewGenerator(nil).Generate(WaveSine, 440, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}
