package effectchain

import (
	"errors"
	"testing"
)

func TestPipelineResolveEveryPermutation(t *testing.T) {
	t.Parallel()

	var stages []*recordingStage

	p, err := NewPipeline(recordingRegistry(&stages, nil))
	if err != nil {
		t.Fatal(err)
	}

	v := Values{}
	v.Bypassed[KindChorus] = true
	v.Bypassed[KindGeneralFilter] = true
	p.UpdateFromParameters(&v)

	for _, o := range permutations() {
		steps := p.Resolve(o)
		if len(steps) != NumKinds {
			t.Fatalf("%v: resolved %d steps, want %d", o, len(steps), NumKinds)
		}

		var seen [NumKinds]bool

		for i, step := range steps {
			if step.Kind != o[i] {
				t.Fatalf("%v: slot %d resolved to %v", o, i, step.Kind)
			}

			if seen[step.Kind] {
				t.Fatalf("%v: kind %v repeated", o, step.Kind)
			}

			seen[step.Kind] = true

			if step.Stage != p.Stage(step.Kind) {
				t.Fatalf("%v: wrong stage for %v", o, step.Kind)
			}

			if step.Bypassed != v.Bypassed[step.Kind] {
				t.Fatalf("%v: bypass flag for %v = %v", o, step.Kind, step.Bypassed)
			}
		}
	}
}

func TestPipelineProcessFollowsOrder(t *testing.T) {
	t.Parallel()

	var (
		stages []*recordingStage
		trace  []Kind
	)

	p, err := NewPipeline(recordingRegistry(&stages, &trace))
	if err != nil {
		t.Fatal(err)
	}

	o := Order{KindOverdrive, KindGeneralFilter, KindPhase, KindLadderFilter, KindChorus}
	p.Process(make([]float64, 8), o)

	if len(trace) != NumKinds {
		t.Fatalf("trace = %v", trace)
	}

	for i := range o {
		if trace[i] != o[i] {
			t.Fatalf("trace = %v, want %v", trace, o)
		}
	}
}

func TestPipelineBypassedStagesStillCalled(t *testing.T) {
	t.Parallel()

	var stages []*recordingStage

	p, err := NewPipeline(recordingRegistry(&stages, nil))
	if err != nil {
		t.Fatal(err)
	}

	v := Values{}
	for k := range v.Bypassed {
		v.Bypassed[k] = true
	}

	p.UpdateFromParameters(&v)
	p.Process(make([]float64, 16), DefaultOrder())

	for _, st := range stages {
		if st.processCalls != 1 || st.bypassCalls != 1 {
			t.Fatalf("%v: process=%d bypass=%d", st.kind, st.processCalls, st.bypassCalls)
		}

		if st.updates != 1 {
			t.Fatalf("%v: updates=%d", st.kind, st.updates)
		}
	}
}

func TestPipelineEmptyOrderRunsNothing(t *testing.T) {
	t.Parallel()

	var stages []*recordingStage

	p, err := NewPipeline(recordingRegistry(&stages, nil))
	if err != nil {
		t.Fatal(err)
	}

	if steps := p.Resolve(EmptyOrder()); len(steps) != 0 {
		t.Fatalf("resolved %d steps for the empty order", len(steps))
	}
}

func TestPipelineMissingStage(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(KindPhase, dummyFactory)

	if _, err := NewPipeline(r); !errors.Is(err, ErrMissingStage) {
		t.Fatalf("expected ErrMissingStage, got %v", err)
	}

	p, err := NewPipeline(r, WithMissingStagesSkipped())
	if err != nil {
		t.Fatalf("skipped: %v", err)
	}

	steps := p.Resolve(DefaultOrder())
	if len(steps) != 1 || steps[0].Kind != KindPhase {
		t.Fatalf("resolved %v, want only the phaser", steps)
	}
}

func TestPipelineFactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewRegistry()

	for _, k := range Kinds() {
		r.MustRegister(k, func(_ Context) (Stage, error) {
			if k == KindLadderFilter {
				return nil, boom
			}

			return &recordingStage{}, nil
		})
	}

	if _, err := NewPipeline(r); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
}

func TestPipelinePrepare(t *testing.T) {
	t.Parallel()

	var stages []*recordingStage

	p, err := NewPipeline(recordingRegistry(&stages, nil))
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Prepare(ProcessSpec{SampleRate: 0, MaxBlockSize: 64}); !errors.Is(err, ErrInvalidProcessSpec) {
		t.Fatalf("expected ErrInvalidProcessSpec, got %v", err)
	}

	if err := p.Prepare(testSpec(2)); err != nil {
		t.Fatal(err)
	}

	for _, st := range stages {
		if st.spec.NumChannels != 1 || st.spec.SampleRate != 48000 {
			t.Fatalf("%v prepared with %+v", st.kind, st.spec)
		}
	}

	stages[KindChorus].prepareErr = errors.New("no memory")
	if err := p.Prepare(testSpec(1)); err == nil {
		t.Fatal("expected stage prepare error")
	}

	p.Reset()

	for _, st := range stages {
		if st.resets != 1 {
			t.Fatalf("%v: resets=%d", st.kind, st.resets)
		}
	}
}

func TestPipelineResolveDoesNotAllocate(t *testing.T) {
	var stages []*recordingStage

	p, err := NewPipeline(recordingRegistry(&stages, nil))
	if err != nil {
		t.Fatal(err)
	}

	o := Order{KindChorus, KindPhase, KindGeneralFilter, KindOverdrive, KindLadderFilter}

	allocs := testing.AllocsPerRun(100, func() {
		p.Resolve(o)
	})
	if allocs != 0 {
		t.Fatalf("Resolve allocated %v times per run", allocs)
	}
}
