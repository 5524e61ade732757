package effectchain

import (
	"testing"

	"github.com/cwbudde/algo-fxchain/dsp/param"
)

// recordingStage counts calls and remembers what it was asked to do.
type recordingStage struct {
	kind Kind

	prepareErr error
	spec       ProcessSpec

	updates      int
	processCalls int
	bypassCalls  int
	resets       int
	maxBlock     int

	// trace, when set, receives the kind of every processed block.
	trace *[]Kind
}

func (s *recordingStage) Prepare(spec ProcessSpec) error {
	s.spec = spec
	return s.prepareErr
}

func (s *recordingStage) Update(_ *Values) { s.updates++ }

func (s *recordingStage) Process(block []float64, bypassed bool) {
	s.processCalls++
	s.maxBlock = max(s.maxBlock, len(block))

	if bypassed {
		s.bypassCalls++
		return
	}

	if s.trace != nil {
		*s.trace = append(*s.trace, s.kind)
	}
}

func (s *recordingStage) Reset() { s.resets++ }

// recordingRegistry builds a registry whose stages are recorded in stages.
// Every factory call appends; index by kind only for single-pipeline tests.
func recordingRegistry(stages *[]*recordingStage, trace *[]Kind) *Registry {
	r := NewRegistry()

	for _, k := range Kinds() {
		r.MustRegister(k, func(_ Context) (Stage, error) {
			st := &recordingStage{kind: k, trace: trace}
			*stages = append(*stages, st)

			return st, nil
		})
	}

	return r
}

func newTestStore(t *testing.T) *param.Store {
	t.Helper()

	store, err := NewParameterStore()
	if err != nil {
		t.Fatalf("NewParameterStore: %v", err)
	}

	return store
}

func mustSet(t *testing.T, store *param.Store, id string, v float64) {
	t.Helper()

	if err := store.Set(id, v); err != nil {
		t.Fatalf("Set(%q, %v): %v", id, v, err)
	}
}

func testSpec(channels int) ProcessSpec {
	return ProcessSpec{SampleRate: 48000, MaxBlockSize: 512, NumChannels: channels}
}

// permutations returns every valid order.
func permutations() []Order {
	var (
		out  []Order
		walk func(o Order, i int)
	)

	walk = func(o Order, i int) {
		if i == NumKinds {
			out = append(out, o)
			return
		}

		for j := i; j < NumKinds; j++ {
			o[i], o[j] = o[j], o[i]
			walk(o, i+1)
			o[i], o[j] = o[j], o[i]
		}
	}

	walk(DefaultOrder(), 0)

	return out
}
