// Package param holds live control values shared between a control thread
// and the audio thread.
//
// Every control is a float64 register stored as atomic bits. The control side
// writes through [Store.Set]; the audio side resolves a [Handle] once during
// initialisation and reads it with [Handle.Value] on every block, without
// locks or map lookups.
package param

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
)

// ErrUnknownParameter is returned when an ID is not part of the store.
var ErrUnknownParameter = errors.New("param: unknown parameter")

// Type distinguishes how a register is interpreted.
type Type uint8

const (
	// TypeFloat is a continuous value.
	TypeFloat Type = iota
	// TypeChoice stores the index into Spec.Choices as a float.
	TypeChoice
	// TypeBool stores 0 or 1.
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeChoice:
		return "choice"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Spec describes one control.
type Spec struct {
	ID      string
	Unit    string
	Type    Type
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Choices []string
}

// Float returns a continuous control spec.
func Float(id, unit string, minValue, maxValue, step, def float64) Spec {
	return Spec{ID: id, Unit: unit, Type: TypeFloat, Min: minValue, Max: maxValue, Step: step, Default: def}
}

// Choice returns a choice control spec defaulting to choices[def].
func Choice(id string, choices []string, def int) Spec {
	return Spec{
		ID:      id,
		Type:    TypeChoice,
		Max:     float64(len(choices) - 1),
		Step:    1,
		Default: float64(def),
		Choices: slices.Clone(choices),
	}
}

// Bool returns an on/off control spec.
func Bool(id string, def bool) Spec {
	d := 0.0
	if def {
		d = 1
	}

	return Spec{ID: id, Type: TypeBool, Max: 1, Step: 1, Default: d}
}

// Validate checks the spec for internal consistency.
func (s Spec) Validate() error {
	if s.ID == "" {
		return errors.New("param: empty ID")
	}

	for _, v := range [...]float64{s.Min, s.Max, s.Step, s.Default} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("param: %q: range values must be finite", s.ID)
		}
	}

	if s.Max < s.Min {
		return fmt.Errorf("param: %q: max %g < min %g", s.ID, s.Max, s.Min)
	}

	if s.Step < 0 {
		return fmt.Errorf("param: %q: step must be >= 0: %g", s.ID, s.Step)
	}

	if s.Default < s.Min || s.Default > s.Max {
		return fmt.Errorf("param: %q: default %g outside [%g, %g]", s.ID, s.Default, s.Min, s.Max)
	}

	if s.Type == TypeChoice && len(s.Choices) == 0 {
		return fmt.Errorf("param: %q: choice control without choices", s.ID)
	}

	return nil
}

// Constrain clamps v to the spec range and snaps it to the step grid.
func (s Spec) Constrain(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}

	return min(max(v, s.Min), s.Max)
}

// ChoiceIndex returns the index of name in Choices, or -1.
func (s Spec) ChoiceIndex(name string) int {
	return slices.Index(s.Choices, name)
}

type register struct {
	bits atomic.Uint64
}

func (r *register) load() float64 { return math.Float64frombits(r.bits.Load()) }

func (r *register) store(v float64) { r.bits.Store(math.Float64bits(v)) }

// Store is a fixed set of controls. The set is immutable after NewStore; the
// values are safe for concurrent use.
type Store struct {
	specs []Spec
	regs  []register
	index map[string]int
}

// NewStore creates a store holding specs, each initialised to its default.
// Defaults are stored as given, without step snapping.
func NewStore(specs ...Spec) (*Store, error) {
	s := &Store{
		specs: make([]Spec, len(specs)),
		regs:  make([]register, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}

		if _, dup := s.index[spec.ID]; dup {
			return nil, fmt.Errorf("param: duplicate ID %q", spec.ID)
		}

		s.specs[i] = spec
		s.index[spec.ID] = i
		s.regs[i].store(spec.Default)
	}

	return s, nil
}

// Len returns the number of controls.
func (s *Store) Len() int { return len(s.specs) }

// Specs returns a copy of the control specs in registration order.
func (s *Store) Specs() []Spec { return slices.Clone(s.specs) }

// Spec returns the spec for id.
func (s *Store) Spec(id string) (Spec, error) {
	i, ok := s.index[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return s.specs[i], nil
}

// Set stores v for id after clamping and step snapping.
func (s *Store) Set(id string, v float64) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("param: %q: value must be finite: %f", id, v)
	}

	s.regs[i].store(s.specs[i].Constrain(v))

	return nil
}

// SetChoice selects a choice control by its label.
func (s *Store) SetChoice(id, choice string) error {
	spec, err := s.Spec(id)
	if err != nil {
		return err
	}

	idx := spec.ChoiceIndex(choice)
	if idx < 0 {
		return fmt.Errorf("param: %q: unknown choice %q", id, choice)
	}

	return s.Set(id, float64(idx))
}

// Get returns the current value of id.
func (s *Store) Get(id string) (float64, error) {
	i, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return s.regs[i].load(), nil
}

// Values returns every control value keyed by ID.
func (s *Store) Values() map[string]float64 {
	out := make(map[string]float64, len(s.specs))
	for i, spec := range s.specs {
		out[spec.ID] = s.regs[i].load()
	}

	return out
}

// ResetDefaults restores every control to its default.
func (s *Store) ResetDefaults() {
	for i, spec := range s.specs {
		s.regs[i].store(spec.Default)
	}
}

// Handle resolves id to a read handle. Resolution should happen once, off the
// audio thread.
func (s *Store) Handle(id string) (Handle, error) {
	i, ok := s.index[id]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return Handle{reg: &s.regs[i], spec: &s.specs[i]}, nil
}

// Handle reads one control without lookups. The zero Handle is invalid.
type Handle struct {
	reg  *register
	spec *Spec
}

// Valid reports whether h was obtained from a Store.
func (h Handle) Valid() bool { return h.reg != nil }

// ID returns the control ID.
func (h Handle) ID() string { return h.spec.ID }

// Spec returns the control spec.
func (h Handle) Spec() Spec { return *h.spec }

// Value returns the current raw value.
func (h Handle) Value() float64 { return h.reg.load() }

// Index returns a choice control's selected index.
func (h Handle) Index() int { return int(h.reg.load()) }

// On returns a bool control's state.
func (h Handle) On() bool { return h.reg.load() >= 0.5 }
