package effectchain

import (
	"errors"
	"fmt"
)

// ErrMissingStage is returned when a kind has no registered factory.
var ErrMissingStage = errors.New("effectchain: missing stage")

var errDuplicateStage = errors.New("duplicate stage kind")

// Registry maps each kind to the factory that builds its stage.
type Registry struct {
	factories [NumKinds]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a factory for kind.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid stage kind %d", kind)
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if r.factories[kind] != nil {
		return fmt.Errorf("%w: %s", errDuplicateStage, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for kind, or nil.
func (r *Registry) Lookup(kind Kind) Factory {
	if !kind.Valid() {
		return nil
	}

	return r.factories[kind]
}

// DefaultRegistry returns a Registry holding all five built-in stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindPhase, newPhaserStage)
	r.MustRegister(KindChorus, newChorusStage)
	r.MustRegister(KindOverdrive, newOverdriveStage)
	r.MustRegister(KindLadderFilter, newLadderStage)
	r.MustRegister(KindGeneralFilter, newGeneralFilterStage)

	return r
}
