package effectchain

import (
	"errors"
	"fmt"
	"log/slog"
)

// Step is one resolved entry of a pipeline run.
type Step struct {
	Kind     Kind
	Stage    Stage
	Bypassed bool
}

// Pipeline owns one stage per kind for a single channel and runs them in a
// given order.
type Pipeline struct {
	stages   [NumKinds]Stage
	bypassed [NumKinds]bool
	steps    []Step
	logger   *slog.Logger
}

// NewPipeline creates one stage per kind from reg. A nil reg falls back to
// the registry from opts, or [DefaultRegistry].
func NewPipeline(reg *Registry, opts ...Option) (*Pipeline, error) {
	cfg := newConfig(opts)
	if reg == nil {
		reg = cfg.registry
	}

	p := &Pipeline{
		steps:  make([]Step, 0, NumKinds),
		logger: cfg.logger,
	}

	ctx := Context{BuildCoefficients: cfg.build}

	for _, k := range Kinds() {
		factory := reg.Lookup(k)
		if factory == nil {
			if !cfg.skipMissing {
				return nil, fmt.Errorf("%w: %s", ErrMissingStage, k)
			}

			p.logger.Warn("effectchain: no stage registered, skipping", "kind", k.String())

			continue
		}

		st, err := factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("effectchain: create %s: %w", k, err)
		}

		if st == nil {
			return nil, fmt.Errorf("%w: %s factory returned nil", ErrMissingStage, k)
		}

		p.stages[k] = st
	}

	return p, nil
}

// Prepare prepares every stage for mono processing at spec.
func (p *Pipeline) Prepare(spec ProcessSpec) error {
	spec.NumChannels = 1
	if err := spec.validate(); err != nil {
		return err
	}

	var errs []error

	for k, st := range p.stages {
		if st == nil {
			continue
		}

		if err := st.Prepare(spec); err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", Kind(k), err))
		}
	}

	return errors.Join(errs...)
}

// UpdateFromParameters pushes v to every stage and latches the bypass flags
// used by the next Resolve.
func (p *Pipeline) UpdateFromParameters(v *Values) {
	p.bypassed = v.Bypassed

	for _, st := range p.stages {
		if st != nil {
			st.Update(v)
		}
	}
}

// Resolve maps order to the stages to run. Invalid slots and kinds without a
// stage are skipped. The returned slice is reused by the next call.
func (p *Pipeline) Resolve(order Order) []Step {
	p.steps = p.steps[:0]

	for _, k := range order {
		if !k.Valid() || p.stages[k] == nil {
			continue
		}

		p.steps = append(p.steps, Step{Kind: k, Stage: p.stages[k], Bypassed: p.bypassed[k]})
	}

	return p.steps
}

// Process runs every resolved stage over block in order. Bypassed stages are
// still called so they can keep their clocks running.
func (p *Pipeline) Process(block []float64, order Order) {
	for _, step := range p.Resolve(order) {
		step.Stage.Process(block, step.Bypassed)
	}
}

// Stage returns the stage for k, or nil.
func (p *Pipeline) Stage(k Kind) Stage {
	if !k.Valid() {
		return nil
	}

	return p.stages[k]
}

// Reset clears the transient state of every stage.
func (p *Pipeline) Reset() {
	for _, st := range p.stages {
		if st != nil {
			st.Reset()
		}
	}
}
