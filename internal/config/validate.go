package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/param"
)

const (
	defaultSampleRate = 48000
	defaultBlockSize  = 512
	defaultChannels   = 2
	maxChannels       = 32
	defaultLogLevel   = "info"
)

// Validate checks cfg and fills unset fields with defaults.
func Validate(cfg *Config) error {
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if _, err := ResolveLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if err := validateAudio(&cfg.Audio); err != nil {
		return err
	}

	return validateChain(&cfg.Chain)
}

func validateAudio(a *AudioConfig) error {
	if a.SampleRate == 0 {
		a.SampleRate = defaultSampleRate
	}

	if a.SampleRate < 0 || math.IsNaN(a.SampleRate) || math.IsInf(a.SampleRate, 0) {
		return fmt.Errorf("audio.sample_rate must be > 0: %f", a.SampleRate)
	}

	if a.BlockSize == 0 {
		a.BlockSize = defaultBlockSize
	}

	if a.BlockSize < 0 {
		return fmt.Errorf("audio.block_size must be > 0: %d", a.BlockSize)
	}

	if a.Channels == 0 {
		a.Channels = defaultChannels
	}

	if a.Channels < 0 || a.Channels > maxChannels {
		return fmt.Errorf("audio.channels must be in [1, %d]: %d", maxChannels, a.Channels)
	}

	return nil
}

func validateChain(c *ChainConfig) error {
	if c.SubBlockSize == 0 {
		c.SubBlockSize = effectchain.MaxSubBlockSize
	}

	if c.SubBlockSize < 0 || c.SubBlockSize > effectchain.MaxSubBlockSize {
		return fmt.Errorf("chain.sub_block_size must be in [1, %d]: %d", effectchain.MaxSubBlockSize, c.SubBlockSize)
	}

	if c.RampMs != nil && (*c.RampMs < 0 || math.IsNaN(*c.RampMs) || math.IsInf(*c.RampMs, 0)) {
		return fmt.Errorf("chain.ramp_ms must be >= 0: %f", *c.RampMs)
	}

	if c.QueueCapacity == 0 {
		c.QueueCapacity = effectchain.DefaultQueueCapacity
	}

	if c.QueueCapacity < 0 {
		return fmt.Errorf("chain.queue_capacity must be > 0: %d", c.QueueCapacity)
	}

	if c.Order != "" {
		if _, err := effectchain.ParseOrder(c.Order); err != nil {
			return fmt.Errorf("chain.order: %w", err)
		}
	}

	for _, name := range c.Bypass {
		if _, err := effectchain.ParseKind(name); err != nil {
			return fmt.Errorf("chain.bypass: %w", err)
		}
	}

	for id, v := range c.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("chain.params[%q] must be finite: %f", id, v)
		}
	}

	return nil
}

// Apply writes the configured control values, choices and bypass switches
// into store. Controls the configuration does not name keep their value.
func Apply(cfg *Config, store *param.Store) error {
	var errs []error

	for _, id := range sortedKeys(cfg.Chain.Params) {
		if err := store.Set(id, cfg.Chain.Params[id]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, id := range sortedKeys(cfg.Chain.Choices) {
		if err := store.SetChoice(id, cfg.Chain.Choices[id]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range cfg.Chain.Bypass {
		k, err := effectchain.ParseKind(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := store.Set(effectchain.BypassID(k), 1); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: apply: %w", err)
	}

	return nil
}

// ResolveLogLevel maps a level name to its slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
