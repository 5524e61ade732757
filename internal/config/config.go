// Package config loads the YAML configuration of the fxchain command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
)

// Config is the complete fxchain configuration.
type Config struct {
	LogLevel string      `yaml:"log_level"`
	Audio    AudioConfig `yaml:"audio"`
	Chain    ChainConfig `yaml:"chain"`
}

// AudioConfig holds the processing format.
type AudioConfig struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
	Channels   int     `yaml:"channels"`
}

// ChainConfig holds the effect chain setup.
type ChainConfig struct {
	Order         string             `yaml:"order"` // comma-separated kind names
	SubBlockSize  int                `yaml:"sub_block_size"`
	RampMs        *float64           `yaml:"ramp_ms,omitempty"` // nil means the library default
	QueueCapacity int                `yaml:"queue_capacity"`
	Bypass        []string           `yaml:"bypass"`  // kind names
	Params        map[string]float64 `yaml:"params"`  // control ID -> value
	Choices       map[string]string  `yaml:"choices"` // control ID -> choice label
}

// Default returns a configuration that passes Validate unchanged.
func Default() *Config {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}

	return &cfg, nil
}

func decodeStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Options returns the processor options the configuration selects.
func (c *Config) Options() []effectchain.Option {
	opts := []effectchain.Option{
		effectchain.WithSubBlockSize(c.Chain.SubBlockSize),
		effectchain.WithQueueCapacity(c.Chain.QueueCapacity),
	}

	if c.Chain.RampMs != nil {
		opts = append(opts, effectchain.WithRampTime(*c.Chain.RampMs/1000))
	}

	return opts
}

// ProcessSpec returns the processing format.
func (c *Config) ProcessSpec() effectchain.ProcessSpec {
	return effectchain.ProcessSpec{
		SampleRate:   c.Audio.SampleRate,
		MaxBlockSize: c.Audio.BlockSize,
		NumChannels:  c.Audio.Channels,
	}
}

// Order returns the configured stage order, or the default order when none
// is set.
func (c *Config) Order() (effectchain.Order, error) {
	if c.Chain.Order == "" {
		return effectchain.DefaultOrder(), nil
	}

	return effectchain.ParseOrder(c.Chain.Order)
}
