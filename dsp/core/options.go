package core

import (
	"fmt"
	"math"
)

// Format describes a planar processing format.
type Format struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// FormatOption mutates a Format.
type FormatOption func(*Format)

// DefaultFormat returns 48 kHz stereo in 512-frame blocks.
func DefaultFormat() Format {
	return Format{
		SampleRate: 48000,
		BlockSize:  512,
		Channels:   2,
	}
}

// WithSampleRate sets the sample rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) FormatOption {
	return func(f *Format) {
		if sampleRate > 0 {
			f.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the block size. Non-positive values are ignored.
func WithBlockSize(blockSize int) FormatOption {
	return func(f *Format) {
		if blockSize > 0 {
			f.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count. Non-positive values are ignored.
func WithChannels(channels int) FormatOption {
	return func(f *Format) {
		if channels > 0 {
			f.Channels = channels
		}
	}
}

// ApplyFormatOptions applies zero or more options to the default format.
func ApplyFormatOptions(opts ...FormatOption) Format {
	f := DefaultFormat()
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}

	return f
}

// Validate reports whether every field is usable.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || math.IsNaN(f.SampleRate) || math.IsInf(f.SampleRate, 0) {
		return fmt.Errorf("core: sample rate must be > 0: %f", f.SampleRate)
	}

	if f.BlockSize < 1 {
		return fmt.Errorf("core: block size must be >= 1: %d", f.BlockSize)
	}

	if f.Channels < 1 {
		return fmt.Errorf("core: channels must be >= 1: %d", f.Channels)
	}

	return nil
}

// Frames converts seconds to frames, rounded to nearest.
func (f Format) Frames(seconds float64) int {
	return int(math.Round(seconds * f.SampleRate))
}
