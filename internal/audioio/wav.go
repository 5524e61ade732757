// Package audioio reads and writes planar float audio as PCM WAV files.
package audioio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

// ErrUnsupported is returned for WAV data this package cannot represent.
var ErrUnsupported = errors.New("audioio: unsupported wav")

// Clip is planar audio in [-1, 1].
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NewClip returns a silent clip.
func NewClip(sampleRate, bitDepth, channels, frames int) *Clip {
	c := &Clip{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   make([][]float64, channels),
	}

	for ch := range c.Channels {
		c.Channels[ch] = make([]float64, frames)
	}

	return c
}

// Frames returns the length of the shortest channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}

	n := len(c.Channels[0])
	for _, ch := range c.Channels[1:] {
		n = min(n, len(ch))
	}

	return n
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audioio: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes integer PCM WAV data.
func Read(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrUnsupported)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audioio: decode: %w", err)
	}

	if d.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupported, d.WavAudioFormat)
	}

	depth := int(d.BitDepth)
	if !validDepth(depth) {
		return nil, fmt.Errorf("%w: %d-bit", ErrUnsupported, depth)
	}

	nch := buf.Format.NumChannels
	if nch < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, nch)
	}

	clip := NewClip(buf.Format.SampleRate, depth, nch, len(buf.Data)/nch)
	scale := 1 / fullScale(depth)

	for i, v := range buf.Data[:clip.Frames()*nch] {
		clip.Channels[i%nch][i/nch] = float64(v) * scale
	}

	return clip, nil
}

// WriteFile encodes c to a new file at path.
func WriteFile(path string, c *Clip) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audioio: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audioio: %w", cerr)
		}
	}()

	return Write(f, c)
}

// Write encodes c as integer PCM. Samples outside [-1, 1] are clipped.
func Write(w io.WriteSeeker, c *Clip) error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupported, c.SampleRate)
	}

	if err := CheckBitDepth(c.BitDepth); err != nil {
		return err
	}

	nch := len(c.Channels)
	if nch < 1 {
		return fmt.Errorf("%w: no channels", ErrUnsupported)
	}

	frames := c.Frames()
	scale := fullScale(c.BitDepth)
	data := make([]int, frames*nch)

	for ch, samples := range c.Channels {
		for i, x := range samples[:frames] {
			data[i*nch+ch] = quantize(x, scale)
		}
	}

	enc := wav.NewEncoder(w, c.SampleRate, c.BitDepth, nch, pcmFormat)

	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: c.BitDepth,
	})
	if err != nil {
		return fmt.Errorf("audioio: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audioio: finalize: %w", err)
	}

	return nil
}

// CheckBitDepth reports whether Write can encode bits-deep PCM.
func CheckBitDepth(bits int) error {
	if !validDepth(bits) {
		return fmt.Errorf("%w: %d-bit", ErrUnsupported, bits)
	}

	return nil
}

func validDepth(bits int) bool {
	return bits == 16 || bits == 24 || bits == 32
}

func fullScale(bits int) float64 {
	return float64(int64(1) << (bits - 1))
}

func quantize(x, scale float64) int {
	if math.IsNaN(x) {
		return 0
	}

	v := math.Round(x * scale)

	return int(min(max(v, -scale), scale-1))
}
