package host

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
)

const bytesPerSample = 4

// Renderer fills planar channels with the next block of audio. Every channel
// slice has the same length.
type Renderer interface {
	Render(channels [][]float64)
}

// RenderFunc adapts a function to [Renderer].
type RenderFunc func(channels [][]float64)

// Render calls f.
func (f RenderFunc) Render(channels [][]float64) { f(channels) }

// Stream renders blocks on demand and interleaves them as little-endian
// float32 frames. It implements io.Reader for the output device.
type Stream struct {
	src     Renderer
	buf     [][]float64
	view    [][]float64
	nch     int
	frames  atomic.Uint64
	clipped atomic.Uint64
}

// NewStream returns a stream rendering at most blockSize frames per call to
// src.
func NewStream(src Renderer, channels, blockSize int) (*Stream, error) {
	if src == nil {
		return nil, fmt.Errorf("host: nil renderer")
	}

	if channels < 1 {
		return nil, fmt.Errorf("host: channels must be >= 1: %d", channels)
	}

	if blockSize < 1 {
		return nil, fmt.Errorf("host: block size must be >= 1: %d", blockSize)
	}

	s := &Stream{
		src:  src,
		buf:  make([][]float64, channels),
		view: make([][]float64, channels),
		nch:  channels,
	}

	for ch := range s.buf {
		s.buf[ch] = make([]float64, blockSize)
	}

	return s, nil
}

// Channels returns the channel count.
func (s *Stream) Channels() int { return s.nch }

// Frames returns the number of frames rendered so far.
func (s *Stream) Frames() uint64 { return s.frames.Load() }

// Clipped returns the number of samples that exceeded full scale.
func (s *Stream) Clipped() uint64 { return s.clipped.Load() }

// Read fills p with whole frames. Trailing bytes that do not make up a frame
// are left untouched.
func (s *Stream) Read(p []byte) (int, error) {
	frameBytes := s.nch * bytesPerSample
	total := len(p) / frameBytes
	block := len(s.buf[0])

	var clipped uint64

	for done := 0; done < total; {
		n := min(block, total-done)
		for ch := range s.view {
			s.view[ch] = s.buf[ch][:n]
		}

		s.src.Render(s.view)

		off := done * frameBytes
		for i := range n {
			for ch := range s.view {
				x := s.view[ch][i]
				if x > 1 || x < -1 {
					clipped++
					x = min(max(x, -1), 1)
				}

				binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(x)))
				off += bytesPerSample
			}
		}

		done += n
	}

	s.frames.Add(uint64(total))
	s.clipped.Add(clipped)

	return total * frameBytes, nil
}
