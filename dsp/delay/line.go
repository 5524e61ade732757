package delay

import (
	"fmt"
	"math"
)

// MaxSize bounds the buffer length accepted by [New].
const MaxSize = 1 << 24

// Line is a circular delay line with cubic Hermite fractional reads.
//
// The buffer length is a power of two so positions wrap with a mask. A delay
// of 1 reads the most recently written sample.
type Line struct {
	buffer   []float64
	mask     int
	writePos int
}

// New returns a delay line holding at least size samples.
func New(size int) (*Line, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("delay size must be in [1, %d]: %d", MaxSize, size)
	}

	n := 1
	for n < size {
		n <<= 1
	}

	return &Line{buffer: make([]float64, n), mask: n - 1}, nil
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest delay ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos = (d.writePos + 1) & d.mask
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	return d.buffer[(d.writePos-delay)&d.mask]
}

// ReadFractional reads a fractional delay in samples. The delay is clamped to
// [1, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	delay = min(max(delay, 1), d.MaxDelay())

	p := int(delay)
	t := delay - float64(p)

	return hermite4(t, d.Read(max(p-1, 1)), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

// hermite4 interpolates from x0 to x1 using neighbours xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// SamplesFor converts seconds to a whole number of samples, rounding up.
func SamplesFor(seconds, sampleRate float64) int {
	return int(math.Ceil(seconds * sampleRate))
}
