package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

type processBlockFn func(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64)

type kernel struct {
	name string
	fn   processBlockFn
}

var (
	genericKernel   = kernel{name: "generic", fn: processBlockGeneric}
	unrolled4Kernel = kernel{name: "unrolled4", fn: processBlockUnrolled4}
)

var (
	selectedKernel *kernel
	kernelOnce     sync.Once
)

func blockKernel() *kernel {
	kernelOnce.Do(func() {
		selectedKernel = lookupKernel(cpu.DetectFeatures())
	})

	return selectedKernel
}

// lookupKernel picks the unrolled kernel on CPUs wide enough to profit
// from it and the plain loop otherwise.
func lookupKernel(features cpu.Features) *kernel {
	switch {
	case features.ForceGeneric:
		return &genericKernel
	case features.HasAVX2, features.HasNEON:
		return &unrolled4Kernel
	default:
		return &genericKernel
	}
}

// KernelName returns the name of the block kernel selected for this CPU.
func KernelName() string {
	return blockKernel().name
}

func processBlockGeneric(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}

// processBlockUnrolled4 keeps the recursion in registers across four
// samples per iteration, which wide out-of-order cores schedule better.
func processBlockUnrolled4(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)

	for ; i+3 < n; i += 4 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		d0 = b1*x0 - a1*y0 + d1
		d1 = b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + d0
		d0 = b1*x1 - a1*y1 + d1
		d1 = b2*x1 - a2*y1

		x2 := buf[i+2]
		y2 := b0*x2 + d0
		d0 = b1*x2 - a1*y2 + d1
		d1 = b2*x2 - a2*y2

		x3 := buf[i+3]
		y3 := b0*x3 + d0
		d0 = b1*x3 - a1*y3 + d1
		d1 = b2*x3 - a2*y3

		buf[i] = y0
		buf[i+1] = y1
		buf[i+2] = y2
		buf[i+3] = y3
	}

	for ; i < n; i++ {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}
