package effects

import (
	"fmt"
	"math"
)

const (
	// MinOverdriveDrive is the lowest accepted drive; at 1 the curve is a
	// gentle soft clip.
	MinOverdriveDrive = 1.0
	// MaxOverdriveDrive is the highest accepted drive.
	MaxOverdriveDrive = 100.0
)

// Overdrive is a memoryless tanh saturator normalised so that a full-scale
// input maps to full-scale output:
//
//	y = tanh(drive * x) / tanh(drive)
type Overdrive struct {
	drive float64
	norm  float64
}

// NewOverdrive creates a saturator with the given drive in [1, 100].
func NewOverdrive(drive float64) (*Overdrive, error) {
	o := &Overdrive{}
	if err := o.SetDrive(drive); err != nil {
		return nil, err
	}

	return o, nil
}

// SetDrive updates the drive amount in [1, 100].
func (o *Overdrive) SetDrive(drive float64) error {
	if drive < MinOverdriveDrive || drive > MaxOverdriveDrive || math.IsNaN(drive) {
		return fmt.Errorf("overdrive drive must be in [%g, %g]: %f", MinOverdriveDrive, MaxOverdriveDrive, drive)
	}

	if drive == o.drive {
		return nil
	}

	o.drive = drive
	o.norm = 1 / mathTanh(drive)

	return nil
}

// Drive returns the drive amount.
func (o *Overdrive) Drive() float64 { return o.drive }

// ProcessSample processes one sample.
func (o *Overdrive) ProcessSample(x float64) float64 {
	return mathTanh(o.drive*x) * o.norm
}

// ProcessInPlace applies saturation to buf in place.
func (o *Overdrive) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = mathTanh(o.drive*x) * o.norm
	}
}
