package geology

import (
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/noise"
)

// Default parameter values.
const (
	DefaultFaultScale       = 35.0
	DefaultErodibilityPower = 4.0
	DefaultLandRatio        = 0.6
)

// Params is the evaluation context shared by every per-site signal.
type Params struct {
	Noise noise.Field

	// BoundWidth and BoundHeight phase-shift the two fault direction samples.
	BoundWidth  float64
	BoundHeight float64

	FaultScale       float64
	ErodibilityPower float64

	// LandBias shifts the plate/continent comparison; see [LandBias].
	LandBias float64
}

// NewParams builds Params for a land ratio in [0, 1].
func NewParams(f noise.Field, width, height, faultScale, erodibilityPower, landRatio float64) (Params, error) {
	if f == nil {
		return Params{}, errors.New(errors.ErrCodeInvalidInput, "noise field is required")
	}
	if err := errors.ValidateUnitInterval("land ratio", landRatio); err != nil {
		return Params{}, err
	}
	return Params{
		Noise:            f,
		BoundWidth:       width,
		BoundHeight:      height,
		FaultScale:       faultScale,
		ErodibilityPower: erodibilityPower,
		LandBias:         LandBias(landRatio),
	}, nil
}
