package geology

import (
	"math"

	"github.com/matzehuels/landforge/pkg/noise"
)

const erodibilityScale = 75.0

var erodibilitySpec = noise.OctaveSpec{Octaves: 5, Persistence: 0.7, Lacunarity: 2.2}

// ErodibilityFromNoise maps a noise sample n to an erodibility value
// |1 − 2n|^power · 0.5 + 0.1.
//
// The base |1 − 2n| saturates at 1, so the result stays within [0.1, 0.6]
// for every n in [-1, 1] and power >= 0. This departs from the unclamped
// formula, which reaches 3^power · 0.5 + 0.1 at n = -1: every sample with
// n <= 0 maps to exactly 0.6, so roughly half of all sites share the
// maximum erodibility. Only n in (0, 1] follows the plain formula, where
// larger powers push more sites toward 0.1.
func ErodibilityFromNoise(n, power float64) float64 {
	base := math.Min(math.Abs(1-2*n), 1)
	return math.Pow(base, power)*0.5 + 0.1
}

// ErodibilityAt samples erodibility at an already displaced coordinate.
func ErodibilityAt(p Params, x, y float64) float64 {
	n := noise.Octaved(p.Noise, x/erodibilityScale, y/erodibilityScale, erodibilitySpec)
	return ErodibilityFromNoise(n, p.ErodibilityPower)
}

// Erodibility displaces (x, y) and samples erodibility there.
func Erodibility(p Params, x, y float64) float64 {
	dx, dy := Displace(p, x, y)
	return ErodibilityAt(p, dx, dy)
}
