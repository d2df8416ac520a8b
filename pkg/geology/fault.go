package geology

import (
	"math"

	"github.com/matzehuels/landforge/pkg/noise"
)

const faultScale = 100.0

var (
	faultModulus   = noise.OctaveSpec{Octaves: 3, Persistence: 0.5, Lacunarity: 2.0}
	faultDirection = noise.OctaveSpec{Octaves: 4, Persistence: 0.6, Lacunarity: 2.2}
)

// Fault returns the displacement vector at (x, y).
//
// The direction channels are sampled at coordinates shifted by the domain
// size in opposite directions so they decorrelate. Both are scaled by the
// fault modulus, which is proportional to p.FaultScale; a zero fault scale
// yields no displacement.
func Fault(p Params, x, y float64) (dx, dy float64) {
	modulus := math.Abs(noise.Octaved(p.Noise, x/faultScale, y/faultScale, faultModulus)) * 2 * p.FaultScale
	dirX := noise.Octaved(p.Noise, (x+p.BoundWidth)/faultScale, (y+p.BoundHeight)/faultScale, faultDirection) * 2
	dirY := noise.Octaved(p.Noise, (x-p.BoundWidth)/faultScale, (y-p.BoundHeight)/faultScale, faultDirection) * 2
	return dirX * modulus, dirY * modulus
}

// Displace returns (x, y) moved by [Fault].
func Displace(p Params, x, y float64) (float64, float64) {
	dx, dy := Fault(p, x, y)
	return x + dx, y + dy
}
