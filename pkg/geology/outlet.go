package geology

import (
	"math"

	"github.com/matzehuels/landforge/pkg/noise"
)

const (
	plateScale     = 50.0
	continentScale = 200.0
)

var (
	persistenceSpec = noise.OctaveSpec{Octaves: 2, Persistence: 0.5, Lacunarity: 2.0}
	continentSpec   = noise.OctaveSpec{Octaves: 3, Persistence: 0.5, Lacunarity: 1.8}
)

// Signals holds the three noise signals that decide a site's class.
type Signals struct {
	Persistence float64 // in [0.3, 1.0]; drives the plate octave falloff
	Plate       float64
	Continent   float64
}

// Sample evaluates the signals at an already displaced coordinate.
func Sample(p Params, x, y float64) Signals {
	var s Signals
	s.Persistence = math.Abs(noise.Octaved(p.Noise, x/plateScale, y/plateScale, persistenceSpec))*0.7 + 0.3
	plate := noise.OctaveSpec{Octaves: 8, Persistence: s.Persistence, Lacunarity: 2.4}
	s.Plate = noise.Octaved(p.Noise, x/plateScale, y/plateScale, plate)*0.5 + 0.5
	s.Continent = noise.Octaved(p.Noise, x/continentScale, y/continentScale, continentSpec)*0.7 + 0.5
	return s
}

// IsCandidateOutlet reports whether the signals classify the site as ocean
// under the given land bias.
func (s Signals) IsCandidateOutlet(landBias float64) bool {
	return s.Plate > s.Continent-landBias
}

// Classify displaces (x, y) and reports whether the site is a candidate
// outlet.
func Classify(p Params, x, y float64) bool {
	dx, dy := Displace(p, x, y)
	return Sample(p, dx, dy).IsCandidateOutlet(p.LandBias)
}
