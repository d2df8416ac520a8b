// Package noise provides coherent 2D noise fields and multi-octave synthesis.
//
// # Overview
//
// Every geological signal in landforge (fault displacement, plates,
// continents, erodibility) is derived from a single seeded [Field]. A field
// is a pure function from (x, y) to a value in [-1, 1]; it carries no state
// beyond the seed it was constructed with, so one field can be shared by any
// number of goroutines.
//
// Two backends are available:
//
//   - [NewPerlin]: classic gradient noise (github.com/aquilax/go-perlin)
//   - [NewSimplex]: OpenSimplex noise (github.com/ojrac/opensimplex-go)
//
// [New] selects a backend by name, which is how the CLI and the pipeline
// construct fields.
//
// # Octaves
//
// [Octaved] sums several samples of a field at increasing frequency and
// decreasing amplitude, controlled by an [OctaveSpec]:
//
//	f := noise.NewPerlin(0)
//	v := noise.Octaved(f, x/50, y/50, noise.OctaveSpec{Octaves: 8, Persistence: 0.5, Lacunarity: 2.4})
//
// The sum is normalized by the total amplitude, so the result stays in
// [-1, 1] for any non-negative persistence. A spec with zero (or negative)
// octaves yields 0.
package noise
