package noise

// OctaveSpec controls how single-octave samples are layered.
type OctaveSpec struct {
	Octaves     int     // number of samples summed; <= 0 yields 0
	Persistence float64 // amplitude multiplier between octaves
	Lacunarity  float64 // frequency multiplier between octaves
}

// Octaved sums spec.Octaves samples of f at (x, y) and normalizes by the
// total amplitude:
//
//	sum_i f(x*freq_i, y*freq_i) * amp_i / sum_i amp_i
//
// with amp_0 = freq_0 = 1, amp_{i+1} = amp_i * Persistence and
// freq_{i+1} = freq_i * Lacunarity. The result lies in [-1, 1] whenever f
// does and Persistence >= 0. A spec with no octaves returns 0.
//
// f is only queried, never advanced, so Octaved is deterministic.
func Octaved(f Field, x, y float64, spec OctaveSpec) float64 {
	if spec.Octaves <= 0 {
		return 0
	}

	var value, total float64
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < spec.Octaves; i++ {
		value += f.Eval(x*frequency, y*frequency) * amplitude
		total += amplitude
		amplitude *= spec.Persistence
		frequency *= spec.Lacunarity
	}
	return value / total
}
