package noise

import (
	"math"
	"sort"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/landforge/pkg/errors"
)

// Backend names accepted by New.
const (
	KindPerlin  = "perlin"
	KindSimplex = "simplex"
)

// DefaultKind is the backend used when none is configured.
const DefaultKind = KindPerlin

// Field is a single-octave coherent noise function.
//
// Eval must return a value in [-1, 1] and must be deterministic and free of
// side effects for a fixed seed, so that a Field can be shared across
// goroutines without synchronization.
type Field interface {
	Eval(x, y float64) float64
}

// FieldFunc adapts an ordinary function to the Field interface.
// It is mostly useful in tests.
type FieldFunc func(x, y float64) float64

// Eval calls f(x, y).
func (f FieldFunc) Eval(x, y float64) float64 { return f(x, y) }

// Perlin is gradient noise backed by aquilax/go-perlin.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin creates a Perlin field for seed.
// The generator runs a single iteration; octaves are layered by Octaved.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 1, seed)}
}

// Eval returns the noise value at (x, y), clamped into [-1, 1].
func (f *Perlin) Eval(x, y float64) float64 {
	return clamp(f.p.Noise2D(x, y))
}

// Simplex is OpenSimplex noise backed by ojrac/opensimplex-go.
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex creates an OpenSimplex field for seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

// Eval returns the noise value at (x, y), clamped into [-1, 1].
func (f *Simplex) Eval(x, y float64) float64 {
	return clamp(f.n.Eval2(x, y))
}

var constructors = map[string]func(int64) Field{
	KindPerlin:  func(seed int64) Field { return NewPerlin(seed) },
	KindSimplex: func(seed int64) Field { return NewSimplex(seed) },
}

// Kinds returns the sorted list of supported backend names.
func Kinds() []string {
	kinds := make([]string, 0, len(constructors))
	for k := range constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New creates a field of the named kind. An empty kind selects DefaultKind.
func New(kind string, seed int64) (Field, error) {
	if kind == "" {
		kind = DefaultKind
	}
	ctor, ok := constructors[strings.ToLower(kind)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown noise kind: %q (must be one of: %s)", kind, strings.Join(Kinds(), ", "))
	}
	return ctor(seed), nil
}

// ValidateKind checks that kind names a supported backend.
func ValidateKind(kind string) error {
	_, err := New(kind, 0)
	return err
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
