package noise

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewKinds(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"", false},
		{"perlin", false},
		{"simplex", false},
		{"Simplex", false},
		{"worley", true},
	}

	for _, tt := range tests {
		f, err := New(tt.kind, 7)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			continue
		}
		if err == nil && f == nil {
			t.Errorf("New(%q) returned nil field", tt.kind)
		}
	}
}

func TestFieldsDeterministic(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			a, _ := New(kind, 42)
			b, _ := New(kind, 42)
			for i := 0; i < 100; i++ {
				x, y := float64(i)*0.37, float64(i)*-0.91
				if a.Eval(x, y) != b.Eval(x, y) {
					t.Fatalf("Eval(%v, %v) differs between fields with the same seed", x, y)
				}
			}
		})
	}
}

func TestFieldsBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			f, _ := New(kind, 3)
			for i := 0; i < 2000; i++ {
				x, y := rng.Float64()*200-100, rng.Float64()*200-100
				v := f.Eval(x, y)
				if math.IsNaN(v) || v < -1 || v > 1 {
					t.Fatalf("Eval(%v, %v) = %v, want value in [-1, 1]", x, y, v)
				}
			}
		})
	}
}

func TestOctavedSingleOctaveIsRawSample(t *testing.T) {
	f := NewPerlin(5)
	spec := OctaveSpec{Octaves: 1, Persistence: 0.5, Lacunarity: 2}
	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.13+0.05, float64(i)*0.29-3
		if got, want := Octaved(f, x, y, spec), f.Eval(x, y); got != want {
			t.Errorf("Octaved(1 octave) = %v, want raw sample %v", got, want)
		}
	}
}

func TestOctavedZeroOctaves(t *testing.T) {
	f := FieldFunc(func(x, y float64) float64 { return 1 })
	for _, n := range []int{0, -3} {
		if got := Octaved(f, 1, 1, OctaveSpec{Octaves: n, Persistence: 0.5, Lacunarity: 2}); got != 0 {
			t.Errorf("Octaved(%d octaves) = %v, want 0", n, got)
		}
	}
}

func TestOctavedNormalization(t *testing.T) {
	// A constant field must come back unchanged whatever the octave mix.
	f := FieldFunc(func(x, y float64) float64 { return -0.75 })
	got := Octaved(f, 3, 4, OctaveSpec{Octaves: 6, Persistence: 0.7, Lacunarity: 2.2})
	if math.Abs(got+0.75) > 1e-12 {
		t.Errorf("Octaved(constant) = %v, want -0.75", got)
	}
}

func TestOctavedFrequencies(t *testing.T) {
	var xs []float64
	f := FieldFunc(func(x, y float64) float64 {
		xs = append(xs, x)
		return 0
	})
	Octaved(f, 1, 0, OctaveSpec{Octaves: 3, Persistence: 0.5, Lacunarity: 3})
	want := []float64{1, 3, 9}
	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("octave %d sampled at x=%v, want %v", i, xs[i], want[i])
		}
	}
}

func TestOctavedBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	f := NewPerlin(11)
	for i := 0; i < 1000; i++ {
		spec := OctaveSpec{
			Octaves:     1 + rng.Intn(8),
			Persistence: rng.Float64(),
			Lacunarity:  1 + rng.Float64()*2,
		}
		x, y := rng.Float64()*1000-500, rng.Float64()*1000-500
		v := Octaved(f, x, y, spec)
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Fatalf("Octaved(%v, %v, %+v) = %v, want value in [-1, 1]", x, y, spec, v)
		}
	}
}
