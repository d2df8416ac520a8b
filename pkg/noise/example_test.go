package noise_test

import (
	"fmt"

	"github.com/matzehuels/landforge/pkg/noise"
)

func ExampleOctaved() {
	flat := noise.FieldFunc(func(x, y float64) float64 { return 0.5 })

	v := noise.Octaved(flat, 10, 20, noise.OctaveSpec{Octaves: 4, Persistence: 0.5, Lacunarity: 2})
	fmt.Printf("%.2f\n", v)
	// Output: 0.50
}

func ExampleNew() {
	f, err := noise.New("simplex", 0)
	if err != nil {
		panic(err)
	}
	v := f.Eval(0.5, 0.5)
	fmt.Println(v >= -1 && v <= 1)
	// Output: true
}
