package mesh

import (
	"math"

	"github.com/matzehuels/landforge/pkg/errors"
)

// Bounds is an axis-aligned rectangle in domain coordinates.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Centered returns a width × height rectangle centered on the origin.
// This is the domain used by the CLI: a bound of "100:100" covers
// [-50, 50] × [-50, 50].
func Centered(width, height float64) Bounds {
	return Bounds{
		MinX: -width / 2,
		MinY: -height / 2,
		MaxX: width / 2,
		MaxY: height / 2,
	}
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Area returns Width() * Height().
func (b Bounds) Area() float64 { return b.Width() * b.Height() }

// Contains reports whether (x, y) lies inside b, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Validate checks that b is finite and has a positive area.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "bounds must be finite")
		}
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"bounds must have positive width and height (got %gx%g)", b.Width(), b.Height())
	}
	return nil
}

func (b Bounds) clamp(x, y float64) (float64, float64) {
	return math.Max(b.MinX, math.Min(b.MaxX, x)), math.Max(b.MinY, math.Min(b.MaxY, y))
}
