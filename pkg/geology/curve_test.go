package geology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurveEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, Curve(0))
	assert.Equal(t, 1.0, Curve(1))
	assert.InDelta(t, 0.5, Curve(0.5), 1e-15)
}

func TestCurveMonotonic(t *testing.T) {
	prev := Curve(0)
	for i := 1; i <= 1000; i++ {
		v := Curve(float64(i) / 1000)
		assert.Greater(t, v, prev, "Curve not increasing at t=%v", float64(i)/1000)
		prev = v
	}
}

func TestInverseCurveRoundTrip(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		y := float64(i) / 1000
		got := Curve(InverseCurve(y))
		assert.InDelta(t, y, got, 1e-9, "Curve(InverseCurve(%v))", y)
	}
}

func TestInverseCurveRange(t *testing.T) {
	assert.InDelta(t, 0, InverseCurve(0), 1e-12)
	assert.InDelta(t, 1, InverseCurve(1), 1e-12)
	assert.InDelta(t, 0.5, InverseCurve(0.5), 1e-12)
}

func TestLandBias(t *testing.T) {
	tests := []struct {
		ratio float64
		want  float64
	}{
		{0.5, 0},
		{0, 0.5},
		{1, -0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, LandBias(tt.ratio), 1e-12, "LandBias(%v)", tt.ratio)
	}

	// More land means a smaller (more negative) bias.
	assert.Less(t, LandBias(0.8), LandBias(0.6))
	assert.False(t, math.IsNaN(LandBias(0.6)))
}
