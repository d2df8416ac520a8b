package geology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/landforge/pkg/mesh"
	"github.com/matzehuels/landforge/pkg/noise"
)

func buildGraph(t *testing.T, count int, seed int64) *mesh.Graph {
	t.Helper()
	g, err := mesh.Build(context.Background(), mesh.BuildOptions{
		Bounds: mesh.Centered(100, 100),
		Count:  count,
		Seed:   seed,
	})
	require.NoError(t, err)
	return g
}

func TestSynthesizeDeterministic(t *testing.T) {
	run := func() *Field {
		g := buildGraph(t, 500, 0)
		p, err := NewParams(noise.NewPerlin(0), 100, 100, 0, DefaultErodibilityPower, 0.6)
		require.NoError(t, err)
		f, err := Synthesize(context.Background(), p, g.Sites(), g, SynthesizeOptions{})
		require.NoError(t, err)
		return f
	}

	a, b := run(), run()
	assert.Equal(t, a.Outlets, b.Outlets)
	assert.Equal(t, a.Erodibility, b.Erodibility)
	assert.Equal(t, a.Candidates, b.Candidates)
	assert.GreaterOrEqual(t, a.OutletCount(), 1)
}

func TestSynthesizeMatchesSequential(t *testing.T) {
	g := buildGraph(t, 3000, 5)
	p, err := NewParams(noise.NewSimplex(5), 100, 100, DefaultFaultScale, DefaultErodibilityPower, DefaultLandRatio)
	require.NoError(t, err)

	f, err := Synthesize(context.Background(), p, g.Sites(), g, SynthesizeOptions{Workers: 4})
	require.NoError(t, err)

	for i, s := range g.Sites() {
		require.Equal(t, Classify(p, s.X, s.Y), f.Candidates[i], "site %d", i)
		require.Equal(t, Erodibility(p, s.X, s.Y), f.Erodibility[i], "site %d", i)
		if f.Outlets[i] && !f.FallbackUsed {
			require.True(t, f.Candidates[i] || s.Boundary, "outlet %d is not a candidate", i)
		}
	}
}

func TestSynthesizeOutletsReachBoundary(t *testing.T) {
	g := buildGraph(t, 800, 9)
	p, err := NewParams(noise.NewPerlin(9), 100, 100, DefaultFaultScale, DefaultErodibilityPower, 0.3)
	require.NoError(t, err)

	f, err := Synthesize(context.Background(), p, g.Sites(), g, SynthesizeOptions{})
	require.NoError(t, err)
	if f.FallbackUsed {
		t.Skip("seed produced no boundary candidates")
	}

	// Every outlet is connected to a boundary outlet through outlets.
	seen := make([]bool, g.Len())
	var stack []int
	for i, s := range g.Sites() {
		if s.Boundary && f.Outlets[i] {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		for _, j := range g.Neighbors(i) {
			if f.Outlets[j] {
				stack = append(stack, j)
			}
		}
	}
	for i := range seen {
		assert.Equal(t, f.Outlets[i], seen[i], "site %d", i)
	}
}

func TestSynthesizeCanceled(t *testing.T) {
	g := buildGraph(t, 100, 1)
	p, err := NewParams(noise.NewPerlin(1), 100, 100, 0, 4, 0.5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Synthesize(ctx, p, g.Sites(), g, SynthesizeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
