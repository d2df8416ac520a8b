package terrain

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/mesh"
)

func buildMesh(t *testing.T) *mesh.Graph {
	t.Helper()
	g, err := mesh.Build(context.Background(), mesh.BuildOptions{
		Bounds: mesh.Centered(100, 100),
		Count:  400,
		Seed:   3,
	})
	require.NoError(t, err)
	return g
}

func boundaryOutlets(g *mesh.Graph, erodibility float64) []SiteParams {
	params := make([]SiteParams, g.Len())
	for i, s := range g.Sites() {
		params[i] = SiteParams{Erodibility: erodibility, IsOutlet: s.Boundary}
	}
	return params
}

func TestGenerate(t *testing.T) {
	g := buildMesh(t)
	params := boundaryOutlets(g, 0.3)

	tr, err := Generator{}.Generate(context.Background(), g, params)
	require.NoError(t, err)

	elev := tr.Elevations()
	recv := tr.Receivers()
	require.Len(t, elev, g.Len())
	assert.Zero(t, tr.Unreached())
	assert.Greater(t, tr.MaxElevation(), 0.0)

	for i, p := range params {
		if p.IsOutlet {
			assert.Zero(t, elev[i], "outlet %d", i)
			assert.Equal(t, i, recv[i])
			continue
		}
		r := recv[i]
		require.NotEqual(t, -1, r)
		assert.Contains(t, g.Neighbors(i), r)
		// Water flows downhill.
		assert.Greater(t, elev[i], elev[r], "site %d above receiver %d", i, r)
		assert.Greater(t, tr.DrainageArea()[r], tr.DrainageArea()[i])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := buildMesh(t)
	params := boundaryOutlets(g, 0.2)
	a, err := Generator{}.Generate(context.Background(), g, params)
	require.NoError(t, err)
	b, err := Generator{}.Generate(context.Background(), g, params)
	require.NoError(t, err)
	assert.Equal(t, a.Elevations(), b.Elevations())
}

func TestErodibilityLowersTerrain(t *testing.T) {
	g := buildMesh(t)
	soft, err := Generator{}.Generate(context.Background(), g, boundaryOutlets(g, 0.6))
	require.NoError(t, err)
	hard, err := Generator{}.Generate(context.Background(), g, boundaryOutlets(g, 0.1))
	require.NoError(t, err)
	assert.Less(t, soft.MaxElevation(), hard.MaxElevation())
}

func TestMaxSlopeCapsElevation(t *testing.T) {
	g := buildMesh(t)
	params := boundaryOutlets(g, 0.1)
	flat, err := Generator{MaxSlope: 0.01}.Generate(context.Background(), g, params)
	require.NoError(t, err)

	for i, r := range flat.Receivers() {
		if r == i {
			continue
		}
		rise := flat.Elevations()[i] - flat.Elevations()[r]
		assert.LessOrEqual(t, rise, g.Distance(i, r)*math.Tan(0.01)+1e-12)
	}
}

func TestElevationQuery(t *testing.T) {
	g := buildMesh(t)
	tr, err := Generator{}.Generate(context.Background(), g, boundaryOutlets(g, 0.3))
	require.NoError(t, err)

	// Querying exactly at a site returns its own elevation.
	for i, s := range g.Sites()[:50] {
		h, ok := tr.Elevation(s.X, s.Y)
		require.True(t, ok)
		assert.InDelta(t, tr.Elevations()[i], h, 1e-6)
	}

	h, ok := tr.Elevation(0, 0)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, h, 0.0)

	_, ok = tr.Elevation(60, 0)
	assert.False(t, ok, "point outside the domain")
}

func TestGenerateErrors(t *testing.T) {
	g := buildMesh(t)
	ctx := context.Background()

	_, err := Generator{}.Generate(ctx, g, boundaryOutlets(g, 0.3)[:10])
	assert.True(t, errors.Is(err, errors.ErrCodeTerrainFailed), "length mismatch: %v", err)

	noOutlet := make([]SiteParams, g.Len())
	for i := range noOutlet {
		noOutlet[i].Erodibility = 0.3
	}
	_, err = Generator{}.Generate(ctx, g, noOutlet)
	assert.True(t, errors.Is(err, errors.ErrCodeTerrainFailed), "no outlet: %v", err)

	zero := boundaryOutlets(g, 0)
	_, err = Generator{}.Generate(ctx, g, zero)
	assert.True(t, errors.Is(err, errors.ErrCodeTerrainFailed), "zero erodibility: %v", err)

	_, err = Generator{MaxSlope: 2}.Generate(ctx, g, boundaryOutlets(g, 0.3))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "max slope: %v", err)
}

func TestGenerateSmallMesh(t *testing.T) {
	sites := []mesh.Site{
		{X: 0, Y: 0, Boundary: true},
		{X: 1, Y: 0, Boundary: true},
		{X: 0, Y: 1, Boundary: true},
		{X: 1, Y: 1},
	}
	g, err := mesh.New(mesh.Bounds{MaxX: 1, MaxY: 1}, sites)
	require.NoError(t, err)

	params := []SiteParams{
		{Erodibility: 0.3, IsOutlet: true},
		{Erodibility: 0.3},
		{Erodibility: 0.3},
		{Erodibility: 0.3},
	}
	tr, err := Generator{}.Generate(context.Background(), g, params)
	require.NoError(t, err)
	assert.Zero(t, tr.Unreached())
	assert.Equal(t, 0, tr.Receivers()[0])
}
