package mesh

import (
	"context"
	"math"
	"math/rand"

	"github.com/matzehuels/landforge/pkg/errors"
)

// DefaultRelaxations is the number of centroid relaxation passes applied
// when BuildOptions.Relaxations is zero.
const DefaultRelaxations = 10

// BuildOptions configures [Build].
type BuildOptions struct {
	Bounds Bounds
	Count  int   // number of interior sites; must be > 0
	Seed   int64 // seed for site placement

	// Relaxations is the number of centroid relaxation passes. Zero selects
	// DefaultRelaxations; a negative value disables relaxation.
	Relaxations int

	// EdgeSpacing is the distance between perimeter sites. Zero derives it
	// from the mean interior spacing, sqrt(area / Count).
	EdgeSpacing float64
}

// Build scatters opts.Count seeded random sites over opts.Bounds, relaxes
// them, appends perimeter sites flagged as boundary and triangulates the
// result. Interior sites come first in the returned graph, followed by the
// boundary sites in counterclockwise order starting at (MinX, MinY).
//
// Build checks ctx between relaxation passes.
func Build(ctx context.Context, opts BuildOptions) (*Graph, error) {
	b := opts.Bounds
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if opts.Count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "site count must be positive (got %d)", opts.Count)
	}
	relaxations := opts.Relaxations
	if relaxations == 0 {
		relaxations = DefaultRelaxations
	}
	spacing := opts.EdgeSpacing
	if spacing <= 0 {
		spacing = math.Sqrt(b.Area() / float64(opts.Count))
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	sites := make([]Site, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		sites = append(sites, Site{
			X: b.MinX + rng.Float64()*b.Width(),
			Y: b.MinY + rng.Float64()*b.Height(),
		})
	}
	sites = append(sites, perimeter(b, spacing)...)

	for pass := 0; pass < relaxations; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := relax(b, sites); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(b, sites)
}

// perimeter returns sites spaced about spacing apart along the edge of b,
// counterclockwise from the (MinX, MinY) corner. Each corner appears once.
func perimeter(b Bounds, spacing float64) []Site {
	nx := max(1, int(math.Ceil(b.Width()/spacing)))
	ny := max(1, int(math.Ceil(b.Height()/spacing)))

	out := make([]Site, 0, 2*(nx+ny))
	for i := 0; i < nx; i++ {
		out = append(out, Site{X: b.MinX + b.Width()*float64(i)/float64(nx), Y: b.MinY, Boundary: true})
	}
	for j := 0; j < ny; j++ {
		out = append(out, Site{X: b.MaxX, Y: b.MinY + b.Height()*float64(j)/float64(ny), Boundary: true})
	}
	for i := nx; i > 0; i-- {
		out = append(out, Site{X: b.MinX + b.Width()*float64(i)/float64(nx), Y: b.MaxY, Boundary: true})
	}
	for j := ny; j > 0; j-- {
		out = append(out, Site{X: b.MinX, Y: b.MinY + b.Height()*float64(j)/float64(ny), Boundary: true})
	}
	return out
}

// relax moves every interior site to the area-weighted mean of the
// centroids of its incident triangles. Boundary sites stay fixed, which
// keeps the interior spread up to the domain edge.
func relax(b Bounds, sites []Site) error {
	tris, err := triangulate(sites)
	if err != nil {
		return err
	}

	sumX := make([]float64, len(sites))
	sumY := make([]float64, len(sites))
	weight := make([]float64, len(sites))
	for _, t := range tris {
		p, q, r := sites[t[0]], sites[t[1]], sites[t[2]]
		area := math.Abs((q.X-p.X)*(r.Y-p.Y)-(r.X-p.X)*(q.Y-p.Y)) / 2
		cx, cy := (p.X+q.X+r.X)/3, (p.Y+q.Y+r.Y)/3
		for _, i := range t {
			sumX[i] += cx * area
			sumY[i] += cy * area
			weight[i] += area
		}
	}

	for i := range sites {
		if sites[i].Boundary || weight[i] == 0 {
			continue
		}
		sites[i].X, sites[i].Y = b.clamp(sumX[i]/weight[i], sumY[i]/weight[i])
	}
	return nil
}
