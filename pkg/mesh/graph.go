package mesh

import (
	"math"
	"slices"
	"sync"

	"github.com/fogleman/delaunay"

	"github.com/matzehuels/landforge/pkg/errors"
)

// Site is a sample point of the mesh.
//
// Boundary marks sites placed on the domain perimeter. Outlet propagation
// starts from boundary sites, so the flag is part of the site rather than
// an index convention.
type Site struct {
	X, Y     float64
	Boundary bool
}

// Graph is a triangulated set of sites with symmetric adjacency.
//
// A Graph is immutable once built and safe for concurrent readers.
type Graph struct {
	bounds    Bounds
	sites     []Site
	neighbors [][]int
	triangles [][3]int
	boundary  int

	locOnce sync.Once
	loc     *Locator
}

// New triangulates sites and derives their adjacency.
//
// The sites slice is copied. New fails with a MESH_FAILED error when the
// points admit no triangulation (fewer than three points, or all collinear).
func New(bounds Bounds, sites []Site) (*Graph, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if len(sites) < 3 {
		return nil, errors.New(errors.ErrCodeMeshFailed,
			"at least 3 sites are required to triangulate (got %d)", len(sites))
	}

	tris, err := triangulate(sites)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		bounds:    bounds,
		sites:     slices.Clone(sites),
		triangles: tris,
	}
	for _, s := range sites {
		if s.Boundary {
			g.boundary++
		}
	}
	g.neighbors = adjacency(len(sites), tris)
	return g, nil
}

// Bounds returns the domain the graph was built over.
func (g *Graph) Bounds() Bounds { return g.bounds }

// Len returns the number of sites.
func (g *Graph) Len() int { return len(g.sites) }

// Sites returns the sites in index order. The slice must not be modified.
func (g *Graph) Sites() []Site { return g.sites }

// Site returns the site at index i.
func (g *Graph) Site(i int) Site { return g.sites[i] }

// Neighbors returns the sorted indices adjacent to site i.
// The slice must not be modified.
func (g *Graph) Neighbors(i int) []int { return g.neighbors[i] }

// Triangles returns the triangulation as site index triples.
func (g *Graph) Triangles() [][3]int { return g.triangles }

// BoundaryCount returns the number of sites flagged as boundary.
func (g *Graph) BoundaryCount() int { return g.boundary }

// Distance returns the Euclidean distance between sites i and j.
func (g *Graph) Distance(i, j int) float64 {
	a, b := g.sites[i], g.sites[j]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Locator returns the point-location index for the graph, building it on
// first use.
func (g *Graph) Locator() *Locator {
	g.locOnce.Do(func() {
		g.loc = newLocator(g.sites, g.triangles)
	})
	return g.loc
}

func triangulate(sites []Site) ([][3]int, error) {
	points := make([]delaunay.Point, len(sites))
	for i, s := range sites {
		points[i] = delaunay.Point{X: s.X, Y: s.Y}
	}

	t, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeshFailed, err, "triangulate %d sites", len(sites))
	}
	if len(t.Triangles) == 0 {
		return nil, errors.New(errors.ErrCodeMeshFailed, "triangulation of %d sites is empty", len(sites))
	}

	tris := make([][3]int, len(t.Triangles)/3)
	for i := range tris {
		tris[i] = [3]int{t.Triangles[3*i], t.Triangles[3*i+1], t.Triangles[3*i+2]}
	}
	return tris, nil
}

func adjacency(n int, tris [][3]int) [][]int {
	neighbors := make([][]int, n)
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			neighbors[a] = append(neighbors[a], b)
			neighbors[b] = append(neighbors[b], a)
		}
	}
	for i, ns := range neighbors {
		slices.Sort(ns)
		neighbors[i] = slices.Compact(ns)
	}
	return neighbors
}
