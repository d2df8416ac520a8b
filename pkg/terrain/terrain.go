package terrain

import (
	"container/heap"
	"context"
	"math"

	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/mesh"
)

// Default model constants.
const (
	DefaultUplift        = 1.0
	DefaultAreaExponent  = 0.5
	DefaultSlopeExponent = 1.0
	DefaultMaxSlope      = 1.57 // radians
)

// SiteParams are the per-site inputs of the model.
type SiteParams struct {
	Erodibility float64
	IsOutlet    bool
}

// Generator holds the model constants. Zero fields take the defaults.
type Generator struct {
	Uplift        float64 // U
	AreaExponent  float64 // m
	SlopeExponent float64 // n
	MaxSlope      float64 // radians, in (0, π/2]
}

func (g Generator) withDefaults() Generator {
	if g.Uplift == 0 {
		g.Uplift = DefaultUplift
	}
	if g.AreaExponent == 0 {
		g.AreaExponent = DefaultAreaExponent
	}
	if g.SlopeExponent == 0 {
		g.SlopeExponent = DefaultSlopeExponent
	}
	if g.MaxSlope == 0 {
		g.MaxSlope = DefaultMaxSlope
	}
	return g
}

// Validate checks the generator constants after defaults are applied.
func (g Generator) Validate() error {
	g = g.withDefaults()
	if g.Uplift < 0 || g.AreaExponent < 0 || g.SlopeExponent <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"uplift and area exponent must be non-negative and slope exponent positive")
	}
	if g.MaxSlope <= 0 || g.MaxSlope > math.Pi/2 {
		return errors.New(errors.ErrCodeInvalidInput, "max slope must be in (0, π/2] radians (got %g)", g.MaxSlope)
	}
	return nil
}

// Terrain is a generated elevation field. It is immutable and safe for
// concurrent queries.
type Terrain struct {
	graph      *mesh.Graph
	locator    *mesh.Locator
	elevations []float64
	receivers  []int
	area       []float64
	maxElev    float64
	unreached  int
}

// Generate computes the elevation of every site of graph.
//
// params must have one entry per site and at least one outlet. Sites that
// cannot reach an outlet through the graph keep elevation 0 and have no
// receiver.
func (g Generator) Generate(ctx context.Context, graph *mesh.Graph, params []SiteParams) (*Terrain, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g = g.withDefaults()

	n := graph.Len()
	if len(params) != n {
		return nil, errors.New(errors.ErrCodeTerrainFailed,
			"got parameters for %d sites, mesh has %d", len(params), n)
	}
	if len(graph.Triangles()) == 0 {
		return nil, errors.New(errors.ErrCodeTerrainFailed, "mesh has no triangles")
	}
	for i, p := range params {
		if !(p.Erodibility > 0) || math.IsInf(p.Erodibility, 0) {
			return nil, errors.New(errors.ErrCodeTerrainFailed, "site %d has invalid erodibility %g", i, p.Erodibility)
		}
	}

	receivers, order := drainage(graph, params)
	if len(order) == 0 || !params[order[0]].IsOutlet {
		return nil, errors.New(errors.ErrCodeTerrainFailed, "no outlet sites")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Each site stands for an equal share of the domain.
	cell := graph.Bounds().Area() / float64(n)
	area := make([]float64, n)
	for _, i := range order {
		area[i] = cell
	}
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		if r := receivers[i]; r != i {
			area[r] += area[i]
		}
	}

	maxSlope := math.Tan(g.MaxSlope)
	elev := make([]float64, n)
	var maxElev float64
	for _, i := range order {
		r := receivers[i]
		if r == i {
			continue
		}
		k := params[i].Erodibility
		slope := math.Pow(g.Uplift/(k*math.Pow(area[i], g.AreaExponent)), 1/g.SlopeExponent)
		elev[i] = elev[r] + graph.Distance(i, r)*math.Min(slope, maxSlope)
		maxElev = math.Max(maxElev, elev[i])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Terrain{
		graph:      graph,
		locator:    graph.Locator(),
		elevations: elev,
		receivers:  receivers,
		area:       area,
		maxElev:    maxElev,
		unreached:  n - len(order),
	}, nil
}

// Elevation returns the interpolated elevation at (x, y). ok is false when
// the point lies outside the mesh hull.
func (t *Terrain) Elevation(x, y float64) (float64, bool) {
	return t.locator.Interpolate(t.elevations, x, y)
}

// Elevations returns the per-site elevations. The slice must not be modified.
func (t *Terrain) Elevations() []float64 { return t.elevations }

// Receivers returns, per site, the index it drains into. Outlets drain into
// themselves; unreached sites have -1.
func (t *Terrain) Receivers() []int { return t.receivers }

// DrainageArea returns the accumulated upstream area per site.
func (t *Terrain) DrainageArea() []float64 { return t.area }

// MaxElevation returns the highest site elevation.
func (t *Terrain) MaxElevation() float64 { return t.maxElev }

// Unreached returns the number of sites with no path to an outlet.
func (t *Terrain) Unreached() int { return t.unreached }

// Graph returns the mesh the terrain was generated on.
func (t *Terrain) Graph() *mesh.Graph { return t.graph }

// drainage runs a multi-source Dijkstra from every outlet. It returns the
// receiver of each site and the sites in settling order, outlets first.
func drainage(graph *mesh.Graph, params []SiteParams) ([]int, []int) {
	n := graph.Len()
	dist := make([]float64, n)
	receivers := make([]int, n)
	settled := make([]bool, n)
	q := &queue{}

	for i := range dist {
		dist[i] = math.Inf(1)
		receivers[i] = -1
		if params[i].IsOutlet {
			dist[i] = 0
			receivers[i] = i
			heap.Push(q, item{site: i})
		}
	}

	order := make([]int, 0, n)
	for q.Len() > 0 {
		it := heap.Pop(q).(item)
		i := it.site
		if settled[i] {
			continue
		}
		settled[i] = true
		order = append(order, i)

		for _, j := range graph.Neighbors(i) {
			if settled[j] || params[j].IsOutlet {
				continue
			}
			if d := dist[i] + graph.Distance(i, j); d < dist[j] {
				dist[j] = d
				receivers[j] = i
				heap.Push(q, item{site: j, dist: d})
			}
		}
	}
	return receivers, order
}

type item struct {
	site int
	dist float64
}

// queue is a min-heap on distance, ties broken by site index.
type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(a, b int) bool {
	if q[a].dist != q[b].dist {
		return q[a].dist < q[b].dist
	}
	return q[a].site < q[b].site
}
func (q queue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }
func (q *queue) Push(x any)   { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}
