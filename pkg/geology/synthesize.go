package geology

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/landforge/pkg/mesh"
)

// chunkSize is the number of sites evaluated per goroutine task.
const chunkSize = 1024

// Field is the per-site output of [Synthesize]. All slices are indexed like
// the input sites and must not be modified.
type Field struct {
	Outlets      []bool
	Erodibility  []float64
	Candidates   []bool
	FallbackUsed bool
}

// OutletCount returns the number of outlet sites.
func (f *Field) OutletCount() int {
	return PropagateResult{Outlets: f.Outlets}.Count()
}

// CandidateCount returns the number of candidate outlet sites.
func (f *Field) CandidateCount() int {
	n := 0
	for _, c := range f.Candidates {
		if c {
			n++
		}
	}
	return n
}

// SynthesizeOptions tunes [Synthesize].
type SynthesizeOptions struct {
	PropagateOptions

	// Workers bounds the number of concurrent evaluation goroutines.
	// Zero uses GOMAXPROCS.
	Workers int
}

// Synthesize evaluates fault displacement, outlet classification and
// erodibility for every site, then propagates outlets over adj.
//
// The per-site work runs concurrently in chunks; each chunk writes to its
// own index range. Propagation runs once, after all chunks finish.
// Synthesize returns ctx.Err() if ctx is canceled before the per-site stage
// completes.
func Synthesize(ctx context.Context, p Params, sites []mesh.Site, adj Adjacency, opts SynthesizeOptions) (*Field, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	candidates := make([]bool, len(sites))
	erodibility := make([]float64, len(sites))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(sites); start += chunkSize {
		start := start
		end := min(start+chunkSize, len(sites))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				x, y := Displace(p, sites[i].X, sites[i].Y)
				candidates[i] = Sample(p, x, y).IsCandidateOutlet(p.LandBias)
				erodibility[i] = ErodibilityAt(p, x, y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := Propagate(sites, adj, candidates, opts.PropagateOptions)
	if err != nil {
		return nil, err
	}

	return &Field{
		Outlets:      res.Outlets,
		Erodibility:  erodibility,
		Candidates:   candidates,
		FallbackUsed: res.FallbackUsed,
	}, nil
}
