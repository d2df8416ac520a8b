package geology

import (
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/mesh"
)

// ErrNoOutlet is returned by [Propagate] when the graph has no boundary
// sites, so no site can drain out of the domain.
var ErrNoOutlet = errors.New(errors.ErrCodeNoOutlet, "no outlet could be determined: the site graph has no boundary sites")

// Adjacency is the read-only neighbor view Propagate walks.
// *mesh.Graph implements it.
type Adjacency interface {
	Neighbors(i int) []int
}

// PropagateOptions tunes [Propagate].
type PropagateOptions struct {
	// AllBoundaryOutlets marks every boundary site as an outlet after the
	// flood fill, whether or not it is a candidate.
	AllBoundaryOutlets bool
}

// PropagateResult is the outcome of [Propagate].
type PropagateResult struct {
	Outlets []bool

	// FallbackUsed is true when no candidate was reachable from the
	// boundary and the first boundary site was marked instead.
	FallbackUsed bool
}

// Count returns the number of outlet sites.
func (r PropagateResult) Count() int {
	n := 0
	for _, o := range r.Outlets {
		if o {
			n++
		}
	}
	return n
}

// Propagate marks the candidate sites connected to the domain boundary
// through a chain of candidates.
//
// The fill is seeded with every boundary candidate and walks an explicit
// stack, so its depth does not grow with the site count. Each site is
// marked at most once.
//
// If nothing gets marked and the graph has boundary sites, the boundary
// site with the lowest index becomes the only outlet and FallbackUsed is
// set. If the graph has no boundary sites at all, Propagate returns
// ErrNoOutlet.
func Propagate(sites []mesh.Site, adj Adjacency, candidates []bool, opts PropagateOptions) (PropagateResult, error) {
	if len(candidates) != len(sites) {
		return PropagateResult{}, errors.New(errors.ErrCodeInternal,
			"candidate vector has %d entries for %d sites", len(candidates), len(sites))
	}

	firstBoundary := -1
	var stack []int
	for i, s := range sites {
		if !s.Boundary {
			continue
		}
		if firstBoundary < 0 {
			firstBoundary = i
		}
		if candidates[i] {
			stack = append(stack, i)
		}
	}
	if firstBoundary < 0 {
		return PropagateResult{}, ErrNoOutlet
	}

	outlets := make([]bool, len(sites))
	marked := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if outlets[i] {
			continue
		}
		outlets[i] = true
		marked++
		for _, j := range adj.Neighbors(i) {
			if !outlets[j] && candidates[j] {
				stack = append(stack, j)
			}
		}
	}

	res := PropagateResult{Outlets: outlets}
	if marked == 0 {
		outlets[firstBoundary] = true
		res.FallbackUsed = true
	}
	if opts.AllBoundaryOutlets {
		for i, s := range sites {
			if s.Boundary {
				outlets[i] = true
			}
		}
	}
	return res, nil
}
