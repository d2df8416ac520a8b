// Package mesh builds the irregular site graph that terrain is synthesized on.
//
// # Overview
//
// A [Graph] is a set of [Site] values scattered over a rectangular [Bounds]
// and connected by a Delaunay triangulation. Sites are the unit of work for
// every per-site computation in landforge: geological signals are sampled at
// each site, outlets are propagated along graph edges and the terrain model
// assigns an elevation per site.
//
// # Building
//
// [Build] places [BuildOptions.Count] seeded random interior sites, spreads
// them out with a few passes of centroid relaxation and rings the domain
// with evenly spaced perimeter sites:
//
//	g, err := mesh.Build(ctx, mesh.BuildOptions{
//	    Bounds: mesh.Centered(100, 100),
//	    Count:  50000,
//	    Seed:   0,
//	})
//
// Perimeter sites carry an explicit [Site.Boundary] flag. Nothing in the
// package relies on where boundary sites sit in the index order, so callers
// should test the flag rather than compare indices.
//
// The triangulation is computed with github.com/fogleman/delaunay.
// Adjacency is derived from triangle edges and is undirected, free of
// self-loops and sorted.
//
// # Point Location
//
// [Graph.Locator] returns a [Locator], a uniform grid over the triangles,
// used to find the triangle containing a point and to interpolate per-site
// values with barycentric weights. Points outside the triangulated hull have
// no value.
package mesh
