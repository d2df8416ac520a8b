// Package terrain turns per-site geological parameters into an elevation
// field over a mesh.
//
// The model is a steady-state stream-power approximation. Every site drains
// to a receiver on the cheapest path toward an outlet, drainage area
// accumulates downstream, and the equilibrium slope of each site follows
//
//	slope = (U / (k · A^m))^(1/n)
//
// where U is the uplift rate, k the site erodibility and A its drainage
// area. Elevations are integrated upstream from the outlets, which stay at
// zero. Slopes are capped at tan(MaxSlope).
//
// A [Terrain] answers elevation queries anywhere inside the mesh hull by
// barycentric interpolation between sites.
package terrain
