// Package pkg provides the core libraries for landforge terrain synthesis.
//
// # Overview
//
// Landforge grows a terrain height field over a rectangular domain. Sites
// are scattered over the domain and triangulated, each site receives a set
// of geological parameters from layered noise, and elevation is raised
// inland from sea outlets at a rate set by the local erodibility. The pkg
// directory is organized as follows:
//
//  1. [mesh] - Site scattering, Delaunay triangulation and point location
//  2. [noise] - Seeded noise fields and octave layering
//  3. [geology] - Per-site parameters: faults, land mask, outlets, erodibility
//  4. [terrain] - Elevation growth from outlets under a slope limit
//  5. [render] - Rasterization and PNG, JPEG and CSV encoding
//  6. [pipeline] - Orchestration (mesh → synthesize → terrain → render)
//
// Supporting packages:
//
//   - [cache]: File, Redis and MongoDB result caches
//   - [colormap]: Elevation to color tables
//   - [errors]: Coded errors and input validation
//   - [observability]: Pipeline, cache and HTTP hooks
//   - [buildinfo]: Version information
//
// # Architecture
//
// The typical data flow through landforge:
//
//	Options (flags, TOML file or query)
//	         ↓
//	    [mesh] package (sites + triangulation)
//	         ↓
//	    [geology] package (site field)
//	         ↓
//	    [terrain] package (elevations)
//	         ↓
//	    [render] package (PNG/JPEG/CSV)
//
// # Quick Start
//
// Run the whole pipeline with default options:
//
//	opts := pipeline.DefaultOptions()
//	opts.Seed = 42
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("terrain.png", res.Artifact, 0o644)
//
// Or drive the stages individually:
//
//	if err := opts.ValidateAndSetDefaults(); err != nil {
//	    return err
//	}
//	g, _ := pipeline.BuildMesh(ctx, opts)
//	field, _ := pipeline.SynthesizeField(ctx, opts, g)
//	t, _ := pipeline.GenerateTerrain(ctx, opts, g, field)
//	h, ok := t.Elevation(0, 0)
//
// [mesh]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/mesh
// [noise]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/noise
// [geology]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/geology
// [terrain]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/terrain
// [render]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/cache
// [colormap]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/colormap
// [errors]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/landforge/pkg/buildinfo
package pkg
