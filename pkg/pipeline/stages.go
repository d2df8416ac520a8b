package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/geology"
	"github.com/matzehuels/landforge/pkg/mesh"
	"github.com/matzehuels/landforge/pkg/observability"
	"github.com/matzehuels/landforge/pkg/render"
	"github.com/matzehuels/landforge/pkg/terrain"
)

// =============================================================================
// Stages
// =============================================================================

// BuildMesh scatters, relaxes and triangulates the sites described by opts.
func BuildMesh(ctx context.Context, opts Options) (*mesh.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return mesh.Build(ctx, mesh.BuildOptions{
		Bounds:      opts.Bounds(),
		Count:       opts.Sites,
		Seed:        opts.Seed,
		Relaxations: opts.Relaxations,
	})
}

// SynthesizeField evaluates the geological signals of every site of g.
func SynthesizeField(ctx context.Context, opts Options, g *mesh.Graph) (*geology.Field, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	p, err := opts.geologyParams()
	if err != nil {
		return nil, err
	}
	return geology.Synthesize(ctx, p, g.Sites(), g, geology.SynthesizeOptions{
		PropagateOptions: geology.PropagateOptions{AllBoundaryOutlets: opts.AllBoundaryOutlets},
	})
}

// GenerateTerrain grows the elevation field of g from a synthesized field.
func GenerateTerrain(ctx context.Context, opts Options, g *mesh.Graph, field *geology.Field) (*terrain.Terrain, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(field.Outlets) != g.Len() || len(field.Erodibility) != g.Len() {
		return nil, errors.New(errors.ErrCodeInternal,
			"field covers %d sites, graph has %d", len(field.Outlets), g.Len())
	}

	params := make([]terrain.SiteParams, g.Len())
	for i := range params {
		params[i] = terrain.SiteParams{
			Erodibility: field.Erodibility[i],
			IsOutlet:    field.Outlets[i],
		}
	}
	return terrain.Generator{MaxSlope: opts.MaxSlope}.Generate(ctx, g, params)
}

// RenderArtifact encodes src in opts.Format at the resolved image size.
func RenderArtifact(ctx context.Context, opts Options, src render.ElevationSource) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	w, h := opts.ImageSizePx()
	ropts := render.Options{Width: w, Height: h, Supersample: opts.Supersample}

	if opts.Format == render.FormatCSV {
		grid, err := render.Sample(ctx, src, opts.Bounds(), ropts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.EncodeCSV(&buf, grid); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	img, err := render.Rasterize(ctx, src, opts.Bounds(), opts.ColorMap(), ropts)
	if err != nil {
		return nil, err
	}
	return render.EncodeImage(img, opts.Format, opts.JPEGQuality)
}

// runStage runs fn between the pipeline start and complete hooks.
func runStage[T any](ctx context.Context, stage string, fn func() (T, error)) (T, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	v, err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, d, err)
	return v, d, err
}
