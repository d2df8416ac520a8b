package render

import (
	"context"
	"image"
	"math"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/landforge/pkg/colormap"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/mesh"
)

// ElevationSource is anything that can be queried for elevation.
// *terrain.Terrain implements it.
type ElevationSource interface {
	Elevation(x, y float64) (float64, bool)
}

// ElevationFunc adapts a function to ElevationSource.
type ElevationFunc func(x, y float64) (float64, bool)

// Elevation calls f(x, y).
func (f ElevationFunc) Elevation(x, y float64) (float64, bool) { return f(x, y) }

// MaxSupersample is the largest accepted supersampling factor.
const MaxSupersample = 8

// Options configures [Rasterize].
type Options struct {
	Width, Height int

	// Supersample renders at Supersample times the size and downsamples
	// with a Lanczos filter. Zero and one disable it; the factor must not
	// exceed MaxSupersample.
	Supersample int

	// Workers bounds the number of rows rendered concurrently.
	// Zero uses GOMAXPROCS.
	Workers int
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"image dimensions must be positive (got %dx%d)", o.Width, o.Height)
	}
	if o.Supersample < 0 || o.Supersample > MaxSupersample {
		return errors.New(errors.ErrCodeInvalidConfig,
			"supersample must be within [0, %d], got %d", MaxSupersample, o.Supersample)
	}
	return nil
}

// PixelCoord returns the domain coordinate sampled by pixel (i, j) of a
// w × h image over b.
func PixelCoord(b mesh.Bounds, w, h, i, j int) (float64, float64) {
	x := b.MinX + b.Width()*((float64(i)+0.5)/(float64(w)+1))
	y := b.MinY + b.Height()*((float64(j)+0.5)/(float64(h)+1))
	return x, y
}

// Rasterize renders src over b with cmap. Pixels with no elevation stay
// transparent.
func Rasterize(ctx context.Context, src ElevationSource, b mesh.Bounds, cmap *colormap.ColorMap, opts Options) (*image.NRGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if cmap == nil {
		cmap = colormap.Default()
	}

	w, h := opts.Width, opts.Height
	if opts.Supersample > 1 {
		w, h = w*opts.Supersample, h*opts.Supersample
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	err := eachRow(ctx, h, opts.Workers, func(j int) {
		row := img.Pix[j*img.Stride : j*img.Stride+4*w]
		for i := 0; i < w; i++ {
			x, y := PixelCoord(b, w, h, i, j)
			e, ok := src.Elevation(x, y)
			if !ok {
				continue
			}
			c := cmap.Color(e)
			row[4*i], row[4*i+1], row[4*i+2], row[4*i+3] = c[0], c[1], c[2], 0xff
		}
	})
	if err != nil {
		return nil, err
	}

	if w != opts.Width {
		return imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos), nil
	}
	return img, nil
}

// Grid is a row-major elevation raster. Missing samples are NaN.
type Grid struct {
	Width, Height int
	Values        []float64
}

// At returns the elevation of pixel (i, j).
func (g *Grid) At(i, j int) float64 { return g.Values[j*g.Width+i] }

// Sample evaluates src on the same pixel grid as [Rasterize], without
// coloring. Supersample is ignored.
func Sample(ctx context.Context, src ElevationSource, b mesh.Bounds, opts Options) (*Grid, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	w, h := opts.Width, opts.Height
	g := &Grid{Width: w, Height: h, Values: make([]float64, w*h)}
	err := eachRow(ctx, h, opts.Workers, func(j int) {
		for i := 0; i < w; i++ {
			x, y := PixelCoord(b, w, h, i, j)
			if e, ok := src.Elevation(x, y); ok {
				g.Values[j*w+i] = e
			} else {
				g.Values[j*w+i] = math.NaN()
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// eachRow calls fn for every row in [0, rows) on a bounded errgroup.
// Rows write disjoint memory, so fn needs no locking.
func eachRow(ctx context.Context, rows, workers int, fn func(j int)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := 0; j < rows; j++ {
		if gctx.Err() != nil {
			break
		}
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
