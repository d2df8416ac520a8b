// Package pipeline provides the terrain generation pipeline for landforge.
//
// This package implements the complete mesh → synthesize → terrain → render
// pipeline shared by the CLI and the HTTP API. Both entry points build an
// [Options] value, validate it once and hand it to a [Runner].
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Mesh: Scatter, relax and triangulate the sites of the domain
//  2. Synthesize: Evaluate fault displacement, outlets and erodibility per site
//  3. Terrain: Grow elevations inward from the outlets
//  4. Render: Rasterize the elevation field into PNG, JPEG or CSV
//
// The synthesized field and the rendered artifact are both cached. A run
// with the same options returns the cached artifact without touching the
// mesh.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Seed = 7
//	opts.Format = "jpeg"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("terrain.jpg", result.Artifact, 0o644)
//
// Run the synthesis stage only:
//
//	syn, err := runner.Synthesize(ctx, opts)
//	fmt.Println(syn.Field.OutletCount())
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/landforge/pkg/cache"
	"github.com/matzehuels/landforge/pkg/colormap"
	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/geology"
	"github.com/matzehuels/landforge/pkg/mesh"
	"github.com/matzehuels/landforge/pkg/noise"
	"github.com/matzehuels/landforge/pkg/render"
	"github.com/matzehuels/landforge/pkg/terrain"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultBound is the domain size as "W:H". The domain is centered on
	// the origin.
	DefaultBound = "100.0:100.0"

	// DefaultImageSize is the output size as "W:H". A side of -1 is derived
	// from the bound's aspect ratio.
	DefaultImageSize = "1024:-1"

	// DefaultSites is the number of interior mesh sites.
	DefaultSites = 50000

	// DefaultFormat is the default output format.
	DefaultFormat = render.FormatPNG

	// DefaultOutput is the default output file name without extension.
	DefaultOutput = "terrain"
)

// DefaultOptions returns Options populated with every default.
//
// FaultScale, ErodibilityPower and LandRatio accept zero as a real value,
// so callers that build Options field by field should start from here
// rather than from the zero value.
func DefaultOptions() Options {
	return Options{
		Bound:            DefaultBound,
		Sites:            DefaultSites,
		Relaxations:      mesh.DefaultRelaxations,
		Noise:            noise.DefaultKind,
		FaultScale:       geology.DefaultFaultScale,
		ErodibilityPower: geology.DefaultErodibilityPower,
		LandRatio:        geology.DefaultLandRatio,
		MaxSlope:         terrain.DefaultMaxSlope,
		ImageSize:        DefaultImageSize,
		Format:           DefaultFormat,
		JPEGQuality:      render.DefaultJPEGQuality,
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the terrain pipeline.
//
// The same struct is decoded from a TOML config file by the CLI and built
// from query parameters by the API.
type Options struct {
	// Domain
	Bound       string `json:"bound" toml:"bound"`
	Seed        int64  `json:"seed" toml:"seed"`
	Sites       int    `json:"sites,omitempty" toml:"particles"`
	Relaxations int    `json:"relaxations,omitempty" toml:"relaxations"`

	// Geology
	Noise              string  `json:"noise,omitempty" toml:"noise"`
	FaultScale         float64 `json:"fault_scale" toml:"fault_scale"`
	ErodibilityPower   float64 `json:"erodibility_power" toml:"erodibility_power"`
	LandRatio          float64 `json:"land_ratio" toml:"land_ratio"`
	AllBoundaryOutlets bool    `json:"all_boundary_outlets,omitempty" toml:"convex_hull_is_always_outlet"`

	// Terrain
	MaxSlope float64 `json:"max_slope,omitempty" toml:"global_max_slope"`

	// Render
	ImageSize       string           `json:"image_size,omitempty" toml:"image"`
	Colormap        string           `json:"colormap,omitempty" toml:"colormap"`
	ColormapEntries []colormap.Entry `json:"colormap_entries,omitempty" toml:"colormap_entries"`
	Format          string           `json:"format,omitempty" toml:"format"`
	JPEGQuality     int              `json:"jpeg_quality,omitempty" toml:"jpeg_quality"`
	Supersample     int              `json:"supersample,omitempty" toml:"supersample"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"-" toml:"-"`

	// Logger for progress output (optional, uses no-op logger if nil).
	Logger *log.Logger `json:"-" toml:"-"`

	// Derived by ValidateAndSetDefaults.
	boundW, boundH float64
	imageW, imageH int
	cmap           *colormap.ColorMap
	validated      bool
}

// Result contains the output of a pipeline run.
type Result struct {
	RunID    uuid.UUID
	Artifact []byte
	Format   string

	// Field and Terrain are nil when the artifact came from the cache.
	Field   *geology.Field
	Terrain *terrain.Terrain

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats summarizes a pipeline run.
type Stats struct {
	Sites         int
	BoundarySites int
	Outlets       int
	Candidates    int
	FallbackUsed  bool
	Unreached     int
	MaxElevation  float64
	Width, Height int

	MeshTime       time.Duration
	SynthesizeTime time.Duration
	TerrainTime    time.Duration
	RenderTime     time.Duration
}

// CacheInfo reports which cache entries were reused.
type CacheInfo struct {
	FieldHit    bool
	ArtifactHit bool
	FieldKey    string
	ArtifactKey string
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateAndSetDefaults fills defaulted fields, parses the "W:H" pairs,
// derives the image size and loads the colormap.
//
// This method is idempotent: calling it multiple times has no additional effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.setDefaults()

	w, h, err := errors.ParseFloatPair("bound", o.Bound)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "bound must be positive, got %q", o.Bound)
	}
	o.boundW, o.boundH = w, h

	iw, ih, err := errors.ParseOptionalUintPair("image size", o.ImageSize)
	if err != nil {
		return err
	}
	o.imageW, o.imageH, err = ImageDimensions(iw, ih, w, h)
	if err != nil {
		return err
	}

	if o.Sites <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "particle count must be positive, got %d", o.Sites)
	}
	if err := noise.ValidateKind(o.Noise); err != nil {
		return err
	}
	if err := errors.ValidateUnitInterval("land ratio", o.LandRatio); err != nil {
		return err
	}
	if o.ErodibilityPower < 0 || math.IsNaN(o.ErodibilityPower) {
		return errors.New(errors.ErrCodeInvalidConfig, "erodibility power must be non-negative, got %v", o.ErodibilityPower)
	}
	if math.IsNaN(o.FaultScale) || math.IsInf(o.FaultScale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "fault scale must be finite, got %v", o.FaultScale)
	}
	if err := (terrain.Generator{MaxSlope: o.MaxSlope}).Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid max slope")
	}

	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}
	o.Format = render.NormalizeFormat(o.Format)
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "jpeg quality must be within [1, 100], got %d", o.JPEGQuality)
	}
	if o.Supersample < 0 || o.Supersample > render.MaxSupersample {
		return errors.New(errors.ErrCodeInvalidConfig,
			"supersample must be within [0, %d], got %d", render.MaxSupersample, o.Supersample)
	}

	cmap, err := o.loadColormap()
	if err != nil {
		return err
	}
	o.cmap = cmap

	o.validated = true
	return nil
}

func (o *Options) setDefaults() {
	if o.Bound == "" {
		o.Bound = DefaultBound
	}
	if o.ImageSize == "" {
		o.ImageSize = DefaultImageSize
	}
	if o.Sites == 0 {
		o.Sites = DefaultSites
	}
	if o.Noise == "" {
		o.Noise = noise.DefaultKind
	}
	if o.MaxSlope == 0 {
		o.MaxSlope = terrain.DefaultMaxSlope
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = render.DefaultJPEGQuality
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) loadColormap() (*colormap.ColorMap, error) {
	switch {
	case o.Colormap != "":
		if err := errors.ValidatePath(o.Colormap); err != nil {
			return nil, err
		}
		return colormap.Load(o.Colormap)
	case len(o.ColormapEntries) > 0:
		return colormap.New(o.ColormapEntries)
	}
	return colormap.Default(), nil
}

// ImageDimensions resolves an image size where either side may be nil.
//
// A nil side is derived from the other through the bound's aspect ratio.
// Both sides nil, or a side that ends up zero, is an INVALID_CONFIG error.
func ImageDimensions(w, h *uint32, boundW, boundH float64) (int, int, error) {
	var width, height int
	switch {
	case w == nil && h == nil:
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "image width and height cannot both be derived")
	case w == nil:
		height = int(*h)
		width = int(float64(height) * boundW / boundH)
	case h == nil:
		width = int(*w)
		height = int(float64(width) * boundH / boundW)
	default:
		width, height = int(*w), int(*h)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "image size resolves to %dx%d", width, height)
	}
	return width, height, nil
}

// =============================================================================
// Derived Values
// =============================================================================

// Bounds returns the centered domain. Valid after ValidateAndSetDefaults.
func (o *Options) Bounds() mesh.Bounds {
	return mesh.Centered(o.boundW, o.boundH)
}

// ImageSizePx returns the resolved image size in pixels.
// Valid after ValidateAndSetDefaults.
func (o *Options) ImageSizePx() (int, int) {
	return o.imageW, o.imageH
}

// RenderScale returns the factor by which the rasterizer enlarges the
// image before downsampling. Valid after ValidateAndSetDefaults.
func (o *Options) RenderScale() int {
	return max(1, o.Supersample)
}

// ColorMap returns the loaded colormap. Valid after ValidateAndSetDefaults.
func (o *Options) ColorMap() *colormap.ColorMap {
	return o.cmap
}

// FieldKeyOpts returns the options that determine the synthesized field.
func (o *Options) FieldKeyOpts() cache.FieldKeyOpts {
	return cache.FieldKeyOpts{
		BoundWidth:         o.boundW,
		BoundHeight:        o.boundH,
		Seed:               o.Seed,
		Sites:              o.Sites,
		Relaxations:        o.Relaxations,
		Noise:              o.Noise,
		FaultScale:         o.FaultScale,
		ErodibilityPower:   o.ErodibilityPower,
		LandRatio:          o.LandRatio,
		AllBoundaryOutlets: o.AllBoundaryOutlets,
	}
}

// ArtifactKeyOpts returns the render options layered on top of the field.
func (o *Options) ArtifactKeyOpts() (cache.ArtifactKeyOpts, error) {
	cmapHash, err := cache.HashJSON(o.cmap)
	if err != nil {
		return cache.ArtifactKeyOpts{}, fmt.Errorf("hash colormap: %w", err)
	}
	opts := cache.ArtifactKeyOpts{
		MaxSlope:     o.MaxSlope,
		Width:        o.imageW,
		Height:       o.imageH,
		Format:       o.Format,
		Supersample:  o.Supersample,
		ColormapHash: cmapHash,
	}
	if o.Format == render.FormatJPEG {
		opts.JPEGQuality = o.JPEGQuality
	}
	return opts, nil
}

// geologyParams builds the synthesis parameters for the validated options.
func (o *Options) geologyParams() (geology.Params, error) {
	f, err := noise.New(o.Noise, o.Seed)
	if err != nil {
		return geology.Params{}, err
	}
	return geology.NewParams(f, o.boundW, o.boundH, o.FaultScale, o.ErodibilityPower, o.LandRatio)
}
