package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/pipeline"
	"github.com/matzehuels/landforge/pkg/render"
)

// generateFlags holds the generate flags that are not pipeline options.
type generateFlags struct {
	output     string // output file, extension added from the format when missing
	configPath string // TOML config file
	cacheSpec  string // cache location (see cache.Open)
	noCache    bool   // disable caching entirely
	dryRun     bool   // stop after synthesis and print a summary
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a terrain image or elevation grid",
		Long: `Generate a terrain and write it to a file.

Sites are scattered over a domain of the given bound, displaced along noise
driven faults and classified into land and sea. Water drains to the sea
through outlets on the domain boundary, and elevation grows inland from
those outlets at a rate set by the local erodibility.

Options can also come from a TOML file passed with --config. Flags given on
the command line take precedence over the file.

Results are cached locally for faster subsequent runs.`,
		Example: `  landforge generate
  landforge generate -s 42 -i 2048:-1 -f jpeg -o island
  landforge generate --land-ratio 0.3 --fault-scale 60 -c colors.json
  landforge generate --config terrain.toml --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, flags.configPath, &opts); err != nil {
				return err
			}
			if flags.dryRun {
				return c.runDryRun(cmd.Context(), opts, flags)
			}
			return c.runGenerate(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()

	// Domain
	f.StringVarP(&opts.Bound, "bound", "b", opts.Bound, "width and height (W:H) of the bound")
	f.Int64VarP(&opts.Seed, "seed", "s", opts.Seed, "seed of the noise generator")
	f.IntVarP(&opts.Sites, "particle-num", "p", opts.Sites, "number of particles; more particles give finer terrain")
	f.IntVar(&opts.Relaxations, "relaxations", opts.Relaxations, "site relaxation passes (negative disables)")
	f.StringVar(&opts.Noise, "noise", opts.Noise, "noise backend: perlin, simplex")

	// Output
	f.StringVarP(&opts.Colormap, "colormap-json-filename", "c", "", "JSON file of the colormap (default: grayscale)")
	f.StringVarP(&opts.ImageSize, "image-size", "i", opts.ImageSize, "width and height (W:H) of the image; -1 keeps the bound's aspect ratio")
	f.StringVarP(&flags.output, "output-filename", "o", pipeline.DefaultOutput, "file name of the output")
	f.StringVarP(&opts.Format, "output-format", "f", opts.Format, "output format: png, jpeg, csv")
	f.IntVar(&opts.JPEGQuality, "jpeg-quality", opts.JPEGQuality, "JPEG quality (1-100)")
	f.IntVar(&opts.Supersample, "supersample", 0, "render at N times the size and downsample")

	// Advanced
	f.Float64Var(&opts.ErodibilityPower, "erodibility-distribution-power", opts.ErodibilityPower,
		"[advanced] power of the erodibility distribution; larger values favor low erodibility")
	f.Float64Var(&opts.FaultScale, "fault-scale", opts.FaultScale,
		"[advanced] scale of the fault; larger values give virtual faults more effect")
	f.Float64Var(&opts.LandRatio, "land-ratio", opts.LandRatio, "[advanced] approximate ratio of the land area (0.0-1.0)")
	f.BoolVar(&opts.AllBoundaryOutlets, "convex-hull-is-always-outlet", false,
		"[advanced] make every boundary site an outlet")
	f.Float64Var(&opts.MaxSlope, "global-max-slope", opts.MaxSlope,
		"[advanced] maximum slope angle in radians (max: Pi/2); larger values give rougher terrain")

	// Run control
	f.StringVar(&flags.configPath, "config", "", "TOML config file")
	f.StringVar(&flags.cacheSpec, "cache", "", "cache location: directory, redis://, mongodb:// or none (default $"+envCache+")")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	f.BoolVar(&flags.dryRun, "dry-run", false, "synthesize the site field and print a summary without rendering")

	return cmd
}

// runGenerate executes the pipeline and writes the artifact.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, flags generateFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.cacheSpec, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Generating terrain")
	restore := spinner.track()
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	restore()
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	path := outputPath(flags.output, result.Format)
	prog := newProgress(logger)
	if err := writeArtifact(path, result.Artifact); err != nil {
		return err
	}
	prog.done("wrote " + path)

	printSuccess("Generated terrain")
	printStats(result.Stats, result.CacheInfo)
	printFile(path)
	if result.Stats.FallbackUsed {
		printWarning("No boundary site qualified as an outlet; the first one was used")
	}
	if result.Stats.Unreached > 0 {
		printWarning("%d sites could not drain to an outlet", result.Stats.Unreached)
	}
	return nil
}

// runDryRun synthesizes the site field and prints a summary.
func (c *CLI) runDryRun(ctx context.Context, opts pipeline.Options, flags generateFlags) error {
	runner, err := c.newRunner(ctx, flags.cacheSpec, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()
	opts.Logger = loggerFromContext(ctx)

	syn, err := runner.Synthesize(ctx, opts)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	w, h := opts.ImageSizePx()

	fmt.Println(StyleTitle.Render("Terrain parameters"))
	printKeyValue("bound", opts.Bound)
	printKeyValue("image", fmt.Sprintf("%dx%d %s", w, h, opts.Format))
	printKeyValue("sites", fmt.Sprint(len(syn.Field.Outlets)))
	printKeyValue("outlets", fmt.Sprint(syn.Field.OutletCount()))
	printKeyValue("candidates", fmt.Sprint(syn.Field.CandidateCount()))
	printKeyValue("fallback", fmt.Sprint(syn.Field.FallbackUsed))
	printKeyValue("cached", fmt.Sprint(syn.CacheHit))
	return nil
}

// outputPath appends the format's extension when name has none.
func outputPath(name, format string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + render.Extension(format)
}

func writeArtifact(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
