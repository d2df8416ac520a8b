package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/landforge/internal/api"
	"github.com/matzehuels/landforge/pkg/cache"
	"github.com/matzehuels/landforge/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr      string
	cacheSpec string
	noCache   bool
	maxSites  int
	maxPixels int
	timeout   time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve terrains over HTTP",
		Long: `Run the landforge HTTP API.

Terrains are requested with query parameters named after the TOML config
keys, for example:

  curl 'localhost:8080/v1/terrain?seed=7&image=512:-1' > terrain.png
  curl 'localhost:8080/v1/outlets?seed=7&land_ratio=0.3'

Results are cached under a separate key namespace from the CLI, so a shared
Redis or MongoDB cache can serve both.`,
		Example: `  landforge serve
  landforge serve --addr :9000 --cache redis://localhost:6379/0
  landforge serve --max-sites 50000 --timeout 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.cacheSpec, "cache", "", "cache location: directory, redis://, mongodb:// or none (default $"+envCache+")")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&flags.maxSites, "max-sites", api.DefaultMaxSites, "largest accepted particle count")
	cmd.Flags().IntVar(&flags.maxPixels, "max-pixels", api.DefaultMaxPixels, "largest accepted image area in pixels")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", api.DefaultRunTimeout, "per-request generation timeout")

	return cmd
}

// runServe serves the API until ctx is cancelled, then shuts down
// gracefully.
func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	logger := loggerFromContext(ctx)

	ch, err := openCache(ctx, flags.cacheSpec, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), logger)
	defer runner.Close()

	srv := api.New(runner, api.Config{
		MaxSites:   flags.maxSites,
		MaxPixels:  flags.maxPixels,
		RunTimeout: flags.timeout,
		Logger:     logger,
	})

	httpSrv := &http.Server{
		Addr:              flags.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpSrv.ListenAndServe()
	}()

	printSuccess("Serving on %s", flags.addr)
	logger.Info("server started", "addr", flags.addr, "max_sites", flags.maxSites, "timeout", flags.timeout)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	printInfo("Server stopped")
	return nil
}
