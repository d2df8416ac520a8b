package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/landforge/pkg/cache"
)

// cacheCommand creates the cache management command. It operates on the
// local file cache only; Redis and MongoDB entries expire through their
// own TTLs.
func (c *CLI) cacheCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "cache directory (default: ~/.cache/"+appName+")")

	cmd.AddCommand(c.cacheInfoCommand(&dir))
	cmd.AddCommand(c.cachePruneCommand(&dir))
	cmd.AddCommand(c.cacheClearCommand(&dir))
	cmd.AddCommand(c.cachePathCommand(&dir))

	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, path, err := openFileCache(*dir)
			if err != nil || fc == nil {
				return err
			}
			stats, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			fmt.Println(StyleTitle.Render("Cache"))
			printKeyValue("directory", path)
			printKeyValue("entries", fmt.Sprint(stats.Entries))
			printKeyValue("expired", fmt.Sprint(stats.Expired))
			printKeyValue("size", formatBytes(stats.Bytes))
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, path, err := openFileCache(*dir)
			if err != nil || fc == nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			n, err := fc.Prune()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			prog.done("pruned cache")

			printSuccess("Pruned %d cached entries", n)
			printDetail("Directory: %s", path)
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, path, err := openFileCache(*dir)
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", path)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveCacheDir(*dir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

// resolveCacheDir returns dir, or the default cache directory when empty.
func resolveCacheDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	d, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return d, nil
}

// openFileCache opens the file cache in dir. A missing directory yields a
// nil cache and an informational message rather than creating it.
func openFileCache(dir string) (*cache.FileCache, string, error) {
	path, err := resolveCacheDir(dir)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, path, nil
	}
	fc, err := cache.NewFileCache(path)
	if err != nil {
		return nil, path, err
	}
	return fc, path, nil
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
