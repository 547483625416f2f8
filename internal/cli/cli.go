// Package cli implements the branchpalette command-line interface.
//
// # Commands
//
//   - generate: build the directory and write pages, data, sitemap and diagram
//   - serve: preview a generated output root over HTTP
//   - browse: explore a published directory in an interactive terminal UI
//   - lookup: print one branch, category or site from a published directory
//   - cache: inspect or clear the document cache
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers log-backed observability hooks.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/buildinfo"
	"github.com/branchpalette/branchpalette/pkg/cache"
	"github.com/branchpalette/branchpalette/pkg/client"
	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "branchpalette"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes
// pipeline, cache and HTTP events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Branch Palette generates a static Branch → Category → Site directory",
		Long: `Branch Palette builds a seeded three-level directory of branches, categories
and sites, then writes static HTML pages, JSON data files, a sitemap and
per-site meta records ready for any static host.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the document cache")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the config file named by --config (or the default file).
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// openCache returns the configured document cache. Without an explicit
// location the per-user file cache is used; --no-cache disables caching.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	location := cfg.Client.CacheURL
	if location == "" {
		dir, err := cache.DefaultDir()
		if err != nil {
			c.Logger.Warn("no user cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		location = dir
	}
	return cache.Open(ctx, location)
}

// newLoader builds a directory loader backed by the configured cache.
// The caller closes the returned cache.
func (c *CLI) newLoader(ctx context.Context, cfg *config.Config) (*client.Loader, cache.Cache, error) {
	bc, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("document cache", "backend", cache.Describe(bc))
	loader := client.NewLoader(client.Options{
		Cache:      bc,
		Logger:     c.Logger,
		StaleAfter: cfg.Client.StaleAfter,
	})
	return loader, bc, nil
}

// dataURL resolves where browse and lookup fetch the document from: the
// --url flag, then client.data_url, then the configured site itself.
func dataURL(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Client.DataURL != "" {
		return cfg.Client.DataURL
	}
	return directory.Absolute(cfg.Site.BaseURL, directory.NewPaths(cfg.Site.BasePath).Base+config.DefaultDataPath)
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
