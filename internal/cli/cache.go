package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the document cache",
		Long: `Manage the cache of fetched directory documents used by browse and lookup.

The cache lives in the per-user cache directory unless client.cache_url
(or BRANCHPALETTE_CACHE_URL) points elsewhere, e.g. redis://localhost:6379/0.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	bc, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer bc.Close()

	clearer, ok := bc.(cache.Clearer)
	if _, null := bc.(*cache.NullCache); null || !ok {
		printInfo("Cache is disabled")
		return nil
	}
	if err := clearer.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared cached documents")
	printDetail("%s", cache.Describe(bc))
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where documents are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Client.CacheURL != "" {
				fmt.Println(cfg.Client.CacheURL)
				return nil
			}
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
