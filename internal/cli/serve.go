package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/client"
	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/emit"
	"github.com/branchpalette/branchpalette/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		dir      string
		addr     string
		basePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview a generated site over HTTP",
		Long: `Serve a generated output directory with a small JSON API on top:

  GET /healthz                         liveness probe
  GET /api/directory                   the generated document
  GET /api/branches/{id}               a branch and its categories
  GET /api/branches/{id}/categories/{id}
  GET /api/search?q=...

Pages are served under the configured base path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Output.Dir
			}
			if !cmd.Flags().Changed("base-path") {
				basePath = cfg.Site.BasePath
			}
			return c.runServe(cmd.Context(), dir, addr, basePath)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", config.DefaultOutputDir, "generated output directory")
	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultListenAddr, "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "path prefix pages were generated with")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir, addr, basePath string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a generated site; run '%s generate' first", dir, appName)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(emit.DocumentFile))); err != nil {
		printWarning("%s has no %s; API routes will report the directory unavailable", dir, emit.DocumentFile)
	}

	h := server.New(dir, server.Options{
		BasePath: basePath,
		Logger:   c.Logger,
		// Short staleness so a regenerate shows up without a restart.
		Loader: client.NewLoader(client.Options{Logger: c.Logger, StaleAfter: 2 * time.Second}),
	})

	printInfo("Serving %s", StyleHighlight.Render(dir))
	printDetail("pages  %s", StyleLink.Render(localURL(addr)+directory.NewPaths(basePath).Home()))
	printDetail("api    %s", StyleLink.Render(localURL(addr)+"/api/directory"))
	printDetail("press Ctrl+C to stop")

	err := server.Run(ctx, addr, h, c.Logger)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// localURL turns a listen address into a browsable origin.
func localURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
