package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/directory"
)

func (c *CLI) browseCommand() *cobra.Command {
	var (
		url     string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore a published directory interactively",
		Long: `Open an interactive browser over a published directory document.

Walk branches, categories and sites with the arrow keys, press / to filter
the current level by name, description or tag. If the document cannot be
fetched the browser shows it as unavailable and r retries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), url, refresh)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "document URL or path")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached copies of the document")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, url string, refresh bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	loader, bc, err := c.newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer bc.Close()

	src := dataURL(url, cfg)
	if refresh {
		if err := loader.Invalidate(ctx, src); err != nil {
			c.Logger.Warn("could not drop cached document", "err", err)
		}
	}

	model := NewBrowseModel(src, func() (*directory.Directory, error) {
		return loader.Load(ctx, src)
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
