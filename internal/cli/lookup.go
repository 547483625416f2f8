package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/client"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
)

func (c *CLI) lookupCommand() *cobra.Command {
	var (
		url    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <branchId>[/<categoryId>[/<siteId>]]",
		Short: "Print a branch, category or site from a published directory",
		Long: `Fetch the directory document and print one entity.

The document is fetched from --url, client.data_url, or <base_url><base_path>/data/directory.json
in that order. A local file path works too.`,
		Example: `  branchpalette lookup branch-1
  branchpalette lookup branch-1/branch-1-category-2/branch-1-category-2-site-3 --json
  branchpalette lookup branch-3 --url dist/data/directory.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := client.ParseRef(args[0])
			if err != nil {
				return err
			}
			return c.runLookup(cmd.Context(), ref, url, asJSON)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "document URL or path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entity as JSON")

	return cmd
}

func (c *CLI) runLookup(ctx context.Context, ref client.Ref, url string, asJSON bool) error {
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
	spinner := newSpinnerWithContext(ctx, "Loading directory...")
	spinner.Start()
	prog := newProgress(c.Logger)
	d, err := loader.Load(ctx, src)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Directory unavailable")
		if errors.Is(err, errors.ErrCodeFetch) {
			printDetail("%s", errors.UserMessage(err))
		}
		return err
	}
	spinner.Stop()
	prog.done("loaded " + src)

	n, err := client.Resolve(d, ref)
	if err != nil {
		return err
	}

	if asJSON {
		return bpio.WriteJSON(entity(d, n), os.Stdout)
	}
	printNode(d, n)
	return nil
}

// entity returns the value printed by --json: the entity itself, with its
// children listed for branches and categories.
func entity(d *directory.Directory, n directory.Node) any {
	switch n.Kind {
	case directory.KindBranch:
		return struct {
			directory.Branch
			Categories []directory.Category `json:"categories"`
		}{n.Branch, d.Categories(n.Branch.ID)}
	case directory.KindCategory:
		return struct {
			directory.Category
			Sites []directory.Site `json:"sites"`
		}{n.Category, d.Sites(n.Branch.ID, n.Category.ID)}
	}
	return n.Site
}

func printNode(d *directory.Directory, n directory.Node) {
	switch n.Kind {
	case directory.KindBranch:
		b := n.Branch
		fmt.Println(StyleTitle.Render(b.Name))
		printKeyValue("id", b.ID)
		printKeyValue("slug", b.Slug)
		printKeyValue("description", b.Description)
		printKeyValue("categories", strconv.Itoa(b.CategoryCount))
		for _, cat := range d.Categories(b.ID) {
			printDetail("%s  %s", cat.ID, cat.Name)
		}
	case directory.KindCategory:
		cat := n.Category
		fmt.Println(StyleTitle.Render(cat.Name))
		printKeyValue("id", cat.ID)
		printKeyValue("branch", n.Branch.Name)
		printKeyValue("slug", cat.Slug)
		printKeyValue("description", cat.Description)
		printKeyValue("sites", strconv.Itoa(cat.SiteCount))
		for _, s := range d.Sites(n.Branch.ID, cat.ID) {
			printDetail("%s  %s", s.ID, s.Name)
		}
	case directory.KindSite:
		s := n.Site
		fmt.Println(StyleTitle.Render(s.Name))
		printKeyValue("id", s.ID)
		printKeyValue("category", n.Category.Name)
		printKeyValue("branch", n.Branch.Name)
		printKeyValue("tagline", s.Tagline)
		printKeyValue("url", s.URL)
		printKeyValue("rating", fmt.Sprintf("%.1f (%d reviews)", s.Rating, s.Reviews))
		printKeyValue("pricing", s.Pricing)
		printKeyValue("tags", strings.Join(s.Tags, ", "))
		if m := s.Metadata; m != nil {
			printKeyValue("version", m.Version)
			printKeyValue("updated", m.LastUpdated)
			printKeyValue("license", m.License)
			printKeyValue("platform", m.Platform)
		}
	}
}
