package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/diagram"
	"github.com/branchpalette/branchpalette/pkg/emit"
	"github.com/branchpalette/branchpalette/pkg/errors"
	"github.com/branchpalette/branchpalette/pkg/pipeline"
	"github.com/branchpalette/branchpalette/pkg/seo"
)

// generateFlags are overrides applied on top of the loaded configuration.
// Only flags the user actually set take effect.
type generateFlags struct {
	out          string
	seed         int64
	branches     int
	categories   int
	sites        int
	baseURL      string
	basePath     string
	title        string
	targets      string
	strict       bool
	diagram      bool
	diagramSites bool
	noMeta       bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate pages, data files and sitemap",
		Long: `Generate the full static site into the output directory.

The output directory is cleared first, then receives:

  index.html, branches/...        one HTML page per branch, category and site
  data/directory.json             the flat JSON document (plus generated.ts,
                                  branches/<slug>.json and sites.json by target)
  sitemap.xml, robots.txt         search engine files
  meta/<siteId>.json              per-site meta records (disable with --no-meta)
  hierarchy.dot, hierarchy.svg    with --diagram

Settings come from branchpalette.toml and BRANCHPALETTE_* environment
variables; flags override both.`,
		Example: `  branchpalette generate
  branchpalette generate --branches 2 --categories 1 --sites 2 --out /tmp/bp
  branchpalette generate --base-url https://me.github.io --base-path /branch-palette`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.out, "out", "o", "", "output directory (default "+config.DefaultOutputDir+")")
	flags.Int64Var(&f.seed, "seed", 0, "random seed for ratings, reviews and versions")
	flags.IntVar(&f.branches, "branches", 0, "number of branches")
	flags.IntVar(&f.categories, "categories", 0, "categories per branch")
	flags.IntVar(&f.sites, "sites", 0, "sites per category")
	flags.StringVar(&f.baseURL, "base-url", "", "origin pages are served from, for canonical links and the sitemap")
	flags.StringVar(&f.basePath, "base-path", "", "path prefix for every link, e.g. /branch-palette")
	flags.StringVar(&f.title, "title", "", "site title")
	flags.StringVar(&f.targets, "targets", "", "data targets: json, ts, nested, sites (comma-separated)")
	flags.BoolVar(&f.strict, "strict", false, "fail on sibling slug collisions instead of suffixing them")
	flags.BoolVar(&f.diagram, "diagram", false, "also draw the hierarchy as DOT/SVG")
	flags.BoolVar(&f.diagramSites, "diagram-sites", false, "include sites in the diagram")
	flags.BoolVar(&f.noMeta, "no-meta", false, "skip per-site meta files")

	return cmd
}

// apply copies every changed flag onto cfg and revalidates it.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("out") {
		cfg.Output.Dir = f.out
	}
	// Zero means "use the default" everywhere else, so an explicit zero is
	// refused here rather than silently replaced.
	if changed("seed") {
		if f.seed == 0 {
			return errors.New(errors.ErrCodeConfig, "--seed must be non-zero")
		}
		cfg.Generation.Seed = f.seed
	}
	for _, c := range []struct {
		flag string
		val  int
		dst  *int
	}{
		{"branches", f.branches, &cfg.Generation.BranchCount},
		{"categories", f.categories, &cfg.Generation.CategoriesPerBranch},
		{"sites", f.sites, &cfg.Generation.SitesPerCategory},
	} {
		if !changed(c.flag) {
			continue
		}
		if c.val < 1 {
			return errors.New(errors.ErrCodeConfig, "--%s must be at least 1", c.flag)
		}
		*c.dst = c.val
	}
	if changed("base-url") {
		cfg.Site.BaseURL = f.baseURL
	}
	if changed("base-path") {
		cfg.Site.BasePath = f.basePath
	}
	if changed("title") {
		cfg.Site.Title = f.title
	}
	if changed("targets") {
		cfg.Output.Targets = splitList(f.targets)
	}
	if changed("strict") {
		cfg.Generation.StrictSlugs = f.strict
	}
	if changed("diagram") {
		cfg.Output.Diagram = f.diagram
	}
	if changed("diagram-sites") {
		cfg.Output.DiagramSites = f.diagramSites
		cfg.Output.Diagram = cfg.Output.Diagram || f.diagramSites
	}
	if changed("no-meta") {
		meta := !f.noMeta
		cfg.Output.Meta = &meta
	}
	return cfg.Validate()
}

func (c *CLI) runGenerate(ctx context.Context, cfg *config.Config) error {
	runner := pipeline.NewRunner(c.Logger)
	res, err := runner.Generate(ctx, pipeline.FromConfig(cfg))
	if err != nil {
		return err
	}

	out := cfg.Output.Dir
	printSuccess("Generated %s", StyleHighlight.Render(out))
	printStats(
		statCount{res.Stats.Branches, "branches"},
		statCount{res.Stats.Categories, "categories"},
		statCount{res.Stats.Sites, "sites"},
		statCount{res.Pages, "pages"},
	)
	printDetail("dataset %s in %s", res.DatasetID, res.Stats.Total().Round(time.Millisecond))

	for _, f := range summaryFiles(res.Files) {
		printFile(filepath.Join(out, filepath.FromSlash(f)))
	}
	if res.MetaFiles > 0 {
		printDetail("%d meta files in %s", res.MetaFiles, filepath.Join(out, seo.MetaDir))
	}
	if n := len(res.Collisions); n > 0 {
		printWarning("%d slug collisions were disambiguated (use --strict to fail instead)", n)
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	printNewline()
	printNextStep("Preview", fmt.Sprintf("%s serve --dir %s", appName, out))
	return nil
}

// summaryFiles picks the top-level artifacts worth listing; per-page and
// per-branch files are summarized by the stats line instead.
func summaryFiles(files []string) []string {
	keep := []string{
		emit.DocumentFile, emit.SourceFile, emit.SitesFile,
		seo.SitemapFile, seo.RobotsFile,
		diagram.DOTFile, diagram.SVGFile,
	}
	var out []string
	for _, f := range files {
		if slices.Contains(keep, f) {
			out = append(out, f)
		}
	}
	return out
}
