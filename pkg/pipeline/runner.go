package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/branchpalette/branchpalette/pkg/diagram"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/emit"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
	"github.com/branchpalette/branchpalette/pkg/observability"
	"github.com/branchpalette/branchpalette/pkg/pages"
	"github.com/branchpalette/branchpalette/pkg/seo"
)

// Runner executes generation runs. It holds no per-run state, so one
// Runner may serve several runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Logger: logger}
}

// Generate runs every stage against opts.OutDir.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	start := time.Now()
	d, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	result.Stats.BuildTime = time.Since(start)
	result.Directory = d
	result.Collisions = d.Collisions
	result.Stats.Branches, result.Stats.Categories, result.Stats.Sites = d.Counts()

	// Stage 2: Pages
	result.Stats.PagesTime, err = r.stage(ctx, StagePages, func() (int, error) {
		res, err := pages.Render(d, opts.OutDir, pages.Options{
			SiteTitle:       opts.Site.Title,
			SiteDescription: opts.Site.Description,
			BaseURL:         opts.Site.BaseURL,
			BasePath:        opts.Site.BasePath,
		})
		if err != nil {
			return 0, err
		}
		result.Pages = len(res.Files)
		result.Files = append(result.Files, res.Files...)
		return len(res.Files), nil
	})
	if err != nil {
		return nil, fmt.Errorf("write pages: %w", err)
	}
	r.Logger.Info("wrote pages", "pages", result.Pages, "duration", result.Stats.PagesTime)

	// Stage 3: Data
	result.Stats.DataTime, err = r.stage(ctx, StageData, func() (int, error) {
		res, err := emit.Write(d, opts.OutDir, opts.Targets, opts.GeneratedAt)
		if err != nil {
			return 0, err
		}
		result.DatasetID = res.DatasetID
		result.Files = append(result.Files, res.Files...)
		return len(res.Files), nil
	})
	if err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}
	r.Logger.Info("wrote data", "targets", opts.Targets, "dataset", result.DatasetID, "duration", result.Stats.DataTime)

	// Stage 4: SEO
	result.Stats.SEOTime, err = r.stage(ctx, StageSEO, func() (int, error) {
		res, err := seo.WriteAll(d, opts.OutDir, seo.Options{
			BaseURL:   opts.Site.BaseURL,
			BasePath:  opts.Site.BasePath,
			WriteMeta: opts.WriteMeta,
		})
		if err != nil {
			return 0, err
		}
		result.MetaFiles = res.MetaFiles
		result.Files = append(result.Files, res.Files...)
		return len(res.Files) + res.MetaFiles, nil
	})
	if err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}
	r.Logger.Info("wrote sitemap", "meta", result.MetaFiles, "duration", result.Stats.SEOTime)

	// Stage 5: Diagram (non-fatal)
	if opts.Diagram {
		result.Stats.DiagramTime, err = r.stage(ctx, StageDiagram, func() (int, error) {
			files, err := r.writeDiagram(ctx, d, opts)
			result.Files = append(result.Files, files...)
			return len(files), err
		})
		if err != nil {
			r.Logger.Warn("diagram skipped", "err", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("diagram: %v", err))
		}
	}

	return result, nil
}

// Build runs only the build stage.
func (r *Runner) Build(ctx context.Context, opts Options) (*directory.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	d, err := directory.Build(opts.Generation)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	b, c, s := d.Counts()
	observability.Pipeline().OnBuild(ctx, b, c, s, len(d.Collisions), elapsed)
	for _, col := range d.Collisions {
		r.Logger.Warn("slug collision", "owner", col.Owner, "slug", col.Base, "assigned", col.Assigned)
	}
	r.Logger.Info("built directory", "branches", b, "categories", c, "sites", s, "duration", elapsed)
	return d, nil
}

// stage runs fn between hook events and returns its duration. Cancellation
// is checked before the stage starts; stages themselves are not interrupted.
func (r *Runner) stage(ctx context.Context, name string, fn func() (int, error)) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	n, err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, name, n, elapsed, err)
	return elapsed, err
}

// writeDiagram writes the DOT source, then the SVG. The DOT file is kept
// even when SVG rendering fails.
func (r *Runner) writeDiagram(ctx context.Context, d *directory.Directory, opts Options) ([]string, error) {
	dot := diagram.ToDOT(d, diagram.Options{Sites: opts.DiagramSites, Title: opts.Site.Title})
	if err := bpio.WriteFile(filepath.Join(opts.OutDir, diagram.DOTFile), []byte(dot)); err != nil {
		return nil, err
	}
	files := []string{diagram.DOTFile}

	svg, err := diagram.RenderSVG(ctx, dot)
	if err != nil {
		return files, err
	}
	if err := bpio.WriteFile(filepath.Join(opts.OutDir, diagram.SVGFile), svg); err != nil {
		return files, err
	}
	return append(files, diagram.SVGFile), nil
}
