// Package pipeline runs a full generation pass for branchpalette.
//
// A run has five stages, executed in order on a single goroutine:
//
//  1. build:   derive the directory from the generation settings
//  2. pages:   clear the output root and write one HTML page per node
//  3. data:    emit the JSON document and its companion data files
//  4. seo:     write sitemap.xml, robots.txt and per-site meta files
//  5. diagram: optionally draw the hierarchy as DOT/SVG
//
// Pages run first because they clear the root; everything after writes
// into the fresh tree. A failure in build, pages, data or seo aborts the
// run. Diagram failures are logged and reported in [Result.Warnings].
//
// # Usage
//
//	cfg, _ := config.Load("")
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Generate(ctx, pipeline.FromConfig(cfg))
package pipeline

import (
	"slices"
	"time"

	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	"github.com/branchpalette/branchpalette/pkg/slug"
)

// Stage names reported to hooks and used in error messages.
const (
	StageBuild   = "build"
	StagePages   = "pages"
	StageData    = "data"
	StageSEO     = "seo"
	StageDiagram = "diagram"
)

// =============================================================================
// Options
// =============================================================================

// Options contains everything one generation run needs.
type Options struct {
	Generation config.Generation
	Site       config.Site

	OutDir  string
	Targets []string

	WriteMeta    bool
	Diagram      bool
	DiagramSites bool

	// GeneratedAt stamps the data document. Defaults to the current time;
	// tests pin it to compare output byte for byte.
	GeneratedAt time.Time
}

// FromConfig maps a loaded configuration onto pipeline options.
func FromConfig(c *config.Config) Options {
	return Options{
		Generation:   c.Generation,
		Site:         c.Site,
		OutDir:       c.Output.Dir,
		Targets:      slices.Clone(c.Output.Targets),
		WriteMeta:    c.Output.WriteMeta(),
		Diagram:      c.Output.Diagram,
		DiagramSites: c.Output.DiagramSites,
	}
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	c := config.Config{Generation: o.Generation}
	c.SetDefaults()
	o.Generation = c.Generation

	if o.OutDir == "" {
		o.OutDir = config.DefaultOutputDir
	}
	if len(o.Targets) == 0 {
		o.Targets = config.DefaultTargets()
	}
	if o.Site.Title == "" {
		o.Site.Title = config.DefaultTitle
	}
	if o.Site.Description == "" {
		o.Site.Description = config.DefaultDescription
	}
	if o.Site.BaseURL == "" {
		o.Site.BaseURL = config.DefaultBaseURL
	}
	if o.GeneratedAt.IsZero() {
		o.GeneratedAt = time.Now().UTC()
	}
}

// Validate rejects options that would fail part-way through a run, so
// nothing is cleared or written for a run that cannot finish.
func (o *Options) Validate() error {
	if err := o.Generation.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateURL(o.Site.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "base url")
	}
	if err := errors.ValidateBasePath(o.Site.BasePath); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "base path")
	}
	if err := errors.ValidateOutputDir(o.OutDir); err != nil {
		return err
	}
	for _, t := range o.Targets {
		if !config.ValidTargets[t] {
			return errors.New(errors.ErrCodeConfig, "invalid output target %q (must be one of: json, ts, nested, sites)", t)
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result describes a finished run.
type Result struct {
	Directory *directory.Directory
	DatasetID string

	// Files lists every written file relative to OutDir, in write order.
	Files []string

	Pages      int
	MetaFiles  int
	Collisions []slug.Collision

	// Warnings holds non-fatal stage failures.
	Warnings []string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Branches   int
	Categories int
	Sites      int

	BuildTime   time.Duration
	PagesTime   time.Duration
	DataTime    time.Duration
	SEOTime     time.Duration
	DiagramTime time.Duration
}

// Total is the summed duration of every stage.
func (s Stats) Total() time.Duration {
	return s.BuildTime + s.PagesTime + s.DataTime + s.SEOTime + s.DiagramTime
}
