// Package config loads the generation settings for branchpalette.
//
// Settings come from three layers, each overriding the previous one:
//
//  1. Built-in defaults (the 40-branch tables, 5 categories × 10 sites, seed 2026)
//  2. A TOML file (branchpalette.toml by default)
//  3. Environment variables prefixed BRANCHPALETTE_, optionally loaded from .env
//
// CLI flags are applied on top by the caller.
//
// # Example
//
//	[generation]
//	seed = 7
//	branch_count = 2
//	categories_per_branch = 1
//	sites_per_category = 2
//
//	[[generation.branches]]
//	name = "Tech"
//
//	[[generation.branches]]
//	name = "Health"
//
//	[site]
//	base_url = "https://example.github.io"
//	base_path = "/branch-palette"
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/branchpalette/branchpalette/pkg/errors"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "branchpalette.toml"

// Environment variable names.
const (
	EnvSeed     = "BRANCHPALETTE_SEED"
	EnvBaseURL  = "BRANCHPALETTE_BASE_URL"
	EnvBasePath = "BRANCHPALETTE_BASE_PATH"
	EnvOutDir   = "BRANCHPALETTE_OUT_DIR"
	EnvDataURL  = "BRANCHPALETTE_DATA_URL"
	EnvCacheURL = "BRANCHPALETTE_CACHE_URL"
)

// Config is the full configuration for one generation run.
type Config struct {
	Generation Generation `toml:"generation"`
	Site       Site       `toml:"site"`
	Output     Output     `toml:"output"`
	Client     Client     `toml:"client"`
}

// Generation holds the entity builder inputs: counts and naming templates.
type Generation struct {
	Seed                int64              `toml:"seed"`
	BranchCount         int                `toml:"branch_count"`
	CategoriesPerBranch int                `toml:"categories_per_branch"`
	SitesPerCategory    int                `toml:"sites_per_category"`
	Branches            []BranchTemplate   `toml:"branches"`
	Categories          []CategoryTemplate `toml:"categories"`
	Sites               []SiteTemplate     `toml:"sites"`

	// BaseDate anchors generated lastUpdated values so output stays reproducible.
	BaseDate string `toml:"base_date"`

	// StrictSlugs fails the build on sibling slug collisions instead of
	// disambiguating them with a numeric suffix.
	StrictSlugs bool `toml:"strict_slugs"`
}

// BranchTemplate is one row of the branch name table.
type BranchTemplate struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Icon        string `toml:"icon"`
}

// CategoryTemplate is one row of the category template table.
// Name, when set, is used verbatim instead of "<prefix> <branch> <suffix>".
type CategoryTemplate struct {
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
	Icon   string `toml:"icon"`
	Name   string `toml:"name"`
}

// SiteTemplate is one row of the site name-part table.
type SiteTemplate struct {
	Name string `toml:"name"`
}

// Site holds the settings baked into rendered pages and the sitemap.
type Site struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	BaseURL     string `toml:"base_url"`
	BasePath    string `toml:"base_path"`
}

// Output controls which artifacts are written and where.
type Output struct {
	Dir          string   `toml:"dir"`
	Targets      []string `toml:"targets"`
	Meta         *bool    `toml:"meta"`
	Diagram      bool     `toml:"diagram"`
	DiagramSites bool     `toml:"diagram_sites"`
}

// Client configures the directory access layer used by browse and lookup.
type Client struct {
	DataURL    string        `toml:"data_url"`
	CacheURL   string        `toml:"cache_url"`
	StaleAfter time.Duration `toml:"stale_after"`
}

// Default returns a Config populated with every built-in default.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads path (or DefaultFile when path is empty and it exists), applies
// defaults for everything left unset, then applies environment overrides.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := &Config{}
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := c.decodeFile(path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
	}

	c.SetDefaults()
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	// SetDefaults cannot tell a written zero from an absent key.
	g := c.Generation
	if md.IsDefined("generation", "seed") && g.Seed == 0 {
		return errors.New(errors.ErrCodeConfig, "%s: generation.seed must be non-zero", path)
	}
	for _, k := range []struct {
		key string
		val int
	}{
		{"branch_count", g.BranchCount},
		{"categories_per_branch", g.CategoriesPerBranch},
		{"sites_per_category", g.SitesPerCategory},
	} {
		if md.IsDefined("generation", k.key) && k.val < 1 {
			return errors.New(errors.ErrCodeConfig, "%s: generation.%s must be at least 1", path, k.key)
		}
	}
	return nil
}

// SetDefaults fills every unset field with its built-in default.
// Counts of zero are treated as unset; an explicitly empty shape is not
// expressible because it would produce a directory with no pages below home.
func (c *Config) SetDefaults() {
	g := &c.Generation
	if g.Seed == 0 {
		g.Seed = DefaultSeed
	}
	if len(g.Branches) == 0 {
		g.Branches = DefaultBranches()
	}
	if len(g.Categories) == 0 {
		g.Categories = DefaultCategories()
	}
	if len(g.Sites) == 0 {
		g.Sites = DefaultSites()
	}
	if g.BranchCount == 0 {
		g.BranchCount = min(DefaultBranchCount, len(g.Branches))
	}
	if g.CategoriesPerBranch == 0 {
		g.CategoriesPerBranch = DefaultCategoriesPerBranch
	}
	if g.SitesPerCategory == 0 {
		g.SitesPerCategory = DefaultSitesPerCategory
	}
	if g.BaseDate == "" {
		g.BaseDate = DefaultBaseDate
	}

	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	if c.Site.Description == "" {
		c.Site.Description = DefaultDescription
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = DefaultBaseURL
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if len(c.Output.Targets) == 0 {
		c.Output.Targets = DefaultTargets()
	}
	if c.Output.Meta == nil {
		meta := true
		c.Output.Meta = &meta
	}

	if c.Client.StaleAfter == 0 {
		c.Client.StaleAfter = 5 * time.Minute
	}
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "%s must be an integer", EnvSeed)
		}
		if seed == 0 {
			return errors.New(errors.ErrCodeConfig, "%s must be non-zero", EnvSeed)
		}
		c.Generation.Seed = seed
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Site.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvBasePath); ok {
		c.Site.BasePath = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		c.Output.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataURL)); v != "" {
		c.Client.DataURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheURL)); v != "" {
		c.Client.CacheURL = v
	}
	return nil
}

// Validate checks the configuration for errors that would make generation
// impossible. Only the branch table must cover the requested count; every
// other table wraps around.
func (c *Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.Site.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "site.base_url")
	}
	if err := errors.ValidateBasePath(c.Site.BasePath); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "site.base_path")
	}
	if err := errors.ValidateOutputDir(c.Output.Dir); err != nil {
		return err
	}
	for _, t := range c.Output.Targets {
		if !ValidTargets[t] {
			return errors.New(errors.ErrCodeConfig, "invalid output target %q (must be one of: json, ts, nested, sites)", t)
		}
	}
	return nil
}

// ValidTargets is the set of supported data artifact targets.
var ValidTargets = map[string]bool{
	"json":   true,
	"ts":     true,
	"nested": true,
	"sites":  true,
}

// Validate checks counts and table lengths.
func (g *Generation) Validate() error {
	if g.BranchCount < 0 || g.CategoriesPerBranch < 0 || g.SitesPerCategory < 0 {
		return errors.New(errors.ErrCodeConfig, "counts must be non-negative (branches=%d, categories=%d, sites=%d)",
			g.BranchCount, g.CategoriesPerBranch, g.SitesPerCategory)
	}
	if len(g.Branches) < g.BranchCount {
		return errors.New(errors.ErrCodeConfig, "branch name table has %d entries, need %d", len(g.Branches), g.BranchCount)
	}
	for i, b := range g.Branches[:g.BranchCount] {
		if strings.TrimSpace(b.Name) == "" {
			return errors.New(errors.ErrCodeConfig, "branch name table entry %d is empty", i+1)
		}
	}
	if g.CategoriesPerBranch > 0 && len(g.Categories) == 0 {
		return errors.New(errors.ErrCodeConfig, "category template table is empty")
	}
	if g.SitesPerCategory > 0 && len(g.Sites) == 0 {
		return errors.New(errors.ErrCodeConfig, "site template table is empty")
	}
	if _, err := g.ParseBaseDate(); err != nil {
		return err
	}
	return nil
}

// ParseBaseDate parses BaseDate as YYYY-MM-DD in UTC.
func (g *Generation) ParseBaseDate() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, g.BaseDate)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeConfig, err, "generation.base_date must be YYYY-MM-DD")
	}
	return t, nil
}

// WriteMeta reports whether per-site meta files are emitted.
func (o *Output) WriteMeta() bool {
	return o.Meta == nil || *o.Meta
}
