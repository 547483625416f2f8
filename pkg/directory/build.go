package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/errors"
	"github.com/branchpalette/branchpalette/pkg/rng"
	"github.com/branchpalette/branchpalette/pkg/slug"
)

// Cosmetic variants consumed only by presentation code.
var (
	LayoutVariants = []string{"grid", "list", "compact", "featured"}
	StyleVariants  = []string{"default", "gradient", "outlined", "elevated", "minimal"}
)

var fallbackBranchIcons = []string{"Folder", "Layers", "Box", "Compass", "Star"}

// Build constructs the full hierarchy from cfg.
//
// Build is a pure function of cfg: the same config always yields identical
// entities in identical order. The branch name table must cover
// cfg.BranchCount; category and site templates wrap around by index.
//
// Sibling slug collisions are disambiguated with a numeric suffix and
// recorded in [Directory.Collisions], or rejected with SLUG_COLLISION when
// cfg.StrictSlugs is set.
func Build(cfg config.Generation) (*Directory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseDate, err := cfg.ParseBaseDate()
	if err != nil {
		return nil, err
	}

	b := &builder{
		cfg:        cfg,
		rnd:        rng.New(cfg.Seed),
		baseDate:   baseDate,
		branches:   make([]Branch, 0, cfg.BranchCount),
		categories: make([]Category, 0, cfg.BranchCount*cfg.CategoriesPerBranch),
		sites:      make([]Site, 0, cfg.BranchCount*cfg.CategoriesPerBranch*cfg.SitesPerCategory),
	}
	if err := b.build(); err != nil {
		return nil, err
	}

	d := New(b.branches, b.categories, b.sites)
	d.Collisions = b.collisions
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

type builder struct {
	cfg      config.Generation
	rnd      *rng.Source
	baseDate time.Time

	branches   []Branch
	categories []Category
	sites      []Site
	collisions []slug.Collision
}

func (b *builder) build() error {
	branchSlugs := slug.NewSet()
	for i := 0; i < b.cfg.BranchCount; i++ {
		t := b.cfg.Branches[i]
		branch := Branch{
			ID:            fmt.Sprintf("branch-%d", i+1),
			Name:          strings.TrimSpace(t.Name),
			Description:   t.Description,
			Icon:          t.Icon,
			LayoutVariant: pick(LayoutVariants, i),
			StyleVariant:  pick(StyleVariants, i),
		}
		if branch.Description == "" {
			branch.Description = fmt.Sprintf("Explore curated %s resources.", strings.ToLower(branch.Name))
		}
		if branch.Icon == "" {
			branch.Icon = pick(fallbackBranchIcons, i)
		}
		s, err := b.claim(branchSlugs, branch.Name, branch.ID)
		if err != nil {
			return err
		}
		branch.Slug = s
		b.branches = append(b.branches, branch)

		if err := b.buildCategories(i, branch); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) buildCategories(branchIndex int, branch Branch) error {
	catSlugs := slug.NewSet()
	for j := 0; j < b.cfg.CategoriesPerBranch; j++ {
		t := b.cfg.Categories[j%len(b.cfg.Categories)]
		global := branchIndex*b.cfg.CategoriesPerBranch + j

		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = joinWords(t.Prefix, branch.Name, t.Suffix)
		}
		cat := Category{
			ID:            fmt.Sprintf("%s-category-%d", branch.ID, j+1),
			BranchID:      branch.ID,
			Name:          name,
			Description:   categoryDescription(t, branch.Name),
			Icon:          t.Icon,
			LayoutVariant: pick(LayoutVariants, global),
			StyleVariant:  pick(StyleVariants, global),
		}
		if cat.Icon == "" {
			cat.Icon = "Folder"
		}
		s, err := b.claim(catSlugs, cat.Name, cat.ID)
		if err != nil {
			return err
		}
		cat.Slug = s
		b.categories = append(b.categories, cat)

		if err := b.buildSites(branch, cat); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) buildSites(branch Branch, cat Category) error {
	siteSlugs := slug.NewSet()
	for k := 0; k < b.cfg.SitesPerCategory; k++ {
		t := b.cfg.Sites[k%len(b.cfg.Sites)]
		site := Site{
			ID:         fmt.Sprintf("%s-site-%d", cat.ID, k+1),
			CategoryID: cat.ID,
			BranchID:   branch.ID,
			Name:       siteName(t.Name, cat.Name),
		}
		s, err := b.claim(siteSlugs, site.Name, site.ID)
		if err != nil {
			return err
		}
		site.Slug = s
		b.enrich(&site, k, branch, cat)
		b.sites = append(b.sites, site)
	}
	return nil
}

// claim reserves a sibling-unique slug for name.
func (b *builder) claim(set *slug.Set, name, id string) (string, error) {
	base := slug.Make(name)
	s, collided := set.Claim(base, id)
	if !collided {
		return s, nil
	}
	if b.cfg.StrictSlugs {
		return "", errors.New(errors.ErrCodeSlugCollision, "%s: name %q slugifies to %q which a sibling already uses", id, name, base)
	}
	b.collisions = append(b.collisions, slug.Collision{Base: base, Assigned: s, Owner: id})
	return s, nil
}

func categoryDescription(t config.CategoryTemplate, branchName string) string {
	if t.Prefix == "" && t.Suffix == "" {
		return fmt.Sprintf("Curated resources for %s.", strings.ToLower(branchName))
	}
	return fmt.Sprintf("%s for %s. Ready for API integration.",
		joinWords(t.Prefix, strings.ToLower(t.Suffix)), strings.ToLower(branchName))
}

// siteName combines a name part with the first word of the category name:
// "Alpha" in "Core Web Development Tools" becomes "Alpha - Core".
func siteName(part, categoryName string) string {
	part = strings.TrimSpace(part)
	first, _, _ := strings.Cut(strings.TrimSpace(categoryName), " ")
	if first == "" {
		return part
	}
	if part == "" {
		return first
	}
	return part + " - " + first
}

func joinWords(words ...string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

func pick(table []string, i int) string {
	return table[i%len(table)]
}
