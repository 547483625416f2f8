package directory

import (
	"slices"
	"strings"
	"time"

	"github.com/branchpalette/branchpalette/pkg/errors"
	"github.com/branchpalette/branchpalette/pkg/slug"
)

// Directory is an immutable, indexed set of branches, categories and sites.
// Accessors return copies so callers cannot mutate the indexed data.
type Directory struct {
	branches   []Branch
	categories []Category
	sites      []Site

	branchByID   map[string]int
	categoryByID map[string]int
	siteByID     map[string]int

	categoriesOf map[string][]int // branch id -> category positions
	sitesOf      map[string][]int // category id -> site positions

	// Collisions lists sibling slugs that were disambiguated during Build.
	Collisions []slug.Collision
}

// New indexes the given entities and recomputes categoryCount/siteCount from
// the actual child arrays. Input order is preserved. The slices are copied.
func New(branches []Branch, categories []Category, sites []Site) *Directory {
	d := &Directory{
		branches:     slices.Clone(branches),
		categories:   slices.Clone(categories),
		sites:        slices.Clone(sites),
		branchByID:   make(map[string]int, len(branches)),
		categoryByID: make(map[string]int, len(categories)),
		siteByID:     make(map[string]int, len(sites)),
		categoriesOf: make(map[string][]int, len(branches)),
		sitesOf:      make(map[string][]int, len(categories)),
	}

	for i, b := range d.branches {
		if _, dup := d.branchByID[b.ID]; !dup {
			d.branchByID[b.ID] = i
		}
	}
	for i, c := range d.categories {
		if _, dup := d.categoryByID[c.ID]; !dup {
			d.categoryByID[c.ID] = i
		}
		d.categoriesOf[c.BranchID] = append(d.categoriesOf[c.BranchID], i)
	}
	for i, s := range d.sites {
		if _, dup := d.siteByID[s.ID]; !dup {
			d.siteByID[s.ID] = i
		}
		d.sitesOf[s.CategoryID] = append(d.sitesOf[s.CategoryID], i)
	}

	for i := range d.branches {
		d.branches[i].CategoryCount = len(d.categoriesOf[d.branches[i].ID])
	}
	for i := range d.categories {
		d.categories[i].SiteCount = len(d.sitesOf[d.categories[i].ID])
	}
	return d
}

// FromDocument indexes a decoded Document.
func FromDocument(doc *Document) *Directory {
	return New(doc.Branches, doc.Categories, doc.Sites)
}

// Document returns the serializable form of d stamped with generatedAt.
// Counts are the ones recomputed by [New], never values carried in from input.
func (d *Directory) Document(datasetID string, generatedAt time.Time) Document {
	return Document{
		DatasetID:   datasetID,
		GeneratedAt: generatedAt.UTC(),
		Branches:    d.Branches(),
		Categories:  d.AllCategories(),
		Sites:       d.AllSites(),
	}
}

// Branches returns all branches in canonical order.
func (d *Directory) Branches() []Branch { return slices.Clone(d.branches) }

// AllCategories returns every category in canonical order.
func (d *Directory) AllCategories() []Category { return slices.Clone(d.categories) }

// AllSites returns every site in canonical order.
func (d *Directory) AllSites() []Site { return slices.Clone(d.sites) }

// Counts returns the number of branches, categories and sites.
func (d *Directory) Counts() (branches, categories, sites int) {
	return len(d.branches), len(d.categories), len(d.sites)
}

// PageCount returns the number of documents fan-out emits: home plus one per entity.
func (d *Directory) PageCount() int {
	return 1 + len(d.branches) + len(d.categories) + len(d.sites)
}

// =============================================================================
// Lookups
// =============================================================================

// Branch returns the branch with the given id.
func (d *Directory) Branch(id string) (Branch, bool) {
	i, ok := d.branchByID[id]
	if !ok {
		return Branch{}, false
	}
	return d.branches[i], true
}

// Category returns the category with categoryID if it belongs to branchID.
func (d *Directory) Category(branchID, categoryID string) (Category, bool) {
	i, ok := d.categoryByID[categoryID]
	if !ok || d.categories[i].BranchID != branchID {
		return Category{}, false
	}
	return d.categories[i], true
}

// Site returns the site with siteID if it belongs to categoryID under branchID.
func (d *Directory) Site(branchID, categoryID, siteID string) (Site, bool) {
	i, ok := d.siteByID[siteID]
	if !ok {
		return Site{}, false
	}
	s := d.sites[i]
	if s.CategoryID != categoryID || s.BranchID != branchID {
		return Site{}, false
	}
	return s, true
}

// Categories returns the categories of branchID in order, or nil if the
// branch does not exist.
func (d *Directory) Categories(branchID string) []Category {
	idx := d.categoriesOf[branchID]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Category, len(idx))
	for i, j := range idx {
		out[i] = d.categories[j]
	}
	return out
}

// Sites returns the sites of categoryID in order, or nil if the category
// does not exist under branchID.
func (d *Directory) Sites(branchID, categoryID string) []Site {
	if _, ok := d.Category(branchID, categoryID); !ok {
		return nil
	}
	idx := d.sitesOf[categoryID]
	out := make([]Site, len(idx))
	for i, j := range idx {
		out[i] = d.sites[j]
	}
	return out
}

// Matches holds the result of a Search.
type Matches struct {
	Branches   []Branch
	Categories []Category
	Sites      []Site
}

// Len returns the total number of matches.
func (m Matches) Len() int {
	return len(m.Branches) + len(m.Categories) + len(m.Sites)
}

// Search returns every entity whose name or description contains query,
// case-insensitively. Sites also match on tags. An empty query matches
// everything.
func (d *Directory) Search(query string) Matches {
	q := strings.ToLower(strings.TrimSpace(query))
	var m Matches
	for _, b := range d.branches {
		if Match(q, b.Name, b.Description) {
			m.Branches = append(m.Branches, b)
		}
	}
	for _, c := range d.categories {
		if Match(q, c.Name, c.Description) {
			m.Categories = append(m.Categories, c)
		}
	}
	for _, s := range d.sites {
		if Match(q, s.Name, s.Description) || Match(q, s.Tags...) {
			m.Sites = append(m.Sites, s)
		}
	}
	return m
}

// Match reports whether any field contains query, ignoring case and
// surrounding space. An empty query matches.
func Match(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// =============================================================================
// Walk
// =============================================================================

// Node is one position in a canonical walk. Fields below Kind's level are zero.
type Node struct {
	Kind     Kind
	Branch   Branch
	Category Category
	Site     Site
}

// ID returns the id of the entity at this node, or "" for home.
func (n Node) ID() string {
	switch n.Kind {
	case KindBranch:
		return n.Branch.ID
	case KindCategory:
		return n.Category.ID
	case KindSite:
		return n.Site.ID
	}
	return ""
}

// Walk calls fn for home, then each branch followed by its categories, each
// category followed by its sites. Walk stops at the first error fn returns.
func (d *Directory) Walk(fn func(Node) error) error {
	if err := fn(Node{Kind: KindHome}); err != nil {
		return err
	}
	for _, b := range d.branches {
		if err := fn(Node{Kind: KindBranch, Branch: b}); err != nil {
			return err
		}
		for _, ci := range d.categoriesOf[b.ID] {
			c := d.categories[ci]
			if err := fn(Node{Kind: KindCategory, Branch: b, Category: c}); err != nil {
				return err
			}
			for _, si := range d.sitesOf[c.ID] {
				if err := fn(Node{Kind: KindSite, Branch: b, Category: c, Site: d.sites[si]}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every structural invariant: ids unique per kind, foreign
// keys resolve, a site's branch matches its category's branch, and slugs are
// non-empty and unique within each sibling group. Violations are INTERNAL
// errors because Build never produces them; a decoded document that fails
// here was corrupted or hand-edited.
func (d *Directory) Validate() error {
	if len(d.branchByID) != len(d.branches) {
		return errors.New(errors.ErrCodeInternal, "duplicate branch id")
	}
	if len(d.categoryByID) != len(d.categories) {
		return errors.New(errors.ErrCodeInternal, "duplicate category id")
	}
	if len(d.siteByID) != len(d.sites) {
		return errors.New(errors.ErrCodeInternal, "duplicate site id")
	}

	seen := make(map[string]bool, len(d.branches))
	for _, b := range d.branches {
		if err := checkSlug(seen, "", b.Slug, b.ID); err != nil {
			return err
		}
	}
	seen = make(map[string]bool, len(d.categories))
	for _, c := range d.categories {
		if _, ok := d.branchByID[c.BranchID]; !ok {
			return errors.New(errors.ErrCodeInternal, "category %s references missing branch %s", c.ID, c.BranchID)
		}
		if err := checkSlug(seen, c.BranchID, c.Slug, c.ID); err != nil {
			return err
		}
	}
	seen = make(map[string]bool, len(d.sites))
	for _, s := range d.sites {
		ci, ok := d.categoryByID[s.CategoryID]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "site %s references missing category %s", s.ID, s.CategoryID)
		}
		if owner := d.categories[ci].BranchID; owner != s.BranchID {
			return errors.New(errors.ErrCodeInternal, "site %s has branch %s but its category belongs to %s", s.ID, s.BranchID, owner)
		}
		if err := checkSlug(seen, s.CategoryID, s.Slug, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkSlug(seen map[string]bool, parent, s, id string) error {
	if s == "" {
		return errors.New(errors.ErrCodeInternal, "%s has an empty slug", id)
	}
	key := parent + "/" + s
	if seen[key] {
		return errors.New(errors.ErrCodeSlugCollision, "%s reuses slug %q within its parent", id, s)
	}
	seen[key] = true
	return nil
}
