package directory

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/errors"
)

var zeroTime time.Time

func smallConfig() config.Generation {
	c := config.Default()
	g := c.Generation
	g.BranchCount = 2
	g.CategoriesPerBranch = 1
	g.SitesPerCategory = 2
	g.Branches = []config.BranchTemplate{{Name: "Tech"}, {Name: "Health"}}
	return g
}

func mustBuild(t *testing.T, g config.Generation) *Directory {
	t.Helper()
	d, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestBuildScenario(t *testing.T) {
	d := mustBuild(t, smallConfig())

	nb, nc, ns := d.Counts()
	if nb != 2 || nc != 2 || ns != 4 {
		t.Fatalf("Counts() = %d, %d, %d; want 2, 2, 4", nb, nc, ns)
	}

	cats := d.AllCategories()
	if cats[0].ID != "branch-1-category-1" || cats[1].ID != "branch-2-category-1" {
		t.Errorf("category ids = %s, %s", cats[0].ID, cats[1].ID)
	}

	site, ok := d.Site("branch-1", "branch-1-category-1", "branch-1-category-1-site-2")
	if !ok {
		t.Fatal("Site lookup failed")
	}
	if site.BranchID != "branch-1" {
		t.Errorf("site.BranchID = %q, want branch-1", site.BranchID)
	}
	if site.Name != "Beta - Core" {
		t.Errorf("site.Name = %q, want %q", site.Name, "Beta - Core")
	}
	if cats[0].Name != "Core Tech Tools" || cats[0].Slug != "core-tech-tools" {
		t.Errorf("category = %q / %q", cats[0].Name, cats[0].Slug)
	}
}

func TestBuildDeterministic(t *testing.T) {
	g := config.Default().Generation

	a, err := json.Marshal(mustBuild(t, g).Document("", zeroTime))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(mustBuild(t, g).Document("", zeroTime))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("two builds of the same config differ")
	}

	g.Seed++
	c, _ := json.Marshal(mustBuild(t, g).Document("", zeroTime))
	if string(a) == string(c) {
		t.Error("changing the seed did not change any sampled field")
	}
}

func TestBuildDefaultShape(t *testing.T) {
	d := mustBuild(t, config.Default().Generation)

	nb, nc, ns := d.Counts()
	if nb != 40 || nc != 200 || ns != 2000 {
		t.Errorf("Counts() = %d, %d, %d; want 40, 200, 2000", nb, nc, ns)
	}
	if d.PageCount() != 1+40+200+2000 {
		t.Errorf("PageCount() = %d", d.PageCount())
	}
	if len(d.Collisions) != 0 {
		t.Errorf("unexpected collisions: %+v", d.Collisions)
	}
}

func TestDerivedCounts(t *testing.T) {
	g := config.Default().Generation
	g.BranchCount = 3
	g.CategoriesPerBranch = 4
	g.SitesPerCategory = 7
	d := mustBuild(t, g)

	for _, b := range d.Branches() {
		if got := len(d.Categories(b.ID)); b.CategoryCount != got {
			t.Errorf("%s: categoryCount = %d, actual %d", b.ID, b.CategoryCount, got)
		}
	}
	for _, c := range d.AllCategories() {
		if got := len(d.Sites(c.BranchID, c.ID)); c.SiteCount != got {
			t.Errorf("%s: siteCount = %d, actual %d", c.ID, c.SiteCount, got)
		}
	}
}

func TestNewRecountsIgnoringInput(t *testing.T) {
	d := New(
		[]Branch{{ID: "b", Slug: "b", CategoryCount: 99}},
		[]Category{{ID: "c", BranchID: "b", Slug: "c", SiteCount: 42}},
		[]Site{{ID: "s", CategoryID: "c", BranchID: "b", Slug: "s"}},
	)
	b, _ := d.Branch("b")
	c, _ := d.Category("b", "c")
	if b.CategoryCount != 1 || c.SiteCount != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", b.CategoryCount, c.SiteCount)
	}
}

func TestBranchTableTooShort(t *testing.T) {
	g := smallConfig()
	g.BranchCount = 3

	_, err := Build(g)
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("Build error = %v, want CONFIG", err)
	}
}

func TestTemplatesWrap(t *testing.T) {
	g := smallConfig()
	g.CategoriesPerBranch = 7 // 5 templates
	g.SitesPerCategory = 12   // 10 templates
	d := mustBuild(t, g)

	cats := d.Categories("branch-1")
	if len(cats) != 7 {
		t.Fatalf("len(categories) = %d, want 7", len(cats))
	}
	if cats[5].Name != cats[0].Name {
		t.Errorf("wrapped category name = %q, want %q", cats[5].Name, cats[0].Name)
	}
	if cats[5].Slug != cats[0].Slug+"-2" {
		t.Errorf("wrapped category slug = %q, want %q", cats[5].Slug, cats[0].Slug+"-2")
	}

	sites := d.Sites("branch-1", cats[0].ID)
	if sites[10].Slug != "alpha-core-2" {
		t.Errorf("wrapped site slug = %q, want alpha-core-2", sites[10].Slug)
	}
	if len(d.Collisions) == 0 {
		t.Error("collisions were not recorded")
	}
}

func TestDuplicateCategoryNames(t *testing.T) {
	g := smallConfig()
	g.CategoriesPerBranch = 2
	g.Categories = []config.CategoryTemplate{{Name: "Tools"}, {Name: "Tools"}}

	d := mustBuild(t, g)
	cats := d.Categories("branch-1")
	if cats[0].Slug != "tools" || cats[1].Slug != "tools-2" {
		t.Errorf("slugs = %q, %q; want tools, tools-2", cats[0].Slug, cats[1].Slug)
	}
	found := false
	for _, c := range d.Collisions {
		if c.Owner == "branch-1-category-2" && c.Base == "tools" && c.Assigned == "tools-2" {
			found = true
		}
	}
	if !found {
		t.Errorf("collision not recorded: %+v", d.Collisions)
	}

	g.StrictSlugs = true
	_, err := Build(g)
	if !errors.Is(err, errors.ErrCodeSlugCollision) {
		t.Errorf("strict Build error = %v, want SLUG_COLLISION", err)
	}
}

func TestSameSlugAcrossParentsIsFine(t *testing.T) {
	g := smallConfig()
	g.Categories = []config.CategoryTemplate{{Name: "Tools"}}
	g.StrictSlugs = true

	d := mustBuild(t, g)
	for _, c := range d.AllCategories() {
		if c.Slug != "tools" {
			t.Errorf("%s slug = %q, want tools", c.ID, c.Slug)
		}
	}
}

func TestDegenerateBranchName(t *testing.T) {
	g := smallConfig()
	g.Branches = []config.BranchTemplate{{Name: "!!!"}, {Name: "Health"}}

	d := mustBuild(t, g)
	b, _ := d.Branch("branch-1")
	if b.Slug != "branch-1" {
		t.Errorf("slug = %q, want id fallback branch-1", b.Slug)
	}
}

func TestWalkCanonicalOrder(t *testing.T) {
	d := mustBuild(t, smallConfig())

	var ids []string
	err := d.Walk(func(n Node) error {
		ids = append(ids, string(n.Kind)+":"+n.ID())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"home:",
		"branch:branch-1",
		"category:branch-1-category-1",
		"site:branch-1-category-1-site-1",
		"site:branch-1-category-1-site-2",
		"branch:branch-2",
		"category:branch-2-category-1",
		"site:branch-2-category-1-site-1",
		"site:branch-2-category-1-site-2",
	}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("walk order:\n got %v\nwant %v", ids, want)
	}
}

func TestLookups(t *testing.T) {
	d := mustBuild(t, smallConfig())

	if _, ok := d.Branch("branch-9"); ok {
		t.Error("Branch(branch-9) found")
	}
	if _, ok := d.Category("branch-2", "branch-1-category-1"); ok {
		t.Error("Category under wrong branch found")
	}
	if _, ok := d.Site("branch-2", "branch-1-category-1", "branch-1-category-1-site-1"); ok {
		t.Error("Site under wrong branch found")
	}
	if got := d.Categories("missing"); got != nil {
		t.Errorf("Categories(missing) = %v, want nil", got)
	}
	if got := d.Sites("branch-2", "branch-1-category-1"); got != nil {
		t.Errorf("Sites under wrong branch = %v, want nil", got)
	}
}

func TestSearch(t *testing.T) {
	d := mustBuild(t, smallConfig())

	m := d.Search("health")
	if len(m.Branches) != 1 || m.Branches[0].ID != "branch-2" {
		t.Errorf("branches = %+v", m.Branches)
	}
	if len(m.Sites) != 2 {
		t.Errorf("sites matched by tag = %d, want 2", len(m.Sites))
	}

	if all := d.Search(""); all.Len() != 2+2+4 {
		t.Errorf("Search(\"\").Len() = %d, want 8", all.Len())
	}
	if none := d.Search("zzz-not-there"); none.Len() != 0 {
		t.Errorf("Search(miss).Len() = %d", none.Len())
	}
}

func TestValidateDetectsBrokenReferences(t *testing.T) {
	tests := []struct {
		name string
		d    *Directory
		code errors.Code
	}{
		{
			name: "dangling category",
			d:    New(nil, []Category{{ID: "c", BranchID: "b", Slug: "c"}}, nil),
			code: errors.ErrCodeInternal,
		},
		{
			name: "site branch mismatch",
			d: New(
				[]Branch{{ID: "b1", Slug: "b1"}, {ID: "b2", Slug: "b2"}},
				[]Category{{ID: "c", BranchID: "b1", Slug: "c"}},
				[]Site{{ID: "s", CategoryID: "c", BranchID: "b2", Slug: "s"}},
			),
			code: errors.ErrCodeInternal,
		},
		{
			name: "duplicate id",
			d:    New([]Branch{{ID: "b", Slug: "x"}, {ID: "b", Slug: "y"}}, nil, nil),
			code: errors.ErrCodeInternal,
		},
		{
			name: "sibling slug reuse",
			d:    New([]Branch{{ID: "b1", Slug: "x"}, {ID: "b2", Slug: "x"}}, nil, nil),
			code: errors.ErrCodeSlugCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSiteEnrichment(t *testing.T) {
	d := mustBuild(t, config.Default().Generation)

	for _, s := range d.AllSites()[:50] {
		if s.Rating < 0 || s.Rating > 5 {
			t.Errorf("%s rating %v out of range", s.ID, s.Rating)
		}
		if s.Reviews < 0 {
			t.Errorf("%s reviews %d negative", s.ID, s.Reviews)
		}
		if s.Metadata == nil || s.Metadata.LastUpdated == "" {
			t.Errorf("%s missing metadata", s.ID)
		}
		for _, sk := range s.Skills {
			if !sk.Level.Valid() {
				t.Errorf("%s skill level %q invalid", s.ID, sk.Level)
			}
		}
		if len(s.Tags) == 0 || !strings.HasPrefix(s.URL, "https://") {
			t.Errorf("%s tags/url = %v / %q", s.ID, s.Tags, s.URL)
		}
	}
}
