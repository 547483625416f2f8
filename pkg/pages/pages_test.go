package pages

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
)

func build(t *testing.T, branches int, names ...string) *directory.Directory {
	t.Helper()
	g := config.Default().Generation
	g.BranchCount = branches
	g.CategoriesPerBranch = 2
	g.SitesPerCategory = 3
	if len(names) > 0 {
		g.Branches = nil
		for _, n := range names {
			g.Branches = append(g.Branches, config.BranchTemplate{Name: n})
		}
	}
	d, err := directory.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

var testOpts = Options{
	SiteTitle:       "Test Directory",
	SiteDescription: "Directory under test",
	BaseURL:         "https://example.test",
	BasePath:        "/bp",
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, e os.DirEntry, err error) error {
		if err == nil && !e.IsDir() {
			n++
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestRenderFanOutCount(t *testing.T) {
	d := build(t, 3)
	out := filepath.Join(t.TempDir(), "dist")

	res, err := Render(d, out, testOpts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := 1 + 3 + 3*2 + 3*2*3
	if len(res.Files) != want || d.PageCount() != want {
		t.Errorf("len(Files) = %d, PageCount = %d, want %d", len(res.Files), d.PageCount(), want)
	}
	if got := countFiles(t, out); got != want {
		t.Errorf("files on disk = %d, want %d", got, want)
	}
}

func TestRenderRemovesStalePages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")

	if _, err := Render(build(t, 2, "Tech", "Health"), out, testOpts); err != nil {
		t.Fatal(err)
	}
	stray := filepath.Join(out, "leftover.txt")
	if err := os.WriteFile(stray, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Render(build(t, 1, "Tech", "Health"), out, testOpts); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "branches", "health")); !os.IsNotExist(err) {
		t.Error("stale branch directory survived regeneration")
	}
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Error("stray file survived regeneration")
	}
	if got := countFiles(t, out); got != 1+1+2+6 {
		t.Errorf("files on disk = %d, want 10", got)
	}
}

var hrefRE = regexp.MustCompile(`href="([^"]+)"`)

func TestRenderLinksResolve(t *testing.T) {
	d := build(t, 2)
	out := filepath.Join(t.TempDir(), "dist")
	if _, err := Render(d, out, testOpts); err != nil {
		t.Fatal(err)
	}

	paths := directory.NewPaths(testOpts.BasePath)
	for _, r := range paths.Routes(d) {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(r.File)))
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range hrefRE.FindAllStringSubmatch(string(data), -1) {
			href := m[1]
			if strings.HasPrefix(href, "http") {
				continue
			}
			if !strings.HasPrefix(href, "/bp/") {
				t.Errorf("%s: link %q lacks base path", r.File, href)
				continue
			}
			target := filepath.Join(out, filepath.FromSlash(paths.File(href)))
			if _, err := os.Stat(target); err != nil {
				t.Errorf("%s: link %q does not resolve", r.File, href)
			}
		}
	}
}

func TestSitePageContent(t *testing.T) {
	d := build(t, 1, "Tech")
	out := filepath.Join(t.TempDir(), "dist")
	if _, err := Render(d, out, testOpts); err != nil {
		t.Fatal(err)
	}

	page := filepath.Join(out, "branches", "tech", "categories", "core-tech-tools", "sites", "beta-core.html")
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{
		"<title>Beta - Core | Core Tech Tools | Tech</title>",
		`<link rel="canonical" href="https://example.test/bp/branches/tech/categories/core-tech-tools/sites/beta-core.html">`,
		`<a href="/bp/branches/tech/">Tech</a>`,
		`<span aria-current="page">Beta - Core</span>`,
		`href="/bp/branches/tech/categories/core-tech-tools/sites/alpha-core.html"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("site page missing %q", want)
		}
	}
	if strings.Contains(html, `href="/bp/branches/tech/categories/core-tech-tools/sites/beta-core.html"`) {
		t.Error("site page links to itself as a sibling")
	}
}

var ldRE = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)

func TestStructuredData(t *testing.T) {
	d := build(t, 1, "AI & <ML>")
	out := filepath.Join(t.TempDir(), "dist")
	if _, err := Render(d, out, testOpts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "<ML>") {
		t.Error("branch name was not escaped")
	}

	m := ldRE.FindSubmatch(data)
	if m == nil {
		t.Fatal("no JSON-LD block")
	}
	var ld struct {
		Type       string `json:"@type"`
		MainEntity struct {
			Elements []struct {
				Name string `json:"name"`
				URL  string `json:"url"`
			} `json:"itemListElement"`
		} `json:"mainEntity"`
	}
	if err := json.Unmarshal(m[1], &ld); err != nil {
		t.Fatalf("JSON-LD does not parse: %v\n%s", err, m[1])
	}
	if ld.Type != "CollectionPage" {
		t.Errorf("@type = %q", ld.Type)
	}
	if len(ld.MainEntity.Elements) != 1 || ld.MainEntity.Elements[0].Name != "AI & <ML>" {
		t.Errorf("mainEntity = %+v", ld.MainEntity)
	}
}

func TestRenderRefusesDangerousRoot(t *testing.T) {
	_, err := Render(build(t, 1), ".", testOpts)
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("err = %v, want CONFIG", err)
	}
}
