package directory

import "testing"

func TestPathsURLs(t *testing.T) {
	b := Branch{Slug: "tech"}
	c := Category{Slug: "core-tech-tools"}
	s := Site{Slug: "alpha-core"}

	tests := []struct {
		base string
		want [4]string
	}{
		{"", [4]string{
			"/",
			"/branches/tech/",
			"/branches/tech/categories/core-tech-tools/",
			"/branches/tech/categories/core-tech-tools/sites/alpha-core.html",
		}},
		{"/branch-palette/", [4]string{
			"/branch-palette/",
			"/branch-palette/branches/tech/",
			"/branch-palette/branches/tech/categories/core-tech-tools/",
			"/branch-palette/branches/tech/categories/core-tech-tools/sites/alpha-core.html",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			p := NewPaths(tt.base)
			got := [4]string{p.Home(), p.Branch(b), p.Category(b, c), p.Site(b, c, s)}
			if got != tt.want {
				t.Errorf("urls:\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestPathsFile(t *testing.T) {
	p := NewPaths("/bp")
	tests := []struct {
		url, want string
	}{
		{"/bp/", "index.html"},
		{"/bp/branches/tech/", "branches/tech/index.html"},
		{"/bp/branches/tech/categories/c/", "branches/tech/categories/c/index.html"},
		{"/bp/branches/tech/categories/c/sites/s.html", "branches/tech/categories/c/sites/s.html"},
	}
	for _, tt := range tests {
		if got := p.File(tt.url); got != tt.want {
			t.Errorf("File(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRoutesCoverEveryPage(t *testing.T) {
	d := mustBuild(t, smallConfig())
	routes := NewPaths("").Routes(d)

	if len(routes) != d.PageCount() {
		t.Fatalf("len(routes) = %d, want %d", len(routes), d.PageCount())
	}
	files := make(map[string]bool, len(routes))
	urls := make(map[string]bool, len(routes))
	for _, r := range routes {
		if files[r.File] || urls[r.URL] {
			t.Errorf("duplicate route %s (%s)", r.URL, r.File)
		}
		files[r.File] = true
		urls[r.URL] = true
	}
	if routes[0].Kind != KindHome || routes[0].File != "index.html" {
		t.Errorf("first route = %+v, want home", routes[0])
	}
	last := routes[len(routes)-1]
	if last.URL != "/branches/health/categories/core-health-tools/sites/beta-core.html" {
		t.Errorf("last route URL = %q", last.URL)
	}
}

func TestAbsolute(t *testing.T) {
	got := Absolute("https://example.github.io/", NewPaths("/bp").Home())
	if got != "https://example.github.io/bp/" {
		t.Errorf("Absolute = %q", got)
	}
}
