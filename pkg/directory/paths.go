package directory

import (
	"path"
	"strings"
)

// Paths derives page URLs and output file locations from slugs.
//
// URLs join parent slugs down the hierarchy, never entity ids:
//
//	/                                              home
//	/branches/<b>/                                 branch
//	/branches/<b>/categories/<c>/                  category
//	/branches/<b>/categories/<c>/sites/<s>.html    site
//
// each prefixed by Base (for example "/branch-palette" on a project page).
type Paths struct {
	Base string
}

// NewPaths returns Paths for the given base path. Trailing slashes are
// dropped so "/" and "" both mean the domain root.
func NewPaths(base string) Paths {
	return Paths{Base: strings.TrimRight(base, "/")}
}

// Home returns the URL of the home page.
func (p Paths) Home() string {
	return p.Base + "/"
}

// Branch returns the URL of a branch page.
func (p Paths) Branch(b Branch) string {
	return p.Base + "/branches/" + b.Slug + "/"
}

// Category returns the URL of a category page.
func (p Paths) Category(b Branch, c Category) string {
	return p.Branch(b) + "categories/" + c.Slug + "/"
}

// Site returns the URL of a site page.
func (p Paths) Site(b Branch, c Category, s Site) string {
	return p.Category(b, c) + "sites/" + s.Slug + ".html"
}

// URL returns the page URL of a walk node.
func (p Paths) URL(n Node) string {
	switch n.Kind {
	case KindBranch:
		return p.Branch(n.Branch)
	case KindCategory:
		return p.Category(n.Branch, n.Category)
	case KindSite:
		return p.Site(n.Branch, n.Category, n.Site)
	}
	return p.Home()
}

// File returns the output file, relative to the output root and using
// forward slashes, that serves the page at url. Directory URLs map to
// index.html inside them.
func (p Paths) File(url string) string {
	rel := strings.TrimPrefix(url, p.Base)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return path.Clean(rel)
}

// Route pairs a walk node with its URL and output file.
type Route struct {
	Node
	URL  string
	File string
}

// Routes returns one route per page in canonical order. Page fan-out writes
// exactly these files and the sitemap lists exactly these URLs.
func (p Paths) Routes(d *Directory) []Route {
	routes := make([]Route, 0, d.PageCount())
	_ = d.Walk(func(n Node) error {
		url := p.URL(n)
		routes = append(routes, Route{Node: n, URL: url, File: p.File(url)})
		return nil
	})
	return routes
}

// Absolute joins an origin such as "https://example.github.io" with a page
// URL from [Paths].
func Absolute(origin, url string) string {
	return strings.TrimRight(origin, "/") + url
}
