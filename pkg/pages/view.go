package pages

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/branchpalette/branchpalette/pkg/directory"
)

// view is the data handed to the page template.
type view struct {
	SiteTitle   string
	HomeURL     string
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	Heading     string
	Lead        string
	Breadcrumbs []link
	Sections    []section
	Site        *directory.Site
	JSONLD      template.JS
}

type link struct {
	Name string
	URL  string
	Note string
}

type section struct {
	Heading string
	Links   []link
}

func newView(d *directory.Directory, paths directory.Paths, r directory.Route, opts Options) view {
	v := view{
		SiteTitle: opts.SiteTitle,
		HomeURL:   paths.Home(),
		Canonical: directory.Absolute(opts.BaseURL, r.URL),
	}
	crumbs := []link{{Name: "Home", URL: paths.Home()}}

	switch r.Kind {
	case directory.KindHome:
		v.Title = opts.SiteTitle
		v.Description = opts.SiteDescription
		v.Heading = opts.SiteTitle
		v.Lead = opts.SiteDescription
		v.Sections = []section{{Heading: "Branches", Links: branchLinks(d, paths)}}

	case directory.KindBranch:
		b := r.Branch
		v.Title = b.Name + " | " + opts.SiteTitle
		v.Description = b.Description
		v.Keywords = []string{b.Name}
		v.Heading = b.Name
		v.Lead = b.Description
		crumbs = append(crumbs, link{Name: b.Name, URL: r.URL})
		v.Sections = []section{{Heading: "Categories", Links: categoryLinks(d, paths, b)}}

	case directory.KindCategory:
		b, c := r.Branch, r.Category
		v.Title = c.Name + " | " + b.Name + " | " + opts.SiteTitle
		v.Description = c.Description
		v.Keywords = []string{c.Name, b.Name}
		v.Heading = c.Name
		v.Lead = c.Description
		crumbs = append(crumbs,
			link{Name: b.Name, URL: paths.Branch(b)},
			link{Name: c.Name, URL: r.URL},
		)
		v.Sections = []section{{Heading: "Sites", Links: siteLinks(d, paths, b, c, "")}}

	case directory.KindSite:
		b, c, s := r.Branch, r.Category, r.Site
		v.Title = s.Name + " | " + c.Name + " | " + b.Name
		v.Description = s.Description
		v.Keywords = append([]string{s.Name}, s.Tags...)
		v.Heading = s.Name
		v.Site = &s
		crumbs = append(crumbs,
			link{Name: b.Name, URL: paths.Branch(b)},
			link{Name: c.Name, URL: paths.Category(b, c)},
			link{Name: s.Name, URL: r.URL},
		)
		v.Sections = []section{
			{Heading: "Part of", Links: []link{
				{Name: c.Name, URL: paths.Category(b, c), Note: "category"},
				{Name: b.Name, URL: paths.Branch(b), Note: "branch"},
			}},
		}
		if siblings := siteLinks(d, paths, b, c, s.ID); len(siblings) > 0 {
			v.Sections = append(v.Sections, section{Heading: "More in " + c.Name, Links: siblings})
		}
	}

	// The current page is the last crumb and is not linked.
	crumbs[len(crumbs)-1].URL = ""
	v.Breadcrumbs = crumbs
	v.JSONLD = structuredData(v, opts, paths)
	return v
}

func branchLinks(d *directory.Directory, paths directory.Paths) []link {
	branches := d.Branches()
	links := make([]link, len(branches))
	for i, b := range branches {
		links[i] = link{Name: b.Name, URL: paths.Branch(b), Note: plural(b.CategoryCount, "category", "categories")}
	}
	return links
}

func categoryLinks(d *directory.Directory, paths directory.Paths, b directory.Branch) []link {
	cats := d.Categories(b.ID)
	links := make([]link, len(cats))
	for i, c := range cats {
		links[i] = link{Name: c.Name, URL: paths.Category(b, c), Note: plural(c.SiteCount, "site", "sites")}
	}
	return links
}

// siteLinks lists the sites of c, leaving out the one with id skip.
func siteLinks(d *directory.Directory, paths directory.Paths, b directory.Branch, c directory.Category, skip string) []link {
	sites := d.Sites(b.ID, c.ID)
	links := make([]link, 0, len(sites))
	for _, s := range sites {
		if s.ID == skip {
			continue
		}
		links = append(links, link{Name: s.Name, URL: paths.Site(b, c, s), Note: s.Tagline})
	}
	return links
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// =============================================================================
// Structured data
// =============================================================================

type ldThing struct {
	Context     string      `json:"@context,omitempty"`
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	URL         string      `json:"url,omitempty"`
	IsPartOf    *ldThing    `json:"isPartOf,omitempty"`
	Breadcrumb  *ldList     `json:"breadcrumb,omitempty"`
	MainEntity  *ldList     `json:"mainEntity,omitempty"`
	About       *ldSoftware `json:"about,omitempty"`
}

type ldList struct {
	Type     string   `json:"@type"`
	Elements []ldItem `json:"itemListElement"`
}

type ldItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

type ldSoftware struct {
	Type            string    `json:"@type"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	AggregateRating *ldRating `json:"aggregateRating,omitempty"`
}

type ldRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

// structuredData returns the JSON-LD block for a page. List pages are a
// CollectionPage whose main entity enumerates the children; site pages are a
// WebPage about the listed application.
func structuredData(v view, opts Options, paths directory.Paths) template.JS {
	ld := ldThing{
		Context:     "https://schema.org",
		Type:        "CollectionPage",
		Name:        v.Heading,
		Description: v.Description,
		URL:         v.Canonical,
		IsPartOf: &ldThing{
			Type: "WebSite",
			Name: opts.SiteTitle,
			URL:  directory.Absolute(opts.BaseURL, paths.Home()),
		},
	}

	crumbs := &ldList{Type: "BreadcrumbList"}
	for i, c := range v.Breadcrumbs {
		item := c.URL
		if item == "" {
			item = v.Canonical
		} else {
			item = directory.Absolute(opts.BaseURL, item)
		}
		crumbs.Elements = append(crumbs.Elements, ldItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: item})
	}
	ld.Breadcrumb = crumbs

	if s := v.Site; s != nil {
		ld.Type = "WebPage"
		ld.About = &ldSoftware{
			Type: "SoftwareApplication",
			Name: s.Name,
			URL:  s.URL,
			AggregateRating: &ldRating{
				Type:        "AggregateRating",
				RatingValue: s.Rating,
				ReviewCount: s.Reviews,
			},
		}
	} else if len(v.Sections) > 0 {
		list := &ldList{Type: "ItemList"}
		for i, l := range v.Sections[0].Links {
			list.Elements = append(list.Elements, ldItem{
				Type:     "ListItem",
				Position: i + 1,
				Name:     l.Name,
				URL:      directory.Absolute(opts.BaseURL, l.URL),
			})
		}
		ld.MainEntity = list
	}

	// json.Marshal escapes <, > and & so the block cannot close its script tag.
	data, err := json.Marshal(ld)
	if err != nil {
		return template.JS("{}")
	}
	return template.JS(data)
}
