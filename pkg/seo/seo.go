// Package seo emits the search-engine artifacts for a generated directory:
// sitemap.xml, robots.txt and per-entity meta records.
//
// Sitemap URLs come from [directory.Paths.Routes], the same list page
// fan-out writes, so the sitemap and the written pages are always in
// one-to-one correspondence.
package seo

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"strings"

	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
)

// Output files relative to the output root.
const (
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
	MetaDir     = "meta"
)

// SitemapNS is the sitemap protocol namespace.
const SitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap returns sitemap.xml for d with one <url> per page in canonical
// order. baseURL is the origin; basePath prefixes every path.
// Site entries carry their lastUpdated date as lastmod.
func Sitemap(d *directory.Directory, baseURL, basePath string) ([]byte, error) {
	routes := directory.NewPaths(basePath).Routes(d)
	set := urlset{XMLNS: SitemapNS, URLs: make([]sitemapURL, len(routes))}
	for i, r := range routes {
		u := sitemapURL{Loc: directory.Absolute(baseURL, r.URL)}
		if r.Kind == directory.KindSite && r.Site.Metadata != nil {
			u.LastMod = r.Site.Metadata.LastUpdated
		}
		set.URLs[i] = u
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode sitemap")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Locations parses a sitemap and returns its <loc> values in order.
func Locations(sitemap []byte) ([]string, error) {
	var set urlset
	if err := xml.Unmarshal(sitemap, &set); err != nil {
		return nil, err
	}
	locs := make([]string, len(set.URLs))
	for i, u := range set.URLs {
		locs[i] = u.Loc
	}
	return locs, nil
}

// Robots returns a robots.txt allowing everything and pointing at sitemapURL.
func Robots(sitemapURL string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + sitemapURL + "\n"
}

// SitemapURL returns the absolute URL sitemap.xml is served from.
func SitemapURL(baseURL, basePath string) string {
	return directory.Absolute(baseURL, directory.NewPaths(basePath).Home()+SitemapFile)
}

// MetaRecord is the SEO summary of one entity.
type MetaRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	URL         string `json:"url,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// Meta returns one record per entity keyed by id. Site records also carry
// the site's external URL and lastUpdated date.
func Meta(d *directory.Directory) map[string]MetaRecord {
	nb, nc, ns := d.Counts()
	out := make(map[string]MetaRecord, nb+nc+ns)
	_ = d.Walk(func(n directory.Node) error {
		switch n.Kind {
		case directory.KindBranch:
			out[n.Branch.ID] = MetaRecord{
				Title:       n.Branch.Name,
				Description: n.Branch.Description,
				Keywords:    n.Branch.Name,
			}
		case directory.KindCategory:
			out[n.Category.ID] = MetaRecord{
				Title:       n.Category.Name + " | " + n.Branch.Name,
				Description: n.Category.Description,
				Keywords:    strings.Join([]string{n.Category.Name, n.Branch.Name}, ", "),
			}
		case directory.KindSite:
			s := n.Site
			rec := MetaRecord{
				Title:       s.Name + " | " + n.Category.Name + " | " + n.Branch.Name,
				Description: s.Description,
				Keywords:    strings.Join(append([]string{s.Name}, s.Tags...), ", "),
				URL:         s.URL,
			}
			if s.Metadata != nil {
				rec.LastUpdated = s.Metadata.LastUpdated
			}
			out[s.ID] = rec
		}
		return nil
	})
	return out
}

// Options configures [WriteAll].
type Options struct {
	BaseURL   string
	BasePath  string
	WriteMeta bool // write meta/<siteId>.json for every site
}

// Result lists the files [WriteAll] produced, relative to the output root.
type Result struct {
	Files     []string
	MetaFiles int
}

// WriteAll writes sitemap.xml, robots.txt and, when enabled, one meta file
// per site under root.
func WriteAll(d *directory.Directory, root string, opts Options) (*Result, error) {
	sitemap, err := Sitemap(d, opts.BaseURL, opts.BasePath)
	if err != nil {
		return nil, err
	}
	if err := bpio.WriteFile(filepath.Join(root, SitemapFile), sitemap); err != nil {
		return nil, err
	}
	robots := Robots(SitemapURL(opts.BaseURL, opts.BasePath))
	if err := bpio.WriteFile(filepath.Join(root, RobotsFile), []byte(robots)); err != nil {
		return nil, err
	}
	res := &Result{Files: []string{SitemapFile, RobotsFile}}

	if !opts.WriteMeta {
		return res, nil
	}
	meta := Meta(d)
	for _, s := range d.AllSites() {
		if err := bpio.ExportJSON(meta[s.ID], filepath.Join(root, MetaDir, s.ID+".json")); err != nil {
			return nil, err
		}
		res.MetaFiles++
	}
	return res, nil
}
