// Package pages renders one static HTML document per node of a directory.
//
// The fan-out is fixed: one home page, one page per branch, one per
// category and one per site, 1 + B + B·C + B·C·S documents in total. Page
// locations come from [directory.Paths], the same function the sitemap uses,
// so every sitemap URL resolves to a written file.
//
// [Render] clears the output root before writing so pages from a previous
// run with a larger shape never linger.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/page.html.tmpl"),
)

// Options configures page rendering.
type Options struct {
	SiteTitle       string
	SiteDescription string

	// BaseURL is the origin pages are served from, used for canonical links
	// and structured data. BasePath prefixes every in-site link.
	BaseURL  string
	BasePath string
}

// Result reports what [Render] wrote.
type Result struct {
	Files []string // relative to the output root, in canonical order
}

// Render clears outDir and writes one page per route of d.
func Render(d *directory.Directory, outDir string, opts Options) (*Result, error) {
	if err := Clean(outDir); err != nil {
		return nil, err
	}

	paths := directory.NewPaths(opts.BasePath)
	routes := paths.Routes(d)
	res := &Result{Files: make([]string, 0, len(routes))}

	var buf bytes.Buffer
	for _, r := range routes {
		buf.Reset()
		if err := pageTemplate.Execute(&buf, newView(d, paths, r, opts)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", r.URL)
		}
		if err := bpio.WriteFile(filepath.Join(outDir, filepath.FromSlash(r.File)), buf.Bytes()); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, r.File)
	}
	return res, nil
}

// Clean removes outDir and everything in it, then recreates it empty.
// Roots that must never be wiped are refused.
func Clean(outDir string) error {
	if err := errors.ValidateOutputDir(outDir); err != nil {
		return err
	}
	if err := os.RemoveAll(outDir); err != nil {
		return errors.IOError(err, "clear", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.IOError(err, "create directory", outDir)
	}
	return nil
}
