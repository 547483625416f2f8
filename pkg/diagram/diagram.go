// Package diagram draws the directory hierarchy as a Graphviz graph.
//
// [ToDOT] produces the DOT source (home, branches and categories, and
// optionally every site); [RenderSVG] lays it out with the embedded Graphviz
// engine from goccy/go-graphviz, so no external binary is required.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/branchpalette/branchpalette/pkg/directory"
)

// Output files relative to the output root.
const (
	DOTFile = "hierarchy.dot"
	SVGFile = "hierarchy.svg"
)

// Options configures diagram rendering.
type Options struct {
	// Sites adds a node per site. Large directories produce very wide graphs,
	// so sites are left out by default.
	Sites bool

	// Title labels the root node. Defaults to "Home".
	Title string
}

// ToDOT converts d to Graphviz DOT format. Node ids are entity ids so the
// output is stable across runs; labels are display names.
func ToDOT(d *directory.Directory, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "Home"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#3b4cca\", fontcolor=white];\n", "home", title)

	_ = d.Walk(func(n directory.Node) error {
		switch n.Kind {
		case directory.KindBranch:
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#e0e7ff\"];\n", n.Branch.ID, n.Branch.Name)
			fmt.Fprintf(&buf, "  %q -> %q;\n", "home", n.Branch.ID)
		case directory.KindCategory:
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.Category.ID, n.Category.Name)
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Branch.ID, n.Category.ID)
		case directory.KindSite:
			if opts.Sites {
				fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fontsize=11];\n", n.Site.ID, n.Site.Name)
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.Category.ID, n.Site.ID)
			}
		}
		return nil
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel viewBox so the diagram scales when embedded in a page.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
