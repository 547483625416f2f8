// Package pkg provides the core libraries for branchpalette, a generator for
// static Branch → Category → Site directory websites.
//
// # Overview
//
// branchpalette builds a deterministic three-level directory from a seeded
// generation config and publishes it as a static site: one HTML page per
// node, a JSON data document, and SEO artifacts. The pkg directory is
// organized into four areas:
//
//  1. Domain: [directory], [slug], [rng], [config]
//  2. Emitters: [pages], [emit], [seo], [diagram]
//  3. Orchestration: [pipeline]
//  4. Access and infrastructure: [client], [cache], [httputil], [server],
//     [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow of a generate run:
//
//	config.Generation (seed, counts, name pools)
//	         ↓
//	    [directory.Build] (seeded RNG + slug disambiguation)
//	         ↓
//	    [pages.Render] (HTML for home, branches, categories, sites)
//	         ↓
//	    [emit.Write] (data/directory.json and friends)
//	         ↓
//	    [seo.WriteAll] (sitemap.xml, robots.txt, meta records)
//	         ↓
//	    [diagram] (optional Graphviz overview)
//
// [pipeline.Runner] runs these stages in order and reports what it wrote.
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.Output.Dir = "dist"
//
//	opts := pipeline.FromConfig(cfg)
//	res, err := pipeline.NewRunner(nil).Generate(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Pages, "pages,", res.DatasetID)
//
// Read a published directory back:
//
//	l := client.NewLoader(client.Options{})
//	d, err := l.Load(ctx, "http://localhost:8080/data/directory.json")
//	n, err := client.Resolve(d, client.Ref{BranchID: "branch-1"})
//
// # Testing
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/directory/...        # Specific package
//	BRANCHPALETTE_TEST_REDIS=redis://localhost:6379/0 go test ./pkg/cache/...
//
// [directory]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/directory
// [slug]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/slug
// [rng]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/rng
// [config]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/config
// [pages]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/pages
// [emit]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/emit
// [seo]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/seo
// [diagram]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/diagram
// [pipeline]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/pipeline
// [client]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/client
// [cache]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/httputil
// [server]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/server
// [errors]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/errors
// [observability]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/branchpalette/branchpalette/pkg/buildinfo
package pkg
