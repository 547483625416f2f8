// Package io provides JSON import and export for the directory document.
//
// # Overview
//
// The document is the single interchange format between generation and every
// consumer: page fan-out, the sitemap emitter, the preview server and the
// client loader all read the same bytes.
//
// # JSON Format
//
//	{
//	  "datasetId": "1b0c6f3e-...",
//	  "generatedAt": "2026-01-01T00:00:00Z",
//	  "branches":   [{"id": "branch-1", "slug": "tech", "categoryCount": 1, ...}],
//	  "categories": [{"id": "branch-1-category-1", "branchId": "branch-1", ...}],
//	  "sites":      [{"id": "branch-1-category-1-site-1", "categoryId": ..., "branchId": ...}]
//	}
//
// Keys are camelCase. Entity arrays are in canonical order: branch-major,
// then category, then site.
//
// # Import
//
// [ReadJSON] decodes and validates a document: foreign keys must resolve,
// ids must be unique and sibling slugs distinct. Counts carried in the input
// are ignored and recomputed from the child arrays.
//
//	d, err := io.ImportJSON("dist/data/directory.json")
//
// # Export
//
// [WriteJSON] encodes with two-space indentation and a trailing newline so
// identical input yields identical bytes.
package io
