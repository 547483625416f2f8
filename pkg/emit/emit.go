// Package emit serializes a built directory to its on-disk data formats.
//
// Four targets are supported, all written under <root>/data:
//
//	json    directory.json       flat document {datasetId, generatedAt, branches, categories, sites}
//	ts      generated.ts         the same document as an exported source constant
//	nested  branches/<slug>.json one file per branch with its categories and sites inlined
//	sites   sites.json           flat list of every site
//
// Output is byte-identical for identical input except for generatedAt.
// The datasetId is a name-based UUID of the entity payload, so it only
// changes when the entities do.
package emit

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
)

// Target names accepted by [Write].
const (
	TargetJSON   = "json"
	TargetTS     = "ts"
	TargetNested = "nested"
	TargetSites  = "sites"
)

// Paths of emitted files relative to the output root.
const (
	DataDir      = "data"
	DocumentFile = "data/directory.json"
	SourceFile   = "data/generated.ts"
	SitesFile    = "data/sites.json"
	BranchesDir  = "data/branches"
)

// namespace scopes dataset ids to this generator.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://branchpalette.dev/dataset"))

// Result lists what [Write] produced.
type Result struct {
	DatasetID string
	Files     []string // relative to the output root, in write order
}

// DatasetID returns the deterministic dataset id of d: a UUIDv5 over the
// canonical JSON encoding of its entities.
func DatasetID(d *directory.Directory) (string, error) {
	payload, err := json.Marshal(d.Document("", time.Time{}))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode dataset payload")
	}
	return uuid.NewSHA1(namespace, payload).String(), nil
}

// Write emits every requested target for d under root. Unknown targets are
// rejected before anything is written.
func Write(d *directory.Directory, root string, targets []string, generatedAt time.Time) (*Result, error) {
	for _, t := range targets {
		switch t {
		case TargetJSON, TargetTS, TargetNested, TargetSites:
		default:
			return nil, errors.New(errors.ErrCodeConfig, "unknown emit target %q", t)
		}
	}

	id, err := DatasetID(d)
	if err != nil {
		return nil, err
	}
	doc := d.Document(id, generatedAt)
	res := &Result{DatasetID: id}

	for _, t := range targets {
		var files []string
		switch t {
		case TargetJSON:
			files, err = writeDocument(doc, root)
		case TargetTS:
			files, err = writeSource(doc, root)
		case TargetNested:
			files, err = writeNested(d, root)
		case TargetSites:
			files, err = writeSites(doc, root)
		}
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, files...)
	}
	return res, nil
}

func writeDocument(doc directory.Document, root string) ([]string, error) {
	if err := bpio.ExportJSON(doc, filepath.Join(root, DocumentFile)); err != nil {
		return nil, err
	}
	return []string{DocumentFile}, nil
}

// Source renders doc as a TypeScript module exporting GENERATED_DIRECTORY.
func Source(doc directory.Document) ([]byte, error) {
	var body bytes.Buffer
	if err := bpio.WriteJSON(doc, &body); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("// Code generated by branchpalette. DO NOT EDIT.\n\n")
	buf.WriteString("export const GENERATED_DIRECTORY = ")
	buf.Write(bytes.TrimRight(body.Bytes(), "\n"))
	buf.WriteString(" as const;\n\nexport default GENERATED_DIRECTORY;\n")
	return buf.Bytes(), nil
}

func writeSource(doc directory.Document, root string) ([]string, error) {
	src, err := Source(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", SourceFile)
	}
	if err := bpio.WriteFile(filepath.Join(root, SourceFile), src); err != nil {
		return nil, err
	}
	return []string{SourceFile}, nil
}

func writeSites(doc directory.Document, root string) ([]string, error) {
	sites := doc.Sites
	if sites == nil {
		sites = []directory.Site{}
	}
	if err := bpio.ExportJSON(sites, filepath.Join(root, SitesFile)); err != nil {
		return nil, err
	}
	return []string{SitesFile}, nil
}

// NestedBranch is the per-branch file layout: a branch with its categories
// and each category's sites inlined.
type NestedBranch struct {
	directory.Branch
	Categories []NestedCategory `json:"categories"`
}

// NestedCategory is a category with its sites inlined.
type NestedCategory struct {
	directory.Category
	Sites []directory.Site `json:"sites"`
}

// Nest returns the nested view of b.
func Nest(d *directory.Directory, b directory.Branch) NestedBranch {
	nb := NestedBranch{Branch: b, Categories: []NestedCategory{}}
	for _, c := range d.Categories(b.ID) {
		sites := d.Sites(b.ID, c.ID)
		if sites == nil {
			sites = []directory.Site{}
		}
		nb.Categories = append(nb.Categories, NestedCategory{Category: c, Sites: sites})
	}
	return nb
}

func writeNested(d *directory.Directory, root string) ([]string, error) {
	branches := d.Branches()
	files := make([]string, 0, len(branches))
	for _, b := range branches {
		rel := BranchesDir + "/" + b.Slug + ".json"
		if err := bpio.ExportJSON(Nest(d, b), filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	return files, nil
}
