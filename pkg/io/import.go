package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/branchpalette/branchpalette/pkg/directory"
)

// ReadDocument decodes a directory document from r without validating it.
// A document missing the branches array is rejected since every consumer
// needs at least the top level.
func ReadDocument(r io.Reader) (*directory.Document, error) {
	var doc directory.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Branches == nil {
		return nil, fmt.Errorf("decode: document has no branches array")
	}
	return &doc, nil
}

// ReadJSON decodes a directory document from r and indexes it.
//
// ReadJSON returns an error if the JSON is malformed or the document breaks
// a structural invariant (duplicate id, dangling foreign key, a site whose
// branch differs from its category's branch, or reused sibling slugs).
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*directory.Directory, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	d := directory.FromDocument(doc)
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return d, nil
}

// ImportJSON reads the document at path and returns the indexed directory.
func ImportJSON(path string) (*directory.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
