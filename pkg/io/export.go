package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/branchpalette/branchpalette/pkg/errors"
)

// WriteJSON encodes v as indented JSON and writes it to w.
// HTML characters are not escaped so names like "AI & Machine Learning" stay
// readable in the output.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v as JSON to path, creating parent directories first.
// Failures are IO errors naming the path.
func ExportJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError(err, "create directory", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(err, "create", path)
	}
	if err := WriteJSON(v, f); err != nil {
		f.Close()
		return errors.IOError(err, "write", path)
	}
	if err := f.Close(); err != nil {
		return errors.IOError(err, "close", path)
	}
	return nil
}

// WriteFile writes data to path, creating parent directories first.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError(err, "create directory", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError(err, "write", path)
	}
	return nil
}
