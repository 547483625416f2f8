package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "URL contains whitespace or control characters")
		}
	}

	return nil
}

// ValidateBasePath validates the path prefix prepended to every generated link.
//
// Validation rules:
//   - Empty is allowed and means the site is served from the domain root
//   - Must start with "/"
//   - No path traversal sequences (..)
//   - No backslashes, whitespace, or control characters
func ValidateBasePath(path string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "base path must start with /: %q", path)
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "base path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "base path cannot contain backslashes")
	}
	for _, r := range path {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "base path contains whitespace or control characters")
		}
	}
	return nil
}

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// ValidateOutputDir rejects output roots that must never be wiped.
// The page generator removes its output root before writing, so the
// filesystem root, the working directory itself, and the user's home
// directory are refused.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeConfig, "output directory cannot be empty")
	}
	clean := filepath.Clean(dir)
	if clean == "." || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return New(ErrCodeConfig, "refusing to use %q as output directory", dir)
	}
	if home, err := userHomeDir(); err == nil && home != "" && filepath.Clean(home) == clean {
		return New(ErrCodeConfig, "refusing to use home directory %q as output directory", dir)
	}
	return nil
}
