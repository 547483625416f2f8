// Package slug derives URL-safe path segments from display names.
//
// [Make] is a pure function: lowercase, trim, turn whitespace runs into a
// single hyphen, drop anything outside [a-z0-9-], collapse hyphen runs, and
// strip hyphens left dangling at either end. It is idempotent, and input made
// only of punctuation yields "".
//
// [Set] tracks the slugs already handed out inside one sibling group (the
// children of a single parent) and disambiguates repeats with a numeric
// suffix, so two siblings can never share a page path.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Make converts text to a URL-safe slug.
//
//	Make("AI & Machine Learning") // "ai-machine-learning"
//	Make("  Next-Gen  Tools ")    // "next-gen-tools"
//	Make("!!!")                   // ""
func Make(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	lastHyphen := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		}
		// All other characters are dropped without breaking a hyphen run.
	}
	return strings.Trim(b.String(), "-")
}

// Collision records a slug that had to be disambiguated.
type Collision struct {
	Base     string // slug derived from the name
	Assigned string // slug actually handed out
	Owner    string // id of the entity that received Assigned
}

// Set hands out unique slugs within one sibling group.
// The zero value is not usable; create one with [NewSet].
type Set struct {
	used map[string]bool
}

// NewSet creates an empty sibling group.
func NewSet() *Set {
	return &Set{used: make(map[string]bool)}
}

// Claim reserves a slug for owner derived from base.
//
// An empty base (degenerate name) falls back to Make(owner) so every entity
// still gets a path. If the slug is taken, "-2", "-3", ... are tried in order
// until a free one is found; collided reports whether that happened.
func (s *Set) Claim(base, owner string) (slug string, collided bool) {
	if base == "" {
		base = Make(owner)
	}
	if !s.used[base] {
		s.used[base] = true
		return base, false
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate, true
		}
	}
}

// Has reports whether slug is already claimed.
func (s *Set) Has(slug string) bool {
	return s.used[slug]
}

// Len returns the number of claimed slugs.
func (s *Set) Len() int {
	return len(s.used)
}
