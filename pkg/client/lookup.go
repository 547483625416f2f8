package client

import (
	"strings"

	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
)

// Ref addresses an entity by its id path. Empty trailing fields select a
// higher level: a Ref with only BranchID resolves to the branch.
type Ref struct {
	BranchID   string
	CategoryID string
	SiteID     string
}

// ParseRef parses "branchId[/categoryId[/siteId]]".
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 3 {
		return Ref{}, errors.New(errors.ErrCodeInvalidInput, "reference %q must be branchId[/categoryId[/siteId]]", s)
	}
	for _, p := range parts {
		if p == "" {
			return Ref{}, errors.New(errors.ErrCodeInvalidInput, "reference %q has an empty segment", s)
		}
	}
	var r Ref
	r.BranchID = parts[0]
	if len(parts) > 1 {
		r.CategoryID = parts[1]
	}
	if len(parts) > 2 {
		r.SiteID = parts[2]
	}
	return r, nil
}

// String returns the slash-joined id path.
func (r Ref) String() string {
	s := r.BranchID
	if r.CategoryID != "" {
		s += "/" + r.CategoryID
	}
	if r.SiteID != "" {
		s += "/" + r.SiteID
	}
	return s
}

// Resolve looks up the entity ref points at. Each level must belong to the
// one above it; a mismatch is NOT_FOUND just like a missing id.
func Resolve(d *directory.Directory, ref Ref) (directory.Node, error) {
	b, ok := d.Branch(ref.BranchID)
	if !ok {
		return directory.Node{}, errors.New(errors.ErrCodeNotFound, "branch %s not found", ref.BranchID)
	}
	if ref.CategoryID == "" {
		return directory.Node{Kind: directory.KindBranch, Branch: b}, nil
	}

	c, ok := d.Category(b.ID, ref.CategoryID)
	if !ok {
		return directory.Node{}, errors.New(errors.ErrCodeNotFound, "category %s not found in branch %s", ref.CategoryID, b.ID)
	}
	if ref.SiteID == "" {
		return directory.Node{Kind: directory.KindCategory, Branch: b, Category: c}, nil
	}

	s, ok := d.Site(b.ID, c.ID, ref.SiteID)
	if !ok {
		return directory.Node{}, errors.New(errors.ErrCodeNotFound, "site %s not found in category %s", ref.SiteID, c.ID)
	}
	return directory.Node{Kind: directory.KindSite, Branch: b, Category: c, Site: s}, nil
}
