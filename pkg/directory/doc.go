// Package directory models the Branch → Category → Site hierarchy and
// builds it deterministically from a [config.Generation].
//
// # Model
//
// Entities reference their parents by id string (never by pointer) so a
// [Directory] serializes as three flat arrays. Every Category names its
// Branch; every Site names both its Category and that Category's Branch.
//
// # Canonical order
//
// [Build] inserts each branch, then its categories in order, then each
// category's sites in order. [Directory.Walk] and [Paths.Routes] iterate in
// the same order, which is what makes page fan-out and the sitemap stable
// and diffable across runs.
//
// # Paths
//
// [Paths] is the single place where page URLs and output files are derived
// from slugs. The page generator and the sitemap both call it, so every
// sitemap URL resolves to a written page and every written page is listed.
//
// # Lookups
//
// A loaded Directory answers Branch, Category, Site, Categories, Sites and
// Search synchronously from in-memory indexes built by [New].
package directory
