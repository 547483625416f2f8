package directory

import "time"

// Branch is a top-level grouping.
type Branch struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Slug          string `json:"slug"`
	CategoryCount int    `json:"categoryCount"`
	LayoutVariant string `json:"layoutVariant,omitempty"`
	StyleVariant  string `json:"styleVariant,omitempty"`
}

// Category is a child of exactly one Branch.
type Category struct {
	ID            string `json:"id"`
	BranchID      string `json:"branchId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Slug          string `json:"slug"`
	SiteCount     int    `json:"siteCount"`
	LayoutVariant string `json:"layoutVariant,omitempty"`
	StyleVariant  string `json:"styleVariant,omitempty"`
}

// Site is a leaf entry and carries most of the display content.
type Site struct {
	ID              string    `json:"id"`
	CategoryID      string    `json:"categoryId"`
	BranchID        string    `json:"branchId"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Tagline         string    `json:"tagline,omitempty"`
	Description     string    `json:"description"`
	FullDescription string    `json:"fullDescription,omitempty"`
	URL             string    `json:"url"`
	Tags            []string  `json:"tags,omitempty"`
	Rating          float64   `json:"rating"`
	Reviews         int       `json:"reviews"`
	Pricing         string    `json:"pricing,omitempty"`
	Metadata        *Metadata `json:"metadata,omitempty"`
	Skills          []Skill   `json:"skills,omitempty"`
	Benefits        []Benefit `json:"benefits,omitempty"`
	Features        []string  `json:"features,omitempty"`
}

// Metadata is the descriptive block shown on a site page.
type Metadata struct {
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
	License     string `json:"license"`
	Platform    string `json:"platform"`
	Language    string `json:"language"`
}

// SkillLevel is one of beginner, intermediate, advanced.
type SkillLevel string

// Skill levels.
const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

// Valid reports whether l is a known level.
func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Skill is a named capability with a level.
type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

// Benefit is a titled selling point.
type Benefit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Document is the JSON interchange format between generation and every
// consumer (page fan-out, sitemap, client).
type Document struct {
	DatasetID   string     `json:"datasetId,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Branches    []Branch   `json:"branches"`
	Categories  []Category `json:"categories"`
	Sites       []Site     `json:"sites"`
}

// Kind identifies the level of a node in the hierarchy.
type Kind string

// Node kinds in fan-out order.
const (
	KindHome     Kind = "home"
	KindBranch   Kind = "branch"
	KindCategory Kind = "category"
	KindSite     Kind = "site"
)
