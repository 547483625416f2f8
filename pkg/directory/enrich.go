package directory

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Enrichment vocabularies. Entries are chosen positionally; only the numeric
// fields (rating, reviews, version, lastUpdated) draw from the seeded source.
var (
	pricingTable  = []string{"Free", "Freemium", "Subscription", "One-time purchase", "Open source"}
	licenseTable  = []string{"MIT", "Apache-2.0", "Proprietary", "GPL-3.0", "BSD-3-Clause"}
	platformTable = []string{"Web", "Cross-platform", "Desktop", "Mobile", "Cloud"}
	languageTable = []string{"English", "Multilingual", "English, Spanish", "English, German", "English, French"}
	taglineTable  = []string{
		"Built for teams that move fast",
		"Everything you need in one place",
		"Simple, reliable, ready to integrate",
		"The shortcut to better results",
		"Designed for scale from day one",
	}
	skillTable = []string{
		"Setup & Configuration", "API Integration", "Data Import", "Automation",
		"Reporting", "Team Collaboration", "Security Hardening", "Performance Tuning",
	}
	levelTable   = []SkillLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}
	benefitTable = []Benefit{
		{"Save time", "Automate repetitive work and focus on what matters."},
		{"Stay in sync", "Keep data consistent across every tool you use."},
		{"Scale safely", "Grow usage without rewriting your workflow."},
		{"Integrate anywhere", "JSON, RSS and API ready out of the box."},
		{"Measure impact", "Built-in insights show what is working."},
	}
	featureTable = []string{
		"JSON export", "RSS feed", "REST API", "Single sign-on ready", "Dark mode",
		"Offline support", "Webhooks", "Role-based access", "Audit log", "Custom domains",
	}
)

const (
	skillsPerSite   = 3
	benefitsPerSite = 3
	featuresPerSite = 4
)

// enrich fills the display fields of s. k is the site's index within its
// category; positional picks use it so neighbours look different.
func (b *builder) enrich(s *Site, k int, branch Branch, cat Category) {
	s.Tagline = pick(taglineTable, k)
	s.Description = fmt.Sprintf("Placeholder for %s. Ready for JSON/RSS/API data.", cat.Name)
	s.FullDescription = fmt.Sprintf(
		"%s is listed under %s in the %s branch. %s This entry is placeholder content generated for layout and indexing and can be replaced by real data through the JSON document.",
		s.Name, cat.Name, branch.Name, strings.TrimSuffix(branch.Description, ".")+".")
	s.URL = fmt.Sprintf("https://%s.example.com/", s.Slug)
	s.Tags = siteTags(branch, cat, k)
	s.Pricing = pick(pricingTable, k)

	// Draw order is fixed: rating, reviews, age, major, minor, patch.
	s.Rating = math.Round((3+b.rnd.Float64()*2)*10) / 10
	s.Reviews = b.rnd.Range(10, 5000)
	age := b.rnd.Range(0, 365)
	version := fmt.Sprintf("%d.%d.%d", b.rnd.Range(1, 5), b.rnd.Range(0, 9), b.rnd.Range(0, 20))

	s.Metadata = &Metadata{
		LastUpdated: b.baseDate.Add(-time.Duration(age) * 24 * time.Hour).Format(time.DateOnly),
		Version:     version,
		License:     pick(licenseTable, k),
		Platform:    pick(platformTable, k),
		Language:    pick(languageTable, k),
	}

	s.Skills = make([]Skill, skillsPerSite)
	for i := range s.Skills {
		s.Skills[i] = Skill{Name: pick(skillTable, k+i), Level: levelTable[(k+i)%len(levelTable)]}
	}
	s.Benefits = make([]Benefit, benefitsPerSite)
	for i := range s.Benefits {
		s.Benefits[i] = benefitTable[(k+i)%len(benefitTable)]
	}
	s.Features = make([]string, featuresPerSite)
	for i := range s.Features {
		s.Features[i] = pick(featureTable, k+i)
	}
}

// siteTags returns lowercase, de-duplicated tags in a stable order.
func siteTags(branch Branch, cat Category, k int) []string {
	candidates := []string{
		strings.ToLower(branch.Name),
		strings.ToLower(firstWord(cat.Name)),
		strings.ToLower(lastWord(cat.Name)),
		strings.ToLower(pick(featureTable, k)),
	}
	seen := make(map[string]bool, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, t := range candidates {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

func firstWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}
