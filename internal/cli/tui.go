package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
)

// List styles
var (
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive directory browser
// =============================================================================

type browseLevel int

const (
	levelBranches browseLevel = iota
	levelCategories
	levelSites
	levelSite
)

// loadedMsg carries the result of a directory load.
type loadedMsg struct {
	dir *directory.Directory
	err error
}

// browseRow is one line of the list at the current level.
type browseRow struct {
	id     string
	name   string
	info   string
	detail string
}

// BrowseModel is the bubbletea model for walking Branch → Category → Site
// with a per-level search filter. The directory is loaded asynchronously;
// a failed load shows an unavailable state with a retry key.
type BrowseModel struct {
	source string
	load   func() (*directory.Directory, error)

	dir     *directory.Directory
	err     error
	loading bool

	level    browseLevel
	branch   directory.Branch
	category directory.Category
	site     directory.Site

	cursor int
	offset int
	height int

	filtering bool
	query     string
}

// NewBrowseModel creates a browser that loads its directory with load.
// source is only displayed.
func NewBrowseModel(source string, load func() (*directory.Directory, error)) BrowseModel {
	return BrowseModel{
		source:  source,
		load:    load,
		loading: true,
		height:  15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BrowseModel) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		d, err := load()
		return loadedMsg{dir: d, err: err}
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.dir, m.err = msg.dir, msg.err
		m.level = levelBranches
		m.query = ""
		m.cursor, m.offset = 0, 0
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.err != nil && !m.loading {
				m.loading, m.err = true, nil
				return m, m.loadCmd()
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", "right", "l":
			m.descend()
		case "esc":
			if m.query != "" {
				m.setQuery("")
			} else {
				m.ascend()
			}
		case "backspace", "left", "h":
			m.ascend()
		case "/":
			if m.dir != nil && m.level != levelSite {
				m.filtering = true
			}
		}
	}
	return m, nil
}

func (m BrowseModel) updateFilter(msg tea.KeyMsg) BrowseModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.setQuery("")
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.setQuery(string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		m.setQuery(m.query + " ")
	case tea.KeyRunes:
		m.setQuery(m.query + string(msg.Runes))
	}
	return m
}

func (m *BrowseModel) setQuery(q string) {
	m.query = q
	m.cursor, m.offset = 0, 0
}

func (m *BrowseModel) move(delta int) {
	n := len(m.rows())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *BrowseModel) descend() {
	rows := m.rows()
	if len(rows) == 0 || m.cursor >= len(rows) {
		return
	}
	id := rows[m.cursor].id
	switch m.level {
	case levelBranches:
		m.branch, _ = m.dir.Branch(id)
	case levelCategories:
		m.category, _ = m.dir.Category(m.branch.ID, id)
	case levelSites:
		m.site, _ = m.dir.Site(m.branch.ID, m.category.ID, id)
	default:
		return
	}
	m.level++
	m.query = ""
	m.cursor, m.offset = 0, 0
}

// ascend goes up one level and puts the cursor back on the entity we came from.
func (m *BrowseModel) ascend() {
	var from string
	switch m.level {
	case levelCategories:
		from = m.branch.ID
	case levelSites:
		from = m.category.ID
	case levelSite:
		from = m.site.ID
	default:
		return
	}
	m.level--
	m.query = ""
	m.cursor, m.offset = 0, 0
	for i, r := range m.rows() {
		if r.id == from {
			m.cursor = i
			m.move(0)
			break
		}
	}
}

// rows returns the entries of the current level that match the filter.
func (m BrowseModel) rows() []browseRow {
	if m.dir == nil {
		return nil
	}
	var rows []browseRow
	switch m.level {
	case levelBranches:
		for _, b := range m.dir.Branches() {
			if directory.Match(m.query, b.Name, b.Description) {
				rows = append(rows, browseRow{b.ID, b.Name, strconv.Itoa(b.CategoryCount) + " categories", b.Description})
			}
		}
	case levelCategories:
		for _, c := range m.dir.Categories(m.branch.ID) {
			if directory.Match(m.query, c.Name, c.Description) {
				rows = append(rows, browseRow{c.ID, c.Name, strconv.Itoa(c.SiteCount) + " sites", c.Description})
			}
		}
	case levelSites:
		for _, s := range m.dir.Sites(m.branch.ID, m.category.ID) {
			if directory.Match(m.query, s.Name, s.Description) || directory.Match(m.query, s.Tags...) {
				rows = append(rows, browseRow{s.ID, s.Name, fmt.Sprintf("★ %.1f", s.Rating), s.Tagline})
			}
		}
	}
	return rows
}

// =============================================================================
// View
// =============================================================================

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Branch Palette"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.breadcrumb()))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(listDimStyle.Render("Loading directory from " + m.source + "..."))
		b.WriteString("\n")
		return b.String()
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("Directory unavailable"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(errors.UserMessage(m.err)))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("r retry  q quit"))
		b.WriteString("\n")
		return b.String()
	}

	if m.level == levelSite {
		b.WriteString(listDimStyle.Render("esc back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.siteView())
		return b.String()
	}

	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back  / search  q quit"))
	b.WriteString("\n")
	if m.filtering || m.query != "" {
		line := "/ " + m.query
		if m.filtering {
			line += "█"
		}
		b.WriteString(StyleHighlight.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  No matches"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.listView(rows))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(rows))))
	return b.String()
}

func (m BrowseModel) breadcrumb() string {
	parts := []string{"Home"}
	if m.level > levelBranches {
		parts = append(parts, m.branch.Name)
	}
	if m.level > levelCategories {
		parts = append(parts, m.category.Name)
	}
	if m.level > levelSites {
		parts = append(parts, m.site.Name)
	}
	return strings.Join(parts, " › ")
}

func (m BrowseModel) listView(rows []browseRow) string {
	end := min(m.offset+m.height, len(rows))
	cells := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		cells = append(cells, []string{cursor, rows[i].name, rows[i].info, truncate(rows[i].detail, 48)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "", "Description").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

func (m BrowseModel) siteView() string {
	s := m.site
	var b strings.Builder
	line := func(key, value string) {
		if value != "" {
			b.WriteString(styleKey.Render(key) + " " + StyleValue.Render(value) + "\n")
		}
	}

	b.WriteString(listSelectedStyle.Render(s.Name) + "\n")
	if s.Tagline != "" {
		b.WriteString(listDimStyle.Render(s.Tagline) + "\n")
	}
	b.WriteString("\n")
	line("url", s.URL)
	line("rating", fmt.Sprintf("%.1f (%d reviews)", s.Rating, s.Reviews))
	line("pricing", s.Pricing)
	line("tags", strings.Join(s.Tags, ", "))
	if md := s.Metadata; md != nil {
		line("version", md.Version)
		line("updated", md.LastUpdated)
		line("license", md.License)
		line("platform", md.Platform)
	}
	if s.Description != "" {
		b.WriteString("\n" + s.Description + "\n")
	}
	if len(s.Features) > 0 {
		b.WriteString("\n" + listHeaderStyle.Render("Features") + "\n")
		for _, f := range s.Features {
			b.WriteString("  • " + f + "\n")
		}
	}
	return b.String()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
