package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/tree"
)

var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuiDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeRow is one visible line of the explorer: a node plus its indentation.
type treeRow struct {
	node  *tree.Node
	depth int
}

// adoptModel is the bubbletea model for the interactive adoption explorer.
//
// The tree is flattened once at construction; toggling changes only the
// adoption set, never the row list, so the cursor stays stable.
type adoptModel struct {
	root   *tree.Node
	rows   []treeRow
	index  adoption.Index
	store  *adoption.Store
	set    adoption.Set
	cursor int
	height int
	offset int
}

func newAdoptModel(root *tree.Node, cat *catalog.Catalog, store *adoption.Store) adoptModel {
	var rows []treeRow
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		rows = append(rows, treeRow{node: n, depth: depth})
		for _, child := range n.Dependencies {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	return adoptModel{
		root:   root,
		rows:   rows,
		index:  adoption.Index(cat.DependencyIndex()),
		store:  store,
		set:    store.Snapshot(),
		height: 20,
	}
}

func (m adoptModel) Init() tea.Cmd {
	return nil
}

func (m adoptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ", "enter":
			id := m.rows[m.cursor].node.ID
			m.set = m.store.Toggle(id)
		case "c":
			m.set = m.store.Clear()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m adoptModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Adoption Explorer · " + m.root.Name))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("↑/↓ navigate  space toggle  c clear  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		mark := tuiDimStyle.Render("○")
		if m.set.Has(row.node.ID) {
			mark = StyleAdopted.Render("●")
		}

		line := cursor + strings.Repeat("  ", row.depth) + mark + " " + row.node.Name
		if i == m.cursor {
			b.WriteString(tuiSelectedStyle.Render(line))
		} else if m.set.Has(row.node.ID) {
			b.WriteString(StyleAdopted.Render(line))
		} else {
			b.WriteString(tuiNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	got, total := adoption.CountAdopted(childIDs(m.root), m.set, m.index)
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  [%d/%d]  ", m.cursor+1, len(m.rows))))
	b.WriteString(StyleAdopted.Render(fmt.Sprintf("%d/%d adopted (%d%%)", got, total, adoption.Percentage(got, total))))
	b.WriteString("\n")

	return b.String()
}
