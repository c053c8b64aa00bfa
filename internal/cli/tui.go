package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BranchListModel - Interactive branch browser
// =============================================================================

// BranchListModel is the bubbletea model for browsing a reduced network.
// Branches are listed depth-first, children indented under their parent.
type BranchListModel struct {
	Record   *store.Record
	Branches []network.BranchResult
	Cursor   int
	Height   int
	Offset   int

	share progress.Model
}

// NewBranchListModel creates a browser over rec's branches.
func NewBranchListModel(rec *store.Record) BranchListModel {
	return BranchListModel{
		Record:   rec,
		Branches: rec.Result.Branches,
		Height:   15,
		share:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
	}
}

func (m BranchListModel) Init() tea.Cmd {
	return nil
}

func (m BranchListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "p":
			m.jumpToParent()
		case "home", "g":
			m.move(-len(m.Branches))
		case "end", "G":
			m.move(len(m.Branches))
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls to keep it visible.
func (m *BranchListModel) move(delta int) {
	if len(m.Branches) == 0 {
		return
	}
	m.Cursor = max(0, min(len(m.Branches)-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// jumpToParent moves the cursor to the branch the current one hangs from.
func (m *BranchListModel) jumpToParent() {
	if len(m.Branches) == 0 {
		return
	}
	parent := m.Branches[m.Cursor].Parent
	if parent == "" {
		return
	}
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.Branches[i].Segment == parent {
			m.move(i - m.Cursor)
			return
		}
	}
}

func (m BranchListModel) View() string {
	var b strings.Builder

	res := m.Record.Result
	title := fmt.Sprintf("%s  %s  %s", res.Root, formatPower(res.Power), formatMoment(res.Moment))
	if m.Record.Name != "" {
		title = m.Record.Name + "  " + title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Branches))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		br := m.Branches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", br.Depth) + br.Segment,
			fmt.Sprintf("%d", br.Loads),
			formatPower(br.Power),
			formatMoment(br.Moment),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	heaviest := m.heaviest()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Segment", "Loads", "Power", "Moment").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case idx == heaviest && col == 4:
				return StyleWarning
			case m.Branches[idx].Loads == 0:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Branches) > 0 {
		b.WriteString(m.detail(m.Branches[m.Cursor]))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Branches))))
	}

	return b.String()
}

// detail describes one branch below the table.
func (m BranchListModel) detail(br network.BranchResult) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-10s", k)))
		b.WriteString(StyleValue.Render(v))
		b.WriteString("\n")
	}
	if br.Parent == "" {
		line("feeds", "supply")
	} else {
		line("parent", fmt.Sprintf("%s at %.0f", br.Parent, br.Offset))
	}
	line("length", fmt.Sprintf("%.0f", br.Length))
	if n := m.children(br.Segment); n > 0 {
		line("branches", fmt.Sprintf("%d", n))
	}
	if total := m.Record.Result.Power; total > 0 {
		ratio := br.Power / total
		line("share", m.share.ViewAs(ratio)+fmt.Sprintf("  %.1f %% of feed power", 100*ratio))
	}
	return b.String()
}

func (m BranchListModel) children(id string) int {
	n := 0
	for _, br := range m.Branches {
		if br.Parent == id {
			n++
		}
	}
	return n
}

// heaviest returns the index of the non-root branch with the largest
// moment, or -1.
func (m BranchListModel) heaviest() int {
	best := -1
	for i, br := range m.Branches {
		if br.Parent == "" {
			continue
		}
		if best < 0 || br.Moment > m.Branches[best].Moment {
			best = i
		}
	}
	return best
}
