package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lineofflight/changeos/internal/tools"
)

var (
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(Orange)
	slideStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Orange).
			Padding(1, 4).
			Align(lipgloss.Center)
)

// MythModel is the interactive 70% myth slideshow.
type MythModel struct {
	deck  tools.Deck
	width int
}

// NewMythModel starts the slideshow at the first slide.
func NewMythModel() MythModel {
	return MythModel{width: 70}
}

// Deck returns the current slideshow position.
func (m MythModel) Deck() tools.Deck { return m.deck }

func (m MythModel) Init() tea.Cmd { return nil }

func (m MythModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width-4, 40), 90)
	case tea.KeyMsg:
		switch msg.String() {
		case "right", "l", "n", " ", "enter":
			m.deck = m.deck.Next()
		case "left", "h", "p":
			m.deck = m.deck.Prev()
		case "home", "g":
			m.deck = m.deck.Goto(0)
		case "end", "G":
			m.deck = m.deck.Goto(len(tools.MythSlides) - 1)
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MythModel) View() string {
	s := m.deck.Current()
	body := strings.Join([]string{
		highlightStyle.Render(s.Highlight),
		mutedStyle.Render(s.HighlightLabel),
		"",
		titleStyle.Render(s.Title),
		"",
		lipgloss.NewStyle().Width(m.width - 10).Align(lipgloss.Center).Render(s.Content),
	}, "\n")

	dots := make([]string, len(tools.MythSlides))
	for i := range dots {
		if i == m.deck.Index {
			dots[i] = highlightStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}

	return fmt.Sprintf("%s\n%s  %s\n\n%s\n",
		slideStyle.Width(m.width).Render(body),
		strings.Join(dots, " "),
		mutedStyle.Render(fmt.Sprintf("%d/%d  ←/→ navigate · q quit", m.deck.Index+1, len(tools.MythSlides))),
		mutedStyle.Render("Further reading: "+tools.MythReading))
}
