package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcusziade/githubcards/pkg/models"
)

var (
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6a737d")
	Border      = lipgloss.Color("#2a3850")
	Destructive = lipgloss.Color("#e53935")
)

// Styles holds the terminal styles
type Styles struct {
	Title   lipgloss.Style
	Card    lipgloss.Style
	Name    lipgloss.Style
	Company lipgloss.Style
	Avatar  lipgloss.Style
	Error   lipgloss.Style
	Status  lipgloss.Style
}

// DefaultStyles returns the default terminal styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			Width(48),
		Name:    lipgloss.NewStyle().Bold(true),
		Company: lipgloss.NewStyle(),
		Avatar:  lipgloss.NewStyle().Foreground(Muted),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Status:  lipgloss.NewStyle().Foreground(Muted).Italic(true),
	}
}

// PlainStyles renders without colour or borders
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Card:    plain,
		Name:    plain,
		Company: plain,
		Avatar:  plain,
		Error:   plain,
		Status:  plain,
	}
}

// TermCard renders one profile as a boxed block
func (s Styles) TermCard(p models.Profile) string {
	lines := []string{
		s.Name.Render(p.Name),
		s.Company.Render(p.Company),
		s.Avatar.Render(p.AvatarURL),
	}
	return s.Card.Render(strings.Join(lines, "\n"))
}

// TermCardList renders the cards top to bottom. An empty list renders
// as an empty string.
func (s Styles) TermCardList(profiles []models.Profile) string {
	cards := make([]string, 0, len(profiles))
	for _, p := range profiles {
		cards = append(cards, s.TermCard(p))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
