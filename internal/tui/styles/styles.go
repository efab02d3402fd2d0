package styles

import (
	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// --- Typography ---

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for hints and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)
)

// --- Status badges ---

// StatusStyle returns the style for an action status.
func StatusStyle(code domain.StatusCode) lipgloss.Style {
	switch code {
	case domain.StatusComplete:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case domain.StatusRunning:
		return lipgloss.NewStyle().Foreground(Blue).Bold(true)
	case domain.StatusFailed:
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case domain.StatusAborted:
		return lipgloss.NewStyle().Foreground(Yellow)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + status text with appropriate color.
func StatusIndicator(code domain.StatusCode) string {
	style := StatusStyle(code)
	return style.Render("●") + " " + style.Render(string(code))
}

// --- Alert panels ---

// Border is the default panel border.
var Border = lipgloss.RoundedBorder()

// AlertCard returns a bordered panel colored by alert type.
func AlertCard(t domain.AlertType) lipgloss.Style {
	color := Blue
	switch t {
	case domain.AlertError:
		color = Red
	case domain.AlertSuccess:
		color = Green
	}
	return lipgloss.NewStyle().
		Border(Border).
		BorderForeground(color).
		Padding(0, 1)
}

// AlertTitle returns the title style for an alert type.
func AlertTitle(t domain.AlertType) lipgloss.Style {
	switch t {
	case domain.AlertError:
		return ErrorText
	case domain.AlertSuccess:
		return SuccessText
	default:
		return Title
	}
}
