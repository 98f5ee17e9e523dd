package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskboard/internal/domain"
)

// Colors defines the palette used for terminal output.
var Colors = struct {
	Muted  lipgloss.Color
	Header lipgloss.Color

	// Status colors
	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color

	// Priority colors
	Low    lipgloss.Color
	Medium lipgloss.Color
	High   lipgloss.Color
}{
	Muted:  lipgloss.Color("#636E72"), // Gray
	Header: lipgloss.Color("#A29BFE"), // Lavender

	Todo:       lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green

	Low:    lipgloss.Color("#B2BEC3"), // Light gray
	Medium: lipgloss.Color("#FDCB6E"), // Yellow
	High:   lipgloss.Color("#D63031"), // Red
}

// Styles holds the lipgloss styles for one output writer.
// Colors are dropped automatically when the writer is not a terminal.
type Styles struct {
	Header lipgloss.Style
	Muted  lipgloss.Style

	StatusTodo       lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style

	PriorityLow    lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityHigh   lipgloss.Style
}

// newStyles returns styles rendered for w.
func newStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Header: r.NewStyle().Bold(true).Foreground(Colors.Header),
		Muted:  r.NewStyle().Foreground(Colors.Muted),

		StatusTodo:       r.NewStyle().Foreground(Colors.Todo),
		StatusInProgress: r.NewStyle().Foreground(Colors.InProgress),
		StatusDone:       r.NewStyle().Foreground(Colors.Done),

		PriorityLow:    r.NewStyle().Foreground(Colors.Low),
		PriorityMedium: r.NewStyle().Foreground(Colors.Medium),
		PriorityHigh:   r.NewStyle().Foreground(Colors.High).Bold(true),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusDone:
		return s.StatusDone
	default:
		return s.StatusTodo
	}
}

// PriorityStyle returns the style for a given priority.
func (s Styles) PriorityStyle(priority domain.Priority) lipgloss.Style {
	switch priority {
	case domain.PriorityLow:
		return s.PriorityLow
	case domain.PriorityHigh:
		return s.PriorityHigh
	default:
		return s.PriorityMedium
	}
}
