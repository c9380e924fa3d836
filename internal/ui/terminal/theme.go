package terminal

import "github.com/charmbracelet/lipgloss"

// Theme is a set of line styles.
type Theme struct {
	Name   string
	Self   lipgloss.Style
	Peer   lipgloss.Style
	Meta   lipgloss.Style
	Seen   lipgloss.Style
	Banner lipgloss.Style
	Error  lipgloss.Style
}

func Dark() Theme {
	return Theme{
		Name:   "dark",
		Self:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Peer:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
		Seen:   lipgloss.NewStyle().Foreground(lipgloss.Color("228")),
		Banner: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("63")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func Light() Theme {
	return Theme{
		Name:   "light",
		Self:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("90")),
		Peer:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("24")),
		Meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Seen:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Banner: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("55")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
	}
}

// ThemeByName returns the named theme; unknown names fall back to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}
