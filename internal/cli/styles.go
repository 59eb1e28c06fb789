package cli

import "github.com/charmbracelet/lipgloss"

// colors is the palette for command output.
var colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
}

// styles holds the lipgloss styles used by list and show output.
// lipgloss drops colors when stdout is not a terminal.
var styles = struct {
	Header    lipgloss.Style
	TaskName  lipgloss.Style
	Schedule  lipgloss.Style
	Loaded    lipgloss.Style
	NotLoaded lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Path      lipgloss.Style
}{
	Header:    lipgloss.NewStyle().Bold(true).Foreground(colors.Primary),
	TaskName:  lipgloss.NewStyle().Bold(true),
	Schedule:  lipgloss.NewStyle(),
	Loaded:    lipgloss.NewStyle().Foreground(colors.Success),
	NotLoaded: lipgloss.NewStyle().Foreground(colors.Muted),
	Error:     lipgloss.NewStyle().Foreground(colors.Error),
	Warning:   lipgloss.NewStyle().Foreground(colors.Warning),
	Path:      lipgloss.NewStyle().Foreground(colors.Muted),
}
