package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/dp564ctl/internal/session"
	"github.com/muurk/dp564ctl/internal/version"
)

// Application branding constants
const (
	AppName = "DP564 CONTROL"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

// Common styles
var (
	// Title style - bold header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	// Status panel around the connection/device summary
	StatusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2)

	// Connection state styles
	ReadyStateStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	PendingStateStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	OfflineStateStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// Event log line style
	EventStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(2)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)
)

// RenderTitle renders the application header line
func RenderTitle() string {
	return TitleStyle.Render(AppName + " v" + AppVersion())
}

// RenderConnState renders a connection state with its status color
func RenderConnState(state session.ConnState) string {
	switch state {
	case session.Ready:
		return ReadyStateStyle.Render("● connected")
	case session.HandshakePending:
		return PendingStateStyle.Render("◐ handshaking")
	default:
		return OfflineStateStyle.Render("○ disconnected")
	}
}

// RenderStatusBox renders the device status panel: target address,
// connection state, and the last-known device state. Outside Ready the
// device state is marked stale since nothing can refresh it.
func RenderStatusBox(target string, conn session.ConnState, device session.DeviceState) string {
	state := device.String()
	if conn != session.Ready {
		state += " (stale)"
	}
	body := fmt.Sprintf("%s  %s\n%s", target, RenderConnState(conn), state)
	return StatusBoxStyle.Render(body)
}
