package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#2271B1") // WordPress admin blue
	Secondary = lipgloss.Color("#00D4AA")

	Critical = lipgloss.Color("#FF0000")
	Info     = lipgloss.Color("#4D96FF")

	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Width(15)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	// [+] lines
	FoundStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// [!] lines
	VulnStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	URLStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// StatusCodeStyle returns the style for an HTTP status code.
func StatusCodeStyle(code int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case code >= 200 && code < 300:
		return base.Foreground(Success)
	case code >= 300 && code < 400:
		return base.Foreground(Info)
	case code >= 400 && code < 500:
		return base.Foreground(Warning)
	case code >= 500:
		return base.Foreground(Error)
	default:
		return base.Foreground(Muted)
	}
}

// Marker renders the bracketed line prefix used in reports: "+" for
// findings, "!" for vulnerabilities, "i" for information.
func Marker(kind string) string {
	switch kind {
	case "+":
		return FoundStyle.Render("[+]")
	case "!":
		return VulnStyle.Render("[!]")
	case "i":
		return InfoStyle.Render("[i]")
	default:
		return MutedStyle.Render("[" + kind + "]")
	}
}
