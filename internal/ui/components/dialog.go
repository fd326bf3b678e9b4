package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(1, 2).
			Width(44)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(SanitizeOneLine(title)) + "\n\n" +
			dialogBodyStyle.Render(SanitizeText(message)) +
			dialogBodyStyle.Render("\ny: confirm | n: cancel"),
	)
}

// NoticeDialog renders a message with a single dismiss hint, used when a page is
// unavailable for the current account.
func NoticeDialog(title, message string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(SanitizeOneLine(title)) + "\n\n" +
			dialogBodyStyle.Render(SanitizeText(message)) +
			dialogBodyStyle.Render("\nesc: close"),
	)
}
