// Package style provides plain console coloring for assertion and
// lifecycle output, grounded verbatim on the teacher's pkg/tui/styles.go
// lipgloss.NewStyle().Foreground(...).Render(...) idiom, narrowed to the
// three statuses the scheduler reports — no bubbletea program loop is
// adopted (authoring UI is an explicit spec Non-goal).
package style

import "github.com/charmbracelet/lipgloss"

var (
	passColor   = lipgloss.Color("#04B575")
	failColor   = lipgloss.Color("#ED567A")
	brokenColor = lipgloss.Color("#F3AA3C")

	PassStyle   = lipgloss.NewStyle().Foreground(passColor).Bold(true)
	FailStyle   = lipgloss.NewStyle().Foreground(failColor).Bold(true)
	BrokenStyle = lipgloss.NewStyle().Foreground(brokenColor).Bold(true)
)

// Ok renders message with the pass style and an "...ok" suffix, per §7's
// "per-assertion <message>...ok|failed" user-facing line.
func Ok(message string) string {
	return message + PassStyle.Render("...ok")
}

func Failed(message string) string {
	return message + FailStyle.Render("...failed")
}

func Broken(message string) string {
	return message + BrokenStyle.Render("...broken")
}
