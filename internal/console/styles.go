package console

import "github.com/charmbracelet/lipgloss"

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#3C6E91")).
			Padding(0, 1)

	errorNoticeStyle = noticeStyle.
				Background(lipgloss.Color("#B03A2E"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#B9770E")).
			Bold(true).
			Padding(0, 1)

	helpStyle = blurredStyle

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// badge colours follow the web table: success, danger, warning, secondary.
var (
	badgeBase = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)

	activeBadge     = badgeBase.Background(lipgloss.Color("#198754"))
	blockedBadge    = badgeBase.Background(lipgloss.Color("#DC3545"))
	unverifiedBadge = badgeBase.Background(lipgloss.Color("#FFC107")).Foreground(lipgloss.Color("#212529"))
	unknownBadge    = badgeBase.Background(lipgloss.Color("#6C757D"))
)

func statusBadge(status string) string {
	switch status {
	case "active":
		return activeBadge.Render(status)
	case "blocked":
		return blockedBadge.Render(status)
	case "unverified":
		return unverifiedBadge.Render(status)
	default:
		return unknownBadge.Render(status)
	}
}
