package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Calypso Updates - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	updateActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Updates"),
		"• u / Enter    Update selected item",
		"• a            Update everything",
		"• r            Retry last failed update",
		"• d            Dismiss selected item",
		"• D            Dismiss all items",
		"• R            Refresh the list",
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		"• j/k or ↑/↓   Move selection",
		"• /            Filter by name",
		"• t            Cycle type filter",
		"• h            Update history",
		"• c            Setup checklist",
	)

	noticeActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Notices"),
		"• y            Copy last error",
		"• x            Clear notices",
	)

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Tips"),
		"• Dismissed items keep updating,",
		"  they are only hidden.",
		"• One update runs at a time.",
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		updateActions,
		"",
		noticeActions,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		navigation,
		"",
		tips,
	)

	columnStyle := lipgloss.NewStyle().Width(38).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("      Press ? or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(90)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
