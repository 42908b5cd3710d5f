package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Francisco1000/wp-calypso/checklist"
	"github.com/Francisco1000/wp-calypso/updates"
)

const maxVisibleNotices = 3

// renderUpdatesList draws the main dashboard: title bar, notice stack,
// the updates list and the status bar.
func (a AppView) renderUpdatesList() string {
	title := a.renderTitle()
	notices := a.renderNotices()
	list := a.renderItems()
	footer := a.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		notices,
		list,
		footer,
	)
}

func (a AppView) renderTitle() string {
	brand := BrandStyle.Render("Calypso Updates")
	site := TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Config.SiteURL))

	scope := ""
	if a.typeFilter != "" {
		scope = DimStyle.Render(fmt.Sprintf(" | showing %ss", a.typeFilter))
	}

	queue := ""
	if n := a.dataModel.Updates.QueueLen(); n > 0 {
		queue = SelectedStyle.Render(fmt.Sprintf(" | queue: %d", n))
	}

	return brand + site + scope + queue
}

func (a AppView) renderNotices() string {
	if len(a.noticeOrder) == 0 {
		return ""
	}

	start := 0
	if len(a.noticeOrder) > maxVisibleNotices {
		start = len(a.noticeOrder) - maxVisibleNotices
	}

	var lines []string
	for _, id := range a.noticeOrder[start:] {
		n := a.notices[id]
		switch n.Kind {
		case updates.NoticeError:
			line := ErrorStyle.Render("✗ " + n.Text)
			if n.Retry != nil {
				line += DimStyle.Render("  (r to retry)")
			}
			lines = append(lines, line)
		case updates.NoticeSuccess:
			lines = append(lines, SuccessStyle.Render("✓ "+n.Text))
		default:
			lines = append(lines, InfoStyle.Render("… "+n.Text))
		}
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (a AppView) renderItems() string {
	if a.fetchError != "" {
		return ErrorStyle.Render("Could not load updates: "+a.fetchError) +
			"\n" + DimStyle.Render("Press R to retry.")
	}

	list := a.listItems()
	if len(list) == 0 {
		if a.filterMode && a.filterInput.Value() != "" {
			return a.filterInput.View() + "\n\n" + DimStyle.Render("No updates match the filter.")
		}
		return DimStyle.Render("Everything is up to date.")
	}

	nameWidth := 36
	versionWidth := 24
	if a.width > 0 && a.width < nameWidth+versionWidth+20 {
		nameWidth = a.width / 2
		// Truncate writes the ellipsis even when it is wider than the
		// target, so the width must never drop below it
		if ellipsis := runewidth.StringWidth("..."); nameWidth < ellipsis {
			nameWidth = ellipsis
		}
	}

	var sb strings.Builder
	if a.filterMode {
		sb.WriteString(a.filterInput.View())
		sb.WriteString("\n\n")
	}

	for i, it := range list {
		glyph := a.statusGlyph(it)

		name := it.Name
		if runewidth.StringWidth(name) > nameWidth {
			name = runewidth.Truncate(name, nameWidth, "...")
		}
		namePadded := name + strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))

		version := fmt.Sprintf("%s → %s", it.Version, it.NewVersion)
		if it.Version == "" {
			version = it.NewVersion
		}
		if runewidth.StringWidth(version) > versionWidth {
			version = runewidth.Truncate(version, versionWidth, "...")
		}

		kind := DimStyle.Render(fmt.Sprintf("[%s]", it.Type))

		line := fmt.Sprintf("%s %s  %s  %s", glyph, namePadded, version, kind)
		if i == a.selectedIdx {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (a AppView) statusGlyph(it updates.Item) string {
	switch it.Status {
	case updates.StatusInProgress:
		return a.updateSpinner.View()
	case updates.StatusCompleted:
		return SuccessStyle.Render("✓")
	case updates.StatusError:
		return ErrorStyle.Render("✗")
	default:
		if a.dataModel.Updates.IsQueued(it.Key()) {
			return DimStyle.Render("•")
		}
		return InfoStyle.Render("↑")
	}
}

func (a AppView) renderFooter() string {
	if a.flash != "" {
		return StatusStyle.Render(a.flash)
	}
	if a.filterMode {
		return StatusStyle.Render(FormatFooter("Enter", "Update", "↑/↓", "Navigate", "Esc", "Clear filter"))
	}
	return StatusStyle.Render(FormatFooter(
		"u", "Update", "a", "Update all", "d", "Dismiss", "t", "Type",
		"/", "Filter", "h", "History", "c", "Checklist", "?", "Help", "q", "Quit",
	))
}

// renderHistory draws the update history overlay.
func (a AppView) renderHistory() string {
	title := BrandStyle.Render("Update History") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Config.SiteURL))
	if a.historySlug != "" {
		title += HighlightStyle.Render(fmt.Sprintf("  [%s]", a.historySlug))
	}

	if len(a.historyRecords) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			DimStyle.Render("No updates have been recorded yet."),
			StatusStyle.Render(FormatFooter("Esc", "Back")),
		)
	}

	nameWidth := 30
	var sb strings.Builder
	for i, record := range a.historyRecords {
		outcome := SuccessStyle.Render("✓")
		if record.Result == "error" {
			outcome = ErrorStyle.Render("✗")
		}

		name := record.Name
		if runewidth.StringWidth(name) > nameWidth {
			name = runewidth.Truncate(name, nameWidth, "...")
		}
		namePadded := name + strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))

		versions := record.ToVersion
		if record.FromVersion != "" {
			versions = fmt.Sprintf("%s → %s", record.FromVersion, record.ToVersion)
		}

		line := fmt.Sprintf("%s %s  %-8s %s  %s",
			outcome,
			namePadded,
			record.Type,
			record.FinishedAt.Format("2006-01-02 15:04"),
			DimStyle.Render(versions),
		)
		if record.Message != "" {
			line += "  " + ErrorStyle.Render(record.Message)
		}

		if i == a.historyIdx {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		sb.String(),
		StatusStyle.Render(a.historyFooter()),
	)
}

func (a AppView) historyFooter() string {
	if a.historySlug != "" {
		return FormatFooter("j/k", "Navigate", "Backspace", "All items", "R", "Refresh", "Esc", "Back")
	}
	return FormatFooter("j/k", "Navigate", "Enter", "Item history", "R", "Refresh", "Esc", "Back")
}

// renderChecklist draws the site setup checklist overlay.
func (a AppView) renderChecklist() string {
	done, total := checklist.Progress(a.dataModel.Tasks)
	title := BrandStyle.Render("Site Setup") +
		TitleStyle.Render(fmt.Sprintf(" - %d of %d tasks complete", done, total))

	if len(a.dataModel.Tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			DimStyle.Render("Checklist unavailable."),
			StatusStyle.Render(FormatFooter("Esc", "Back")),
		)
	}

	var sb strings.Builder
	for i, task := range a.dataModel.Tasks {
		box := "[ ]"
		if task.Completed {
			box = SuccessStyle.Render("[x]")
		}

		label := task.Title
		if task.Optional {
			label += DimStyle.Render(" (optional)")
		}

		if !task.Completed && task.DurationMinutes > 0 {
			label += DimStyle.Render(fmt.Sprintf("  ~%d min", task.DurationMinutes))
		}

		line := fmt.Sprintf("%s %s", box, label)
		if i == a.checklistIdx {
			line = SelectedStyle.Render("> ") + line
			if task.Description != "" {
				line += "\n      " + DimStyle.Render(task.Description)
			}
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		sb.String(),
		StatusStyle.Render(FormatFooter("j/k", "Navigate", "Enter", "Mark done", "Esc", "Back")),
	)
}
