// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/slotdeck/lib/schema"
	"github.com/bureau-foundation/slotdeck/lib/slot"
)

// titleColumn is the width the card titles are padded to.
const titleColumn = 26

// defaultWidth is used for layout before the first WindowSizeMsg.
const defaultWidth = 100

// View implements tea.Model.
func (model Model) View() string {
	if model.ended {
		return ""
	}
	width := model.layoutWidth()

	var sections []string
	sections = append(sections, model.renderHeader(width))
	if filterLine := model.filter.View(model.theme, width); filterLine != "" {
		sections = append(sections, filterLine)
	}
	if model.ready {
		sections = append(sections, model.viewport.View())
	} else {
		sections = append(sections, model.body)
	}
	sections = append(sections, model.renderNotice(width), model.renderHelp(width))
	return strings.Join(sections, "\n")
}

func (model Model) layoutWidth() int {
	if model.width > 0 {
		return model.width
	}
	return defaultWidth
}

func (model Model) renderHeader(width int) string {
	bold := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := bold.Render("slotdeck")
	if model.user.DisplayName() != "" {
		left += faint.Render(" · ") + model.user.DisplayName()
		if model.user.Role != "" {
			left += faint.Render(" (" + model.labels.RoleName(model.user.Role) + ")")
		}
	}

	var right []string
	if model.cached {
		right = append(right, lipgloss.NewStyle().Foreground(model.theme.Warning).
			Render(model.labels.Cached+" "+slot.RelativeAge(schema.At(model.cachedAt), model.clock.Now(), model.labels.Age)))
	}
	if model.current.MQTT != "" {
		color := model.theme.Error
		if model.current.MQTTConnected {
			color = model.theme.Success
		}
		right = append(right, lipgloss.NewStyle().Foreground(color).Render(model.current.MQTT))
	}
	if model.dashboard != nil {
		right = append(right, lipgloss.NewStyle().Foreground(model.theme.Unread).
			Render(model.labels.unreadLabel(model.current.Unread)))
	}
	rightText := strings.Join(right, faint.Render("  "))

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightText)
	if gap < 1 {
		return ansi.Truncate(left+" "+rightText, width, "…")
	}
	return left + strings.Repeat(" ", gap) + rightText
}

// renderBody lays out the screen and returns the line index of the
// focused action, or -1.
func (model Model) renderBody(screen Screen) (string, int) {
	width := model.layoutWidth()
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	heading := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	focused := model.focusIndex()
	focusLine := -1

	var lines []string
	if screen.Loading {
		lines = append(lines, faint.Render(model.labels.Loading))
	}
	if screen.Stats != "" {
		lines = append(lines, faint.Render(ansi.Truncate(screen.Stats, width, "…")))
	}
	if screen.Empty != "" {
		lines = append(lines, "", "  "+screen.Empty)
		if screen.EmptyHint != "" {
			lines = append(lines, "  "+faint.Render(screen.EmptyHint))
		}
	}

	for _, section := range screen.Sections {
		lines = append(lines, "", heading.Render(fmt.Sprintf("%s (%d)", section.Title, len(section.Cards))))
		for _, card := range section.Cards {
			isFocused := card.Action != NoAction && card.Action == focused
			if isFocused {
				focusLine = len(lines)
			}
			lines = append(lines, model.renderCard(card, isFocused, width)...)
		}
	}
	if screen.Hidden > 0 {
		lines = append(lines, "", faint.Render(fmt.Sprintf(model.labels.Hidden, screen.Hidden)))
	}

	if !screen.Loading {
		lines = append(lines, "", heading.Render(model.labels.Alerts))
		if len(screen.Alerts) == 0 {
			lines = append(lines, "  "+faint.Render(screen.NoAlerts))
		}
		for _, row := range screen.Alerts {
			isFocused := row.Action == focused
			if isFocused {
				focusLine = len(lines)
			}
			lines = append(lines, model.renderAlert(row, isFocused, width))
		}
	}
	return strings.Join(lines, "\n"), focusLine
}

func (model Model) renderCard(card Card, focused bool, width int) []string {
	theme := model.theme
	marker := "  "
	titleStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	if focused {
		marker = "▸ "
		titleStyle = titleStyle.Bold(true).Foreground(theme.SelectedForeground)
	}

	title := card.Icon + " " + card.Title
	if pad := titleColumn - lipgloss.Width(title); pad > 0 {
		title += strings.Repeat(" ", pad)
	}

	reading := card.Reading
	switch {
	case card.Toggle != nil:
		box := "[ ]"
		if card.Toggle.On {
			box = "[x]"
		}
		if card.Toggle.Pending {
			box += "…"
		}
		reading = box + " " + lipgloss.NewStyle().Foreground(theme.StateColor(card.Toggle.On)).Render(reading)
	case card.Kind == schema.KindStatus || card.Kind == schema.KindControl:
		reading = lipgloss.NewStyle().Foreground(theme.StateColor(card.On)).Render(reading)
	}

	parts := []string{marker + titleStyle.Render(title), reading}
	if card.Breach != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Warning).Render(card.Breach))
	}
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	if card.Age != "" {
		parts = append(parts, faint.Render(card.Age))
	}
	if card.Location != "" {
		parts = append(parts, faint.Render("@ "+card.Location))
	}

	lines := []string{ansi.Truncate(strings.Join(parts, "  "), width, "…")}
	for _, row := range card.Preview {
		lines = append(lines, ansi.Truncate("    "+row, width, ""))
	}
	return lines
}

func (model Model) renderAlert(row AlertRow, focused bool, width int) string {
	theme := model.theme
	marker := "  "
	if focused {
		marker = "▸ "
	}
	bullet := lipgloss.NewStyle().Foreground(theme.Unread).Render("●")
	message := lipgloss.NewStyle().Foreground(theme.NormalText).Render(row.Message)
	if row.Read {
		bullet = " "
		message = lipgloss.NewStyle().Foreground(theme.FaintText).Render(row.Message)
	}
	line := marker + bullet + " " + message
	if row.Age != "" {
		line += "  " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(row.Age)
	}
	return ansi.Truncate(line, width, "…")
}

func (model Model) renderNotice(width int) string {
	if model.notice == nil {
		return ""
	}
	color := model.theme.NormalText
	switch model.notice.level {
	case noticeSuccess:
		color = model.theme.Success
	case noticeWarning:
		color = model.theme.Warning
	case noticeError:
		color = model.theme.Error
	}
	return ansi.Truncate(lipgloss.NewStyle().Foreground(color).Render(" "+model.notice.text), width, "…")
}

func (model Model) renderHelp(width int) string {
	bindings := []key.Binding{
		model.keys.Up, model.keys.Down, model.keys.Activate,
		model.keys.Refresh, model.keys.FilterActivate,
	}
	if model.isAdmin {
		bindings = append(bindings, model.keys.AdminHint)
	}
	bindings = append(bindings, model.keys.Quit)

	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	text := " " + strings.Join(parts, " · ")
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(ansi.Truncate(text, width, "…"))
}
