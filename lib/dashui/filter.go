// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// FilterModel narrows the rendered cards to slots whose name or
// location fuzzy-matches the query. It is a view over the snapshot and
// never changes it.
type FilterModel struct {
	// Input is the current query.
	Input string

	// Active is true while the query has keyboard focus.
	Active bool

	slab *util.Slab
}

// Matches reports whether s passes the filter. An empty query matches
// every slot.
func (filter *FilterModel) Matches(s schema.Slot) bool {
	if filter.Input == "" {
		return true
	}
	if filter.slab == nil {
		filter.slab = util.MakeSlab(100*1024, 2048)
	}
	pattern := []rune(filter.Input)
	for _, field := range []string{s.Name, s.Location} {
		if FuzzyMatch(field, pattern, filter.slab).Score > 0 {
			return true
		}
	}
	return false
}

// HandleRune appends a character to the query.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character of the query.
func (filter *FilterModel) HandleBackspace() {
	if filter.Input == "" {
		return
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
}

// Clear resets the query and leaves filter mode.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter line: an editable prompt while active, the
// applied query while inactive, and nothing without a query.
func (filter FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	var text string
	if filter.Active {
		text = " / " + filter.Input + "▎"
	} else {
		text = " filter: " + filter.Input
	}
	if pad := width - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Background(theme.SelectedBackground).
		Render(text)
}
