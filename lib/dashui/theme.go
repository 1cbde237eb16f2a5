// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard color palette. Colors are ANSI 256-color
// codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Device state.
	On  lipgloss.Color
	Off lipgloss.Color

	// Notices and breaches.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Unread alerts.
	Unread lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	On:  lipgloss.Color("114"), // green
	Off: lipgloss.Color("245"), // gray

	Success: lipgloss.Color("114"),
	Warning: lipgloss.Color("220"), // amber
	Error:   lipgloss.Color("196"), // red

	Unread: lipgloss.Color("75"), // blue

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

// StateColor returns On or Off.
func (theme Theme) StateColor(on bool) lipgloss.Color {
	if on {
		return theme.On
	}
	return theme.Off
}
