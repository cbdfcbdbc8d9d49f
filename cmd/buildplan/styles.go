// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for all CLI output.
const (
	colorTitle    = lipgloss.Color("#7C3AED")
	colorMuted    = lipgloss.Color("#6B7280")
	colorOK       = lipgloss.Color("#10B981")
	colorFailure  = lipgloss.Color("#EF4444")
	colorCaution  = lipgloss.Color("#F59E0B")
	colorArgument = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle renders package and module names.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)

	// SubtitleStyle renders resource labels and hints.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// SuccessStyle renders passed checks and resolved externals.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorOK)

	// ErrorStyle renders failure markers.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFailure)

	// WarningStyle renders out-of-band externals and config warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(colorCaution)

	// CmdStyle renders compiler arguments and issue slugs.
	CmdStyle = lipgloss.NewStyle().Foreground(colorArgument)

	// labelStyle pads field labels in module summaries.
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(16)

	successIcon = SuccessStyle.Render("✓")
	errorIcon   = ErrorStyle.Render("✗")
	warningIcon = WarningStyle.Render("!")
	arrow       = SubtitleStyle.Render(" → ")
)
