package ui

import (
	"github.com/bjartek/invokepanel/pkg/panel"
	"github.com/bjartek/invokepanel/pkg/tabbedtui"
	"github.com/bjartek/invokepanel/pkg/tracker"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Solarized Dark
	base02 = lipgloss.Color("#073642") // background highlights
	base01 = lipgloss.Color("#586e75") // comments / borders
	base0  = lipgloss.Color("#839496") // body text
	base1  = lipgloss.Color("#93a1a1") // emphasized content

	solarBlue   = lipgloss.Color("#268bd2")
	solarCyan   = lipgloss.Color("#2aa198")
	solarGreen  = lipgloss.Color("#859900")
	solarYellow = lipgloss.Color("#b58900")
	solarOrange = lipgloss.Color("#cb4b16")
	solarRed    = lipgloss.Color("#dc322f")

	primaryColor   = solarBlue
	secondaryColor = solarCyan
	accentColor    = base1
	mutedColor     = base01
	successColor   = solarGreen
	errorColor     = solarRed
	warningColor   = solarOrange
	highlightColor = solarYellow

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true).
				Padding(0, 1)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	pickerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(highlightColor).
				Bold(true)
)

// GetTabbedStyles returns the tab bar styles in the panel colors
func GetTabbedStyles() tabbedtui.Styles {
	return tabbedtui.NewStyles(
		tabbedtui.WithPrimaryColor(primaryColor),
		tabbedtui.WithAccentColor(accentColor),
		tabbedtui.WithMutedColor(mutedColor),
	)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(base1).
		Background(base02).
		Bold(true)
	s.Cell = s.Cell.Foreground(base0)
	return s
}

func stateStyle(state tracker.State) lipgloss.Style {
	switch state {
	case tracker.Ok:
		return lipgloss.NewStyle().Foreground(successColor)
	case tracker.Error:
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return lipgloss.NewStyle().Foreground(highlightColor)
	}
}

func noticeStyle(level panel.NoticeLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	switch level {
	case panel.NoticeError:
		return base.Foreground(errorColor).Bold(true)
	case panel.NoticeWarning:
		return base.Foreground(warningColor)
	default:
		return base.Foreground(successColor)
	}
}
