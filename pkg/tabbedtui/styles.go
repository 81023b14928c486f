package tabbedtui

import "github.com/charmbracelet/lipgloss"

// default palette, solarized dark
var (
	defaultPrimary = lipgloss.Color("#268bd2")
	defaultAccent  = lipgloss.Color("#93a1a1")
	defaultMuted   = lipgloss.Color("#586e75")
)

// Styles holds the styling of the tab bar and the help
type Styles struct {
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	TabGap        lipgloss.Style
	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

type StyleOption func(*Styles)

// WithPrimaryColor colors the active tab and the help keys
func WithPrimaryColor(color lipgloss.Color) StyleOption {
	return func(s *Styles) {
		s.ActiveTab = s.ActiveTab.BorderForeground(color).Foreground(color)
		s.HelpKey = s.HelpKey.Foreground(color)
	}
}

// WithAccentColor colors the help descriptions
func WithAccentColor(color lipgloss.Color) StyleOption {
	return func(s *Styles) {
		s.HelpDesc = s.HelpDesc.Foreground(color)
	}
}

// WithMutedColor colors inactive tabs, the line under the tabs and the
// short help
func WithMutedColor(color lipgloss.Color) StyleOption {
	return func(s *Styles) {
		s.Tab = s.Tab.BorderForeground(color).Foreground(color)
		s.TabGap = s.TabGap.BorderForeground(color)
		s.Help = s.Help.Foreground(color)
		s.HelpSeparator = s.HelpSeparator.Foreground(color)
	}
}

// tabBorder is a rounded box whose bottom edge joins the line under the tab
// bar. The active tab leaves its bottom open.
func tabBorder(active bool) lipgloss.Border {
	b := lipgloss.RoundedBorder()
	if active {
		b.Bottom, b.BottomLeft, b.BottomRight = " ", "┘", "└"
	} else {
		b.BottomLeft, b.BottomRight = "┴", "┴"
	}
	return b
}

func NewStyles(opts ...StyleOption) Styles {
	tab := lipgloss.NewStyle().Padding(0, 1)

	s := Styles{
		Tab:           tab.Border(tabBorder(false), true),
		ActiveTab:     tab.Border(tabBorder(true), true).Bold(true),
		TabGap:        lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false),
		Help:          lipgloss.NewStyle().Padding(0, 2),
		HelpKey:       lipgloss.NewStyle().Bold(true),
		HelpDesc:      lipgloss.NewStyle(),
		HelpSeparator: lipgloss.NewStyle(),
	}

	defaults := []StyleOption{
		WithPrimaryColor(defaultPrimary),
		WithAccentColor(defaultAccent),
		WithMutedColor(defaultMuted),
	}
	for _, opt := range append(defaults, opts...) {
		opt(&s)
	}
	return s
}
