// Package styles provides shared lipgloss v2 styles for CLI and TUI output.
package styles

import (
	"image/color"
	"sort"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// TUI shared styles.
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	// Instruction list styles.
	IndexStyle        lipgloss.Style
	InstSelectedStyle lipgloss.Style
	InstCallStyle     lipgloss.Style
	InstLiteralStyle  lipgloss.Style
	InstBranchStyle   lipgloss.Style
	InstCommentStyle  lipgloss.Style

	// Source panel.
	SourceHighlightStyle lipgloss.Style

	// Status bar.
	StatusKeyStyle        lipgloss.Style
	StatusDescStyle       lipgloss.Style
	StatusPromptStyle     lipgloss.Style
	StatusErrorLabelStyle lipgloss.Style
	StatusErrorStyle      lipgloss.Style

	// Shared text styles.
	TextMutedStyle   lipgloss.Style
	TextSuccessStyle lipgloss.Style
	TextErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)
	PanelFocusedStyle = PanelStyle.
		BorderForeground(ColorPrimary)
	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	IndexStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	InstSelectedStyle = lipgloss.NewStyle().
		Reverse(true)
	InstCallStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	InstLiteralStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	InstBranchStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	InstCommentStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	SourceHighlightStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Reverse(true).
		Bold(true)

	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	StatusDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	StatusPromptStyle = lipgloss.NewStyle().
		Italic(true)
	StatusErrorLabelStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	return cfg
}
