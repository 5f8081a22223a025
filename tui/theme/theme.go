package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Kanagawa palette, dark and light variants.
const (
	darkGreen     = "#98BB6C"
	darkYellow    = "#FF9E3B"
	darkRed       = "#FF5D62"
	darkCyan      = "#7E9CD8"
	darkViolet    = "#957FB8"
	darkLightText = "#DCD7BA"
	darkMutedText = "#727169"

	lightGreen     = "#4E7C5A"
	lightYellow    = "#A68A64"
	lightRed       = "#C34043"
	lightCyan      = "#5B8BBE"
	lightViolet    = "#674D7A"
	lightLightText = "#2B2F42"
	lightMutedText = "#6C7086"
)

// Colors holds the adaptive palette.
type Colors struct {
	Green     lipgloss.AdaptiveColor
	Yellow    lipgloss.AdaptiveColor
	Red       lipgloss.AdaptiveColor
	Cyan      lipgloss.AdaptiveColor
	Violet    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	MutedText lipgloss.AdaptiveColor
}

// Theme is the set of styles used by prompts, listings and log output.
type Theme struct {
	Colors Colors

	Header  lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Prompt  lipgloss.Style
}

// DefaultTheme is used unless NO_COLOR is set.
var DefaultTheme = New()

// New builds the theme. Setting NO_COLOR yields unstyled output.
func New() *Theme {
	c := Colors{
		Green:     lipgloss.AdaptiveColor{Light: lightGreen, Dark: darkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: lightYellow, Dark: darkYellow},
		Red:       lipgloss.AdaptiveColor{Light: lightRed, Dark: darkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: lightCyan, Dark: darkCyan},
		Violet:    lipgloss.AdaptiveColor{Light: lightViolet, Dark: darkViolet},
		Text:      lipgloss.AdaptiveColor{Light: lightLightText, Dark: darkLightText},
		MutedText: lipgloss.AdaptiveColor{Light: lightMutedText, Dark: darkMutedText},
	}

	if os.Getenv("NO_COLOR") != "" {
		plain := lipgloss.NewStyle()
		return &Theme{
			Colors:  c,
			Header:  plain,
			Accent:  plain,
			Muted:   plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
			Prompt:  plain,
		}
	}

	return &Theme{
		Colors:  c,
		Header:  lipgloss.NewStyle().Bold(true).Foreground(c.Cyan),
		Accent:  lipgloss.NewStyle().Foreground(c.Violet),
		Muted:   lipgloss.NewStyle().Foreground(c.MutedText),
		Success: lipgloss.NewStyle().Foreground(c.Green),
		Warning: lipgloss.NewStyle().Foreground(c.Yellow),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(c.Red),
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(c.Text),
	}
}

// InitColorProfile forces the lipgloss color profile from the environment.
// CLICOLOR_FORCE=1 or COLORTERM=truecolor select true color even when output
// is not a terminal; NO_COLOR disables color. Otherwise detection is left to
// lipgloss.
func InitColorProfile() {
	if p, ok := profileFromEnv(os.Getenv); ok {
		lipgloss.SetColorProfile(p)
	}
}

func profileFromEnv(getenv func(string) string) (termenv.Profile, bool) {
	switch {
	case getenv("NO_COLOR") != "":
		return termenv.Ascii, true
	case getenv("CLICOLOR_FORCE") == "1", getenv("COLORTERM") == "truecolor":
		return termenv.TrueColor, true
	}
	return termenv.Ascii, false
}
