package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Color Palette
// ---------------------------------------------------------------------------

// ColorPrimary is the main brand/accent color used for titles and highlights.
var ColorPrimary = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#4ADE80"}

// ColorAccent marks the active step and focused controls.
var ColorAccent = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// ColorSuccess represents successful operations (green).
var ColorSuccess = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// ColorWarning marks skipped optional steps (amber/yellow).
var ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// ColorError represents failures and error states (red).
var ColorError = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// ColorMuted is a subdued foreground color for secondary text.
var ColorMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// ColorSubtle provides very low-contrast borders and dividers.
var ColorSubtle = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// ColorHighlight is a background highlight for selected items.
var ColorHighlight = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}

// ---------------------------------------------------------------------------
// Theme
// ---------------------------------------------------------------------------

// Theme holds the Lipgloss styles for the entry flow screen. Every field is
// a pre-built lipgloss.Style value; widths are applied at render time from
// the current terminal size.
type Theme struct {
	// Header
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Step trail
	StepCurrent lipgloss.Style
	StepDone    lipgloss.Style
	StepPending lipgloss.Style
	StepSkipped lipgloss.Style

	// Form container
	FormBox lipgloss.Style

	// Footer
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	ErrorText  lipgloss.Style
	StatusText lipgloss.Style
}

// DefaultTheme returns the default entry flow theme with adaptive colors
// for automatic light/dark terminal support.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		Subtitle: lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(1),

		StepCurrent: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),
		StepDone: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		StepPending: lipgloss.NewStyle().
			Foreground(ColorMuted),
		StepSkipped: lipgloss.NewStyle().
			Foreground(ColorWarning),

		FormBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),
		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		StatusText: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// buildHuhTheme derives a huh form theme from the entry flow theme so the
// embedded forms match the host chrome.
func buildHuhTheme(theme Theme) *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	t.Focused.NoteTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorMuted)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(ColorAccent).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorAccent)
	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorMuted)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorHighlight).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"})
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorSubtle)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorAccent)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(ColorError).
		SetString(" * ")
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(ColorError).
		SetString(" *")
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(ColorAccent)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)

	return t
}
