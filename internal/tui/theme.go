package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext1).Width(10)

	pickerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	pickerFocusStyle = pickerStyle.BorderForeground(colorFocus)

	placeholderStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
	unitSuffixStyle  = lipgloss.NewStyle().Foreground(colorSubtext0).PaddingLeft(1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	optionStyle       = lipgloss.NewStyle().Foreground(colorSubtext0)
	optionCursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	optionChosenStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	queryStyle        = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorMantle).
			Background(colorAccent).
			Bold(true).
			Padding(0, 2)

	buttonFocusStyle = buttonStyle.Background(colorFocus)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0).
				Background(colorSurface0).
				Padding(0, 2)

	resultStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	sepStyle      = lipgloss.NewStyle().Foreground(colorSurface2)
)
