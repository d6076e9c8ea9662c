// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spendsnap/internal/pacing"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#3C56D6")
	// SuccessColor marks under-pace spending and completed operations.
	SuccessColor = lipgloss.Color("#22C55E")
	// WarningColor marks spending close to a limit.
	WarningColor = lipgloss.Color("#EAB308")
	// ErrorColor marks over-pace spending and failures.
	ErrorColor = lipgloss.Color("#EF4444")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#06B6D4")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().Foreground(InfoColor)
	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				PaddingRight(2)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "👛"
	CardIcon    = "💳"
	ChartIcon   = "📊"
	ReceiptIcon = "🧾"
	BellIcon    = "🔔"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title with an icon.
func FormatTitle(icon, title string) string {
	return TitleStyle.Render(icon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// PaceColor returns the color of a pace state.
func PaceColor(state pacing.PaceState) lipgloss.Color {
	if state == pacing.Over {
		return ErrorColor
	}
	return SuccessColor
}

// StylePace renders text in the color of a pace state.
func StylePace(state pacing.PaceState, text string) string {
	return lipgloss.NewStyle().Foreground(PaceColor(state)).Render(text)
}

// BurnColor returns the color of a burn level.
func BurnColor(level pacing.BurnLevel) lipgloss.Color {
	switch level {
	case pacing.BurnAbove:
		return ErrorColor
	case pacing.BurnOnTarget:
		return WarningColor
	case pacing.BurnBelow:
		return SuccessColor
	default:
		return SubtleColor
	}
}

// UtilizationColor grades how much of a limit has been used.
func UtilizationColor(ratio float64) lipgloss.Color {
	switch {
	case ratio >= 1:
		return ErrorColor
	case ratio >= 0.8:
		return WarningColor
	default:
		return SuccessColor
	}
}
