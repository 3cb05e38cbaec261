// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors, reassigned by ApplyTheme.
var (
	TextPrimaryColor          lipgloss.AdaptiveColor
	TextSecondaryColor        lipgloss.AdaptiveColor
	TextMutedColor            lipgloss.AdaptiveColor
	StatusSuccessColor        lipgloss.AdaptiveColor
	StatusWarningColor        lipgloss.AdaptiveColor
	StatusErrorColor          lipgloss.AdaptiveColor
	BorderDefaultColor        lipgloss.AdaptiveColor
	BorderHighlightFocusColor lipgloss.AdaptiveColor
	ButtonTextColor           lipgloss.AdaptiveColor
	ButtonPrimaryBgColor      lipgloss.AdaptiveColor
	ButtonPrimaryHoverColor   lipgloss.AdaptiveColor
	ButtonSecondaryBgColor    lipgloss.AdaptiveColor
	ButtonDisabledBgColor     lipgloss.AdaptiveColor
	AccentPlayingColor        lipgloss.AdaptiveColor
	AccentRevealColor         lipgloss.AdaptiveColor
)

// Styles derived from the colors. rebuildStyles refreshes them.
var (
	TitleStyle   lipgloss.Style
	TextStyle    lipgloss.Style
	HintStyle    lipgloss.Style
	StatusStyle  lipgloss.Style
	PlayingStyle lipgloss.Style
	RevealStyle  lipgloss.Style
	AttemptStyle lipgloss.Style

	SuccessBannerStyle lipgloss.Style
	BlockedBannerStyle lipgloss.Style
	ErrorTextStyle     lipgloss.Style

	PrimaryButtonStyle      lipgloss.Style
	PrimaryButtonHoverStyle lipgloss.Style
	SecondaryButtonStyle    lipgloss.Style
	DisabledButtonStyle     lipgloss.Style
)

func init() {
	// The default preset has no invalid tokens.
	_ = ApplyTheme(ThemeConfig{})
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	TextStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	StatusStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	PlayingStyle = lipgloss.NewStyle().Foreground(AccentPlayingColor)
	RevealStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentRevealColor)
	AttemptStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	SuccessBannerStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusSuccessColor)
	BlockedBannerStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusErrorColor)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	button := lipgloss.NewStyle().Padding(0, 2).Foreground(ButtonTextColor)
	PrimaryButtonStyle = button.Background(ButtonPrimaryBgColor)
	PrimaryButtonHoverStyle = button.Background(ButtonPrimaryHoverColor).Bold(true)
	SecondaryButtonStyle = button.Background(ButtonSecondaryBgColor)
	DisabledButtonStyle = button.Background(ButtonDisabledBgColor).Foreground(TextMutedColor)
}
