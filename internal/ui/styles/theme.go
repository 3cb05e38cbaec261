package styles

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorToken names a themable color.
type ColorToken string

const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	TokenButtonText         ColorToken = "button.text"
	TokenButtonPrimaryBg    ColorToken = "button.primary.bg"
	TokenButtonPrimaryHover ColorToken = "button.primary.hover"
	TokenButtonSecondaryBg  ColorToken = "button.secondary.bg"
	TokenButtonDisabledBg   ColorToken = "button.disabled.bg"

	TokenAccentPlaying ColorToken = "accent.playing"
	TokenAccentReveal  ColorToken = "accent.reveal"
)

// AllTokens lists every valid token in display order.
var AllTokens = []ColorToken{
	TokenTextPrimary, TokenTextSecondary, TokenTextMuted,
	TokenStatusSuccess, TokenStatusWarning, TokenStatusError,
	TokenBorderDefault, TokenBorderFocus,
	TokenButtonText, TokenButtonPrimaryBg, TokenButtonPrimaryHover,
	TokenButtonSecondaryBg, TokenButtonDisabledBg,
	TokenAccentPlaying, TokenAccentReveal,
}

// ThemeConfig mirrors config.ThemeConfig without importing it.
type ThemeConfig struct {
	Preset string
	Mode   string
	Colors map[string]string
}

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func isValidToken(t ColorToken) bool {
	return slices.Contains(AllTokens, t)
}

// ApplyTheme resets every color to the chosen preset, then applies overrides.
// An empty preset means the default theme.
func ApplyTheme(cfg ThemeConfig) error {
	preset := DefaultPreset
	if cfg.Preset != "" {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q (available: %v)", cfg.Preset, PresetNames())
		}
		preset = p
	}

	dark := maps.Clone(DefaultPreset.Colors)
	maps.Copy(dark, preset.Colors)
	light := maps.Clone(dark)
	if preset.Light != nil {
		maps.Copy(light, preset.Light)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token %q", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color %q for %s", value, key)
		}
		dark[token] = value
		light[token] = value
	}

	switch cfg.Mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	setColors(light, dark)
	rebuildStyles()
	return nil
}

// DetectBackground configures lipgloss from the real terminal: color profile
// (honoring NO_COLOR) and whether the background is dark. It queries the
// terminal, so call it once at startup and never from tests.
func DetectBackground() {
	out := termenv.NewOutput(os.Stdout)
	lipgloss.SetColorProfile(out.EnvColorProfile())
	lipgloss.SetHasDarkBackground(out.HasDarkBackground())
}

func setColors(light, dark map[ColorToken]string) {
	c := func(t ColorToken) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: light[t], Dark: dark[t]}
	}
	TextPrimaryColor = c(TokenTextPrimary)
	TextSecondaryColor = c(TokenTextSecondary)
	TextMutedColor = c(TokenTextMuted)
	StatusSuccessColor = c(TokenStatusSuccess)
	StatusWarningColor = c(TokenStatusWarning)
	StatusErrorColor = c(TokenStatusError)
	BorderDefaultColor = c(TokenBorderDefault)
	BorderHighlightFocusColor = c(TokenBorderFocus)
	ButtonTextColor = c(TokenButtonText)
	ButtonPrimaryBgColor = c(TokenButtonPrimaryBg)
	ButtonPrimaryHoverColor = c(TokenButtonPrimaryHover)
	ButtonSecondaryBgColor = c(TokenButtonSecondaryBg)
	ButtonDisabledBgColor = c(TokenButtonDisabledBg)
	AccentPlayingColor = c(TokenAccentPlaying)
	AccentRevealColor = c(TokenAccentReveal)
}
