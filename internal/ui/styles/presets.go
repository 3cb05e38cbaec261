package styles

import (
	"maps"
	"slices"
)

// Preset is a named built-in theme. Colors apply to dark backgrounds and,
// unless Light overrides them, to light backgrounds too.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
	Light       map[ColorToken]string
}

// DefaultPreset is applied when no preset is configured.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default oddear theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:        "#CCCCCC",
		TokenTextSecondary:      "#BBBBBB",
		TokenTextMuted:          "#696969",
		TokenStatusSuccess:      "#73F59F",
		TokenStatusWarning:      "#FECA57",
		TokenStatusError:        "#FF8787",
		TokenBorderDefault:      "#696969",
		TokenBorderFocus:        "#54A0FF",
		TokenButtonText:         "#FFFFFF",
		TokenButtonPrimaryBg:    "#1A5276",
		TokenButtonPrimaryHover: "#2E86C1",
		TokenButtonSecondaryBg:  "#4A4A4A",
		TokenButtonDisabledBg:   "#2D2D2D",
		TokenAccentPlaying:      "#C39BD3",
		TokenAccentReveal:       "#FECA57",
	},
	Light: map[ColorToken]string{
		TokenTextPrimary:       "#333333",
		TokenTextSecondary:     "#555555",
		TokenTextMuted:         "#999999",
		TokenStatusSuccess:     "#10B981",
		TokenStatusWarning:     "#D97706",
		TokenStatusError:       "#DC2626",
		TokenBorderDefault:     "#BBBBBB",
		TokenBorderFocus:       "#2563EB",
		TokenButtonSecondaryBg: "#888888",
		TokenButtonDisabledBg:  "#CCCCCC",
		TokenAccentPlaying:     "#7D3C98",
		TokenAccentReveal:      "#B7950B",
	},
}

// Presets holds every built-in theme by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,
	"catppuccin-mocha": {
		Name:        "catppuccin-mocha",
		Description: "Warm, cozy dark theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#CDD6F4",
			TokenTextSecondary:      "#BAC2DE",
			TokenTextMuted:          "#6C7086",
			TokenStatusSuccess:      "#A6E3A1",
			TokenStatusWarning:      "#F9E2AF",
			TokenStatusError:        "#F38BA8",
			TokenBorderDefault:      "#585B70",
			TokenBorderFocus:        "#89B4FA",
			TokenButtonText:         "#1E1E2E",
			TokenButtonPrimaryBg:    "#89B4FA",
			TokenButtonPrimaryHover: "#B4BEFE",
			TokenButtonSecondaryBg:  "#585B70",
			TokenButtonDisabledBg:   "#313244",
			TokenAccentPlaying:      "#CBA6F7",
			TokenAccentReveal:       "#FAB387",
		},
	},
	"catppuccin-latte": {
		Name:        "catppuccin-latte",
		Description: "Warm, cozy light theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#4C4F69",
			TokenTextSecondary:      "#5C5F77",
			TokenTextMuted:          "#9CA0B0",
			TokenStatusSuccess:      "#40A02B",
			TokenStatusWarning:      "#DF8E1D",
			TokenStatusError:        "#D20F39",
			TokenBorderDefault:      "#ACB0BE",
			TokenBorderFocus:        "#1E66F5",
			TokenButtonText:         "#EFF1F5",
			TokenButtonPrimaryBg:    "#1E66F5",
			TokenButtonPrimaryHover: "#7287FD",
			TokenButtonSecondaryBg:  "#8C8FA1",
			TokenButtonDisabledBg:   "#CCD0DA",
			TokenAccentPlaying:      "#8839EF",
			TokenAccentReveal:       "#FE640B",
		},
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dark theme with vibrant colors",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#F8F8F2",
			TokenTextSecondary:      "#E2E2DC",
			TokenTextMuted:          "#6272A4",
			TokenStatusSuccess:      "#50FA7B",
			TokenStatusWarning:      "#F1FA8C",
			TokenStatusError:        "#FF5555",
			TokenBorderDefault:      "#44475A",
			TokenBorderFocus:        "#BD93F9",
			TokenButtonText:         "#282A36",
			TokenButtonPrimaryBg:    "#BD93F9",
			TokenButtonPrimaryHover: "#FF79C6",
			TokenButtonSecondaryBg:  "#6272A4",
			TokenButtonDisabledBg:   "#44475A",
			TokenAccentPlaying:      "#FF79C6",
			TokenAccentReveal:       "#FFB86C",
		},
	},
	"nord": {
		Name:        "nord",
		Description: "Arctic, north-bluish palette",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#ECEFF4",
			TokenTextSecondary:      "#D8DEE9",
			TokenTextMuted:          "#4C566A",
			TokenStatusSuccess:      "#A3BE8C",
			TokenStatusWarning:      "#EBCB8B",
			TokenStatusError:        "#BF616A",
			TokenBorderDefault:      "#4C566A",
			TokenBorderFocus:        "#88C0D0",
			TokenButtonText:         "#2E3440",
			TokenButtonPrimaryBg:    "#88C0D0",
			TokenButtonPrimaryHover: "#8FBCBB",
			TokenButtonSecondaryBg:  "#4C566A",
			TokenButtonDisabledBg:   "#3B4252",
			TokenAccentPlaying:      "#B48EAD",
			TokenAccentReveal:       "#D08770",
		},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:        "#FFFFFF",
			TokenTextSecondary:      "#FFFFFF",
			TokenTextMuted:          "#C0C0C0",
			TokenStatusSuccess:      "#00FF00",
			TokenStatusWarning:      "#FFFF00",
			TokenStatusError:        "#FF0000",
			TokenBorderDefault:      "#FFFFFF",
			TokenBorderFocus:        "#00FFFF",
			TokenButtonText:         "#000000",
			TokenButtonPrimaryBg:    "#00FFFF",
			TokenButtonPrimaryHover: "#FFFFFF",
			TokenButtonSecondaryBg:  "#C0C0C0",
			TokenButtonDisabledBg:   "#808080",
			TokenAccentPlaying:      "#FF00FF",
			TokenAccentReveal:       "#FFFF00",
		},
	},
}

// PresetNames returns the sorted names of all presets.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}
