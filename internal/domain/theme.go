package domain

import (
	"fmt"
	"strings"
)

// Theme is the colour scheme applied to every screen.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" (case-insensitive, surrounding space ignored).
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", value)
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// Valid reports whether t is one of the two known themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

func (t Theme) String() string {
	return string(t)
}

// ThemeFromDark maps a dark-preference flag to a theme.
func ThemeFromDark(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
