package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type SessionID string
type UserID string

type Timestamp = time.Time

// Theme is the binary axis of the interaction. It is surfaced externally as
// a pill colour: truth is "red", comfort is "blue".
type Theme string

const (
	ThemeNone    Theme = ""
	ThemeTruth   Theme = "truth"   // red pill, awakening
	ThemeComfort Theme = "comfort" // blue pill, bliss
)

var ErrInvalidTheme = errors.New("invalid theme")

// ParseTheme accepts either the theme name or its pill colour.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "truth":
		return ThemeTruth, nil
	case "blue", "comfort":
		return ThemeComfort, nil
	default:
		return ThemeNone, fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

// Pill returns the external label of the theme.
func (t Theme) Pill() string {
	switch t {
	case ThemeTruth:
		return "red"
	case ThemeComfort:
		return "blue"
	default:
		return ""
	}
}

func (t Theme) Valid() bool {
	return t == ThemeTruth || t == ThemeComfort
}

// Fallback returns the fixed fortune shown when no generated one is usable.
func (t Theme) Fallback() string {
	if t == ThemeTruth {
		return "The truth illuminates your path forward."
	}
	return "Comfort embraces you in this moment of peace."
}
