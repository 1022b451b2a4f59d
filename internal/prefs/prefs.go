// Display language and theme preferences
package prefs

import (
	"errors"
	"fmt"
	"strings"
)

// Language is the requested display language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageSystem  Language = "system"
)

// Theme is the requested colour theme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownTheme    = errors.New("unknown theme")
)

// Preferences is the persisted user choice. Both fields default to "system".
type Preferences struct {
	Language Language `yaml:"language" json:"language"`
	Theme    Theme    `yaml:"theme" json:"theme"`
}

// Default returns preferences that follow the system for both channels.
func Default() Preferences {
	return Preferences{Language: LanguageSystem, Theme: ThemeSystem}
}

// ParseLanguage validates a language name.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case LanguageEnglish, LanguageArabic, LanguageSystem:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Normalize fills empty fields with defaults and rejects unknown values.
func (p Preferences) Normalize() (Preferences, error) {
	out := Default()
	if p.Language != "" {
		l, err := ParseLanguage(string(p.Language))
		if err != nil {
			return Preferences{}, err
		}
		out.Language = l
	}
	if p.Theme != "" {
		t, err := ParseTheme(string(p.Theme))
		if err != nil {
			return Preferences{}, err
		}
		out.Theme = t
	}
	return out, nil
}

// Next cycles en -> ar -> system -> en.
func (l Language) Next() Language {
	switch l {
	case LanguageEnglish:
		return LanguageArabic
	case LanguageArabic:
		return LanguageSystem
	default:
		return LanguageEnglish
	}
}

// Next cycles light -> dark -> system -> light.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	default:
		return ThemeLight
	}
}
