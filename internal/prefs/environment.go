package prefs

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
)

// Environment answers the "follow system" questions. It is injected so that
// resolution can be tested without a real terminal or locale.
type Environment interface {
	// Locale returns the system locale, e.g. "ar_EG.UTF-8". Empty if unknown.
	Locale() string
	// PrefersDark reports whether the display uses a dark background.
	PrefersDark() bool
}

// OSEnvironment reads the POSIX locale variables and queries the terminal
// background through lipgloss.
type OSEnvironment struct{}

// Locale returns the first non-empty of LC_ALL, LC_MESSAGES and LANG.
func (OSEnvironment) Locale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// PrefersDark asks the terminal for its background colour.
func (OSEnvironment) PrefersDark() bool {
	return lipgloss.HasDarkBackground()
}

// StaticEnvironment is a fixed Environment.
type StaticEnvironment struct {
	SystemLocale string
	Dark         bool
}

func (e StaticEnvironment) Locale() string    { return e.SystemLocale }
func (e StaticEnvironment) PrefersDark() bool { return e.Dark }

// Resolved holds the concrete language and theme after "system" is resolved.
type Resolved struct {
	Language Language `json:"language"`
	Theme    Theme    `json:"theme"`
	RTL      bool     `json:"rtl"`
}

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// Resolve turns p into concrete values using env for "system" entries.
func Resolve(p Preferences, env Environment) Resolved {
	lang := p.Language
	if lang == LanguageSystem || lang == "" {
		lang = SystemLanguage(env.Locale())
	}
	theme := p.Theme
	if theme == ThemeSystem || theme == "" {
		theme = ThemeLight
		if env.PrefersDark() {
			theme = ThemeDark
		}
	}
	return Resolved{Language: lang, Theme: theme, RTL: lang == LanguageArabic}
}

// SystemLanguage matches a POSIX or BCP 47 locale against the supported
// languages. Anything unsupported falls back to English.
func SystemLanguage(locale string) Language {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return LanguageEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return LanguageEnglish
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return LanguageEnglish
	}
	if supported[idx] == language.Arabic {
		return LanguageArabic
	}
	return LanguageEnglish
}
