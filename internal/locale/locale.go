package locale

import (
	"strings"
)

// Language is a supported locale tag.
type Language string

const (
	EnUS Language = "en-US"
	FrFR Language = "fr-FR"
)

const Default = EnUS

// Parse validates a locale tag, falling back to the default for anything
// unknown or empty.
func Parse(tag string) Language {
	switch Language(tag) {
	case EnUS, FrFR:
		return Language(tag)
	default:
		return Default
	}
}

// DisplayName is the name the completion-service prompts use to request an
// output language.
func (l Language) DisplayName() string {
	if l == FrFR {
		return "French"
	}
	return "English"
}

// T resolves a dotted message key for the language, substituting
// {placeholder} occurrences from replacements. Missing keys fall back to
// en-US, then echo the key itself.
func T(lang Language, key string, replacements map[string]string) string {
	text, ok := catalog[lang][key]
	if !ok {
		text, ok = catalog[Default][key]
	}
	if !ok {
		return key
	}
	for name, value := range replacements {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
