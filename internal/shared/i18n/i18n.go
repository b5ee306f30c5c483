// Package i18n holds the languages the branch supports and a translation
// type that cannot be built with a language missing.
package i18n

import "strings"

type Language string

const (
	English Language = "english"
	Hindi   Language = "hindi"
	Tamil   Language = "tamil"
	Telugu  Language = "telugu"
)

// Default is used whenever a requested language is not supported
const Default = English

// Supported lists the languages in display order
var Supported = []Language{English, Hindi, Tamil, Telugu}

// IsValid checks if the language is one of the supported ones
func (l Language) IsValid() bool {
	switch l {
	case English, Hindi, Tamil, Telugu:
		return true
	}
	return false
}

func (l Language) String() string {
	return string(l)
}

// NativeName returns the label shown in the language picker
func (l Language) NativeName() string {
	return languageNames.In(l)
}

var languageNames = T("English", "हिंदी", "தமிழ்", "తెలుగు")

// ParseLanguage maps a raw value onto a supported language.
// Unknown or empty values fall back to Default.
func ParseLanguage(raw string) Language {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	if lang.IsValid() {
		return lang
	}
	return Default
}

// Text is a message translated into every supported language.
// The fields are unexported so that T is the only way to build one.
type Text struct {
	english string
	hindi   string
	tamil   string
	telugu  string
}

// T builds a Text; every language is a required argument.
func T(english, hindi, tamil, telugu string) Text {
	return Text{english: english, hindi: hindi, tamil: tamil, telugu: telugu}
}

// In returns the message for lang, or the Default translation when lang is
// not supported.
func (t Text) In(lang Language) string {
	switch lang {
	case Hindi:
		return t.hindi
	case Tamil:
		return t.tamil
	case Telugu:
		return t.telugu
	default:
		return t.english
	}
}

// Texts is a translated list, kept in the same order for every language.
type Texts []Text

// In returns every entry translated into lang
func (ts Texts) In(lang Language) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.In(lang)
	}
	return out
}
