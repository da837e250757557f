// Package i18n resolves bilingual (Arabic/English) storefront text and the
// reading direction that goes with the active language.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the supported storefront languages
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// Direction is the document reading direction
type Direction string

const (
	RTL Direction = "rtl"
	LTR Direction = "ltr"
)

// ErrUnsupportedLanguage is returned for languages outside {ar, en}
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Supported lists the storefront languages in preference order
var Supported = []Language{Arabic, English}

var matcher = language.NewMatcher([]language.Tag{language.Arabic, language.English})

// ParseLanguage validates a language code such as "ar" or "en-US"
func ParseLanguage(s string) (Language, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	base, _ := tag.Base()
	switch Language(base.String()) {
	case Arabic:
		return Arabic, nil
	case English:
		return English, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Negotiate picks a language from an explicit choice (cookie or query value)
// or, failing that, from an Accept-Language header. fallback is used when
// neither names a supported language.
func Negotiate(explicit, acceptLanguage string, fallback Language) Language {
	if explicit != "" {
		if lang, err := ParseLanguage(explicit); err == nil {
			return lang
		}
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return Supported[index]
			}
		}
	}

	return fallback
}

// IsRTL reports whether the language is written right to left
func (l Language) IsRTL() bool {
	return l == Arabic
}

// Direction returns the document direction for the language
func (l Language) Direction() Direction {
	if l.IsRTL() {
		return RTL
	}
	return LTR
}

func (l Language) valid() bool {
	return l == Arabic || l == English
}
