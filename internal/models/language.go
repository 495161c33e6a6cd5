package models

import "golang.org/x/text/language"

// Language is a site language code.
type Language string

const (
	LanguageVietnamese Language = "vi"
	LanguageEnglish    Language = "en"

	DefaultLanguage = LanguageVietnamese
)

// Order matters: the first entry is what the matcher falls back to.
var supportedLanguages = []Language{LanguageVietnamese, LanguageEnglish}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.Vietnamese,
	language.English,
})

// ResolveLanguage picks a supported language from the given preferences, in order.
// Each value may be a bare code ("en"), a regional tag ("en-US") or a full
// Accept-Language header. Empty or unknown input resolves to DefaultLanguage.
func ResolveLanguage(preferences ...string) Language {
	for _, pref := range preferences {
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, confidence := languageMatcher.Match(tags...)
		if confidence == language.No {
			continue
		}
		return supportedLanguages[idx]
	}
	return DefaultLanguage
}

// IsSupported reports whether l is one of the site languages.
func (l Language) IsSupported() bool {
	for _, s := range supportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}
