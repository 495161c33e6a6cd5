package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name        string
		preferences []string
		expected    Language
	}{
		{"no preference", nil, LanguageVietnamese},
		{"bare english", []string{"en"}, LanguageEnglish},
		{"regional english", []string{"en-US"}, LanguageEnglish},
		{"vietnamese", []string{"vi"}, LanguageVietnamese},
		{"accept-language header", []string{"en-GB,en;q=0.9,vi;q=0.8"}, LanguageEnglish},
		{"unsupported falls back", []string{"fr"}, LanguageVietnamese},
		{"first usable preference wins", []string{"", "en"}, LanguageEnglish},
		{"explicit value beats header", []string{"vi", "en-US,en;q=0.9"}, LanguageVietnamese},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveLanguage(tc.preferences...))
		})
	}
}

func TestLanguageIsSupported(t *testing.T) {
	assert.True(t, LanguageEnglish.IsSupported())
	assert.True(t, LanguageVietnamese.IsSupported())
	assert.False(t, Language("de").IsSupported())
}
