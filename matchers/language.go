package matchers

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detector     lingua.LanguageDetector
	detectorOnce sync.Once
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.German,
				lingua.French,
				lingua.Spanish,
				lingua.Portuguese,
				lingua.Italian,
				lingua.Dutch,
				lingua.Croatian,
			).
			WithLowAccuracyMode().
			Build()
	})
	return detector
}

// DetectLanguage returns the lowercase ISO 639-1 code of the text's language,
// or "" when the text is blank or no language is reliable.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	language, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}

	return strings.ToLower(language.IsoCode639_1().String())
}
