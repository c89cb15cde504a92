package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// minLetters is the shortest sample worth classifying; shorter selections
// produce unreliable guesses.
const minLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Language identifies a detected language.
type Language struct {
	Name string
	Code string
}

// Detect guesses the language of text. The boolean is false when the sample
// is too short or no language is confident enough.
func Detect(text string) (Language, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return Language{}, false
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return Language{}, false
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return Language{}, false
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return Language{}, false
	}
	return Language{Name: language.String(), Code: code}, true
}

// Label is Detect reduced to a display string, empty when unknown.
func Label(text string) string {
	lang, ok := Detect(text)
	if !ok {
		return ""
	}
	return lang.Name
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})
	return detector
}
