// Package language normalizes user-supplied language hints ("English",
// "en-US", "deu") into the ISO 639-1 codes the transcription backends
// accept.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// wordForms maps full language names to tags for hints that are not
// valid BCP-47 input ("english", "german").
var wordForms = map[string]language.Tag{
	"english":    language.English,
	"spanish":    language.Spanish,
	"french":     language.French,
	"german":     language.German,
	"italian":    language.Italian,
	"portuguese": language.Portuguese,
	"japanese":   language.Japanese,
	"korean":     language.Korean,
	"chinese":    language.Chinese,
	"russian":    language.Russian,
	"arabic":     language.Arabic,
	"hindi":      language.Hindi,
	"dutch":      language.Dutch,
	"polish":     language.Polish,
	"swedish":    language.Swedish,
	"danish":     language.Danish,
	"norwegian":  language.Norwegian,
	"finnish":    language.Finnish,
	"turkish":    language.Turkish,
	"ukrainian":  language.Ukrainian,
}

// Normalize maps a free-form hint to an ISO 639-1 code. Empty input and
// "auto" return "", which backends treat as language auto-detection.
func Normalize(hint string) string {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" || strings.EqualFold(trimmed, "auto") {
		return ""
	}

	if tag, ok := wordForms[strings.ToLower(trimmed)]; ok {
		base, _ := tag.Base()
		return base.String()
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English display name for a normalized code,
// or the input unchanged when it cannot be resolved.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if normalized == "" {
		return code
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return code
	}
	return display.English.Tags().Name(tag)
}
