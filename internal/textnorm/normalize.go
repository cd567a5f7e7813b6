package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// Mode selects how much Normalize is allowed to alter the input text
type Mode int

const (
	// ModeVerbatim only collapses whitespace; wording and punctuation are
	// never altered. This stream feeds the verbatim checker and, under the
	// script policy, the final caption text.
	ModeVerbatim Mode = iota
	// ModeFinalize additionally applies caption-finishing transformations:
	// filler removal, spacing fixes, sentence case, trailing punctuation.
	ModeFinalize
)

// fillerPhrases are spoken-filler artifacts removed in finalize mode only.
// Longer phrases are listed first so they win over their substrings.
var fillerPhrases = []string{
	"you know",
	"i mean",
	"kind of",
	"sort of",
	"basically",
	"literally",
	"actually",
}

var spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)

// Normalize canonicalizes text for comparison or caption output.
// It is a pure function and idempotent in both modes.
func Normalize(text string, mode Mode) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if mode == ModeVerbatim {
		return collapsed
	}

	cleaned := CleanCaption(collapsed)
	cleaned = SentenceCase(cleaned)
	cleaned = EnsureEndPunctuation(cleaned)
	return cleaned
}

// CleanCaption removes spoken-filler artifacts and fixes spacing around
// punctuation without touching case or terminal punctuation. This is the
// per-cue slice of finalize mode, safe to apply mid-sentence.
func CleanCaption(text string) string {
	cleaned := removeFillers(strings.Join(strings.Fields(text), " "))
	cleaned = spaceBeforePunct.ReplaceAllString(cleaned, "$1")
	return strings.Join(strings.Fields(cleaned), " ")
}

// ComparisonTokens splits normalized text into lowercase whitespace tokens.
// These are the positional comparison keys used by the verbatim checker.
func ComparisonTokens(text string) []string {
	normalized := Normalize(text, ModeVerbatim)
	if normalized == "" {
		return nil
	}
	return strings.Fields(strings.ToLower(normalized))
}

// SentenceCase upper-cases the first letter of the text, leaving the rest
// untouched so proper nouns and acronyms survive
func SentenceCase(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				runes[i] = unicode.ToUpper(r)
				return string(runes)
			}
			return text
		}
	}
	return text
}

// EnsureEndPunctuation appends a period when the text has no terminal
// punctuation
func EnsureEndPunctuation(text string) string {
	trimmed := strings.TrimRight(text, " ")
	if trimmed == "" {
		return trimmed
	}
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "?") || strings.HasSuffix(trimmed, "!") {
		return trimmed
	}
	// A dangling comma or semicolon is replaced rather than stacked.
	trimmed = strings.TrimRight(trimmed, ",;: ")
	if trimmed == "" {
		return trimmed
	}
	return trimmed + "."
}

// removeFillers deletes filler phrases at word boundaries, case-insensitively
func removeFillers(text string) string {
	result := text
	for _, phrase := range fillerPhrases {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		result = pattern.ReplaceAllString(result, "")
	}
	return result
}

// StripToken lowercases a token and removes surrounding punctuation so it
// can be matched against the policy word sets
func StripToken(token string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(token)), ",;:.!?")
}
