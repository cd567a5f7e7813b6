package cue

import (
	"strings"

	"captionforge/internal/textnorm"
)

// WrapLines breaks cue text into at most maxLines display lines of at most
// maxChars characters each, breaking only at whitespace. A single word longer
// than maxChars is kept intact on its own line, never truncated. No word is
// ever dropped: when the text cannot fit the line budget, overflow words are
// appended to the final line. The builder sizes cues with lineFill so text
// reaching this function from Build always fits the budget.
func WrapLines(text string, maxChars, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	// Text that fits a single line stays on a single line.
	if len(strings.Join(words, " ")) <= maxChars {
		return []string{strings.Join(words, " ")}
	}

	if maxLines == 2 && len(words) > 3 {
		if lines, ok := balancedSplit(words, maxChars); ok {
			return fixLineEdges(lines, maxChars)
		}
	}

	return fixLineEdges(greedyWrap(words, maxChars, maxLines), maxChars)
}

// lineFill tracks greedy per-line accounting for words accumulating into a
// cue, so callers know when one more word could no longer wrap into maxLines
// lines of maxChars. An overlong first word occupies its line alone, matching
// the wrap behavior for words that exceed the line budget.
type lineFill struct {
	maxChars int
	maxLines int
	lines    int
	lineLen  int
}

func newLineFill(maxChars, maxLines int) *lineFill {
	return &lineFill{maxChars: maxChars, maxLines: maxLines}
}

// Add reports whether word still fits the line budget, updating the
// accounting only when it does
func (f *lineFill) Add(word string) bool {
	if f.lines == 0 {
		f.lines = 1
		f.lineLen = len(word)
		return true
	}
	if f.lineLen+1+len(word) <= f.maxChars {
		f.lineLen += 1 + len(word)
		return true
	}
	if f.lines == f.maxLines {
		return false
	}
	f.lines++
	f.lineLen = len(word)
	return true
}

// Reset starts the accounting over with word on the first line
func (f *lineFill) Reset(word string) {
	f.lines = 1
	f.lineLen = len(word)
}

// fitsLineBudget reports whether wrapped lines honor the line budget. A line
// holding a single overlong word counts as fitting.
func fitsLineBudget(lines []string, maxChars, maxLines int) bool {
	if len(lines) > maxLines {
		return false
	}
	for _, line := range lines {
		if len(line) > maxChars && strings.ContainsRune(line, ' ') {
			return false
		}
	}
	return true
}

// balancedSplit searches for the two-line split with the most even line
// lengths, penalizing splits that orphan short lines or break inside a
// connector phrase
func balancedSplit(words []string, maxChars int) ([]string, bool) {
	bestSplit := -1
	bestScore := 0

	for i := 1; i < len(words); i++ {
		left := strings.Join(words[:i], " ")
		right := strings.Join(words[i:], " ")
		if len(left) > maxChars || len(right) > maxChars {
			continue
		}

		penalty := len(left) - len(right)
		if penalty < 0 {
			penalty = -penalty
		}
		if i <= 2 || len(words)-i <= 2 {
			penalty += 10
		}
		if textnorm.IsForbiddenEdge(words[i-1]) {
			penalty += 8
		}

		if bestSplit == -1 || penalty < bestScore {
			bestScore = penalty
			bestSplit = i
		}
	}

	if bestSplit == -1 {
		return nil, false
	}
	return []string{
		strings.Join(words[:bestSplit], " "),
		strings.Join(words[bestSplit:], " "),
	}, true
}

// greedyWrap fills lines left to right at word boundaries
func greedyWrap(words []string, maxChars, maxLines int) []string {
	var lines []string
	var current []string
	currentLen := 0

	for i, word := range words {
		nextLen := currentLen + len(word)
		if len(current) > 0 {
			nextLen++
		}

		if len(current) > 0 && nextLen > maxChars {
			lines = append(lines, strings.Join(current, " "))
			if len(lines) == maxLines-1 {
				// Remaining words all land on the final line.
				lines = append(lines, strings.Join(words[i:], " "))
				return lines
			}
			current = []string{word}
			currentLen = len(word)
			continue
		}

		current = append(current, word)
		currentLen = nextLen
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// fixLineEdges nudges a forbidden connector across a two-line break so the
// first line does not end on one, provided the move still fits
func fixLineEdges(lines []string, maxChars int) []string {
	if len(lines) != 2 {
		return lines
	}

	left := strings.Fields(lines[0])
	right := strings.Fields(lines[1])

	if len(left) > 1 && textnorm.IsForbiddenEdge(left[len(left)-1]) {
		moved := left[len(left)-1]
		candidate := strings.Join(append([]string{moved}, right...), " ")
		if len(candidate) <= maxChars {
			left = left[:len(left)-1]
			right = append([]string{moved}, right...)
		}
	}

	return []string{strings.Join(left, " "), strings.Join(right, " ")}
}
