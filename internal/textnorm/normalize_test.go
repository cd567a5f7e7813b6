package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Verbatim(t *testing.T) {
	t.Run("should collapse runs of whitespace to single spaces", func(t *testing.T) {
		// Arrange
		input := "  hello   world \t again\n"

		// Act
		result := Normalize(input, ModeVerbatim)

		// Assert
		assert.Equal(t, "hello world again", result)
	})

	t.Run("should never alter wording or punctuation", func(t *testing.T) {
		// Arrange
		input := "um, you know this stays , exactly as spoken"

		// Act
		result := Normalize(input, ModeVerbatim)

		// Assert
		assert.Equal(t, "um, you know this stays , exactly as spoken", result)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		// Arrange
		input := "  several   spaced    words  "

		// Act
		once := Normalize(input, ModeVerbatim)
		twice := Normalize(once, ModeVerbatim)

		// Assert
		assert.Equal(t, once, twice)
	})

	t.Run("should return empty string for whitespace-only input", func(t *testing.T) {
		// Act
		result := Normalize("   \t\n  ", ModeVerbatim)

		// Assert
		assert.Equal(t, "", result)
	})
}

func TestNormalize_Finalize(t *testing.T) {
	t.Run("should remove filler phrases", func(t *testing.T) {
		// Arrange
		input := "so basically the launch is, you know, on schedule"

		// Act
		result := Normalize(input, ModeFinalize)

		// Assert
		assert.NotContains(t, result, "basically")
		assert.NotContains(t, result, "you know")
		assert.Contains(t, result, "launch is")
	})

	t.Run("should remove space before punctuation", func(t *testing.T) {
		// Act
		result := Normalize("wait , what ?", ModeFinalize)

		// Assert
		assert.Equal(t, "Wait, what?", result)
	})

	t.Run("should apply sentence case and terminal punctuation", func(t *testing.T) {
		// Act
		result := Normalize("the report is ready", ModeFinalize)

		// Assert
		assert.Equal(t, "The report is ready.", result)
	})

	t.Run("should keep existing terminal punctuation", func(t *testing.T) {
		// Act
		result := Normalize("Is it ready?", ModeFinalize)

		// Assert
		assert.Equal(t, "Is it ready?", result)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		// Arrange
		input := "basically the launch is , you know , on schedule"

		// Act
		once := Normalize(input, ModeFinalize)
		twice := Normalize(once, ModeFinalize)

		// Assert
		assert.Equal(t, once, twice)
	})
}

func TestCleanCaption(t *testing.T) {
	t.Run("should remove fillers without touching case or ending", func(t *testing.T) {
		// Act
		result := CleanCaption("the team was basically ready")

		// Assert
		assert.Equal(t, "the team was ready", result)
	})

	t.Run("should fix spacing around punctuation", func(t *testing.T) {
		// Act
		result := CleanCaption("ready , set")

		// Assert
		assert.Equal(t, "ready, set", result)
	})

	t.Run("should return empty string for filler-only input", func(t *testing.T) {
		// Act
		result := CleanCaption("you know")

		// Assert
		assert.Equal(t, "", result)
	})
}

func TestComparisonTokens(t *testing.T) {
	t.Run("should lowercase and split on whitespace", func(t *testing.T) {
		// Act
		tokens := ComparisonTokens("The Quick  Brown\tFox")

		// Assert
		assert.Equal(t, []string{"the", "quick", "brown", "fox"}, tokens)
	})

	t.Run("should return nil for empty input", func(t *testing.T) {
		// Act
		tokens := ComparisonTokens("   ")

		// Assert
		assert.Nil(t, tokens)
	})

	t.Run("should keep punctuation attached to tokens", func(t *testing.T) {
		// Act
		tokens := ComparisonTokens("Wait, what?")

		// Assert
		assert.Equal(t, []string{"wait,", "what?"}, tokens)
	})
}

func TestSentenceCase(t *testing.T) {
	t.Run("should uppercase only the first letter", func(t *testing.T) {
		assert.Equal(t, "The nasa report", SentenceCase("the nasa report"))
	})

	t.Run("should leave already-capitalized text alone", func(t *testing.T) {
		assert.Equal(t, "NASA report", SentenceCase("NASA report"))
	})

	t.Run("should skip leading non-letters", func(t *testing.T) {
		assert.Equal(t, `"Quote me"`, SentenceCase(`"quote me"`))
	})

	t.Run("should handle empty input", func(t *testing.T) {
		assert.Equal(t, "", SentenceCase(""))
	})
}

func TestEnsureEndPunctuation(t *testing.T) {
	t.Run("should append period when missing", func(t *testing.T) {
		assert.Equal(t, "done.", EnsureEndPunctuation("done"))
	})

	t.Run("should keep question and exclamation marks", func(t *testing.T) {
		assert.Equal(t, "really?", EnsureEndPunctuation("really?"))
		assert.Equal(t, "go!", EnsureEndPunctuation("go!"))
	})

	t.Run("should replace a dangling comma instead of stacking", func(t *testing.T) {
		assert.Equal(t, "and then.", EnsureEndPunctuation("and then,"))
	})

	t.Run("should handle empty input", func(t *testing.T) {
		assert.Equal(t, "", EnsureEndPunctuation("  "))
	})
}

func TestStripToken(t *testing.T) {
	t.Run("should lowercase and strip edge punctuation", func(t *testing.T) {
		assert.Equal(t, "and", StripToken("And,"))
		assert.Equal(t, "so", StripToken(" so. "))
	})
}

func TestPolicyWordSets(t *testing.T) {
	t.Run("should flag conjunctions and particles as forbidden edges", func(t *testing.T) {
		assert.True(t, IsForbiddenEdge("and"))
		assert.True(t, IsForbiddenEdge("The,"))
		assert.False(t, IsForbiddenEdge("rocket"))
	})

	t.Run("should flag dangling tail words", func(t *testing.T) {
		assert.True(t, IsDanglingTail("and"))
		assert.False(t, IsDanglingTail("finished"))
	})

	t.Run("should flag conjunctions as forbidden sentence openers", func(t *testing.T) {
		assert.True(t, IsForbiddenStart("And"))
		assert.True(t, IsForbiddenStart("because"))
		assert.False(t, IsForbiddenStart("the"))
	})
}
