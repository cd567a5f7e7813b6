package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"captionforge/internal/cue"
)

func TestFormatTimestamp(t *testing.T) {
	t.Run("should render milliseconds as interchange notation", func(t *testing.T) {
		assert.Equal(t, "00:00:00,000", FormatTimestamp(0))
		assert.Equal(t, "00:00:01,500", FormatTimestamp(1500))
		assert.Equal(t, "00:01:06,560", FormatTimestamp(66560))
		assert.Equal(t, "01:02:03,004", FormatTimestamp(3723004))
	})

	t.Run("should clamp negative values to zero", func(t *testing.T) {
		assert.Equal(t, "00:00:00,000", FormatTimestamp(-50))
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("should invert FormatTimestamp exactly", func(t *testing.T) {
		for _, ms := range []int{0, 1, 999, 1000, 59999, 60000, 3599999, 3600000, 3723004} {
			// Act
			parsed, err := ParseTimestamp(FormatTimestamp(ms))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, ms, parsed)
		}
	})

	t.Run("should reject a missing millisecond separator", func(t *testing.T) {
		_, err := ParseTimestamp("00:00:01.500")
		assert.Error(t, err)
	})

	t.Run("should reject a malformed clock part", func(t *testing.T) {
		_, err := ParseTimestamp("00:01,500")
		assert.Error(t, err)
	})

	t.Run("should reject non-numeric fields", func(t *testing.T) {
		_, err := ParseTimestamp("00:xx:01,500")
		assert.Error(t, err)
	})
}

func TestRenderSRT(t *testing.T) {
	t.Run("should render numbered blocks separated by blank lines", func(t *testing.T) {
		// Arrange
		cues := []cue.Cue{
			{Index: 1, StartMS: 0, EndMS: 1666, Lines: []string{"first cue text"}},
			{Index: 2, StartMS: 1666, EndMS: 3333, Lines: []string{"second cue", "two lines"}},
		}

		// Act
		rendered := RenderSRT(cues)

		// Assert
		expected := "1\n" +
			"00:00:00,000 --> 00:00:01,666\n" +
			"first cue text\n" +
			"\n" +
			"2\n" +
			"00:00:01,666 --> 00:00:03,333\n" +
			"second cue\n" +
			"two lines\n"
		assert.Equal(t, expected, rendered)
	})

	t.Run("should render nothing for an empty cue list", func(t *testing.T) {
		assert.Equal(t, "", RenderSRT(nil))
	})
}

func TestParseSRT(t *testing.T) {
	t.Run("should round-trip rendered cues exactly", func(t *testing.T) {
		// Arrange
		cues := []cue.Cue{
			{Index: 1, StartMS: 0, EndMS: 1666, Lines: []string{"first cue text"}},
			{Index: 2, StartMS: 1666, EndMS: 3333, Lines: []string{"second cue", "two lines"}},
			{Index: 3, StartMS: 3333, EndMS: 4990, Lines: []string{"the final cue"}},
		}

		// Act
		parsed, err := ParseSRT(strings.NewReader(RenderSRT(cues)))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cues, parsed)
	})

	t.Run("should tolerate carriage returns and trailing blank lines", func(t *testing.T) {
		// Arrange
		input := "1\r\n00:00:00,000 --> 00:00:01,000\r\nhello there\r\n\r\n\r\n"

		// Act
		parsed, err := ParseSRT(strings.NewReader(input))

		// Assert
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.Equal(t, "hello there", parsed[0].Lines[0])
	})

	t.Run("should reject a block without text lines", func(t *testing.T) {
		// Arrange
		input := "1\n00:00:00,000 --> 00:00:01,000\n"

		// Act
		_, err := ParseSRT(strings.NewReader(input))

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "too short")
	})

	t.Run("should reject a non-positive duration", func(t *testing.T) {
		// Arrange
		input := "1\n00:00:02,000 --> 00:00:02,000\ntext\n"

		// Act
		_, err := ParseSRT(strings.NewReader(input))

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "non-positive duration")
	})

	t.Run("should reject a bad timing line", func(t *testing.T) {
		// Arrange
		input := "1\n00:00:00,000 -> 00:00:01,000\ntext\n"

		// Act
		_, err := ParseSRT(strings.NewReader(input))

		// Assert
		assert.Error(t, err)
	})
}
