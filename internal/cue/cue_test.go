package cue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCue_Text(t *testing.T) {
	t.Run("should join lines with a space", func(t *testing.T) {
		// Arrange
		c := Cue{Lines: []string{"first line", "second line"}}

		// Assert
		assert.Equal(t, "first line second line", c.Text())
	})
}

func TestCue_CharactersPerSecond(t *testing.T) {
	t.Run("should count non-space characters over the duration", func(t *testing.T) {
		// Arrange
		c := Cue{StartMS: 0, EndMS: 2000, Lines: []string{"ten chars!", "ten chars!"}}

		// Act
		cps := c.CharactersPerSecond()

		// Assert
		// 18 non-space characters over 2 seconds
		assert.InDelta(t, 9.0, cps, 0.001)
	})

	t.Run("should return zero for a zero-duration cue", func(t *testing.T) {
		// Arrange
		c := Cue{StartMS: 1000, EndMS: 1000, Lines: []string{"text"}}

		// Assert
		assert.Zero(t, c.CharactersPerSecond())
	})
}

func TestCue_Validate(t *testing.T) {
	t.Run("should accept a well-formed cue", func(t *testing.T) {
		// Arrange
		c := Cue{Index: 1, StartMS: 0, EndMS: 1500, Lines: []string{"hello"}}

		// Assert
		assert.NoError(t, c.Validate())
	})

	t.Run("should reject a non-positive duration", func(t *testing.T) {
		// Arrange
		c := Cue{Index: 1, StartMS: 1500, EndMS: 1500, Lines: []string{"hello"}}

		// Assert
		assert.Error(t, c.Validate())
	})

	t.Run("should reject missing lines", func(t *testing.T) {
		// Arrange
		c := Cue{Index: 1, StartMS: 0, EndMS: 1500}

		// Assert
		assert.Error(t, c.Validate())
	})
}
