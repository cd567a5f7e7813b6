package subtitle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"captionforge/internal/layout"
)

func TestNewStyleFromProfile(t *testing.T) {
	t.Run("should derive pixel margins from the profile fractions", func(t *testing.T) {
		// Arrange
		profile, err := layout.ProfileByName("portrait")
		require.NoError(t, err)

		// Act
		style := NewStyleFromProfile(profile)

		// Assert
		assert.Equal(t, 1080, style.PlayResX)
		assert.Equal(t, 1920, style.PlayResY)
		assert.Equal(t, "Arial", style.FontName)
		assert.Equal(t, 39, style.FontSize)
		assert.Equal(t, 3, style.Outline)
		assert.Equal(t, 2, style.Shadow)
		assert.Equal(t, 75, style.MarginLeft)
		assert.Equal(t, 75, style.MarginRight)
		assert.Equal(t, 230, style.MarginBottom)
	})
}

func TestRenderStyleSidecar(t *testing.T) {
	t.Run("should render the script info and styles sections", func(t *testing.T) {
		// Arrange
		profile, err := layout.ProfileByName("portrait")
		require.NoError(t, err)
		style := NewStyleFromProfile(profile)

		// Act
		rendered := RenderStyleSidecar(style)

		// Assert
		assert.Contains(t, rendered, "[Script Info]")
		assert.Contains(t, rendered, "ScriptType: v4.00+")
		assert.Contains(t, rendered, "PlayResX: 1080")
		assert.Contains(t, rendered, "PlayResY: 1920")
		assert.Contains(t, rendered, "[V4+ Styles]")
		assert.Contains(t, rendered, "Style: Caption,Arial,39,3,2,75,75,230")
	})
}

func TestWriteStyleSidecar(t *testing.T) {
	t.Run("should write the rendered sidecar", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		profile, err := layout.ProfileByName("landscape")
		require.NoError(t, err)

		// Act
		err = WriteStyleSidecar(&buf, NewStyleFromProfile(profile))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "PlayResX: 1920")
	})
}
