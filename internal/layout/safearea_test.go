package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	t.Run("should fit the default caption block in the portrait safe area", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		profile, err := ProfileByName("portrait")
		require.NoError(t, err)

		// Act
		result, err := validator.Validate(profile, 2, 42)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "portrait", result.Profile)
		assert.Equal(t, 848, result.BBox.Width)
		assert.Equal(t, 99, result.BBox.Height)
		assert.Equal(t, 928, result.SafeWidth)
		assert.Equal(t, 1459, result.SafeHeight)
		assert.True(t, result.WithinBounds)
	})

	t.Run("should report an oversize block as out of bounds", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		profile, err := ProfileByName("portrait")
		require.NoError(t, err)

		// Act
		result, err := validator.Validate(profile, 2, 60)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1208, result.BBox.Width)
		assert.False(t, result.WithinBounds)
	})

	t.Run("should clamp margins below the enforced minimums", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		profile, err := ProfileByName("portrait")
		require.NoError(t, err)
		profile.MarginHorizontalFraction = 0.01
		profile.MarginVerticalFraction = 0.02

		// Act
		result, err := validator.Validate(profile, 2, 42)

		// Assert
		require.NoError(t, err)
		// clamped to 0.06 horizontal and 0.10 vertical
		assert.Equal(t, 950, result.SafeWidth)
		assert.Equal(t, 1536, result.SafeHeight)
	})

	t.Run("should reject an invalid profile", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		profile := Profile{Name: "broken", FrameWidth: 0, FrameHeight: 1080, FontSize: 40}

		// Act
		_, err := validator.Validate(profile, 2, 42)

		// Assert
		assert.Error(t, err)
	})

	t.Run("should reject non-positive line constraints", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		profile, err := ProfileByName("square")
		require.NoError(t, err)

		// Act
		_, err = validator.Validate(profile, 0, 42)

		// Assert
		assert.Error(t, err)
	})
}

// fixedGlyphMetrics returns constant extents regardless of font size
type fixedGlyphMetrics struct {
	width, height, gap int
}

func (m fixedGlyphMetrics) GlyphWidth(int) int { return m.width }
func (m fixedGlyphMetrics) LineHeight(int) int { return m.height }
func (m fixedGlyphMetrics) LineGap(int) int    { return m.gap }

func TestValidator_CustomMetrics(t *testing.T) {
	t.Run("should use the supplied glyph metrics", func(t *testing.T) {
		// Arrange
		validator := NewValidatorWithMetrics(fixedGlyphMetrics{width: 10, height: 30, gap: 5}, nil)
		profile, err := ProfileByName("portrait")
		require.NoError(t, err)

		// Act
		result, err := validator.Validate(profile, 2, 40)

		// Assert
		require.NoError(t, err)
		// 40*10 + 8 inflation wide, 2*30 + 5 + 8 inflation tall
		assert.Equal(t, 408, result.BBox.Width)
		assert.Equal(t, 73, result.BBox.Height)
	})
}

func TestValidator_ValidateAll(t *testing.T) {
	t.Run("should evaluate every built-in profile", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		var profiles []Profile
		for _, name := range ProfileNames() {
			profile, err := ProfileByName(name)
			require.NoError(t, err)
			profiles = append(profiles, profile)
		}

		// Act
		results, err := validator.ValidateAll(profiles, 2, 42)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, len(profiles))
		for i, result := range results {
			assert.Equal(t, profiles[i].Name, result.Profile)
			assert.Positive(t, result.BBox.Width)
		}
	})

	t.Run("should surface a failure from any profile", func(t *testing.T) {
		// Arrange
		validator := NewValidator()
		good, err := ProfileByName("portrait")
		require.NoError(t, err)
		bad := Profile{Name: "bad"}

		// Act
		_, err = validator.ValidateAll([]Profile{good, bad}, 2, 42)

		// Assert
		assert.Error(t, err)
	})
}

func TestProfileByName(t *testing.T) {
	t.Run("should return the named profile", func(t *testing.T) {
		// Act
		profile, err := ProfileByName("landscape")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1920, profile.FrameWidth)
		assert.Equal(t, 1080, profile.FrameHeight)
		assert.Equal(t, 44, profile.FontSize)
	})

	t.Run("should reject an unknown name", func(t *testing.T) {
		// Act
		_, err := ProfileByName("cinema")

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown render profile")
	})
}

func TestExceedsSafeAreaError(t *testing.T) {
	t.Run("should describe the offending dimensions", func(t *testing.T) {
		// Arrange
		err := &ExceedsSafeAreaError{Result: Result{
			Profile:    "portrait",
			BBox:       BoundingBox{Width: 1208, Height: 99},
			SafeWidth:  928,
			SafeHeight: 1459,
		}}

		// Assert
		assert.Contains(t, err.Error(), "portrait")
		assert.Contains(t, err.Error(), "1208x99")
		assert.Contains(t, err.Error(), "928x1459")
	})
}
