package layout

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Minimum safe margins enforced regardless of configuration, as fractions of
// the frame dimensions
const (
	MinHorizontalMarginFraction = 0.06
	MinVerticalMarginFraction   = 0.10
)

// Profile describes a render target's frame geometry and caption styling
type Profile struct {
	Name                     string  `json:"name"`
	FrameWidth               int     `json:"frame_width"`
	FrameHeight              int     `json:"frame_height"`
	FontSize                 int     `json:"font_size"`
	OutlinePx                int     `json:"outline_px"`
	ShadowPx                 int     `json:"shadow_px"`
	FontName                 string  `json:"font_name"`
	MarginHorizontalFraction float64 `json:"margin_horizontal_fraction"`
	MarginVerticalFraction   float64 `json:"margin_vertical_fraction"`
}

// Validate checks if the Profile has valid values
func (p *Profile) Validate() error {
	if p.FrameWidth <= 0 || p.FrameHeight <= 0 {
		return fmt.Errorf("frame dimensions must be positive")
	}
	if p.FontSize <= 0 {
		return fmt.Errorf("font size must be positive")
	}
	if p.OutlinePx < 0 || p.ShadowPx < 0 {
		return fmt.Errorf("outline and shadow cannot be negative")
	}
	if p.MarginHorizontalFraction < 0 || p.MarginHorizontalFraction >= 0.5 {
		return fmt.Errorf("horizontal margin fraction must be in [0, 0.5)")
	}
	if p.MarginVerticalFraction < 0 || p.MarginVerticalFraction >= 0.5 {
		return fmt.Errorf("vertical margin fraction must be in [0, 0.5)")
	}
	return nil
}

// BoundingBox is the theoretical pixel extent of the densest possible cue
type BoundingBox struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Result reports a safe-area check outcome
type Result struct {
	Profile      string      `json:"profile"`
	BBox         BoundingBox `json:"bbox"`
	SafeWidth    int         `json:"safe_width"`
	SafeHeight   int         `json:"safe_height"`
	WithinBounds bool        `json:"within_bounds"`
}

// ExceedsSafeAreaError is raised only when the strict-layout toggle is on;
// otherwise an out-of-bounds layout is recorded as a warning in the report
type ExceedsSafeAreaError struct {
	Result Result
}

func (e *ExceedsSafeAreaError) Error() string {
	return fmt.Sprintf("subtitle layout exceeds safe area on profile %s: bbox %dx%d, safe %dx%d",
		e.Result.Profile, e.Result.BBox.Width, e.Result.BBox.Height,
		e.Result.SafeWidth, e.Result.SafeHeight)
}

// GlyphMetrics estimates rendered text extents for a font size. The default
// implementation is a fixed-ratio heuristic, a conservative estimate rather
// than true font metrics; callers with real metrics can supply their own.
type GlyphMetrics interface {
	// GlyphWidth is the average advance width of one glyph in pixels
	GlyphWidth(fontSize int) int
	// LineHeight is the height of one text line in pixels
	LineHeight(fontSize int) int
	// LineGap is the leading between consecutive lines in pixels
	LineGap(fontSize int) int
}

// HeuristicGlyphMetrics approximates proportional-font extents from the font
// size alone
type HeuristicGlyphMetrics struct{}

func (HeuristicGlyphMetrics) GlyphWidth(fontSize int) int { return (fontSize + 1) / 2 }

func (HeuristicGlyphMetrics) LineHeight(fontSize int) int { return fontSize }

func (HeuristicGlyphMetrics) LineGap(fontSize int) int { return fontSize / 3 }

// Validator computes the theoretical bounding box of the densest cue and
// checks it against the frame's safe rectangle. It renders nothing; the
// check is a pure function of its configuration inputs.
type Validator struct {
	metrics GlyphMetrics
	logger  *zap.Logger
}

// NewValidator creates a Validator using the heuristic glyph metrics
func NewValidator() *Validator {
	return &Validator{
		metrics: HeuristicGlyphMetrics{},
		logger:  zap.NewNop(),
	}
}

// NewValidatorWithMetrics creates a Validator with a custom glyph-metrics
// provider and logger
func NewValidatorWithMetrics(metrics GlyphMetrics, logger *zap.Logger) *Validator {
	if metrics == nil {
		metrics = HeuristicGlyphMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		metrics: metrics,
		logger:  logger,
	}
}

// Validate checks whether maxLines lines of maxCharsPerLine characters fit
// inside the profile's safe rectangle. Margins below the enforced minimums
// are clamped up before the safe rectangle is computed.
func (v *Validator) Validate(profile Profile, maxLines, maxCharsPerLine int) (Result, error) {
	if err := profile.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid profile %q: %w", profile.Name, err)
	}
	if maxLines <= 0 || maxCharsPerLine <= 0 {
		return Result{}, fmt.Errorf("line constraints must be positive")
	}

	inflation := 2*profile.OutlinePx + profile.ShadowPx
	bbox := BoundingBox{
		Width: maxCharsPerLine*v.metrics.GlyphWidth(profile.FontSize) + inflation,
		Height: maxLines*v.metrics.LineHeight(profile.FontSize) +
			(maxLines-1)*v.metrics.LineGap(profile.FontSize) + inflation,
	}

	hMargin := profile.MarginHorizontalFraction
	if hMargin < MinHorizontalMarginFraction {
		hMargin = MinHorizontalMarginFraction
	}
	vMargin := profile.MarginVerticalFraction
	if vMargin < MinVerticalMarginFraction {
		vMargin = MinVerticalMarginFraction
	}

	result := Result{
		Profile:    profile.Name,
		BBox:       bbox,
		SafeWidth:  int(float64(profile.FrameWidth) * (1 - 2*hMargin)),
		SafeHeight: int(float64(profile.FrameHeight) * (1 - 2*vMargin)),
	}
	result.WithinBounds = bbox.Width <= result.SafeWidth && bbox.Height <= result.SafeHeight

	v.logger.Debug("safe-area check",
		zap.String("profile", profile.Name),
		zap.Int("bbox_width", bbox.Width),
		zap.Int("bbox_height", bbox.Height),
		zap.Int("safe_width", result.SafeWidth),
		zap.Int("safe_height", result.SafeHeight),
		zap.Bool("within_bounds", result.WithinBounds))

	return result, nil
}

// ValidateAll evaluates several candidate profiles concurrently. Each
// evaluation is independent and reads only its own immutable inputs.
func (v *Validator) ValidateAll(profiles []Profile, maxLines, maxCharsPerLine int) ([]Result, error) {
	results := make([]Result, len(profiles))
	errs := make([]error, len(profiles))

	var wg sync.WaitGroup
	for i := range profiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = v.Validate(profiles[i], maxLines, maxCharsPerLine)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
