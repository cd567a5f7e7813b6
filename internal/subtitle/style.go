package subtitle

import (
	"fmt"
	"io"
	"strings"

	"captionforge/internal/layout"
)

// Style carries the caption rendering parameters emitted alongside the
// subtitle file. The values mirror the safe-area validator's inputs so the
// sidecar and the QC report always describe the same layout.
type Style struct {
	PlayResX     int
	PlayResY     int
	FontName     string
	FontSize     int
	Outline      int
	Shadow       int
	MarginLeft   int
	MarginRight  int
	MarginBottom int
}

// NewStyleFromProfile derives sidecar style values from a render profile
func NewStyleFromProfile(profile layout.Profile) Style {
	return Style{
		PlayResX:     profile.FrameWidth,
		PlayResY:     profile.FrameHeight,
		FontName:     profile.FontName,
		FontSize:     profile.FontSize,
		Outline:      profile.OutlinePx,
		Shadow:       profile.ShadowPx,
		MarginLeft:   int(float64(profile.FrameWidth) * profile.MarginHorizontalFraction),
		MarginRight:  int(float64(profile.FrameWidth) * profile.MarginHorizontalFraction),
		MarginBottom: int(float64(profile.FrameHeight) * profile.MarginVerticalFraction),
	}
}

// RenderStyleSidecar produces the ASS style sections for the caption track
func RenderStyleSidecar(style Style) string {
	var sb strings.Builder
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&sb, "PlayResX: %d\n", style.PlayResX)
	fmt.Fprintf(&sb, "PlayResY: %d\n", style.PlayResY)
	sb.WriteString("\n[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, Outline, Shadow, MarginL, MarginR, MarginV\n")
	fmt.Fprintf(&sb, "Style: Caption,%s,%d,%d,%d,%d,%d,%d\n",
		style.FontName, style.FontSize, style.Outline, style.Shadow,
		style.MarginLeft, style.MarginRight, style.MarginBottom)
	return sb.String()
}

// WriteStyleSidecar writes the rendered style sidecar to the writer
func WriteStyleSidecar(w io.Writer, style Style) error {
	if _, err := io.WriteString(w, RenderStyleSidecar(style)); err != nil {
		return fmt.Errorf("failed to write style sidecar: %w", err)
	}
	return nil
}
