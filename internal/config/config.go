package config

import (
	"fmt"

	"github.com/spf13/viper"

	"captionforge/internal/layout"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

// setDefaults applies the recognized options and their default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("captions.max_lines", 2)
	v.SetDefault("captions.max_chars_per_line", 42)
	v.SetDefault("captions.max_cue_duration_s", 2.0)
	v.SetDefault("captions.min_cue_duration_s", 0.6)
	v.SetDefault("captions.verbatim_policy", "audio")
	v.SetDefault("layout.safe_margin_horizontal_fraction", 0.07)
	v.SetDefault("layout.safe_margin_vertical_fraction", 0.12)
	v.SetDefault("layout.render_profile", "portrait")
	v.SetDefault("layout.strict", false)
	v.SetDefault("qc.mode", "warn")
	v.SetDefault("qc.av_delta_tolerance_s", 0.25)
	v.SetDefault("qc.subtitle_end_delta_tolerance_s", 0.25)
	v.SetDefault("qc.late_start_tolerance_s", 0.2)
	v.SetDefault("output.subtitle_path", "./out/captions.srt")
	v.SetDefault("output.style_path", "./out/captions.style.ass")
	v.SetDefault("output.report_path", "./out/qc_report.json")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CAPTIONFORGE")
	v.AutomaticEnv()

	v.BindEnv("captions.verbatim_policy", "CAPTIONFORGE_VERBATIM_POLICY")
	v.BindEnv("qc.mode", "CAPTIONFORGE_QC_MODE")
	v.BindEnv("layout.render_profile", "CAPTIONFORGE_RENDER_PROFILE")
	v.BindEnv("input.script_path", "CAPTIONFORGE_SCRIPT_PATH")
	v.BindEnv("input.transcript_path", "CAPTIONFORGE_TRANSCRIPT_PATH")
	v.BindEnv("input.audio_duration_s", "CAPTIONFORGE_AUDIO_DURATION_S")
	v.BindEnv("input.video_duration_s", "CAPTIONFORGE_VIDEO_DURATION_S")

	return &Configuration{viper: v}, nil
}

// GetMaxLines returns the maximum number of display lines per cue
func (c *Configuration) GetMaxLines() int {
	return c.viper.GetInt("captions.max_lines")
}

// GetMaxCharsPerLine returns the maximum characters per display line
func (c *Configuration) GetMaxCharsPerLine() int {
	return c.viper.GetInt("captions.max_chars_per_line")
}

// GetMaxCueDurationSeconds returns the maximum cue display duration
func (c *Configuration) GetMaxCueDurationSeconds() float64 {
	return c.viper.GetFloat64("captions.max_cue_duration_s")
}

// GetMinCueDurationSeconds returns the minimum cue display duration
func (c *Configuration) GetMinCueDurationSeconds() float64 {
	return c.viper.GetFloat64("captions.min_cue_duration_s")
}

// GetVerbatimPolicy returns the configured verbatim policy name
func (c *Configuration) GetVerbatimPolicy() string {
	return c.viper.GetString("captions.verbatim_policy")
}

// GetSafeMarginHorizontalFraction returns the horizontal safe margin,
// clamped to the enforced minimum
func (c *Configuration) GetSafeMarginHorizontalFraction() float64 {
	fraction := c.viper.GetFloat64("layout.safe_margin_horizontal_fraction")
	if fraction < layout.MinHorizontalMarginFraction {
		return layout.MinHorizontalMarginFraction
	}
	return fraction
}

// GetSafeMarginVerticalFraction returns the vertical safe margin, clamped to
// the enforced minimum
func (c *Configuration) GetSafeMarginVerticalFraction() float64 {
	fraction := c.viper.GetFloat64("layout.safe_margin_vertical_fraction")
	if fraction < layout.MinVerticalMarginFraction {
		return layout.MinVerticalMarginFraction
	}
	return fraction
}

// GetRenderProfile returns the configured render profile name
func (c *Configuration) GetRenderProfile() string {
	return c.viper.GetString("layout.render_profile")
}

// GetStrictLayout reports whether an out-of-bounds layout aborts the run
func (c *Configuration) GetStrictLayout() bool {
	return c.viper.GetBool("layout.strict")
}

// GetQCMode returns the configured QC enforcement mode name
func (c *Configuration) GetQCMode() string {
	return c.viper.GetString("qc.mode")
}

// GetAVDeltaToleranceSeconds returns the audio/video duration delta tolerance
func (c *Configuration) GetAVDeltaToleranceSeconds() float64 {
	return c.viper.GetFloat64("qc.av_delta_tolerance_s")
}

// GetSubtitleEndDeltaToleranceSeconds returns the subtitle-end delta tolerance
func (c *Configuration) GetSubtitleEndDeltaToleranceSeconds() float64 {
	return c.viper.GetFloat64("qc.subtitle_end_delta_tolerance_s")
}

// GetLateStartToleranceSeconds returns the first-cue late start tolerance
func (c *Configuration) GetLateStartToleranceSeconds() float64 {
	return c.viper.GetFloat64("qc.late_start_tolerance_s")
}

// GetScriptPath returns the narration script input path
func (c *Configuration) GetScriptPath() string {
	return c.viper.GetString("input.script_path")
}

// GetTranscriptPath returns the transcript input path, empty when no
// transcript is available
func (c *Configuration) GetTranscriptPath() string {
	return c.viper.GetString("input.transcript_path")
}

// GetAudioDurationSeconds returns the total audio duration
func (c *Configuration) GetAudioDurationSeconds() float64 {
	return c.viper.GetFloat64("input.audio_duration_s")
}

// GetVideoDurationSeconds returns the composed video duration, zero when
// unknown
func (c *Configuration) GetVideoDurationSeconds() float64 {
	return c.viper.GetFloat64("input.video_duration_s")
}

// GetSubtitlePath returns the subtitle output path
func (c *Configuration) GetSubtitlePath() string {
	return c.viper.GetString("output.subtitle_path")
}

// GetStylePath returns the style sidecar output path
func (c *Configuration) GetStylePath() string {
	return c.viper.GetString("output.style_path")
}

// GetReportPath returns the QC report output path
func (c *Configuration) GetReportPath() string {
	return c.viper.GetString("output.report_path")
}
