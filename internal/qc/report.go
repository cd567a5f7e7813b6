package qc

import (
	"captionforge/internal/layout"
	"captionforge/internal/verbatim"
)

// Status is the overall verdict of a QC evaluation
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CueStats summarizes cue display durations in seconds
type CueStats struct {
	MinSeconds    float64 `json:"min_seconds"`
	MaxSeconds    float64 `json:"max_seconds"`
	AvgSeconds    float64 `json:"avg_seconds"`
	MedianSeconds float64 `json:"median_seconds"`
}

// DriftStats summarizes the timing offset between cue starts and their
// corresponding speech segments
type DriftStats struct {
	AvgSeconds float64 `json:"avg_seconds"`
	MaxSeconds float64 `json:"max_seconds"`
}

// VerbatimSummary records the verbatim policy and checker outcomes for the
// report. Broadcast mode always records it regardless of pass or fail.
type VerbatimSummary struct {
	Policy           verbatim.Policy  `json:"policy"`
	ScriptVsCaptions *verbatim.Result `json:"script_vs_captions,omitempty"`
	ASRVsCaptions    *verbatim.Result `json:"asr_vs_captions,omitempty"`
	ScriptVsASR      *verbatim.Result `json:"script_vs_asr,omitempty"`
	KnownConfusions  []string         `json:"known_confusions,omitempty"`
}

// Report is the aggregated QC result for one pipeline run. It is produced
// once, never mutated, and persisted by the caller into the run manifest.
type Report struct {
	Mode                    Mode             `json:"mode"`
	AudioDurationSeconds    float64          `json:"audio_duration_seconds"`
	VideoDurationSeconds    float64          `json:"video_duration_seconds,omitempty"`
	CueCount                int              `json:"cue_count"`
	CueStats                *CueStats        `json:"cue_stats,omitempty"`
	CPSMax                  float64          `json:"cue_cps_max,omitempty"`
	CPSMedian               float64          `json:"cue_cps_median,omitempty"`
	CueChangesPer10S        float64          `json:"cue_changes_per_10s,omitempty"`
	CoverageFraction        float64          `json:"coverage_fraction,omitempty"`
	SubtitleStartSeconds    float64          `json:"subtitle_start_seconds"`
	SubtitleEndSeconds      float64          `json:"subtitle_end_seconds"`
	AVDeltaSeconds          *float64         `json:"av_delta_seconds,omitempty"`
	SubtitleEndDeltaSeconds *float64         `json:"subtitle_end_delta_seconds,omitempty"`
	Drift                   *DriftStats      `json:"drift,omitempty"`
	SafeArea                *layout.Result   `json:"safe_area,omitempty"`
	SubtitleLayoutOK        *bool            `json:"subtitle_layout_ok,omitempty"`
	Verbatim                *VerbatimSummary `json:"verbatim,omitempty"`
	Violations              []Violation      `json:"violations"`
	Status                  Status           `json:"status"`
}

// HasFailures reports whether any violation is build-blocking
func (r *Report) HasFailures() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityFail {
			return true
		}
	}
	return false
}
