package qc

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"captionforge/internal/cue"
	"captionforge/internal/layout"
	"captionforge/internal/segment"
	"captionforge/internal/textnorm"
	"captionforge/internal/verbatim"
)

// durationToleranceSeconds absorbs millisecond rounding when comparing cue
// durations against the configured minimum
const durationToleranceSeconds = 0.02

// Thresholds carries the numeric limits applied during evaluation
type Thresholds struct {
	MinCueSeconds                    float64
	MaxCueSeconds                    float64
	MaxCPS                           float64
	TargetCPS                        float64
	AVDeltaToleranceSeconds          float64
	SubtitleEndDeltaToleranceSeconds float64
	LateStartToleranceSeconds        float64
	CanonicalTerms                   []string
}

// DefaultThresholds returns the standard QC limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCueSeconds:                    0.6,
		MaxCueSeconds:                    2.0,
		MaxCPS:                           17.0,
		TargetCPS:                        15.0,
		AVDeltaToleranceSeconds:          0.25,
		SubtitleEndDeltaToleranceSeconds: 0.25,
		LateStartToleranceSeconds:        0.2,
	}
}

// Input is everything the aggregator audits. All fields are read-only; the
// aggregator never mutates cues or text.
type Input struct {
	Cues                 []cue.Cue
	Segments             []segment.Segment
	AudioDurationSeconds float64
	VideoDurationSeconds float64
	ScriptText           string
	SafeArea             *layout.Result
	ScriptVsCaptions     *verbatim.Result
	ASRVsCaptions        *verbatim.Result
	ScriptVsASR          *verbatim.Result
	KnownConfusions      []string
	Policy               verbatim.Policy
	Mode                 Mode
}

// Aggregator computes derived caption metrics, applies the mode's severity
// table, and assembles the final report
type Aggregator struct {
	thresholds Thresholds
	logger     *zap.Logger
}

// NewAggregator creates an Aggregator with the given thresholds
func NewAggregator(thresholds Thresholds) *Aggregator {
	return &Aggregator{
		thresholds: thresholds,
		logger:     zap.NewNop(),
	}
}

// NewAggregatorWithLogger creates an Aggregator with the given thresholds and logger
func NewAggregatorWithLogger(thresholds Thresholds, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		thresholds: thresholds,
		logger:     logger,
	}
}

// Evaluate audits the cues and assembles the QC report. Metrics are always
// computed; which violations run, and their severities, follow the mode's
// severity table. Every check is fully evaluated so the caller sees the
// complete violation set in one pass.
func (a *Aggregator) Evaluate(in Input) *Report {
	report := &Report{
		Mode:                 in.Mode,
		AudioDurationSeconds: in.AudioDurationSeconds,
		VideoDurationSeconds: in.VideoDurationSeconds,
		CueCount:             len(in.Cues),
		SafeArea:             in.SafeArea,
		Violations:           []Violation{},
	}

	a.computeMetrics(report, in)
	a.recordVerbatim(report, in)

	if in.Mode != ModeOff {
		a.checkCues(report, in)
		a.checkTimeline(report, in)
		a.checkSafeArea(report, in)
		a.checkCanonicalTerms(report, in)
	}

	report.Status = StatusPass
	for _, v := range report.Violations {
		if v.Severity == SeverityFail {
			report.Status = StatusFail
			break
		}
		report.Status = StatusWarn
	}

	a.logger.Info("qc evaluation complete",
		zap.String("mode", string(in.Mode)),
		zap.String("status", string(report.Status)),
		zap.Int("cue_count", report.CueCount),
		zap.Int("violation_count", len(report.Violations)))

	return report
}

// addViolation applies the mode's severity table; checks the table disables
// are silently skipped
func (a *Aggregator) addViolation(report *Report, kind ViolationKind, cueIndex int, message string) {
	severity, run := SeverityFor(kind, report.Mode)
	if !run {
		return
	}
	report.Violations = append(report.Violations, Violation{
		Kind:     kind,
		CueIndex: cueIndex,
		Message:  message,
		Severity: severity,
	})
}

// computeMetrics fills the derived metric fields of the report
func (a *Aggregator) computeMetrics(report *Report, in Input) {
	if len(in.Cues) == 0 {
		return
	}

	durations := make([]float64, 0, len(in.Cues))
	cpsValues := make([]float64, 0, len(in.Cues))
	displayed := 0.0
	for i := range in.Cues {
		c := &in.Cues[i]
		durations = append(durations, c.DurationSeconds())
		cpsValues = append(cpsValues, c.CharactersPerSecond())
		displayed += c.DurationSeconds()
	}

	report.CueStats = &CueStats{
		MinSeconds:    minOf(durations),
		MaxSeconds:    maxOf(durations),
		AvgSeconds:    avgOf(durations),
		MedianSeconds: medianOf(durations),
	}
	report.CPSMax = maxOf(cpsValues)
	report.CPSMedian = medianOf(cpsValues)
	report.SubtitleStartSeconds = float64(in.Cues[0].StartMS) / 1000.0
	report.SubtitleEndSeconds = float64(in.Cues[len(in.Cues)-1].EndMS) / 1000.0

	if in.AudioDurationSeconds > 0 {
		report.CueChangesPer10S = float64(len(in.Cues)) / (in.AudioDurationSeconds / 10.0)
		report.CoverageFraction = displayed / in.AudioDurationSeconds
		delta := abs(report.SubtitleEndSeconds - in.AudioDurationSeconds)
		report.SubtitleEndDeltaSeconds = &delta
	}

	if in.VideoDurationSeconds > 0 && in.AudioDurationSeconds > 0 {
		delta := abs(in.VideoDurationSeconds - in.AudioDurationSeconds)
		report.AVDeltaSeconds = &delta
	}

	report.Drift = computeDrift(in.Cues, in.Segments)
}

// recordVerbatim attaches the verbatim diff summary. Broadcast mode always
// records the full summary regardless of pass or fail.
func (a *Aggregator) recordVerbatim(report *Report, in Input) {
	if in.ScriptVsCaptions == nil && in.ASRVsCaptions == nil && in.ScriptVsASR == nil {
		return
	}
	report.Verbatim = &VerbatimSummary{
		Policy:           in.Policy,
		ScriptVsCaptions: in.ScriptVsCaptions,
		ASRVsCaptions:    in.ASRVsCaptions,
		ScriptVsASR:      in.ScriptVsASR,
		KnownConfusions:  in.KnownConfusions,
	}
}

// checkCues applies the per-cue duration, reading-speed, and text checks
func (a *Aggregator) checkCues(report *Report, in Input) {
	prevText := ""
	for i := range in.Cues {
		c := &in.Cues[i]
		duration := c.DurationSeconds()
		text := c.Text()

		if duration < a.thresholds.MinCueSeconds-durationToleranceSeconds {
			a.addViolation(report, KindMinDuration, c.Index,
				fmt.Sprintf("cue duration %.2fs below minimum %.2fs", duration, a.thresholds.MinCueSeconds))
		}
		if duration > a.thresholds.MaxCueSeconds+durationToleranceSeconds {
			a.addViolation(report, KindMaxDuration, c.Index,
				fmt.Sprintf("cue duration %.2fs above maximum %.2fs", duration, a.thresholds.MaxCueSeconds))
		}

		cps := c.CharactersPerSecond()
		if cps > a.thresholds.MaxCPS {
			a.addViolation(report, KindMaxCPS, c.Index,
				fmt.Sprintf("reading speed %.1f cps exceeds maximum %.1f", cps, a.thresholds.MaxCPS))
		} else if cps > a.thresholds.TargetCPS {
			a.addViolation(report, KindCPSTarget, c.Index,
				fmt.Sprintf("reading speed %.1f cps exceeds target %.1f", cps, a.thresholds.TargetCPS))
		}

		words := strings.Fields(text)
		if len(words) >= 4 && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") && !strings.HasSuffix(text, "!") {
			a.addViolation(report, KindEndPunctuation, c.Index, "cue does not end with terminal punctuation")
		}
		if len(words) > 0 && textnorm.IsDanglingTail(words[len(words)-1]) {
			a.addViolation(report, KindDanglingTail, c.Index,
				fmt.Sprintf("cue ends on dangling word %q", words[len(words)-1]))
		}

		// A conjunction may open a cue that continues the previous cue's
		// sentence, but not one that starts a new sentence.
		if len(words) > 0 && textnorm.IsForbiddenStart(words[0]) && !continuesSentence(prevText) {
			a.addViolation(report, KindForbiddenLineStart, c.Index,
				fmt.Sprintf("cue opens a sentence with conjunction %q", words[0]))
		}

		// Intra-cue line breaks must not strand a connector at a line end.
		for j := 0; j+1 < len(c.Lines); j++ {
			line := c.Lines[j]
			lineWords := strings.Fields(line)
			if len(lineWords) < 2 {
				continue
			}
			if textnorm.IsForbiddenEdge(lineWords[len(lineWords)-1]) {
				a.addViolation(report, KindForbiddenLineEnd, c.Index,
					fmt.Sprintf("line ends with connector %q", lineWords[len(lineWords)-1]))
			}
		}

		if textnorm.SentenceCase(text) != text && !continuesSentence(prevText) {
			a.addViolation(report, KindSentenceCase, c.Index, "cue does not start with a capital letter")
		}

		prevText = text
	}
}

// continuesSentence reports whether a cue following prevText carries on the
// same sentence
func continuesSentence(prevText string) bool {
	if prevText == "" {
		return false
	}
	return !strings.HasSuffix(prevText, ".") &&
		!strings.HasSuffix(prevText, "?") &&
		!strings.HasSuffix(prevText, "!")
}

// checkTimeline applies the whole-track timing checks
func (a *Aggregator) checkTimeline(report *Report, in Input) {
	if len(in.Cues) == 0 {
		return
	}

	if report.SubtitleStartSeconds > a.thresholds.LateStartToleranceSeconds {
		a.addViolation(report, KindLateStart, 0,
			fmt.Sprintf("first cue starts %.2fs after audio begins (tolerance %.2fs)",
				report.SubtitleStartSeconds, a.thresholds.LateStartToleranceSeconds))
	}

	if report.SubtitleEndDeltaSeconds != nil && *report.SubtitleEndDeltaSeconds > a.thresholds.SubtitleEndDeltaToleranceSeconds {
		a.addViolation(report, KindSubtitleEndDelta, 0,
			fmt.Sprintf("subtitle end differs from audio end by %.3fs (tolerance %.2fs)",
				*report.SubtitleEndDeltaSeconds, a.thresholds.SubtitleEndDeltaToleranceSeconds))
	}

	if report.AVDeltaSeconds != nil && *report.AVDeltaSeconds > a.thresholds.AVDeltaToleranceSeconds {
		a.addViolation(report, KindAVDurationDelta, 0,
			fmt.Sprintf("video and audio durations differ by %.3fs (tolerance %.2fs)",
				*report.AVDeltaSeconds, a.thresholds.AVDeltaToleranceSeconds))
	}
}

// checkSafeArea records the layout verdict
func (a *Aggregator) checkSafeArea(report *Report, in Input) {
	if in.SafeArea == nil {
		return
	}
	ok := in.SafeArea.WithinBounds
	report.SubtitleLayoutOK = &ok
	if !ok {
		a.addViolation(report, KindSafeAreaExceeded, 0,
			fmt.Sprintf("caption bounding box %dx%d exceeds safe area %dx%d",
				in.SafeArea.BBox.Width, in.SafeArea.BBox.Height,
				in.SafeArea.SafeWidth, in.SafeArea.SafeHeight))
	}
}

// checkCanonicalTerms verifies that canonical terms present in the script
// survived into the captions. Broadcast-only; advisory under the audio
// policy since the transcript stream is authoritative there.
func (a *Aggregator) checkCanonicalTerms(report *Report, in Input) {
	if in.Mode != ModeBroadcast || len(a.thresholds.CanonicalTerms) == 0 || in.ScriptText == "" {
		return
	}

	var captionText strings.Builder
	for i := range in.Cues {
		captionText.WriteString(in.Cues[i].Text())
		captionText.WriteString(" ")
	}
	scriptLower := strings.ToLower(in.ScriptText)
	captionLower := strings.ToLower(captionText.String())

	for _, term := range a.thresholds.CanonicalTerms {
		termLower := strings.ToLower(term)
		if strings.Contains(scriptLower, termLower) && !strings.Contains(captionLower, termLower) {
			severity, run := SeverityFor(KindCanonicalTerm, in.Mode)
			if !run {
				continue
			}
			if in.Policy == verbatim.PolicyAudio {
				severity = SeverityWarn
			}
			report.Violations = append(report.Violations, Violation{
				Kind:     KindCanonicalTerm,
				Message:  fmt.Sprintf("canonical term %q missing from captions", term),
				Severity: severity,
			})
		}
	}
}

// computeDrift measures cue-start offsets against corresponding segments.
// A cue corresponds to the segment whose span contains its start, else the
// segment with the nearest start time.
func computeDrift(cues []cue.Cue, segments []segment.Segment) *DriftStats {
	if len(cues) == 0 || len(segments) == 0 {
		return nil
	}

	var deltas []float64
	for i := range cues {
		cueStart := cues[i].StartMS
		segStart := nearestSegmentStart(segments, cueStart)
		deltas = append(deltas, abs(float64(cueStart-segStart))/1000.0)
	}

	return &DriftStats{
		AvgSeconds: avgOf(deltas),
		MaxSeconds: maxOf(deltas),
	}
}

// nearestSegmentStart returns the start of the segment containing startMS,
// or the closest segment start when none contains it
func nearestSegmentStart(segments []segment.Segment, startMS int) int {
	best := segments[0].StartMS
	bestDist := -1
	for i := range segments {
		seg := &segments[i]
		if seg.StartMS <= startMS && startMS < seg.EndMS {
			return seg.StartMS
		}
		dist := seg.StartMS - startMS
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = seg.StartMS
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func avgOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
