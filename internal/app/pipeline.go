package app

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"captionforge/internal/cue"
	"captionforge/internal/layout"
	"captionforge/internal/qc"
	"captionforge/internal/segment"
	"captionforge/internal/subtitle"
	"captionforge/internal/textnorm"
	"captionforge/internal/verbatim"
)

// PipelineInput gathers everything one synthesis run needs. Either Segments
// or Script must be present; both together give the richest result.
type PipelineInput struct {
	Script               string
	Segments             []segment.Segment
	AudioDurationSeconds float64
	VideoDurationSeconds float64
	Profile              layout.Profile
	Mode                 qc.Mode
	Policy               verbatim.Policy
	StrictLayout         bool
}

// PipelineResult carries the rendered artifacts of one run
type PipelineResult struct {
	Cues   []cue.Cue
	SRT    string
	Style  subtitle.Style
	Report *qc.Report
}

// Pipeline runs the full synthesis pass in memory: cue construction,
// layout validation, verbatim comparison, and QC aggregation. It owns no
// file handles, which keeps it trivially testable.
type Pipeline struct {
	builder    *cue.Builder
	checker    *verbatim.Checker
	validator  *layout.Validator
	aggregator *qc.Aggregator
	logger     *zap.Logger
}

// NewPipeline creates a Pipeline with the given cue configuration and QC thresholds
func NewPipeline(cueConfig cue.Config, thresholds qc.Thresholds) *Pipeline {
	return NewPipelineWithLogger(cueConfig, thresholds, nil)
}

// NewPipelineWithLogger creates a Pipeline with the given logger
func NewPipelineWithLogger(cueConfig cue.Config, thresholds qc.Thresholds, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		builder:    cue.NewBuilderWithLogger(cueConfig, logger),
		checker:    verbatim.NewCheckerWithLogger(logger),
		validator:  layout.NewValidatorWithMetrics(layout.HeuristicGlyphMetrics{}, logger),
		aggregator: qc.NewAggregatorWithLogger(thresholds, logger),
		logger:     logger,
	}
}

// Run executes one synthesis pass. Artifacts are always assembled so the
// caller can persist them for triage; under the script policy a verbatim
// mismatch, and under strict layout an oversize caption block, are also
// surfaced as errors alongside the result.
func (p *Pipeline) Run(in PipelineInput) (*PipelineResult, error) {
	if !in.Mode.Valid() {
		return nil, fmt.Errorf("invalid QC mode: %q", in.Mode)
	}
	if !in.Policy.Valid() {
		return nil, fmt.Errorf("invalid verbatim policy: %q", in.Policy)
	}
	if in.AudioDurationSeconds <= 0 {
		return nil, fmt.Errorf("audio duration must be positive, got %.3f", in.AudioDurationSeconds)
	}

	script := textnorm.Normalize(in.Script, textnorm.ModeVerbatim)
	if script == "" && len(in.Segments) == 0 {
		return nil, fmt.Errorf("nothing to caption: no script and no transcript segments")
	}

	audioMS := int(math.Round(in.AudioDurationSeconds * 1000))
	segments := in.Segments
	if in.Policy == verbatim.PolicyScript && script != "" && len(segments) > 0 {
		segments = substituteScriptWords(segments, script)
	}

	var (
		cues []cue.Cue
		err  error
	)
	if len(segments) > 0 {
		cues, err = p.builder.Build(segments, audioMS)
	} else {
		cues, err = p.builder.BuildFromScript(script, audioMS)
	}
	if err != nil {
		return nil, err
	}

	// Under the audio policy the transcript stream is authoritative but not
	// display-ready, so cue text gets the caption-finishing pass. The script
	// policy forbids any wording change.
	if in.Policy == verbatim.PolicyAudio {
		cues = p.builder.FinalizeText(cues)
	}

	p.logger.Info("cues built",
		zap.Int("cue_count", len(cues)),
		zap.Int("segment_count", len(in.Segments)),
		zap.String("policy", string(in.Policy)))

	captionText := joinCueText(cues)
	asrText := joinSegmentText(in.Segments)

	qcInput := qc.Input{
		Cues:                 cues,
		Segments:             in.Segments,
		AudioDurationSeconds: in.AudioDurationSeconds,
		VideoDurationSeconds: in.VideoDurationSeconds,
		ScriptText:           script,
		Policy:               in.Policy,
		Mode:                 in.Mode,
	}

	if script != "" {
		result := p.checker.CheckText(script, captionText)
		qcInput.ScriptVsCaptions = &result
	}
	if len(in.Segments) > 0 {
		result := p.checker.CheckText(asrText, captionText)
		qcInput.ASRVsCaptions = &result
	}
	if script != "" && len(in.Segments) > 0 {
		result := p.checker.CheckText(script, asrText)
		qcInput.ScriptVsASR = &result
		qcInput.KnownConfusions = p.checker.KnownConfusions(
			textnorm.ComparisonTokens(script), textnorm.ComparisonTokens(asrText))
		if in.Policy == verbatim.PolicyAudio {
			p.checker.LogAdvisory(*qcInput.ScriptVsASR, qcInput.KnownConfusions)
		}
	}

	safeArea, err := p.validator.Validate(in.Profile, p.builder.Config().MaxLines, p.builder.Config().MaxCharsPerLine)
	if err != nil {
		return nil, err
	}
	qcInput.SafeArea = &safeArea

	report := p.aggregator.Evaluate(qcInput)

	result := &PipelineResult{
		Cues:   cues,
		SRT:    subtitle.RenderSRT(cues),
		Style:  subtitle.NewStyleFromProfile(in.Profile),
		Report: report,
	}

	if in.Policy == verbatim.PolicyScript && in.Mode.AtLeast(qc.ModeStrict) &&
		qcInput.ScriptVsCaptions != nil && qcInput.ScriptVsCaptions.Status == verbatim.StatusMismatch {
		return result, &verbatim.MismatchError{Result: *qcInput.ScriptVsCaptions}
	}
	if in.StrictLayout && !safeArea.WithinBounds {
		return result, &layout.ExceedsSafeAreaError{Result: safeArea}
	}

	return result, nil
}

// substituteScriptWords rewrites segment word text from the script token
// stream when the two streams align one to one. Timing is untouched; only
// wording changes. Streams that do not align are returned as-is and left
// for the verbatim check to flag.
func substituteScriptWords(segments []segment.Segment, script string) []segment.Segment {
	scriptWords := strings.Fields(script)

	total := 0
	for i := range segments {
		if segments[i].Timing() != segment.TimingWordLevel {
			return segments
		}
		total += len(segments[i].Words)
	}
	if total != len(scriptWords) {
		return segments
	}

	out := make([]segment.Segment, len(segments))
	next := 0
	for i := range segments {
		out[i] = segments[i]
		out[i].Words = make([]segment.Word, len(segments[i].Words))
		texts := make([]string, len(segments[i].Words))
		for j := range segments[i].Words {
			out[i].Words[j] = segments[i].Words[j]
			out[i].Words[j].Text = scriptWords[next]
			texts[j] = scriptWords[next]
			next++
		}
		out[i].Text = strings.Join(texts, " ")
	}
	return out
}

func joinCueText(cues []cue.Cue) string {
	parts := make([]string, len(cues))
	for i := range cues {
		parts[i] = cues[i].Text()
	}
	return strings.Join(parts, " ")
}

func joinSegmentText(segments []segment.Segment) string {
	parts := make([]string, len(segments))
	for i := range segments {
		parts[i] = segments[i].Text
	}
	return strings.Join(parts, " ")
}
