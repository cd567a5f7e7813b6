package cue

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"captionforge/internal/segment"
	"captionforge/internal/textnorm"
)

// endEpsilonMS keeps the final cue from outliving the audio track
const endEpsilonMS = 10

// MalformedTimingError reports invalid or unsorted segment timestamps.
// Cue building aborts with no partial output when this is raised.
type MalformedTimingError struct {
	SegmentIndex int
	Reason       string
}

func (e *MalformedTimingError) Error() string {
	return fmt.Sprintf("malformed timing in segment %d: %s", e.SegmentIndex, e.Reason)
}

// Config carries the readability and duration constraints for cue building
type Config struct {
	MaxLines         int
	MaxCharsPerLine  int
	MaxCueDurationMS int
	MinCueDurationMS int
}

// DefaultConfig returns the standard caption constraints
func DefaultConfig() Config {
	return Config{
		MaxLines:         2,
		MaxCharsPerLine:  42,
		MaxCueDurationMS: 2000,
		MinCueDurationMS: 600,
	}
}

// Builder converts timestamped speech segments into display cues bounded by
// readability and duration constraints
type Builder struct {
	config Config
	logger *zap.Logger
}

// NewBuilder creates a new Builder with the given constraints
func NewBuilder(config Config) *Builder {
	return &Builder{
		config: config,
		logger: zap.NewNop(),
	}
}

// NewBuilderWithLogger creates a new Builder with the given constraints and logger
func NewBuilderWithLogger(config Config, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Config returns the builder's constraints
func (b *Builder) Config() Config {
	return b.config
}

// rawCue is a cue before line wrapping and index assignment
type rawCue struct {
	startMS int
	endMS   int
	text    string
}

// Build converts segments into an ordered, non-overlapping cue sequence.
// Segments with per-word timestamps split at word timing boundaries; segments
// without them fall back to proportional time allocation by character count.
func (b *Builder) Build(segments []segment.Segment, audioDurationMS int) ([]Cue, error) {
	if audioDurationMS <= 0 {
		return nil, fmt.Errorf("audio duration must be positive, got %dms", audioDurationMS)
	}

	if err := validateSegments(segments); err != nil {
		return nil, err
	}

	var raw []rawCue
	for i := range segments {
		seg := &segments[i]
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if seg.DurationMS() == 0 {
			b.logger.Warn("skipping zero-duration segment",
				zap.Int("segment", i),
				zap.Int("start_ms", seg.StartMS))
			continue
		}

		switch seg.Timing() {
		case segment.TimingWordLevel:
			raw = append(raw, b.splitWordLevel(seg)...)
		case segment.TimingSegmentLevel:
			raw = append(raw, b.splitProportional(seg)...)
		}
	}

	cues := b.finalize(raw, audioDurationMS)

	b.logger.Debug("built cues",
		zap.Int("segment_count", len(segments)),
		zap.Int("cue_count", len(cues)),
		zap.Int("audio_duration_ms", audioDurationMS))

	return cues, nil
}

// BuildFromScript builds cues from a flat narration script with no timing
// information, spreading the text across the audio duration
func (b *Builder) BuildFromScript(script string, audioDurationMS int) ([]Cue, error) {
	return b.Build([]segment.Segment{segment.Synthetic(script, audioDurationMS)}, audioDurationMS)
}

// FinalizeText applies caption-finishing transformations to built cues:
// filler removal and punctuation spacing fixes on every cue, sentence case
// where a cue opens a sentence, and terminal punctuation on the closing cue.
// Timing is never altered, only wording, so callers must not run this when
// an authoritative script constrains caption text.
func (b *Builder) FinalizeText(cues []Cue) []Cue {
	out := make([]Cue, 0, len(cues))
	prevText := ""
	for i := range cues {
		text := textnorm.CleanCaption(cues[i].Text())
		if text == "" {
			b.logger.Warn("dropping cue emptied by text cleanup",
				zap.Int("index", cues[i].Index))
			continue
		}
		if opensSentence(prevText) {
			text = textnorm.SentenceCase(text)
		}
		c := cues[i]
		c.Index = len(out) + 1
		c.Lines = WrapLines(text, b.config.MaxCharsPerLine, b.config.MaxLines)
		out = append(out, c)
		prevText = text
	}

	// The closing period can push an exactly full cue past the line budget;
	// in that case the cue keeps its unpunctuated text.
	if len(out) > 0 {
		last := &out[len(out)-1]
		if text := textnorm.EnsureEndPunctuation(last.Text()); text != "" {
			lines := WrapLines(text, b.config.MaxCharsPerLine, b.config.MaxLines)
			if fitsLineBudget(lines, b.config.MaxCharsPerLine, b.config.MaxLines) {
				last.Lines = lines
			}
		}
	}
	return out
}

// opensSentence reports whether a cue following prevText starts a new
// sentence rather than continuing the previous cue's
func opensSentence(prevText string) bool {
	if prevText == "" {
		return true
	}
	return strings.HasSuffix(prevText, ".") ||
		strings.HasSuffix(prevText, "?") ||
		strings.HasSuffix(prevText, "!")
}

// validateSegments rejects negative, inverted, or unsorted timestamps
func validateSegments(segments []segment.Segment) error {
	for i := range segments {
		seg := &segments[i]
		if seg.StartMS < 0 {
			return &MalformedTimingError{SegmentIndex: i, Reason: "negative start time"}
		}
		if seg.EndMS < seg.StartMS {
			return &MalformedTimingError{SegmentIndex: i, Reason: "end time before start time"}
		}
		if i > 0 && seg.StartMS < segments[i-1].StartMS {
			return &MalformedTimingError{SegmentIndex: i, Reason: "segments not sorted by start time"}
		}
		for j := range seg.Words {
			w := &seg.Words[j]
			if w.StartMS < 0 || w.EndMS < w.StartMS {
				return &MalformedTimingError{
					SegmentIndex: i,
					Reason:       fmt.Sprintf("word %d has invalid timestamps", j),
				}
			}
		}
	}
	return nil
}

// splitWordLevel splits a segment at word timing boundaries whenever the
// accumulated duration would exceed the cue budget or the accumulated words
// would no longer wrap into the line budget. The cue end is the timestamp of
// its last included word; the segment's final cue ends at the segment end.
func (b *Builder) splitWordLevel(seg *segment.Segment) []rawCue {
	var cues []rawCue
	var current []segment.Word
	fill := newLineFill(b.config.MaxCharsPerLine, b.config.MaxLines)
	cueStartMS := 0

	flush := func(endMS int) {
		if len(current) == 0 {
			return
		}
		texts := make([]string, 0, len(current))
		for _, w := range current {
			texts = append(texts, strings.TrimSpace(w.Text))
		}
		cues = append(cues, rawCue{
			startMS: cueStartMS,
			endMS:   endMS,
			text:    strings.Join(texts, " "),
		})
		current = current[:0]
	}

	for _, word := range seg.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}

		if len(current) == 0 {
			cueStartMS = word.StartMS
			current = append(current, word)
			fill.Reset(text)
			continue
		}

		projectedDuration := word.EndMS - cueStartMS
		if projectedDuration > b.config.MaxCueDurationMS || !fill.Add(text) {
			flush(current[len(current)-1].EndMS)
			cueStartMS = word.StartMS
			current = append(current, word)
			fill.Reset(text)
			continue
		}

		current = append(current, word)
	}

	flush(seg.EndMS)
	return cues
}

// splitProportional splits a segment into line-budget-sized chunks and
// allocates time proportionally to character count across the segment span
func (b *Builder) splitProportional(seg *segment.Segment) []rawCue {
	chunks := chunkWords(strings.Fields(seg.Text), b.config.MaxCharsPerLine, b.config.MaxLines)
	if len(chunks) == 0 {
		return nil
	}

	totalChars := 0
	for _, chunk := range chunks {
		totalChars += len(chunk)
	}
	if totalChars == 0 {
		return nil
	}

	span := seg.DurationMS()
	cues := make([]rawCue, 0, len(chunks))
	charsBefore := 0
	for i, chunk := range chunks {
		startMS := seg.StartMS + span*charsBefore/totalChars
		charsBefore += len(chunk)
		endMS := seg.StartMS + span*charsBefore/totalChars
		if i == len(chunks)-1 {
			endMS = seg.EndMS
		}
		if endMS <= startMS {
			continue
		}
		cues = append(cues, rawCue{startMS: startMS, endMS: endMS, text: chunk})
	}
	return cues
}

// chunkWords greedily groups words into chunks that each wrap into at most
// maxLines lines of maxChars characters, never splitting a word
func chunkWords(words []string, maxChars, maxLines int) []string {
	var chunks []string
	var current []string
	fill := newLineFill(maxChars, maxLines)

	for _, word := range words {
		if len(current) == 0 {
			current = append(current, word)
			fill.Reset(word)
			continue
		}
		if !fill.Add(word) {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			fill.Reset(word)
			continue
		}
		current = append(current, word)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// finalize clamps cues to the audio span, enforces the minimum duration by
// extension, wraps text into lines, and assigns display indices
func (b *Builder) finalize(raw []rawCue, audioDurationMS int) []Cue {
	audioEndMS := audioDurationMS - endEpsilonMS

	var kept []rawCue
	for _, rc := range raw {
		if rc.startMS >= audioEndMS {
			b.logger.Warn("dropping cue starting past audio end",
				zap.Int("start_ms", rc.startMS),
				zap.Int("audio_duration_ms", audioDurationMS))
			continue
		}
		if rc.endMS > audioEndMS {
			rc.endMS = audioEndMS
		}
		if len(kept) > 0 && rc.startMS < kept[len(kept)-1].endMS {
			rc.startMS = kept[len(kept)-1].endMS
		}
		if rc.endMS <= rc.startMS {
			continue
		}
		kept = append(kept, rc)
	}

	// Extend short cues rather than merging them, so source text keeps its
	// 1:1 correspondence with cues. The extension never crosses the next
	// cue's start or the audio end.
	for i := range kept {
		duration := kept[i].endMS - kept[i].startMS
		if duration >= b.config.MinCueDurationMS {
			continue
		}
		limit := audioEndMS
		if i+1 < len(kept) && kept[i+1].startMS < limit {
			limit = kept[i+1].startMS
		}
		extended := kept[i].startMS + b.config.MinCueDurationMS
		if extended > limit {
			extended = limit
		}
		if extended > kept[i].endMS {
			kept[i].endMS = extended
		}
	}

	cues := make([]Cue, 0, len(kept))
	for _, rc := range kept {
		lines := WrapLines(rc.text, b.config.MaxCharsPerLine, b.config.MaxLines)
		if len(lines) == 0 {
			continue
		}
		cues = append(cues, Cue{
			Index:   len(cues) + 1,
			StartMS: rc.startMS,
			EndMS:   rc.endMS,
			Lines:   lines,
		})
	}
	return cues
}
