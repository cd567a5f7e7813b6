package qc

import "fmt"

// Mode is the enforcement strength level, totally ordered: each level runs
// the checks of the one below it
type Mode string

const (
	ModeOff       Mode = "off"
	ModeWarn      Mode = "warn"
	ModeStrict    Mode = "strict"
	ModeBroadcast Mode = "broadcast"
)

// rank orders modes by enforcement strength
func (m Mode) rank() int {
	switch m {
	case ModeOff:
		return 0
	case ModeWarn:
		return 1
	case ModeStrict:
		return 2
	case ModeBroadcast:
		return 3
	}
	return -1
}

// Valid reports whether the mode is a recognized value
func (m Mode) Valid() bool {
	return m.rank() >= 0
}

// AtLeast reports whether this mode enforces at least as strongly as other
func (m Mode) AtLeast(other Mode) bool {
	return m.rank() >= other.rank()
}

// ParseMode validates and converts a configuration string to a Mode
func ParseMode(value string) (Mode, error) {
	mode := Mode(value)
	if !mode.Valid() {
		return "", fmt.Errorf("invalid qc mode %q: use off, warn, strict, or broadcast", value)
	}
	return mode, nil
}

// ViolationKind identifies a policy or threshold deviation
type ViolationKind string

const (
	KindEndPunctuation     ViolationKind = "end_punctuation"
	KindDanglingTail       ViolationKind = "dangling_tail"
	KindForbiddenLineStart ViolationKind = "forbidden_line_start"
	KindForbiddenLineEnd   ViolationKind = "forbidden_line_end"
	KindMinDuration        ViolationKind = "min_duration"
	KindMaxDuration        ViolationKind = "max_duration"
	KindMaxCPS             ViolationKind = "max_cps"
	KindCPSTarget          ViolationKind = "cps_target"
	KindSentenceCase       ViolationKind = "sentence_case"
	KindSafeAreaExceeded   ViolationKind = "safe_area_exceeded"
	KindAVDurationDelta    ViolationKind = "av_duration_delta"
	KindSubtitleEndDelta   ViolationKind = "subtitle_end_delta"
	KindLateStart          ViolationKind = "late_start"
	KindCanonicalTerm      ViolationKind = "canonical_term"
)

// Severity classifies a violation as advisory or build-blocking
type Severity string

const (
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// kindClass buckets violation kinds by how the escalating modes treat them
type kindClass int

const (
	// classTiming covers timing, layout, and reading-speed checks that
	// strict mode already blocks on
	classTiming kindClass = iota
	// classText covers caption text checks that only broadcast blocks on
	classText
	// classStyle covers soft style targets that stay advisory in all modes
	classStyle
)

var kindClasses = map[ViolationKind]kindClass{
	KindMinDuration:      classTiming,
	KindMaxDuration:      classTiming,
	KindMaxCPS:           classTiming,
	KindAVDurationDelta:  classTiming,
	KindSubtitleEndDelta: classTiming,
	KindLateStart:        classTiming,
	KindSafeAreaExceeded: classTiming,

	KindEndPunctuation:     classText,
	KindDanglingTail:       classText,
	KindForbiddenLineStart: classText,
	KindForbiddenLineEnd:   classText,
	KindCanonicalTerm:      classText,

	KindCPSTarget:    classStyle,
	KindSentenceCase: classStyle,
}

// SeverityFor is the static (kind, mode) -> severity table. The second
// return value reports whether the check runs at all in this mode.
func SeverityFor(kind ViolationKind, mode Mode) (Severity, bool) {
	if mode == ModeOff {
		return "", false
	}

	class, ok := kindClasses[kind]
	if !ok {
		return "", false
	}

	switch mode {
	case ModeWarn:
		return SeverityWarn, true
	case ModeStrict:
		if class == classTiming {
			return SeverityFail, true
		}
		return SeverityWarn, true
	case ModeBroadcast:
		if class == classStyle {
			return SeverityWarn, true
		}
		return SeverityFail, true
	}
	return "", false
}

// Violation records one policy or threshold deviation
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	CueIndex int           `json:"cue_index,omitempty"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
}
