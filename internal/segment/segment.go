package segment

import "fmt"

// Word represents a single word within a Segment with its own timestamps,
// as produced by a word-level speech recognizer
type Word struct {
	Text    string `json:"text"`
	StartMS int    `json:"start_ms"`
	EndMS   int    `json:"end_ms"`
}

// Validate checks if the Word has valid values
func (w *Word) Validate() error {
	if w.Text == "" {
		return fmt.Errorf("word text cannot be empty")
	}

	if w.StartMS < 0 {
		return fmt.Errorf("word start_ms cannot be negative")
	}

	if w.EndMS < w.StartMS {
		return fmt.Errorf("word end_ms cannot be before start_ms")
	}

	return nil
}

// Segment represents a timestamped span of transcribed or scripted speech,
// optionally carrying per-word timestamps
type Segment struct {
	Text    string `json:"text"`
	StartMS int    `json:"start_ms"`
	EndMS   int    `json:"end_ms"`
	Words   []Word `json:"words,omitempty"`
}

// TimingSource identifies which timing information a Segment carries
type TimingSource int

const (
	// TimingSegmentLevel means only the segment's own start/end are usable
	TimingSegmentLevel TimingSource = iota
	// TimingWordLevel means per-word timestamps are available
	TimingWordLevel
)

// Timing reports the timing source available for this segment
func (s *Segment) Timing() TimingSource {
	if len(s.Words) > 0 {
		return TimingWordLevel
	}
	return TimingSegmentLevel
}

// DurationMS returns the segment duration in milliseconds
func (s *Segment) DurationMS() int {
	return s.EndMS - s.StartMS
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if s.StartMS < 0 {
		return fmt.Errorf("start_ms cannot be negative")
	}

	if s.EndMS < s.StartMS {
		return fmt.Errorf("end_ms cannot be before start_ms")
	}

	for i := range s.Words {
		if err := s.Words[i].Validate(); err != nil {
			return fmt.Errorf("word %d: %w", i, err)
		}
	}

	return nil
}

// Synthetic creates a single segment spanning [0, durationMS] for the given
// script text. This is the timing source used when no transcript exists.
func Synthetic(text string, durationMS int) Segment {
	return Segment{
		Text:    text,
		StartMS: 0,
		EndMS:   durationMS,
	}
}
