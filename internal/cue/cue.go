package cue

import (
	"fmt"
	"strings"
)

// Cue represents one timed display unit of caption text
type Cue struct {
	Index   int      `json:"index"`
	StartMS int      `json:"start_ms"`
	EndMS   int      `json:"end_ms"`
	Lines   []string `json:"lines"`
}

// Text returns the cue text with line breaks flattened to single spaces
func (c *Cue) Text() string {
	return strings.Join(c.Lines, " ")
}

// DurationMS returns the cue display duration in milliseconds
func (c *Cue) DurationMS() int {
	return c.EndMS - c.StartMS
}

// DurationSeconds returns the cue display duration in seconds
func (c *Cue) DurationSeconds() float64 {
	return float64(c.EndMS-c.StartMS) / 1000.0
}

// CharactersPerSecond returns the non-space character rate of the cue,
// the readability proxy used by QC
func (c *Cue) CharactersPerSecond() float64 {
	duration := c.DurationSeconds()
	if duration <= 0 {
		return 0
	}
	chars := len(strings.ReplaceAll(c.Text(), " ", ""))
	return float64(chars) / duration
}

// Validate checks if the Cue has valid values
func (c *Cue) Validate() error {
	if c.Index < 1 {
		return fmt.Errorf("index must be >= 1")
	}

	if c.StartMS < 0 {
		return fmt.Errorf("start_ms cannot be negative")
	}

	if c.EndMS <= c.StartMS {
		return fmt.Errorf("end_ms must be greater than start_ms")
	}

	if len(c.Lines) == 0 {
		return fmt.Errorf("cue must have at least one line")
	}

	for i, line := range c.Lines {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("line %d cannot be empty", i+1)
		}
	}

	return nil
}
