package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"captionforge/internal/cue"
)

// FormatTimestamp renders milliseconds as SRT interchange notation
// "HH:MM:SS,mmm"
func FormatTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// ParseTimestamp converts "HH:MM:SS,mmm" back to milliseconds
func ParseTimestamp(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q: missing millisecond separator", value)
	}

	hms := strings.Split(parts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: expected HH:MM:SS", value)
	}

	hours, err := strconv.Atoi(hms[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timestamp %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(hms[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timestamp %q: %w", value, err)
	}
	seconds, err := strconv.Atoi(hms[2])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timestamp %q: %w", value, err)
	}
	millis, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds in timestamp %q: %w", value, err)
	}

	return hours*3600000 + minutes*60000 + seconds*1000 + millis, nil
}

// RenderSRT produces standard sequential numbered subtitle blocks from cues
func RenderSRT(cues []cue.Cue) string {
	var sb strings.Builder
	for i, c := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strconv.Itoa(c.Index))
		sb.WriteString("\n")
		sb.WriteString(FormatTimestamp(c.StartMS))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(c.EndMS))
		sb.WriteString("\n")
		for _, line := range c.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WriteSRT writes the rendered subtitle file to the writer
func WriteSRT(w io.Writer, cues []cue.Cue) error {
	if _, err := io.WriteString(w, RenderSRT(cues)); err != nil {
		return fmt.Errorf("failed to write SRT: %w", err)
	}
	return nil
}

// ParseSRT reads subtitle blocks back into cues. Timing is millisecond-exact
// and text lines are preserved verbatim, so a render/parse round trip
// reproduces the original cue sequence.
func ParseSRT(r io.Reader) ([]cue.Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cues []cue.Cue
	var block []string

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		c, err := parseBlock(block)
		if err != nil {
			return err
		}
		cues = append(cues, c)
		block = nil
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read SRT: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return cues, nil
}

// parseBlock decodes one numbered subtitle block
func parseBlock(lines []string) (cue.Cue, error) {
	if len(lines) < 3 {
		return cue.Cue{}, fmt.Errorf("subtitle block too short: %q", strings.Join(lines, "\\n"))
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return cue.Cue{}, fmt.Errorf("invalid subtitle index %q: %w", lines[0], err)
	}

	timing := strings.Split(lines[1], "-->")
	if len(timing) != 2 {
		return cue.Cue{}, fmt.Errorf("invalid timing line %q", lines[1])
	}

	startMS, err := ParseTimestamp(timing[0])
	if err != nil {
		return cue.Cue{}, err
	}
	endMS, err := ParseTimestamp(timing[1])
	if err != nil {
		return cue.Cue{}, err
	}
	if endMS <= startMS {
		return cue.Cue{}, fmt.Errorf("subtitle %d has non-positive duration", index)
	}

	text := make([]string, len(lines[2:]))
	copy(text, lines[2:])

	return cue.Cue{
		Index:   index,
		StartMS: startMS,
		EndMS:   endMS,
		Lines:   text,
	}, nil
}
