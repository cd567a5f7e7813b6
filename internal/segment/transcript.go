package segment

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// TranscriptWriter handles outputting transcript segments as JSON lines to a writer
type TranscriptWriter struct {
	writer io.Writer
	logger *zap.Logger
}

// NewTranscriptWriter creates a new TranscriptWriter instance
func NewTranscriptWriter(writer io.Writer, logger *zap.Logger) *TranscriptWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptWriter{
		writer: writer,
		logger: logger,
	}
}

// WriteSegment writes a transcript segment as a JSON line to the output writer
func (tw *TranscriptWriter) WriteSegment(seg Segment) error {
	// Validate segment before output
	if err := seg.Validate(); err != nil {
		tw.logger.Error("invalid segment", zap.Error(err))
		return fmt.Errorf("invalid segment: %w", err)
	}

	jsonBytes, err := json.Marshal(seg)
	if err != nil {
		tw.logger.Error("failed to marshal segment to JSON", zap.Error(err))
		return fmt.Errorf("failed to marshal segment to JSON: %w", err)
	}

	if _, err := fmt.Fprintf(tw.writer, "%s\n", jsonBytes); err != nil {
		tw.logger.Error("failed to write JSON output", zap.Error(err))
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	tw.logger.Debug("wrote transcript segment",
		zap.String("text", seg.Text),
		zap.Int("start_ms", seg.StartMS),
		zap.Int("end_ms", seg.EndMS))

	return nil
}

// ReadTranscript reads JSON-line transcript segments from the reader.
// Blank lines are skipped; any malformed line aborts the read.
func ReadTranscript(reader io.Reader) ([]Segment, error) {
	var segments []Segment

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var seg Segment
		if err := json.Unmarshal(line, &seg); err != nil {
			return nil, fmt.Errorf("failed to parse transcript line %d: %w", lineNo, err)
		}

		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid segment at line %d: %w", lineNo, err)
		}

		segments = append(segments, seg)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	return segments, nil
}
