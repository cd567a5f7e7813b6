package app

import (
	"fmt"
	"os"

	"captionforge/internal/segment"
)

// ScriptSource supplies the authored narration script. The engine depends
// only on the text; how it was produced is the caller's concern.
type ScriptSource interface {
	ScriptText() (string, error)
}

// Transcriber supplies timestamped speech-recognition segments. The engine
// consumes the segments as data; inference happens elsewhere.
type Transcriber interface {
	Transcript() ([]segment.Segment, error)
}

// FileScriptSource reads the script from a text file
type FileScriptSource struct {
	path string
}

// NewFileScriptSource creates a script source backed by the given file
func NewFileScriptSource(path string) *FileScriptSource {
	return &FileScriptSource{path: path}
}

// ScriptText reads and returns the script file contents
func (s *FileScriptSource) ScriptText() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", s.path, err)
	}
	return string(data), nil
}

// FileTranscriber reads JSON-line transcript segments from a file
type FileTranscriber struct {
	path string
}

// NewFileTranscriber creates a transcript source backed by the given file
func NewFileTranscriber(path string) *FileTranscriber {
	return &FileTranscriber{path: path}
}

// Transcript reads and validates the transcript segments
func (t *FileTranscriber) Transcript() ([]segment.Segment, error) {
	file, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript %s: %w", t.path, err)
	}
	defer file.Close()

	segments, err := segment.ReadTranscript(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript %s: %w", t.path, err)
	}
	return segments, nil
}
