package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileScriptSource(t *testing.T) {
	t.Run("should read the script file contents", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "script.txt")
		require.NoError(t, os.WriteFile(path, []byte("the narration text"), 0644))
		source := NewFileScriptSource(path)

		// Act
		text, err := source.ScriptText()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "the narration text", text)
	})

	t.Run("should report a missing file", func(t *testing.T) {
		// Arrange
		source := NewFileScriptSource("/nonexistent/script.txt")

		// Act
		_, err := source.ScriptText()

		// Assert
		assert.Error(t, err)
	})
}

func TestFileTranscriber(t *testing.T) {
	t.Run("should read and validate transcript segments", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "transcript.jsonl")
		content := `{"text":"first part","start_ms":0,"end_ms":1200}
{"text":"second part","start_ms":1200,"end_ms":2600}
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		transcriber := NewFileTranscriber(path)

		// Act
		segments, err := transcriber.Transcript()

		// Assert
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, "first part", segments[0].Text)
		assert.Equal(t, 2600, segments[1].EndMS)
	})

	t.Run("should report a missing file", func(t *testing.T) {
		// Arrange
		transcriber := NewFileTranscriber("/nonexistent/transcript.jsonl")

		// Act
		_, err := transcriber.Transcript()

		// Assert
		assert.Error(t, err)
	})

	t.Run("should surface invalid segments", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "transcript.jsonl")
		require.NoError(t, os.WriteFile(path, []byte(`{"text":"bad","start_ms":900,"end_ms":100}`+"\n"), 0644))
		transcriber := NewFileTranscriber(path)

		// Act
		_, err := transcriber.Transcript()

		// Assert
		assert.Error(t, err)
	})
}
