package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarTranscriberReadsSidecar(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath+".transcript.txt", []byte("  hello from the lake \n"), 0o644))

	transcript, err := NewSidecarTranscriber().Transcribe(videoPath)
	require.NoError(t, err)
	assert.Equal(t, "hello from the lake", transcript)
}

func TestSidecarTranscriberMissingSidecar(t *testing.T) {
	transcript, err := NewSidecarTranscriber().Transcribe(filepath.Join(t.TempDir(), "clip.mp4"))
	require.NoError(t, err)
	assert.Empty(t, transcript)
}
