package analysis

import (
	"fmt"
	"os"
	"strings"
)

// SidecarTranscriber resolves transcripts from sidecar text files stored
// next to the media file (<media path>.transcript.txt). The mock media pool
// ships transcripts this way; a real speech-to-text backend would implement
// the same interface.
type SidecarTranscriber struct{}

func NewSidecarTranscriber() *SidecarTranscriber {
	return &SidecarTranscriber{}
}

// Transcribe returns the sidecar transcript, or an empty string when the
// media has none. Only genuine read failures surface as errors.
func (t *SidecarTranscriber) Transcribe(mediaPath string) (string, error) {
	sidecarPath := mediaPath + ".transcript.txt"
	data, err := os.ReadFile(sidecarPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", sidecarPath, err)
	}
	return strings.TrimSpace(string(data)), nil
}
