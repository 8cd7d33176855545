package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFootprintIDDeterministic(t *testing.T) {
	mediaPath := "media/images/mock_image.png"

	a := DeriveFootprintID("https://example.com/a", &mediaPath)
	b := DeriveFootprintID("https://example.com/a", &mediaPath)
	assert.Equal(t, a, b)
	assert.Positive(t, a)
}

func TestDeriveFootprintIDVariesWithNaturalKey(t *testing.T) {
	mediaPath := "media/images/mock_image.png"

	noMedia := DeriveFootprintID("https://example.com/a", nil)
	withMedia := DeriveFootprintID("https://example.com/a", &mediaPath)
	otherURL := DeriveFootprintID("https://example.com/b", nil)

	assert.NotEqual(t, noMedia, withMedia)
	assert.NotEqual(t, noMedia, otherURL)
}

func TestDeriveFootprintIDEmptyMediaPathIsSentinel(t *testing.T) {
	empty := ""
	assert.Equal(t,
		DeriveFootprintID("https://example.com/a", nil),
		DeriveFootprintID("https://example.com/a", &empty))
}

func TestMediaPathOrSentinel(t *testing.T) {
	mediaPath := "media/videos/mock_video.mp4"
	assert.Equal(t, mediaPath, MediaPathOrSentinel(&mediaPath))
	assert.Equal(t, NoMediaSentinel, MediaPathOrSentinel(nil))

	footprint := Footprint{ReferenceURL: "https://example.com/a"}
	assert.Equal(t, NoMediaSentinel, footprint.MediaPathOrSentinel())
}
