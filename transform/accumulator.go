package transform

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/footprintlab/scanner/analysis"
	"github.com/footprintlab/scanner/matching"
	"github.com/footprintlab/scanner/models"
)

// MediaAnalysis is the accumulated outcome of running the content-analysis
// routines over one media file.
type MediaAnalysis struct {
	FaceMatchFound bool
	Confidence     models.Confidence
	Transcript     string
	Identities     []models.IdentityKind
}

// Accumulator turns matched records and media analysis into pending identity
// facets. It holds the subject's reference picture and the analysis
// collaborators; an empty reference picture disables media analysis.
type Accumulator struct {
	matcher          *matching.Matcher
	images           analysis.ImageMatcher
	videos           analysis.VideoMatcher
	transcriber      analysis.Transcriber
	referencePicture string
	mediaRoot        string
}

func NewAccumulator(
	matcher *matching.Matcher,
	images analysis.ImageMatcher,
	videos analysis.VideoMatcher,
	transcriber analysis.Transcriber,
	referencePicture string,
	mediaRoot string,
) *Accumulator {
	return &Accumulator{
		matcher:          matcher,
		images:           images,
		videos:           videos,
		transcriber:      transcriber,
		referencePicture: referencePicture,
		mediaRoot:        mediaRoot,
	}
}

// IdentitiesInText exposes the matcher's free-text facet scan.
func (a *Accumulator) IdentitiesInText(text string) []models.IdentityKind {
	return a.matcher.IdentitiesInText(text)
}

// AnalyzeMedia runs the visual matchers over one media file. A positive
// match adds a picture facet; a positive video match additionally pulls the
// transcript and scans it for text facets. Missing files and analysis
// failures degrade to an empty result.
func (a *Accumulator) AnalyzeMedia(mediaPath string, footprintType models.FootprintType) MediaAnalysis {
	out := MediaAnalysis{}

	if a.referencePicture == "" {
		log.Printf("accumulator: subject has no reference picture, skipping media analysis")
		return out
	}
	if mediaPath == "" {
		log.Printf("accumulator: empty media path, skipping media analysis")
		return out
	}

	referenceAbs := filepath.Join(a.mediaRoot, a.referencePicture)
	mediaAbs := filepath.Join(a.mediaRoot, mediaPath)
	if _, err := os.Stat(referenceAbs); err != nil {
		log.Printf("accumulator: reference picture %s unavailable: %v", referenceAbs, err)
		return out
	}
	if _, err := os.Stat(mediaAbs); err != nil {
		log.Printf("accumulator: media file %s unavailable: %v", mediaAbs, err)
		return out
	}

	switch footprintType {
	case models.FootprintImage:
		match := a.images.MatchImage(referenceAbs, mediaAbs)
		out.FaceMatchFound = match.IsMatch
		out.Confidence = match.Confidence
		if match.IsMatch {
			out.Identities = append(out.Identities, models.IdentityPicture)
		}

	case models.FootprintVideo:
		match := a.videos.MatchVideo(referenceAbs, mediaAbs)
		out.FaceMatchFound = match.IsMatch
		out.Confidence = match.Confidence
		if match.IsMatch {
			out.Identities = append(out.Identities, models.IdentityPicture)

			transcript, err := a.transcriber.Transcribe(mediaAbs)
			if err != nil {
				log.Printf("accumulator: transcription failed for %s: %v", mediaAbs, err)
			} else if transcript != "" {
				out.Transcript = transcript
				out.Identities = append(out.Identities, a.matcher.IdentitiesInText(transcript)...)
			}
		}
	}

	return out
}

// TimestampOrNow parses a record timestamp, treating a trailing Z as UTC.
// Records without a timestamp, and unparseable ones, fall back to now.
func TimestampOrNow(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed
	}
	// timestamps generated without a zone offset
	if parsed, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return parsed
	}
	log.Printf("accumulator: unparseable timestamp %q, using current time", raw)
	return time.Now()
}
