package analysis

import "github.com/footprintlab/scanner/models"

// MatchResult is the outcome of a visual similarity check. Routines return
// a negative result rather than an error when inputs are missing or corrupt;
// the pipeline must never abort on analysis failures.
type MatchResult struct {
	IsMatch         bool
	Confidence      models.Confidence
	Similarity      float64
	FramesProcessed int
	MatchFrames     int
}

// ImageMatcher compares a reference photo against a target image.
type ImageMatcher interface {
	MatchImage(referencePath, targetPath string) MatchResult
}

// VideoMatcher compares a reference photo against sampled video frames.
// Implementations impose their own frame and wall-clock budgets and return
// a best-effort decision instead of blocking indefinitely.
type VideoMatcher interface {
	MatchVideo(referencePath, videoPath string) MatchResult
}

// Transcriber produces a text transcript for a media file. An empty string
// with a nil error means no transcript is available.
type Transcriber interface {
	Transcribe(mediaPath string) (string, error)
}

// gradeConfidence maps a similarity score onto the confidence scale given
// the acceptance threshold.
func gradeConfidence(similarity, threshold float64) models.Confidence {
	switch {
	case similarity < threshold:
		return models.ConfidenceNone
	case similarity >= threshold+0.10:
		return models.ConfidenceCertain
	case similarity >= threshold+0.05:
		return models.ConfidenceHigh
	case similarity >= threshold+0.02:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
