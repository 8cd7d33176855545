package analysis

import (
	"image"
	"log"

	"github.com/disintegration/imaging"
)

// comparison happens on small grayscale tiles; enough signal to tell the
// mock media files apart without loading full-resolution pixels
const compareSize = 64

// ImageSimilarityMatcher implements ImageMatcher with a downscaled grayscale
// pixel comparison.
type ImageSimilarityMatcher struct {
	Threshold float64
}

func NewImageSimilarityMatcher(threshold float64) *ImageSimilarityMatcher {
	return &ImageSimilarityMatcher{Threshold: threshold}
}

// MatchImage compares the reference photo against the target image. Missing
// or unreadable files yield a negative result, never an error.
func (m *ImageSimilarityMatcher) MatchImage(referencePath, targetPath string) MatchResult {
	reference, err := imaging.Open(referencePath)
	if err != nil {
		log.Printf("analysis: cannot open reference image %s: %v", referencePath, err)
		return MatchResult{}
	}

	target, err := imaging.Open(targetPath)
	if err != nil {
		log.Printf("analysis: cannot open target image %s: %v", targetPath, err)
		return MatchResult{}
	}

	similarity := imageSimilarity(reference, target)
	return MatchResult{
		IsMatch:    similarity >= m.Threshold,
		Confidence: gradeConfidence(similarity, m.Threshold),
		Similarity: similarity,
	}
}

// imageSimilarity returns a [0,1] score: 1 - normalized mean absolute pixel
// difference over grayscale thumbnails.
func imageSimilarity(a, b image.Image) float64 {
	grayA := imaging.Grayscale(imaging.Resize(a, compareSize, compareSize, imaging.Box))
	grayB := imaging.Grayscale(imaging.Resize(b, compareSize, compareSize, imaging.Box))

	var totalDiff float64
	for y := 0; y < compareSize; y++ {
		for x := 0; x < compareSize; x++ {
			// grayscale images carry the luma in every channel
			pa := grayA.NRGBAAt(x, y)
			pb := grayB.NRGBAAt(x, y)
			diff := int(pa.R) - int(pb.R)
			if diff < 0 {
				diff = -diff
			}
			totalDiff += float64(diff)
		}
	}

	meanDiff := totalDiff / float64(compareSize*compareSize)
	return 1.0 - meanDiff/255.0
}
