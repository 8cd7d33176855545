package analysis

import (
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"
)

// VideoFrameMatcher implements VideoMatcher by sampling frames with gocv and
// scoring each against the reference photo. Both a frame-count budget and a
// wall-clock budget bound the work; when either runs out the decision is
// made from the frames seen so far.
type VideoFrameMatcher struct {
	Threshold   float64
	FrameStride int
	MaxFrames   int
	TimeBudget  time.Duration
}

func NewVideoFrameMatcher(threshold float64, frameStride, maxFrames int, timeBudget time.Duration) *VideoFrameMatcher {
	if frameStride <= 0 {
		frameStride = 30
	}
	if maxFrames <= 0 {
		maxFrames = 60
	}
	return &VideoFrameMatcher{
		Threshold:   threshold,
		FrameStride: frameStride,
		MaxFrames:   maxFrames,
		TimeBudget:  timeBudget,
	}
}

// MatchVideo samples every FrameStride-th frame and compares it to the
// reference image. Missing or unreadable inputs yield a negative result.
func (m *VideoFrameMatcher) MatchVideo(referencePath, videoPath string) MatchResult {
	reference := gocv.IMRead(referencePath, gocv.IMReadGrayScale)
	if reference.Empty() {
		log.Printf("analysis: cannot read reference image %s", referencePath)
		return MatchResult{}
	}
	defer reference.Close()

	referenceTile := gocv.NewMat()
	defer referenceTile.Close()
	gocv.Resize(reference, &referenceTile, image.Pt(compareSize, compareSize), 0, 0, gocv.InterpolationArea)

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		log.Printf("analysis: cannot open video %s: %v", videoPath, err)
		return MatchResult{}
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	deadline := time.Now().Add(m.TimeBudget)
	result := MatchResult{}
	best := 0.0
	frameIndex := 0

	for result.FramesProcessed < m.MaxFrames {
		if m.TimeBudget > 0 && time.Now().After(deadline) {
			log.Printf("analysis: video time budget exhausted for %s after %d frames", videoPath, result.FramesProcessed)
			break
		}
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}

		sampled := frameIndex%m.FrameStride == 0
		frameIndex++
		if !sampled {
			continue
		}

		similarity := m.frameSimilarity(referenceTile, frame)
		result.FramesProcessed++
		if similarity > best {
			best = similarity
		}
		if similarity >= m.Threshold {
			result.MatchFrames++
		}
	}

	result.Similarity = best
	result.IsMatch = result.MatchFrames > 0
	result.Confidence = gradeConfidence(best, m.Threshold)
	return result
}

// frameSimilarity scores one frame against the prepared reference tile.
func (m *VideoFrameMatcher) frameSimilarity(referenceTile gocv.Mat, frame gocv.Mat) float64 {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	tile := gocv.NewMat()
	defer tile.Close()
	gocv.Resize(gray, &tile, image.Pt(compareSize, compareSize), 0, 0, gocv.InterpolationArea)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(referenceTile, tile, &diff)

	meanDiff := diff.Mean().Val1
	return 1.0 - meanDiff/255.0
}
