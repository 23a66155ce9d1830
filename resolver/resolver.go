// Package resolver maps an on-screen text label to a click point using OCR detections.
package resolver

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"multimodal-gamer/ocr"
)

// DefaultThreshold is the minimum similarity a detection needs to be
// accepted. The bound is inclusive: a score equal to the threshold matches.
const DefaultThreshold = 0.6

// Resolver matches labels against detections with a fixed acceptance threshold.
// The zero value uses DefaultThreshold.
type Resolver struct {
	Threshold float64
}

func (r *Resolver) threshold() float64 {
	if r.Threshold <= 0 || r.Threshold > 1 {
		return DefaultThreshold
	}
	return r.Threshold
}

// New returns a Resolver. A threshold outside (0,1] falls back to DefaultThreshold.
func New(threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Resolver{Threshold: threshold}
}

var defaultResolver = New(DefaultThreshold)

// FindBestMatch returns the index of the detection whose text best matches target.
// Ties go to the earliest detection.
func (r *Resolver) FindBestMatch(detections []ocr.Detection, target string) (int, error) {
	threshold := r.threshold()
	if len(detections) == 0 {
		return -1, &NoMatchError{Target: target, Threshold: threshold, Reason: "no detections"}
	}
	want := normalize(target)
	if want == "" {
		return -1, &NoMatchError{Target: target, Threshold: threshold, Reason: "empty label"}
	}

	best, bestScore := -1, -1.0
	for i, d := range detections {
		score := Similarity(want, normalize(d.Text))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if bestScore < threshold {
		return -1, &NoMatchError{
			Target:    target,
			BestText:  detections[best].Text,
			BestScore: bestScore,
			Threshold: threshold,
		}
	}
	return best, nil
}

// CoordinatesFor returns the rounded centroid of the detection at index.
func (r *Resolver) CoordinatesFor(detections []ocr.Detection, index int) (int, int, error) {
	return CoordinatesFor(detections, index)
}

// ResolveClick finds the best detection for target and returns its centroid.
func (r *Resolver) ResolveClick(detections []ocr.Detection, target string) (int, int, error) {
	idx, err := r.FindBestMatch(detections, target)
	if err != nil {
		return 0, 0, err
	}
	return CoordinatesFor(detections, idx)
}

// FindBestMatch uses DefaultThreshold.
func FindBestMatch(detections []ocr.Detection, target string) (int, error) {
	return defaultResolver.FindBestMatch(detections, target)
}

// ResolveClick uses DefaultThreshold.
func ResolveClick(detections []ocr.Detection, target string) (int, int, error) {
	return defaultResolver.ResolveClick(detections, target)
}

// CoordinatesFor returns the centroid of the detection's polygon, rounded to whole pixels.
func CoordinatesFor(detections []ocr.Detection, index int) (int, int, error) {
	if index < 0 || index >= len(detections) {
		return 0, 0, &OutOfRangeError{Index: index, Len: len(detections)}
	}
	var sx, sy float64
	poly := detections[index].Polygon
	for _, p := range poly {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(poly))
	return int(math.Round(sx / n)), int(math.Round(sy / n)), nil
}

// Similarity scores two normalized strings in [0,1].
func Similarity(target, text string) float64 {
	if target == "" || text == "" {
		return 0
	}
	if target == text {
		return 1
	}

	tl := utf8.RuneCountInString(target)
	xl := utf8.RuneCountInString(text)

	score := 0.0
	switch {
	case strings.Contains(text, target):
		// whole label visible inside a longer line ranks above any fuzzy hit
		score = 0.8 + 0.2*float64(tl)/float64(xl)
	case strings.Contains(target, text):
		score = float64(xl) / float64(tl)
	}

	longest := max(tl, xl)
	lev := 1 - float64(levenshtein.ComputeDistance(target, text))/float64(longest)
	return math.Max(score, lev)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
