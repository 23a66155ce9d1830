package resolver

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimodal-gamer/ocr"
)

func det(text string, x0, y0, x1, y1 int) ocr.Detection {
	return ocr.Detection{
		Polygon:    ocr.PolygonFromRect(image.Rect(x0, y0, x1, y1)),
		Text:       text,
		Confidence: 0.9,
	}
}

func TestFindBestMatchTieGoesToFirst(t *testing.T) {
	dets := []ocr.Detection{
		det("Play", 0, 0, 10, 10),
		det("PLAY", 20, 0, 30, 10),
		det("Quit", 40, 0, 50, 10),
	}

	idx, err := FindBestMatch(dets, "play")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestFindBestMatchPrefersExactOverContainment(t *testing.T) {
	dets := []ocr.Detection{
		det("Play Now", 0, 0, 10, 10),
		det("play", 20, 0, 30, 10),
	}

	idx, err := FindBestMatch(dets, "Play")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindBestMatchContainment(t *testing.T) {
	dets := []ocr.Detection{
		det("Settings", 0, 0, 10, 10),
		det("Call 200 chips", 20, 0, 30, 10),
	}

	idx, err := FindBestMatch(dets, "call")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindBestMatchFuzzy(t *testing.T) {
	dets := []ocr.Detection{
		det("Quit", 0, 0, 10, 10),
		det("Sett1ngs", 20, 0, 30, 10),
	}

	idx, err := FindBestMatch(dets, "settings")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindBestMatchErrors(t *testing.T) {
	tests := []struct {
		name   string
		dets   []ocr.Detection
		target string
	}{
		{"empty detections", nil, "Play"},
		{"blank label", []ocr.Detection{det("Play", 0, 0, 1, 1)}, "   "},
		{"below threshold", []ocr.Detection{det("Play", 0, 0, 1, 1), det("Settings", 0, 0, 1, 1)}, "Exit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := FindBestMatch(tt.dets, tt.target)
			assert.Equal(t, -1, idx)
			var nm *NoMatchError
			assert.True(t, errors.As(err, &nm), "expected NoMatchError, got %v", err)
		})
	}
}

func TestCoordinatesForCentroid(t *testing.T) {
	dets := []ocr.Detection{{
		Polygon: [4]ocr.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Text:    "box",
	}}

	x, y, err := CoordinatesFor(dets, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)
}

func TestCoordinatesForRounds(t *testing.T) {
	dets := []ocr.Detection{{
		Polygon: [4]ocr.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 0, Y: 1}},
	}}

	x, y, err := CoordinatesFor(dets, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, x) // 1.5 rounds up
	assert.Equal(t, 1, y)
}

func TestCoordinatesForOutOfRange(t *testing.T) {
	dets := []ocr.Detection{det("Play", 0, 0, 10, 10)}

	for _, idx := range []int{-1, 1, 5} {
		_, _, err := CoordinatesFor(dets, idx)
		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor), "index %d: expected OutOfRangeError, got %v", idx, err)
		assert.Equal(t, idx, oor.Index)
		assert.Equal(t, 1, oor.Len)
	}
}

func TestResolveClick(t *testing.T) {
	dets := []ocr.Detection{
		det("Fold", 0, 0, 40, 20),
		det("Check", 100, 200, 160, 220),
	}

	x, y, err := ResolveClick(dets, "check")
	require.NoError(t, err)
	assert.Equal(t, 130, x)
	assert.Equal(t, 210, y)
}

func TestResolveClickNoMatch(t *testing.T) {
	dets := []ocr.Detection{det("Play", 0, 0, 10, 10), det("Settings", 0, 20, 10, 30)}

	_, _, err := ResolveClick(dets, "Exit")
	var nm *NoMatchError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, "Exit", nm.Target)
	assert.Less(t, nm.BestScore, DefaultThreshold)
}

func TestCustomThreshold(t *testing.T) {
	dets := []ocr.Detection{det("Sett1ngs", 0, 0, 10, 10)}

	strict := New(0.95)
	_, err := strict.FindBestMatch(dets, "settings")
	assert.Error(t, err)

	assert.Equal(t, DefaultThreshold, New(0).Threshold)
	assert.Equal(t, DefaultThreshold, New(1.5).Threshold)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("play", "play"))
	assert.Equal(t, 0.0, Similarity("", "play"))
	assert.InDelta(t, 0.9, Similarity("play", "play now"), 1e-9)
	assert.InDelta(t, 0.5, Similarity("play now", "play"), 1e-9)
	assert.InDelta(t, 0.875, Similarity("settings", "sett1ngs"), 1e-9)
}

func TestFindBestMatchThresholdIsInclusive(t *testing.T) {
	// "abc" inside "abcde" scores 3/5, exactly the default threshold
	dets := []ocr.Detection{det("abc", 0, 0, 10, 10)}
	require.InDelta(t, DefaultThreshold, Similarity("abcde", "abc"), 1e-9)

	idx, err := FindBestMatch(dets, "abcde")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestZeroResolverUsesDefaultThreshold(t *testing.T) {
	var r Resolver
	dets := []ocr.Detection{det("Quit", 0, 0, 10, 10)}

	_, err := r.FindBestMatch(dets, "Play")
	var nm *NoMatchError
	require.True(t, errors.As(err, &nm), "expected NoMatchError, got %v", err)
	assert.Equal(t, DefaultThreshold, nm.Threshold)

	idx, err := r.FindBestMatch(dets, "quit")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
