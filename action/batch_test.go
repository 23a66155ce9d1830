package action

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimodal-gamer/ocr"
	"multimodal-gamer/resolver"
)

func detections() []ocr.Detection {
	return []ocr.Detection{
		{Polygon: ocr.PolygonFromRect(image.Rect(0, 0, 10, 10)), Text: "Play"},
		{Polygon: ocr.PolygonFromRect(image.Rect(100, 50, 140, 70)), Text: "Settings"},
	}
}

func TestProcessBatchResolvesClicks(t *testing.T) {
	in := []Action{
		{Operation: KindClick, Text: "settings"},
		{Operation: KindClick, Text: "Play"},
	}

	out, err := ProcessBatch(in, detections(), resolver.New(resolver.DefaultThreshold))
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.True(t, out[0].Resolved())
	assert.Equal(t, 120, *out[0].X)
	assert.Equal(t, 60, *out[0].Y)
	assert.Equal(t, 5, *out[1].X)
	assert.Equal(t, 5, *out[1].Y)

	// input untouched
	assert.False(t, in[0].Resolved())
}

func TestProcessBatchRejectsUnsupported(t *testing.T) {
	in := []Action{
		{Operation: KindClick, Text: "Play"},
		{Operation: "drag", Text: "Play"},
	}

	out, err := ProcessBatch(in, detections(), resolver.New(0))
	assert.Nil(t, out)
	var uo *UnsupportedOperationError
	require.True(t, errors.As(err, &uo))
	assert.Equal(t, Kind("drag"), uo.Operation)
	assert.Equal(t, 1, uo.Index)
	assert.False(t, in[0].Resolved())
}

func TestProcessBatchNoMatchAbortsBatch(t *testing.T) {
	in := []Action{
		{Operation: KindClick, Text: "Play"},
		{Operation: KindClick, Text: "Exit"},
	}

	out, err := ProcessBatch(in, detections(), resolver.New(0))
	assert.Nil(t, out)
	var nm *resolver.NoMatchError
	assert.True(t, errors.As(err, &nm))
}

func TestProcessBatchClickWithoutText(t *testing.T) {
	out, err := ProcessBatch([]Action{{Operation: KindClick}}, detections(), resolver.New(0))
	assert.Nil(t, out)
	var nm *resolver.NoMatchError
	assert.True(t, errors.As(err, &nm))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("OCR")
	require.NoError(t, err)
	assert.Equal(t, StrategyOCRResolve, s)
	assert.Equal(t, "ocr", s.String())

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyNone, s)

	_, err = ParseStrategy("magic")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	a := Action{Operation: KindClick, Text: "Play"}.WithCoordinates(3, 4)
	assert.Equal(t, `click "Play" at (3,4)`, a.String())
	assert.Equal(t, "press a+b", Action{Operation: KindPress, Keys: []string{"a", "b"}}.String())
}
