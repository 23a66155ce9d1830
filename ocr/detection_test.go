package ocr

import (
	"context"
	"image"
	"testing"
)

func TestPolygonFromRect(t *testing.T) {
	got := PolygonFromRect(image.Rect(10, 20, 30, 50))
	want := [4]Point{{10, 20}, {30, 20}, {30, 50}, {10, 50}}
	if got != want {
		t.Errorf("PolygonFromRect() = %v, want %v", got, want)
	}
}

func TestDetectorFunc(t *testing.T) {
	var called string
	d := DetectorFunc(func(_ context.Context, path string) ([]Detection, error) {
		called = path
		return []Detection{{Text: "Play"}}, nil
	})

	dets, err := d.Detect(context.Background(), "shot.png")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if called != "shot.png" {
		t.Errorf("expected path shot.png, got %q", called)
	}
	if len(dets) != 1 || dets[0].Text != "Play" {
		t.Errorf("unexpected detections: %+v", dets)
	}
}
