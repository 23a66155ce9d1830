package ocr

import (
	"context"
	"image"
)

// Point is a corner of a detection polygon in screenshot pixels.
type Point struct {
	X float64
	Y float64
}

// Detection is a single OCR result on one screenshot.
type Detection struct {
	Polygon    [4]Point
	Text       string
	Confidence float64 // 0..1
}

// Detector finds text on an image file.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]Detection, error)
}

// DetectorFunc adapts a plain function to Detector.
type DetectorFunc func(ctx context.Context, imagePath string) ([]Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, imagePath string) ([]Detection, error) {
	return f(ctx, imagePath)
}

// PolygonFromRect returns the corners of r clockwise from the top-left.
func PolygonFromRect(r image.Rectangle) [4]Point {
	return [4]Point{
		{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Max.Y)},
		{X: float64(r.Min.X), Y: float64(r.Max.Y)},
	}
}
