// Package tesseract detects text on screenshots with the Tesseract engine.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"multimodal-gamer/ocr"
)

func ocrLog() *zerolog.Logger {
	l := log.With().Str("module", "ocr").Logger()
	return &l
}

// Detector runs Tesseract on an image file. A fresh client is created for
// every call so no engine state carries over between screenshots.
type Detector struct {
	Languages []string
	// Lines groups words into text lines, which matches multi-word button labels.
	Lines bool
}

// New returns a line-level Detector for the given languages (default "eng").
func New(languages ...string) *Detector {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Detector{Languages: languages, Lines: true}
}

// Detect implements ocr.Detector.
func (d *Detector) Detect(ctx context.Context, imagePath string) ([]ocr.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.Languages...); err != nil {
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to load image for OCR: %w", err)
	}

	level := gosseract.RIL_WORD
	if d.Lines {
		level = gosseract.RIL_TEXTLINE
	}
	boxes, err := client.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	detections := toDetections(boxes)
	ocrLog().Debug().Str("image", imagePath).Int("boxes", len(boxes)).Int("detections", len(detections)).Msg("text detected")
	return detections, nil
}

// toDetections drops empty boxes and scales confidence from percent to 0..1.
func toDetections(boxes []gosseract.BoundingBox) []ocr.Detection {
	out := make([]ocr.Detection, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		out = append(out, ocr.Detection{
			Polygon:    ocr.PolygonFromRect(b.Box),
			Text:       text,
			Confidence: b.Confidence / 100,
		})
	}
	return out
}
