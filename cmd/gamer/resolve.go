package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"multimodal-gamer/config"
	"multimodal-gamer/logutil"
	"multimodal-gamer/ocr"
	"multimodal-gamer/ocr/tesseract"
	"multimodal-gamer/resolver"
)

type resolveResult struct {
	Text       string  `json:"text"`
	Matched    string  `json:"matched"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
}

// newResolveCmd runs OCR on an existing image and prints where a label would be clicked.
// It needs no API key.
func newResolveCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	var imagePath, text string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a text label on an image to click coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOptions(opts.loadOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logs, err := logutil.Setup(logutil.Options{Verbose: cfg.Verbose, EnableFileLogging: cfg.EnableFileLogging})
			if err != nil {
				return err
			}
			defer logs.Close()

			detections, err := tesseract.New(cfg.OCRLanguages...).Detect(cmd.Context(), imagePath)
			if err != nil {
				return err
			}
			res, err := resolveLabel(detections, text, resolver.New(cfg.MatchThreshold))
			if err != nil {
				return err
			}

			data, err := sonic.ConfigStd.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to PNG screenshot")
	cmd.Flags().StringVar(&text, "text", "", "Label to find")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func resolveLabel(detections []ocr.Detection, text string, r *resolver.Resolver) (resolveResult, error) {
	idx, err := r.FindBestMatch(detections, text)
	if err != nil {
		return resolveResult{}, err
	}
	x, y, err := r.CoordinatesFor(detections, idx)
	if err != nil {
		return resolveResult{}, err
	}
	return resolveResult{
		Text:       text,
		Matched:    detections[idx].Text,
		Confidence: detections[idx].Confidence,
		X:          x,
		Y:          y,
	}, nil
}
