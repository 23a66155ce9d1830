package screenshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
	"golang.org/x/image/draw"
)

const jpegQuality = 85

// VirtualBounds returns the union of all active display bounds
func VirtualBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// Capture captures the entire virtual screen across all active displays.
// The returned image's bounds are the virtual-screen bounds, so screen
// coordinates index it directly.
func Capture() (*image.RGBA, error) {
	union, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	img.Rect = union
	return img, nil
}

// CaptureToFile captures the screen with the pointer drawn on it and writes a PNG to path.
func CaptureToFile(path string) error {
	img, err := Capture()
	if err != nil {
		return err
	}
	x, y := robotgo.Location()
	DrawCursor(img, image.Pt(x, y))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return nil
}

// DrawCursor paints a small crosshair at p, given in the same coordinate
// space as img.Bounds(). Points outside the image are ignored.
func DrawCursor(img *image.RGBA, p image.Point) {
	if !p.In(img.Bounds()) {
		return
	}
	const arm = 6
	outline := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	fill := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	for d := -arm; d <= arm; d++ {
		for _, off := range []int{-1, 1} {
			setIn(img, p.X+d, p.Y+off, outline)
			setIn(img, p.X+off, p.Y+d, outline)
		}
	}
	for d := -arm; d <= arm; d++ {
		setIn(img, p.X+d, p.Y, fill)
		setIn(img, p.X, p.Y+d, fill)
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// EncodeForUpload reads the PNG at path, downscales it to maxWidth when wider
// (maxWidth <= 0 keeps the original size) and returns base64 JPEG data.
func EncodeForUpload(path string, maxWidth int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode screenshot: %w", err)
	}

	img := Downscale(src, maxWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Downscale returns src scaled to maxWidth, keeping the aspect ratio.
func Downscale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// GetDisplayBounds returns the bounds of the primary display
func GetDisplayBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}
