package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// testJPEG renders a solid-color JPEG of the given size.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

// testPNG renders a solid-color PNG of the given size.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := Normalize(testJPEG(t, 640, 480))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("small image should keep its size, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	out, err := Normalize(testJPEG(t, 4096, 1024))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if cfg.Width != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, cfg.Width)
	}
	// Aspect ratio preserved: 4096x1024 -> 2048x512.
	if cfg.Height != 512 {
		t.Errorf("expected height 512, got %d", cfg.Height)
	}
}

func TestNormalizeConvertsPNG(t *testing.T) {
	out, err := Normalize(testPNG(t, 100, 100))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected PNG converted to jpeg, got %s", format)
	}
}

func TestNormalizeRejectsOtherFormats(t *testing.T) {
	_, err := Normalize([]byte("GIF89a not really an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
