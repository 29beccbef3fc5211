package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessJPEGKeepsFormat(t *testing.T) {
	data := createTestJPEG(100, 100)
	result, err := Process(data)
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if got := http.DetectContentType(result); got != "image/jpeg" {
		t.Errorf("expected image/jpeg output, got %s", got)
	}
}

func TestProcessPNGKeepsFormat(t *testing.T) {
	data := createTestPNG(100, 100)
	result, err := Process(data)
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if got := http.DetectContentType(result); got != "image/png" {
		t.Errorf("expected image/png output, got %s", got)
	}
}

func TestProcessDownscale(t *testing.T) {
	data := createTestJPEG(2048, 2048)
	result, err := Process(data)
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	data := createTestJPEG(50, 50)
	result, err := Process(data)
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	_, err := Process([]byte("not an image"))
	if err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestCanProcess(t *testing.T) {
	if !CanProcess(createTestJPEG(10, 10)) {
		t.Error("expected JPEG to be processable")
	}
	if !CanProcess(createTestPNG(10, 10)) {
		t.Error("expected PNG to be processable")
	}
	// GIF is stored verbatim, never decoded.
	if CanProcess([]byte("GIF89a...")) {
		t.Error("expected GIF to be pass-through")
	}
}
