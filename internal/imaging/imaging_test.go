package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{uint8(x % 256), 0, uint8(y % 256), 255})
		}
	}
	var buf bytes.Buffer
	if asPNG {
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encoding test PNG: %v", err)
		}
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			t.Fatalf("encoding test JPEG: %v", err)
		}
	}
	return buf.Bytes()
}

func TestProcessJPEGAndPNG(t *testing.T) {
	for _, asPNG := range []bool{false, true} {
		data := encodeTestImage(t, 100, 80, asPNG)
		photo, err := Process(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Process (png=%v): %v", asPNG, err)
		}
		// Output is always JPEG regardless of input format.
		if photo.MIME != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %s", photo.MIME)
		}
		if len(photo.Data) == 0 {
			t.Error("expected non-empty data")
		}
	}
}

func TestProcessDownscale(t *testing.T) {
	data := encodeTestImage(t, 2048, 1024, false)
	photo, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process large photo: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
	if bounds.Dx() != 1024 || bounds.Dy() != 512 {
		t.Errorf("expected aspect ratio preserved (1024x512), got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallPhotoNotUpscaled(t *testing.T) {
	data := encodeTestImage(t, 50, 50, false)
	photo, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process small photo: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("expected 50x50 unchanged, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(strings.NewReader("definitely not an image"))
	if err == nil {
		t.Error("expected error for non-image input")
	}
}
