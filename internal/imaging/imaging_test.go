package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, name string, encode func(*os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := encode(file); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func solidImage(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeFormats(t *testing.T) {
	red := solidImage(color.RGBA{R: 255, A: 255})
	cases := []struct {
		name   string
		format string
		encode func(*os.File) error
	}{
		{"sample.png", "png", func(f *os.File) error { return png.Encode(f, red) }},
		{"sample.jpg", "jpeg", func(f *os.File) error { return jpeg.Encode(f, red, nil) }},
		{"sample.gif", "gif", func(f *os.File) error { return gif.Encode(f, red, nil) }},
		{"sample.bmp", "bmp", func(f *os.File) error { return bmp.Encode(f, red) }},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			path := writeImage(t, tc.name, tc.encode)
			img, format, err := Decode(path)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tc.format {
				t.Fatalf("format = %q, want %q", format, tc.format)
			}
			if img.Bounds().Dx() != 8 {
				t.Fatalf("width = %d, want 8", img.Bounds().Dx())
			}
		})
	}
}

func TestValidateRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_an_image.png")
	if err := os.WriteFile(path, []byte("plain text pretending"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(path); err == nil {
		t.Fatal("expected error for non-image content")
	}
}

func TestValidateAcceptsImage(t *testing.T) {
	path := writeImage(t, "ok.png", func(f *os.File) error {
		return png.Encode(f, solidImage(color.RGBA{G: 255, A: 255}))
	})
	format, err := Validate(path)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}
}

func TestNormalizeProducesJPEG(t *testing.T) {
	data, err := Normalize(solidImage(color.RGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("output format = %q, want jpeg", format)
	}
	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 8 {
		t.Fatalf("output bounds = %v", decoded.Bounds())
	}
}

func TestNormalizeFlattensTransparencyOntoWhite(t *testing.T) {
	transparent := image.NewRGBA(image.Rect(0, 0, 4, 4))

	data, err := Normalize(transparent)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, _ := decoded.At(2, 2).RGBA()
	// JPEG is lossy; allow slight deviation from pure white.
	for _, channel := range []uint32{r >> 8, g >> 8, b >> 8} {
		if channel < 250 {
			t.Fatalf("background channel = %d, want near 255", channel)
		}
	}
}

func TestNormalizeFile(t *testing.T) {
	path := writeImage(t, "src.png", func(f *os.File) error {
		return png.Encode(f, solidImage(color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	})
	data, err := NormalizeFile(path)
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}
