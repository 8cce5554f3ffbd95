package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// jpegQuality is the encoder quality for normalized output.
const jpegQuality = 80

// Decode reads and decodes an image file, returning the image and the
// detected format name ("jpeg", "png", "gif", "bmp", "webp").
func Decode(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// Validate confirms the file contains a decodable image without holding the
// full pixel data. Returns the detected format.
func Validate(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	_, format, err := image.DecodeConfig(file)
	if err != nil {
		return "", fmt.Errorf("invalid image %s: %w", path, err)
	}
	return format, nil
}

// Normalize re-encodes an image as an RGB JPEG. Transparency is flattened
// onto white before encoding.
func Normalize(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	flattened := image.NewRGBA(bounds)
	draw.Draw(flattened, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flattened, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// NormalizeFile decodes the file at path and returns normalized JPEG bytes.
func NormalizeFile(path string) ([]byte, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return Normalize(img)
}
