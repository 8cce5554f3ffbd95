// Package imaging decodes the supported input formats (JPEG, PNG, GIF, BMP,
// WebP) and normalizes every image to an RGB JPEG before captioning. Alpha
// channels are flattened onto a white background, matching what the caption
// model expects.
package imaging
