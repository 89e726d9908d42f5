// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imageinfo reads image dimensions from encoded bytes without
// decoding pixel data.
package imageinfo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info holds the header fields of an encoded image.
type Info struct {
	Width  int
	Height int
	Format string
}

// Probe returns the dimensions and format name of data. Formats without a
// registered decoder (SVG, for example) return an error.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("reading image header: %w", err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
