package signature

import (
	"bytes"
	"fmt"
	"image"
	// formats accepted for a preloaded signature
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"attendform/internal/domain/attachment"

	_ "golang.org/x/image/webp"
)

// DecodeImage parses an image data URI.
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := attachment.ParseDataURI(uri)
	if err != nil {
		return nil, fmt.Errorf("parse signature uri: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode signature image: %w", err)
	}
	return img, nil
}
