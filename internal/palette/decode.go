package palette

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Artwork formats served by catalogs and found in local files.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when artwork bytes cannot be decoded as an image.
var ErrDecode = errors.New("cannot decode image")

// Decode decodes artwork bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// ExtractBytes decodes data and extracts its palette.
func ExtractBytes(data []byte, opt Options) (Palette, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Extract(img, opt)
}
