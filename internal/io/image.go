package ioutils

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/gif" // GIF decoder registration
	_ "image/png" // PNG decoder registration

	_ "golang.org/x/image/webp" // WebP decoder registration
	"golang.org/x/image/draw"
)

// ImageService prepares cover art for embedding in a card.
//
// Catalog artwork is requested at high resolution, which makes for large
// documents. ImageService can shrink it before it is base64 embedded.
//
// Example usage:
//
//	svc := NewImageService()
//	resized, _ := svc.ResizeImage(ctx, artwork, 800, 800)
//	uri := DataURI(resized)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already within the limits are
// returned unchanged, without re-encoding. Resized images are encoded as
// JPEG.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// Resize to fit within 1000x1000, maintaining aspect ratio
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x667
//	// A 800x600 image is returned as is
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return data, nil
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = max(1, int(float64(maxHeight)*ratio))
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = max(1, int(float64(maxWidth)/ratio))
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DataURI returns data as a base64 "data:" URI. The media type is sniffed
// from the content.
//
// Example:
//
//	DataURI(pngBytes) // "data:image/png;base64,iVBORw0KGgo..."
func DataURI(data []byte) string {
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
