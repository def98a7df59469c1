// Package ioutils provides file system and image utilities.
//
// This package contains:
//   - Slug, which turns free text into a file system safe name
//   - Store, which persists rendered documents through an afero.Fs
//   - ImageService, which prepares cover art for embedding in a document
//
// # Slugs
//
//	ioutils.Slug("Ärtist - Café Müller") // "artist-cafe-muller"
//
// # Persisting Documents
//
// Store writes through a temporary file and renames it into place, so a
// failed write never leaves a partial document behind:
//
//	store := ioutils.NewStore(afero.NewOsFs(), "output")
//	path, err := store.Save(ctx, "artist-cafe-muller.svg", svg)
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//
//	// Shrink artwork to fit within 800x800 before embedding
//	small, _ := svc.ResizeImage(ctx, artwork, 800, 800)
//
//	// Build a data: URI for an <image href="..."> attribute
//	uri := ioutils.DataURI(small) // "data:image/jpeg;base64,..."
package ioutils
