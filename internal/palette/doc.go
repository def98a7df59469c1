// Package palette derives a small, ordered set of representative colors
// from album artwork.
//
// # Extraction
//
// Extract clusters the pixels of an image in RGB space and returns one
// Color per cluster centroid:
//
//	img, err := palette.Decode(artworkBytes)
//	if err != nil {
//	    return err // wraps palette.ErrDecode
//	}
//	p, err := palette.Extract(img, palette.DefaultOptions())
//	fmt.Println(p.Hex()) // [#0b0d10 #3a2f27 ... ]
//
// # Ordering
//
// Palettes are ordered by ascending relative luminance, darkest first.
// Colors with equal luminance are ordered by their hex value. Clustering is
// seeded deterministically, so extracting twice from the same pixels with
// the same Options always yields the same Palette.
//
// # Cardinality
//
// When the image holds fewer distinct colors than Options.K, the cluster
// count is reduced to the number of distinct colors. Use Palette.Fill to
// repeat entries when a caller needs exactly K slots.
package palette
