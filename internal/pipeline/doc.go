// Package pipeline provides the orchestration that turns a catalog search
// into a saved album card.
//
// # Manager
//
// The Manager coordinates the entire process:
//
//  1. Search the catalog (no albums fails with ErrEmptyResult)
//  2. Let the caller pick an album
//  3. Fetch the track list and compute the album length
//  4. Fetch the artwork and extract its color palette
//  5. Bind everything into the template
//  6. Persist the document under a slug of "artist - album"
//
// Steps 3 and 4 run concurrently. Any failure aborts the run and nothing
// is written.
//
// # Basic Usage
//
//	manager := pipeline.NewManager(catalog, catalog, store, opts, func(event pipeline.ProgressEvent) {
//	    fmt.Println(event.Message)
//	}, pipeline.WithLogger(logger))
//
//	path, err := manager.Run(ctx, "pink floyd animals", func(albums []*model.Album) (*model.Album, error) {
//	    return albums[0], nil
//	}, tpl)
//
// # Errors
//
// Errors keep their origin and can be matched with errors.Is:
//   - ErrEmptyResult: no albums or no tracks
//   - http.ErrTransport: catalog or artwork request failed
//   - palette.ErrDecode: artwork is not a readable image
//   - layout.ErrFontResolution: template fonts cannot be loaded
//   - template.ErrBinding: template and album data do not match
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package pipeline
