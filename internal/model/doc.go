// Package model defines the core data structures used throughout
// artworker.
//
// # Album
//
// Album is one catalog album. The pipeline attaches derived data to it
// before rendering:
//
//	album.SetLength(tracks)    // total length from track durations
//	album.Artwork = artwork    // raw cover art bytes
//	album.Palette = p          // colors extracted from the artwork
//
// # Track
//
// Track is a single catalog track:
//
//	track := model.NewTrack(1440857781, 1, "Pigs on the Wing 1", 85000)
//	fmt.Println(track.FormattedDuration()) // "01:25"
//
// # File Names
//
// NameConfig controls the display name a card is saved under, using the
// placeholders {artist}, {album} and {year}:
//
//	cfg := &model.NameConfig{FileNameFormat: "{artist} - {album}"}
//	album.FileName(cfg) // "Pink Floyd - Animals"
package model
