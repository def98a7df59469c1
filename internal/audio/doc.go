// Package audio reads cover art embedded in audio files.
//
// # Local Artwork
//
// Cards normally use the artwork published by the catalog. A local file
// can replace it:
//
//	reader := audio.NewArtworkReader(afero.NewOsFs())
//	art, err := reader.Read("cover.png")
//
// The file may be an image or an MP3 with an ID3v2 tag. For tagged files
// the front cover picture is used and the album artist and title frames
// are exposed, so the file can also seed the catalog search:
//
//	art, _ := reader.Read("01 Dogs.mp3")
//	query := art.Query() // "Pink Floyd Animals"
package audio
