package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/handiism/artworker/internal/palette"
)

// Album is one catalog album and everything derived from it for a card.
//
// The catalog fields are filled once when the album is looked up. Length,
// Artwork and Palette are attached by the pipeline before the album is
// handed to the template binder.
//
// Example:
//
//	album := &Album{Artist: "Pink Floyd", Title: "Animals", ReleaseDate: "1977-01-23T08:00:00Z"}
//	album.SetLength(tracks)
//	fmt.Println(album.Label())           // "Animals - Pink Floyd (1977)"
//	fmt.Println(album.FormattedLength()) // "41:41"
type Album struct {
	// ID is the catalog collection id.
	ID int64

	// ArtistID is the catalog id of the album artist.
	ArtistID int64

	// Artist is the album artist name.
	Artist string

	// Title is the album title.
	Title string

	// ArtworkURL is where the cover art can be downloaded.
	// Empty string means the catalog has no artwork for the album.
	ArtworkURL string

	// TrackCount is the number of tracks the catalog reports.
	TrackCount int

	// Copyright is the copyright line, possibly empty.
	Copyright string

	// ReleaseDate is an ISO-8601 date or timestamp, e.g. "1977-01-23T08:00:00Z".
	ReleaseDate string

	// Length is the sum of all track durations.
	Length time.Duration

	// Artwork holds the raw cover art bytes once fetched.
	Artwork []byte

	// Palette is the color palette derived from Artwork.
	Palette palette.Palette
}

// NameConfig holds output file naming settings.
//
// FileNameFormat supports the placeholders {artist}, {album} and {year}.
// The result is a display name; callers slug it before using it on disk.
type NameConfig struct {
	FileNameFormat string
}

// HasArtwork returns true if cover art is available, either already
// fetched or downloadable.
func (a *Album) HasArtwork() bool {
	return len(a.Artwork) > 0 || a.ArtworkURL != ""
}

// ReleaseYear returns the year part of the release date.
func (a *Album) ReleaseYear() string {
	year, _, _ := strings.Cut(a.ReleaseDate, "-")
	return year
}

// Label returns a human readable one-line description used in album pickers.
func (a *Album) Label() string {
	return fmt.Sprintf("%s - %s (%s)", a.Title, a.Artist, a.ReleaseYear())
}

// SetLength sets Length to the total duration of tracks.
func (a *Album) SetLength(tracks []*Track) {
	a.Length = TotalDuration(tracks)
}

// FormattedLength returns Length as zero padded "MM:SS".
func (a *Album) FormattedLength() string {
	return FormatDuration(a.Length)
}

// FileName computes the output display name from the config template.
func (a *Album) FileName(cfg *NameConfig) string {
	name := cfg.FileNameFormat
	name = strings.ReplaceAll(name, "{year}", a.ReleaseYear())
	name = strings.ReplaceAll(name, "{artist}", a.Artist)
	name = strings.ReplaceAll(name, "{album}", a.Title)
	return name
}
