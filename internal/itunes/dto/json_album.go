package dto

import (
	"fmt"
	"strings"

	"github.com/handiism/artworker/internal/model"
)

const (
	wrapperCollection = "collection"
	collectionAlbum   = "Album"
	wrapperTrack      = "track"

	// artworkThumbSize is the size segment of artworkUrl100.
	artworkThumbSize = "100x100bb"
)

// JSONResponse is the envelope of both the search and the lookup API.
// Results mix wrapper types, so callers filter them after decoding.
type JSONResponse[T any] struct {
	ResultCount int `json:"resultCount"`
	Results     []T `json:"results"`
}

// JSONAlbum represents a collection result of the search API.
type JSONAlbum struct {
	WrapperType    string `json:"wrapperType"`
	CollectionType string `json:"collectionType"`
	ArtistID       int64  `json:"artistId"`
	CollectionID   int64  `json:"collectionId"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	ArtworkURL100  string `json:"artworkUrl100"`
	TrackCount     int    `json:"trackCount"`
	Copyright      string `json:"copyright"`
	ReleaseDate    string `json:"releaseDate"`
}

// IsAlbum reports whether the result is a full album, as opposed to an
// artist, a track or a compilation of another kind.
func (ja *JSONAlbum) IsAlbum() bool {
	return ja.WrapperType == wrapperCollection && ja.CollectionType == collectionAlbum
}

// ToAlbum converts JSONAlbum to a model.Album.
//
// The catalog only links a 100x100 thumbnail; artworkSize rewrites the URL
// to request a larger rendition. Zero keeps the thumbnail.
func (ja *JSONAlbum) ToAlbum(artworkSize int) *model.Album {
	artworkURL := ja.ArtworkURL100
	if artworkSize > 0 {
		artworkURL = strings.Replace(artworkURL, artworkThumbSize, fmt.Sprintf("%dx%dbb", artworkSize, artworkSize), 1)
	}

	return &model.Album{
		ID:          ja.CollectionID,
		ArtistID:    ja.ArtistID,
		Artist:      ja.ArtistName,
		Title:       ja.CollectionName,
		ArtworkURL:  artworkURL,
		TrackCount:  ja.TrackCount,
		Copyright:   ja.Copyright,
		ReleaseDate: ja.ReleaseDate,
	}
}
