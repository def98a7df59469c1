package itunes

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apphttp "github.com/handiism/artworker/internal/http"
	"github.com/handiism/artworker/internal/itunes/dto"
	"github.com/handiism/artworker/internal/model"
)

const (
	// DefaultSearchURL is the iTunes Search API endpoint.
	DefaultSearchURL = "https://itunes.apple.com/search"

	// DefaultLookupURL is the iTunes Lookup API endpoint.
	DefaultLookupURL = "https://itunes.apple.com/lookup"

	// DefaultCountry is the storefront used when none is configured.
	DefaultCountry = "US"

	// DefaultResultLimit caps the number of search results.
	DefaultResultLimit = 25

	// DefaultArtworkSize is the edge length, in pixels, of requested cover art.
	DefaultArtworkSize = 1500
)

// Config holds the catalog endpoints and request parameters.
type Config struct {
	SearchURL   string
	LookupURL   string
	ResultLimit int
	ArtworkSize int
}

// DefaultConfig returns the public iTunes endpoints.
func DefaultConfig() Config {
	return Config{
		SearchURL:   DefaultSearchURL,
		LookupURL:   DefaultLookupURL,
		ResultLimit: DefaultResultLimit,
		ArtworkSize: DefaultArtworkSize,
	}
}

// Catalog looks albums and tracks up in the iTunes store.
//
// Example usage:
//
//	catalog := itunes.NewCatalog(http.NewClient(), itunes.DefaultConfig())
//
//	albums, err := catalog.SearchAlbums(ctx, "pink floyd animals", "US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tracks, err := catalog.AlbumTracks(ctx, albums[0].ID, "US")
type Catalog struct {
	client *apphttp.Client
	cfg    Config
}

// NewCatalog creates a Catalog. Zero fields of cfg fall back to the defaults.
func NewCatalog(client *apphttp.Client, cfg Config) *Catalog {
	def := DefaultConfig()
	if cfg.SearchURL == "" {
		cfg.SearchURL = def.SearchURL
	}
	if cfg.LookupURL == "" {
		cfg.LookupURL = def.LookupURL
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = def.ResultLimit
	}
	if cfg.ArtworkSize < 0 {
		cfg.ArtworkSize = 0
	}
	return &Catalog{client: client, cfg: cfg}
}

// SearchAlbums returns the albums matching term in the given storefront.
//
// Results that are not full albums are dropped. No matches is not an
// error: the returned slice is empty.
func (c *Catalog) SearchAlbums(ctx context.Context, term, country string) ([]*model.Album, error) {
	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "album")
	q.Set("country", countryOrDefault(country))
	q.Set("limit", strconv.Itoa(c.cfg.ResultLimit))

	var resp dto.JSONResponse[dto.JSONAlbum]
	if err := c.client.GetJSON(ctx, c.cfg.SearchURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searching albums: %w", err)
	}

	albums := make([]*model.Album, 0, len(resp.Results))
	for i := range resp.Results {
		if ja := &resp.Results[i]; ja.IsAlbum() {
			albums = append(albums, ja.ToAlbum(c.cfg.ArtworkSize))
		}
	}
	return albums, nil
}

// AlbumTracks returns the tracks of an album in catalog order.
func (c *Catalog) AlbumTracks(ctx context.Context, albumID int64, country string) ([]*model.Track, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(albumID, 10))
	q.Set("entity", "song")
	q.Set("country", countryOrDefault(country))

	var resp dto.JSONResponse[dto.JSONTrack]
	if err := c.client.GetJSON(ctx, c.cfg.LookupURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("looking up tracks of %d: %w", albumID, err)
	}

	tracks := make([]*model.Track, 0, len(resp.Results))
	for i := range resp.Results {
		if jt := &resp.Results[i]; jt.IsTrack() {
			tracks = append(tracks, jt.ToTrack())
		}
	}
	return tracks, nil
}

// FetchArtwork downloads the cover art of album.
func (c *Catalog) FetchArtwork(ctx context.Context, album *model.Album, onProgress func(written, total int64)) ([]byte, error) {
	if album.ArtworkURL == "" {
		return nil, fmt.Errorf("%w: album %q has no artwork url", apphttp.ErrTransport, album.Title)
	}
	data, err := c.client.DownloadBytes(ctx, album.ArtworkURL, onProgress)
	if err != nil {
		return nil, fmt.Errorf("downloading artwork: %w", err)
	}
	return data, nil
}

func countryOrDefault(country string) string {
	if country == "" {
		return DefaultCountry
	}
	return country
}
