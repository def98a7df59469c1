package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	ioutils "github.com/handiism/artworker/internal/io"
	"github.com/handiism/artworker/internal/layout"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/palette"
	"github.com/handiism/artworker/internal/template"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyResult is returned when a search finds no album or an album has
// no tracks.
var ErrEmptyResult = errors.New("empty result")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Catalog supplies albums and tracks.
type Catalog interface {
	SearchAlbums(ctx context.Context, term, country string) ([]*model.Album, error)
	AlbumTracks(ctx context.Context, albumID int64, country string) ([]*model.Track, error)
}

// ArtworkFetcher downloads the cover art of an album.
type ArtworkFetcher interface {
	FetchArtwork(ctx context.Context, album *model.Album, onProgress func(written, total int64)) ([]byte, error)
}

// Store persists rendered documents.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Resizer shrinks artwork before it is embedded.
type Resizer interface {
	ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error)
}

// Options holds per-run pipeline settings.
type Options struct {
	// Country is the catalog storefront, e.g. "US".
	Country string

	// Palette configures color extraction.
	Palette palette.Options

	// FillPalette repeats palette entries until Palette.K colors exist,
	// so images with few distinct colors still fill every blob.
	FillPalette bool

	// EmbedMaxSize bounds the embedded artwork edge in pixels. Zero embeds
	// the artwork as fetched.
	EmbedMaxSize int

	// Names configures the output file name.
	Names *model.NameConfig
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards records.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithExtractor replaces the palette extraction strategy.
func WithExtractor(e palette.Extractor) Option {
	return func(m *Manager) {
		if e != nil {
			m.extractor = e
		}
	}
}

// WithFontResolver sets where template fonts are looked up.
func WithFontResolver(r *layout.Resolver) Option {
	return func(m *Manager) {
		m.fonts = r
	}
}

// WithResizer sets the service used to shrink embedded artwork.
func WithResizer(r Resizer) Option {
	return func(m *Manager) {
		if r != nil {
			m.resizer = r
		}
	}
}

// Manager coordinates card rendering: catalog lookups, artwork download,
// palette extraction, template binding and persistence.
//
// Each stage failure aborts the run; nothing is persisted unless the
// whole document was bound.
type Manager struct {
	catalog   Catalog
	artwork   ArtworkFetcher
	store     Store
	extractor palette.Extractor
	resizer   Resizer
	fonts     *layout.Resolver
	opts      Options
	log       *slog.Logger

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager.
//
// onProgress may be nil. It is never called concurrently.
func NewManager(catalog Catalog, artwork ArtworkFetcher, store Store, opts Options, onProgress func(ProgressEvent), options ...Option) *Manager {
	if opts.Names == nil {
		opts.Names = &model.NameConfig{FileNameFormat: "{artist} - {album}"}
	}
	if opts.Palette.K == 0 {
		opts.Palette = palette.DefaultOptions()
	}

	m := &Manager{
		catalog:    catalog,
		artwork:    artwork,
		store:      store,
		extractor:  palette.KMeans{},
		resizer:    ioutils.NewImageService(),
		opts:       opts,
		log:        slog.New(slog.DiscardHandler),
		onProgress: onProgress,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Search returns the albums matching query. An empty result fails with
// ErrEmptyResult.
func (m *Manager) Search(ctx context.Context, query string) ([]*model.Album, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Searching %q in the %s store", query, m.opts.Country), Level: LevelInfo})

	albums, err := m.catalog.SearchAlbums(ctx, query, m.opts.Country)
	if err != nil {
		return nil, err
	}
	if len(albums) == 0 {
		return nil, fmt.Errorf("%w: no albums found matching %q in the %s store", ErrEmptyResult, query, m.opts.Country)
	}

	m.log.DebugContext(ctx, "search finished", "query", query, "country", m.opts.Country, "albums", len(albums))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d albums", len(albums)), Level: LevelSuccess})
	return albums, nil
}

// Tracks returns the tracks of album and sets its total length. An album
// without tracks fails with ErrEmptyResult.
func (m *Manager) Tracks(ctx context.Context, album *model.Album) ([]*model.Track, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching tracks of %s", album.Title), Level: LevelVerbose})

	tracks, err := m.catalog.AlbumTracks(ctx, album.ID, m.opts.Country)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: album %q has no tracks", ErrEmptyResult, album.Title)
	}

	album.SetLength(tracks)
	m.log.DebugContext(ctx, "tracks fetched", "album", album.Title, "tracks", len(tracks), "length", album.FormattedLength())
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %d tracks (%s)", len(tracks), album.FormattedLength()), Level: LevelSuccess})
	return tracks, nil
}

// Artwork fetches the cover art of album, unless it is already attached,
// and derives its palette. The artwork is then shrunk for embedding when
// EmbedMaxSize is set.
func (m *Manager) Artwork(ctx context.Context, album *model.Album) error {
	if len(album.Artwork) == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading artwork of %s", album.Title), Level: LevelVerbose})

		data, err := m.artwork.FetchArtwork(ctx, album, func(written, total int64) {
			if written == total {
				m.log.DebugContext(ctx, "artwork downloaded", "album", album.Title, "bytes", written)
			}
		})
		if err != nil {
			return err
		}
		album.Artwork = data
	}

	img, err := palette.Decode(album.Artwork)
	if err != nil {
		return err
	}

	p, err := m.extractor.Extract(img, m.opts.Palette)
	if err != nil {
		return err
	}
	if m.opts.FillPalette {
		p = p.Fill(m.opts.Palette.K)
	}
	album.Palette = p
	m.log.DebugContext(ctx, "palette extracted", "album", album.Title, "palette", p.String())
	m.progress(ProgressEvent{Message: fmt.Sprintf("Extracted palette %s", p), Level: LevelSuccess})

	if m.opts.EmbedMaxSize > 0 {
		resized, err := m.resizer.ResizeImage(ctx, album.Artwork, m.opts.EmbedMaxSize, m.opts.EmbedMaxSize)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Embedding full size artwork: %v", err), Level: LevelWarning})
		} else {
			album.Artwork = resized
		}
	}

	return nil
}

// Compose binds album, tracks and the album palette into tpl. Text listed
// in the template's text_fitting section is truncated to the layout width.
func (m *Manager) Compose(album *model.Album, tracks []*model.Track, tpl *template.Template) (string, error) {
	measurer, err := tpl.Measurer(m.fonts)
	if err != nil {
		return "", err
	}

	if dropped := len(tracks) - tpl.TrackRows(); dropped > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Template %s lists %d tracks, %d left out", tpl.Name, tpl.TrackRows(), dropped), Level: LevelWarning})
	}

	fitter := reportingFitter{Measurer: measurer, onTruncate: func(text string) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Truncated %q to fit the card", text), Level: LevelVerbose})
	}}
	return template.Bind(tpl, album, tracks, album.Palette, template.WithFitter(fitter))
}

// reportingFitter reports every text the measurer had to shorten.
type reportingFitter struct {
	*layout.Measurer
	onTruncate func(text string)
}

func (f reportingFitter) FitLine(prefix, text, suffix, weight string, size int) (string, error) {
	fitted, err := f.Measurer.FitLine(prefix, text, suffix, weight, size)
	if err == nil && fitted != text {
		f.onTruncate(text)
	}
	return fitted, err
}

// Save persists doc under a slug of the album file name and returns the
// written path. Names that slug to nothing but hyphens, such as titles in
// non-Latin scripts, are replaced by "album-<catalog id>".
func (m *Manager) Save(ctx context.Context, album *model.Album, doc string) (string, error) {
	name := m.fileName(album)
	path, err := m.store.Save(ctx, name, []byte(doc))
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return path, nil
}

func (m *Manager) fileName(album *model.Album) string {
	display := album.FileName(m.opts.Names)
	slug := ioutils.Slug(display)
	if strings.Trim(slug, "-") != "" {
		return slug + ".svg"
	}
	if album.ID != 0 {
		return fmt.Sprintf("album-%d.svg", album.ID)
	}
	h := fnv.New32a()
	h.Write([]byte(display))
	return fmt.Sprintf("album-%08x.svg", h.Sum32())
}

// Render runs the pipeline for a chosen album: tracks and artwork are
// fetched concurrently, then the document is composed and saved.
func (m *Manager) Render(ctx context.Context, album *model.Album, tpl *template.Template) (string, error) {
	var tracks []*model.Track

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tracks, err = m.Tracks(gctx, album)
		return err
	})
	g.Go(func() error {
		return m.Artwork(gctx, album)
	})
	if err := g.Wait(); err != nil {
		m.fail(ctx, album, err)
		return "", err
	}

	doc, err := m.Compose(album, tracks, tpl)
	if err != nil {
		m.fail(ctx, album, err)
		return "", err
	}

	path, err := m.Save(ctx, album, doc)
	if err != nil {
		m.fail(ctx, album, err)
		return "", err
	}

	m.log.InfoContext(ctx, "card rendered", "album", album.Title, "artist", album.Artist, "path", path)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelSuccess})
	return path, nil
}

// Picker chooses one album out of the search results.
type Picker func(albums []*model.Album) (*model.Album, error)

// Run searches query, lets pick choose an album and renders it.
func (m *Manager) Run(ctx context.Context, query string, pick Picker, tpl *template.Template) (string, error) {
	albums, err := m.Search(ctx, query)
	if err != nil {
		return "", err
	}

	album, err := pick(albums)
	if err != nil {
		return "", err
	}

	return m.Render(ctx, album, tpl)
}

func (m *Manager) fail(ctx context.Context, album *model.Album, err error) {
	m.log.ErrorContext(ctx, "rendering failed", "album", album.Title, "error", err)
	m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
