package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	apphttp "github.com/handiism/artworker/internal/http"
	ioutils "github.com/handiism/artworker/internal/io"
	"github.com/handiism/artworker/internal/layout"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/palette"
	"github.com/handiism/artworker/internal/template"
	"github.com/spf13/afero"
)

type fakeCatalog struct {
	albums    []*model.Album
	tracks    []*model.Track
	searchErr error
	tracksErr error
}

func (c *fakeCatalog) SearchAlbums(ctx context.Context, term, country string) ([]*model.Album, error) {
	return c.albums, c.searchErr
}

func (c *fakeCatalog) AlbumTracks(ctx context.Context, albumID int64, country string) ([]*model.Track, error) {
	return c.tracks, c.tracksErr
}

type fakeFetcher struct {
	data  []byte
	err   error
	mu    sync.Mutex
	calls int
}

func (f *fakeFetcher) FetchArtwork(ctx context.Context, album *model.Album, onProgress func(written, total int64)) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if onProgress != nil {
		onProgress(int64(len(f.data)), int64(len(f.data)))
	}
	return f.data, nil
}

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testTracks() []*model.Track {
	return []*model.Track{
		model.NewTrack(1, 1, "Intro", 200000),
		model.NewTrack(2, 2, "Middle & <End>", 180000),
		model.NewTrack(3, 3, "Outro", 220000),
	}
}

type harness struct {
	manager *Manager
	catalog *fakeCatalog
	fetcher *fakeFetcher
	fs      afero.Fs
	events  []ProgressEvent
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		catalog: &fakeCatalog{
			albums: []*model.Album{{
				ID:          42,
				Artist:      "Ärtist",
				Title:       "Café Müller",
				ArtworkURL:  "https://example.com/100x100bb.jpg",
				ReleaseDate: "2020-05-01T07:00:00Z",
			}},
			tracks: testTracks(),
		},
		fetcher: &fakeFetcher{data: solidPNG(t, color.RGBA{R: 10, G: 20, B: 30, A: 255})},
		fs:      afero.NewMemMapFs(),
	}

	opts := Options{
		Country:     "US",
		Palette:     palette.DefaultOptions(),
		FillPalette: true,
	}
	h.manager = NewManager(h.catalog, h.fetcher, ioutils.NewStore(h.fs, "/out"), opts, func(e ProgressEvent) {
		h.events = append(h.events, e)
	}, WithFontResolver(layout.NewResolver(nil, "")))
	return h
}

func classic(t *testing.T) *template.Template {
	t.Helper()
	tpl, err := template.Builtin("classic")
	if err != nil {
		t.Fatal(err)
	}
	return tpl
}

func TestManager_Run(t *testing.T) {
	h := newHarness(t)

	pick := func(albums []*model.Album) (*model.Album, error) { return albums[0], nil }
	path, err := h.manager.Run(context.Background(), "cafe muller", pick, classic(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if path != "/out/artist-cafe-muller.svg" {
		t.Errorf("path = %q, want %q", path, "/out/artist-cafe-muller.svg")
	}

	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		t.Fatalf("reading card: %v", err)
	}
	doc := string(data)

	for _, want := range []string{
		"CAFÉ MÜLLER",
		"ÄRTIST",
		">10:00</text>",
		">2020</text>",
		"Middle &amp; &lt;End&gt;",
		"data:image/png;base64,",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("card missing %q", want)
		}
	}
	if got := strings.Count(doc, `fill="#0a141e"`); got != 5 {
		t.Errorf("blobs with #0a141e = %d, want 5", got)
	}

	album := h.catalog.albums[0]
	if album.FormattedLength() != "10:00" {
		t.Errorf("FormattedLength() = %q, want %q", album.FormattedLength(), "10:00")
	}
	if got := album.Palette.Hex(); len(got) != 5 || got[0] != "#0a141e" || got[4] != "#0a141e" {
		t.Errorf("Palette = %v, want 5 x #0a141e", got)
	}

	last := h.events[len(h.events)-1]
	if last.Level != LevelSuccess || !strings.Contains(last.Message, path) {
		t.Errorf("last event = %+v, want success naming %s", last, path)
	}
}

func TestManager_PaletteWithoutFill(t *testing.T) {
	h := newHarness(t)
	h.manager.opts.FillPalette = false
	album := h.catalog.albums[0]

	if err := h.manager.Artwork(context.Background(), album); err != nil {
		t.Fatalf("Artwork() error = %v", err)
	}
	if len(album.Palette) != 1 {
		t.Errorf("len(Palette) = %d, want 1", len(album.Palette))
	}
}

func TestManager_LocalArtworkSkipsFetch(t *testing.T) {
	h := newHarness(t)
	album := h.catalog.albums[0]
	album.Artwork = solidPNG(t, color.RGBA{R: 200, G: 30, B: 30, A: 255})

	if err := h.manager.Artwork(context.Background(), album); err != nil {
		t.Fatalf("Artwork() error = %v", err)
	}
	if h.fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", h.fetcher.calls)
	}
	if got := album.Palette[0].Hex(); got != "#c81e1e" {
		t.Errorf("Palette[0] = %q, want %q", got, "#c81e1e")
	}
}

func TestManager_EmbedResize(t *testing.T) {
	h := newHarness(t)
	h.manager.opts.EmbedMaxSize = 16
	album := h.catalog.albums[0]

	if err := h.manager.Artwork(context.Background(), album); err != nil {
		t.Fatalf("Artwork() error = %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(album.Artwork))
	if err != nil {
		t.Fatalf("decoding embedded artwork: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 16 {
		t.Errorf("embedded artwork = %dx%d, want 16x16", cfg.Width, cfg.Height)
	}
	if got := album.Palette[0].Hex(); got != "#0a141e" {
		t.Errorf("palette taken after resize: %q", got)
	}
}

func TestManager_Failures(t *testing.T) {
	transport := errors.Join(apphttp.ErrTransport, errors.New("connection refused"))

	tests := []struct {
		name    string
		setup   func(h *harness)
		tpl     func(t *testing.T) *template.Template
		wantErr error
	}{
		{
			name:    "no albums",
			setup:   func(h *harness) { h.catalog.albums = nil },
			wantErr: ErrEmptyResult,
		},
		{
			name:    "search transport",
			setup:   func(h *harness) { h.catalog.searchErr = transport },
			wantErr: apphttp.ErrTransport,
		},
		{
			name:    "no tracks",
			setup:   func(h *harness) { h.catalog.tracks = nil },
			wantErr: ErrEmptyResult,
		},
		{
			name:    "artwork transport",
			setup:   func(h *harness) { h.fetcher.err = transport },
			wantErr: apphttp.ErrTransport,
		},
		{
			name:    "undecodable artwork",
			setup:   func(h *harness) { h.fetcher.data = []byte("<html>not an image</html>") },
			wantErr: palette.ErrDecode,
		},
		{
			name:    "untitled track",
			setup:   func(h *harness) { h.catalog.tracks[1].Title = "" },
			wantErr: template.ErrBinding,
		},
		{
			name:  "missing font",
			setup: func(h *harness) {},
			tpl: func(t *testing.T) *template.Template {
				tpl := classic(t)
				tpl.FontWeightMapping = map[string]string{"bold": "Helvetica-Neue"}
				return tpl
			},
			wantErr: layout.ErrFontResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)
			tpl := classic(t)
			if tt.tpl != nil {
				tpl = tt.tpl(t)
			}

			pick := func(albums []*model.Album) (*model.Album, error) { return albums[0], nil }
			_, err := h.manager.Run(context.Background(), "cafe muller", pick, tpl)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			files, _ := afero.Glob(h.fs, "/out/*")
			if len(files) != 0 {
				t.Errorf("files persisted after failure: %v", files)
			}
		})
	}
}

func TestManager_ReportsTruncation(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("Never Ending Title ", 8)
	h.catalog.tracks[0].Title = long

	pick := func(albums []*model.Album) (*model.Album, error) { return albums[0], nil }
	path, err := h.manager.Run(context.Background(), "cafe muller", pick, classic(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var reported bool
	for _, e := range h.events {
		if e.Level == LevelVerbose && strings.Contains(e.Message, "Truncated") && strings.Contains(e.Message, "Never Ending") {
			reported = true
		}
		if strings.Contains(e.Message, "Intro") {
			t.Errorf("short title reported as truncated: %q", e.Message)
		}
	}
	if !reported {
		t.Errorf("no truncation event in %v", h.events)
	}

	data, _ := afero.ReadFile(h.fs, path)
	if strings.Contains(string(data), long) {
		t.Errorf("card contains the untruncated title")
	}
}

func TestManager_SaveNonLatinNames(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		album    *model.Album
		doc      string
		wantPath string
	}{
		{&model.Album{ID: 1001, Artist: "坂本龍一", Title: "音楽図鑑"}, "<svg>1</svg>", "/out/album-1001.svg"},
		{&model.Album{ID: 1002, Artist: "宇多田ヒカル", Title: "初恋"}, "<svg>2</svg>", "/out/album-1002.svg"},
		{&model.Album{ID: 1003, Artist: "Кино", Title: "Группа крови"}, "<svg>3</svg>", "/out/album-1003.svg"},
	}

	for _, tt := range tests {
		path, err := h.manager.Save(ctx, tt.album, tt.doc)
		if err != nil {
			t.Fatalf("Save(%s) error = %v", tt.album.Title, err)
		}
		if path != tt.wantPath {
			t.Errorf("Save(%s) path = %q, want %q", tt.album.Title, path, tt.wantPath)
		}
	}

	for _, tt := range tests {
		data, err := afero.ReadFile(h.fs, tt.wantPath)
		if err != nil {
			t.Fatalf("reading %s: %v", tt.wantPath, err)
		}
		if string(data) != tt.doc {
			t.Errorf("%s = %q, want %q", tt.wantPath, data, tt.doc)
		}
	}

	noID := &model.Album{Artist: "Кино", Title: "Звезда"}
	first, err := h.manager.Save(ctx, noID, "<svg/>")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, _ := h.manager.Save(ctx, noID, "<svg/>")
	if first != again || !strings.HasPrefix(first, "/out/album-") {
		t.Errorf("Save() without id = %q then %q, want one stable album- name", first, again)
	}
}

func TestManager_PickerError(t *testing.T) {
	h := newHarness(t)
	cancelled := errors.New("selection cancelled")

	_, err := h.manager.Run(context.Background(), "q", func([]*model.Album) (*model.Album, error) {
		return nil, cancelled
	}, classic(t))
	if !errors.Is(err, cancelled) {
		t.Errorf("Run() error = %v, want %v", err, cancelled)
	}
}

func TestProgressLevel_String(t *testing.T) {
	tests := []struct {
		level ProgressLevel
		want  string
	}{
		{LevelInfo, "info"},
		{LevelVerbose, "verbose"},
		{LevelWarning, "warning"},
		{LevelError, "error"},
		{LevelSuccess, "success"},
		{ProgressLevel(9), "level(9)"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
