package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ärtist - Café Müller", "artist-cafe-muller"},
		{"Café Müller - Ärtist", "cafe-muller-artist"},
		{"AC/DC - Back In Black", "acdc-back-in-black"},
		{"  Sigur Rós - ( )  ", "sigur-ros-"},
		{"Beyoncé -- Lemonade!!", "beyonce-lemonade"},
		{"東京事変 - 教育", "-"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStore_Save(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "out/cards")

	path, err := store.Save(context.Background(), "card.svg", []byte("<svg/>"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != "out/cards/card.svg" {
		t.Errorf("Save() path = %q, want %q", path, "out/cards/card.svg")
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("saved content = %q, want %q", data, "<svg/>")
	}

	entries, err := afero.ReadDir(fs, "out/cards")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the document", len(entries))
	}
}

func TestStore_SaveFailures(t *testing.T) {
	readOnly := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out")
	if _, err := readOnly.Save(context.Background(), "card.svg", []byte("x")); err == nil {
		t.Error("expected an error for read only FS but got nil")
	}

	store := NewStore(afero.NewMemMapFs(), "out")
	if _, err := store.Save(context.Background(), "../escape.svg", []byte("x")); err == nil {
		t.Error("expected an error for a name with path components")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Save(ctx, "card.svg", []byte("x")); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestImageService_ResizeImage(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	small := encodePNG(t, 40, 20)
	got, err := svc.ResizeImage(ctx, small, 100, 100)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}
	if !bytes.Equal(got, small) {
		t.Error("image within limits should be returned unchanged")
	}

	large := encodePNG(t, 300, 200)
	got, err = svc.ResizeImage(ctx, large, 150, 150)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != 150 || cfg.Height != 100 {
		t.Errorf("resized to %dx%d, want 150x100", cfg.Width, cfg.Height)
	}

	if _, err := svc.ResizeImage(ctx, []byte("junk"), 10, 10); err == nil {
		t.Error("expected an error for undecodable data")
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI(encodePNG(t, 2, 2))
	if !strings.HasPrefix(uri, "data:image/png;base64,iVBORw0KGgo") {
		t.Errorf("DataURI() = %q, want PNG data URI", uri[:min(len(uri), 40)])
	}
}
