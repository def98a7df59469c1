package model

import (
	"testing"
	"time"
)

func TestTotalDuration(t *testing.T) {
	tracks := []*Track{
		NewTrack(1, 1, "One", 200000),
		NewTrack(2, 2, "Two", 180000),
		NewTrack(3, 3, "Three", 220000),
	}

	total := TotalDuration(tracks)
	if total != 600*time.Second {
		t.Errorf("TotalDuration() = %v, want %v", total, 600*time.Second)
	}

	album := &Album{}
	album.SetLength(tracks)
	if got := album.FormattedLength(); got != "10:00" {
		t.Errorf("FormattedLength() = %q, want %q", got, "10:00")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{61 * time.Second, "01:01"},
		{59*time.Minute + 59*time.Second + 999*time.Millisecond, "59:59"},
		{125 * time.Minute, "125:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestTrack_MinutesSeconds(t *testing.T) {
	track := NewTrack(7, 1, "Dogs", 1025000)
	m, s := track.MinutesSeconds()
	if m != 17 || s != 5 {
		t.Errorf("MinutesSeconds() = %d, %d, want 17, 5", m, s)
	}
	if got := track.FormattedDuration(); got != "17:05" {
		t.Errorf("FormattedDuration() = %q, want %q", got, "17:05")
	}
}

func TestAlbum_ReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"1977-01-23T08:00:00Z", "1977"},
		{"2023-05-15", "2023"},
		{"1999", "1999"},
		{"", ""},
	}

	for _, tt := range tests {
		album := &Album{ReleaseDate: tt.date}
		if got := album.ReleaseYear(); got != tt.want {
			t.Errorf("ReleaseYear(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestAlbum_Label(t *testing.T) {
	album := &Album{Artist: "Pink Floyd", Title: "Animals", ReleaseDate: "1977-01-23T08:00:00Z"}
	if got, want := album.Label(), "Animals - Pink Floyd (1977)"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestAlbum_FileName(t *testing.T) {
	album := &Album{Artist: "Ärtist", Title: "Café Müller", ReleaseDate: "1978-05-12"}

	tests := []struct {
		format string
		want   string
	}{
		{"{artist} - {album}", "Ärtist - Café Müller"},
		{"{album} - {artist}", "Café Müller - Ärtist"},
		{"{year} {album}", "1978 Café Müller"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := album.FileName(&NameConfig{FileNameFormat: tt.format}); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlbum_HasArtwork(t *testing.T) {
	if (&Album{}).HasArtwork() {
		t.Error("HasArtwork() should return false without URL or bytes")
	}
	if !(&Album{ArtworkURL: "https://example.com/a.jpg"}).HasArtwork() {
		t.Error("HasArtwork() should return true with a URL")
	}
	if !(&Album{Artwork: []byte{1}}).HasArtwork() {
		t.Error("HasArtwork() should return true with fetched bytes")
	}
}
