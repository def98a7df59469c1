package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/spf13/afero"
)

// ErrNoArtwork is returned when an audio file carries no attached picture.
var ErrNoArtwork = errors.New("no embedded artwork")

// id3Magic starts every file with an ID3v2 tag.
var id3Magic = []byte("ID3")

// LocalArtwork is cover art read from disk, along with the album
// metadata found next to it.
type LocalArtwork struct {
	// Data holds the raw image bytes.
	Data []byte

	// MimeType is the declared or sniffed image type, e.g. "image/jpeg".
	MimeType string

	// Artist and Album come from the TPE1/TPE2 and TALB frames of an
	// audio file. They are empty for plain image files.
	Artist string
	Album  string
}

// Query returns a catalog search term built from the tagged artist and
// album, or "" when the file had no tags.
func (a *LocalArtwork) Query() string {
	return strings.TrimSpace(a.Artist + " " + a.Album)
}

// ArtworkReader reads cover art from local files.
//
// Image files are returned as they are. MP3 files are parsed for their
// attached pictures (APIC frames); the front cover wins, otherwise the
// first picture is used.
//
// Example:
//
//	reader := NewArtworkReader(afero.NewOsFs())
//
//	art, err := reader.Read("/music/Animals/01 Pigs on the Wing.mp3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(art.MimeType, len(art.Data))
type ArtworkReader struct {
	fs afero.Fs
}

// NewArtworkReader creates a new ArtworkReader reading from fs.
func NewArtworkReader(fs afero.Fs) *ArtworkReader {
	return &ArtworkReader{fs: fs}
}

// Read returns the artwork stored in path.
func (r *ArtworkReader) Read(path string) (*LocalArtwork, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	if !isTagged(path, data) {
		return &LocalArtwork{
			Data:     data,
			MimeType: http.DetectContentType(data),
		}, nil
	}

	return readTagged(data)
}

func isTagged(path string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3") || bytes.HasPrefix(data, id3Magic)
}

// readTagged extracts the attached picture and album frames of an ID3v2 tag.
func readTagged(data []byte) (*LocalArtwork, error) {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Attached picture", "Artist", "Band/Orchestra/Accompaniment", "Album/Movie/Show title"},
	})
	if err != nil {
		return nil, fmt.Errorf("reading ID3 tag: %w", err)
	}

	pic, ok := frontCover(tag.GetFrames(tag.CommonID("Attached picture")))
	if !ok {
		return nil, ErrNoArtwork
	}

	mime := pic.MimeType
	if mime == "" || !strings.Contains(mime, "/") {
		mime = http.DetectContentType(pic.Picture)
	}

	artist := tag.GetTextFrame("TPE2").Text
	if artist == "" {
		artist = tag.Artist()
	}

	return &LocalArtwork{
		Data:     pic.Picture,
		MimeType: mime,
		Artist:   artist,
		Album:    tag.Album(),
	}, nil
}

// frontCover picks the front cover out of frames, falling back to the
// first non-empty picture.
func frontCover(frames []id3v2.Framer) (id3v2.PictureFrame, bool) {
	var (
		first id3v2.PictureFrame
		found bool
	)
	for _, f := range frames {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic, true
		}
		if !found {
			first, found = pic, true
		}
	}
	return first, found
}
