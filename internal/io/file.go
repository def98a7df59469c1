package ioutils

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)
	slugHyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slug converts free text into a file system and URL safe name.
//
// The following transformations are applied:
//   - Unicode is decomposed (NFKD) and everything outside ASCII is dropped,
//     so accented letters lose their accents
//   - The result is lower-cased, trimmed, and spaces become hyphens
//   - Any character other than a-z, 0-9 and hyphen is removed
//   - Runs of hyphens collapse to a single hyphen
//
// Example:
//
//	Slug("Ärtist - Café Müller") // Returns "artist-cafe-muller"
//	Slug("AC/DC - Back In Black") // Returns "acdc-back-in-black"
func Slug(raw string) string {
	ascii := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	s, _, err := transform.String(ascii, raw)
	if err != nil {
		s = raw
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugHyphenRuns.ReplaceAllString(s, "-")

	return s
}

// Store persists documents below a base directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a Store writing below dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the base directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data to name inside the store directory and returns the
// full path. The directory is created if needed. Data is written to a
// temporary file first and renamed into place, so the destination either
// holds the complete document or is left untouched.
//
// Example:
//
//	path, err := store.Save(ctx, "artist-cafe-muller.svg", svg)
//	// path = "output/artist-cafe-muller.svg"
func (s *Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	if err := EnsureDir(s.fs, s.dir); err != nil {
		return "", err
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return "", err
	}

	return path, nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, 0755)
}
