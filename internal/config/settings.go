package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/artworker/internal/itunes"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/palette"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

// ErrInvalidSettings is returned by Validate and Load for unusable values.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputPath     string `json:"output_path"`
	FileNameFormat string `json:"file_name_format"`

	// Catalog settings
	Country               string `json:"country"`
	AlbumResultLimit      int    `json:"album_result_limit"`
	ArtworkSize           int    `json:"artwork_size"`
	SearchAPIURL          string `json:"search_api_url"`
	LookupAPIURL          string `json:"lookup_api_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	UserAgent             string `json:"user_agent"`

	// Template settings
	TemplateName string `json:"template_name"` // built-in template, used when TemplatePath is empty
	TemplatePath string `json:"template_path"`
	FontsPath    string `json:"fonts_path"`

	// Palette settings
	PaletteSize          int  `json:"palette_size"`
	PaletteResize        bool `json:"palette_resize"`
	PaletteResizeDim     int  `json:"palette_resize_dim"`
	PaletteMaxIterations int  `json:"palette_max_iterations"`
	PaletteFill          bool `json:"palette_fill"`

	// Embedded artwork settings
	EmbedArtworkResize  bool `json:"embed_artwork_resize"`
	EmbedArtworkMaxSize int  `json:"embed_artwork_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputPath:     filepath.Join(homeDir, "Pictures", "Artworker"),
		FileNameFormat: "{artist} - {album}",

		Country:               itunes.DefaultCountry,
		AlbumResultLimit:      itunes.DefaultResultLimit,
		ArtworkSize:           itunes.DefaultArtworkSize,
		SearchAPIURL:          itunes.DefaultSearchURL,
		LookupAPIURL:          itunes.DefaultLookupURL,
		RequestTimeoutSeconds: 30,
		UserAgent:             "artworker",

		TemplateName: "classic",

		PaletteSize:          5,
		PaletteResize:        true,
		PaletteResizeDim:     256,
		PaletteMaxIterations: 300,
		PaletteFill:          true,

		EmbedArtworkResize:  true,
		EmbedArtworkMaxSize: 1000,
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "artworker", "settings.json")
}

// Load reads settings from a JSON file on fs. Missing files yield the
// defaults; keys absent from the file keep their default value.
func Load(fs afero.Fs, path string) (*Settings, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file on fs.
func (s *Settings) Save(fs afero.Fs, path string) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, 0644)
}

// Validate checks that every setting is usable and normalizes Country to
// its canonical upper-case form.
func (s *Settings) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	region, err := language.ParseRegion(s.Country)
	if err != nil || !region.IsCountry() {
		add("country %q is not an ISO 3166-1 country code", s.Country)
	} else {
		s.Country = region.String()
	}

	if strings.TrimSpace(s.OutputPath) == "" {
		add("output_path is empty")
	}
	if !strings.Contains(s.FileNameFormat, "{artist}") && !strings.Contains(s.FileNameFormat, "{album}") {
		add("file_name_format must contain {artist} or {album}")
	}
	if s.AlbumResultLimit < 1 || s.AlbumResultLimit > 200 {
		add("album_result_limit must be between 1 and 200")
	}
	if s.ArtworkSize < 0 {
		add("artwork_size must not be negative")
	}
	if s.RequestTimeoutSeconds < 0 {
		add("request_timeout_seconds must not be negative")
	}
	if s.TemplatePath == "" && s.TemplateName == "" {
		add("one of template_name and template_path is required")
	}
	if s.PaletteSize < 1 {
		add("palette_size must be at least 1")
	}
	if s.PaletteResize && s.PaletteResizeDim < 1 {
		add("palette_resize_dim must be positive")
	}
	if s.PaletteMaxIterations < 1 {
		add("palette_max_iterations must be positive")
	}
	if s.EmbedArtworkResize && s.EmbedArtworkMaxSize < 1 {
		add("embed_artwork_max_size must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// RequestTimeout returns the request timeout as a duration.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ToNameConfig converts settings to NameConfig.
func (s *Settings) ToNameConfig() *model.NameConfig {
	return &model.NameConfig{
		FileNameFormat: s.FileNameFormat,
	}
}

// ToPaletteOptions converts settings to palette extraction options.
func (s *Settings) ToPaletteOptions() palette.Options {
	return palette.Options{
		K:             s.PaletteSize,
		Resize:        s.PaletteResize,
		Size:          s.PaletteResizeDim,
		MaxIterations: s.PaletteMaxIterations,
	}
}

// ToCatalogConfig converts settings to the iTunes catalog config.
func (s *Settings) ToCatalogConfig() itunes.Config {
	return itunes.Config{
		SearchURL:   s.SearchAPIURL,
		LookupURL:   s.LookupAPIURL,
		ResultLimit: s.AlbumResultLimit,
		ArtworkSize: s.ArtworkSize,
	}
}
