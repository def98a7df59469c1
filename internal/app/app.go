// Package app wires settings into the components shared by the artworker
// commands.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/handiism/artworker/internal/config"
	apphttp "github.com/handiism/artworker/internal/http"
	ioutils "github.com/handiism/artworker/internal/io"
	"github.com/handiism/artworker/internal/itunes"
	"github.com/handiism/artworker/internal/layout"
	"github.com/handiism/artworker/internal/pipeline"
	"github.com/handiism/artworker/internal/template"
	"github.com/spf13/afero"
)

// LoadTemplate returns the template selected by s: the file at
// TemplatePath when set, otherwise the built-in TemplateName. The template
// fonts are resolved once so a broken font setup fails before any request.
func LoadTemplate(fs afero.Fs, s *config.Settings) (*template.Template, error) {
	var (
		tpl *template.Template
		err error
	)
	if s.TemplatePath != "" {
		tpl, err = template.LoadFile(fs, s.TemplatePath)
	} else {
		tpl, err = template.Builtin(s.TemplateName)
	}
	if err != nil {
		return nil, err
	}

	if _, err := tpl.Measurer(FontResolver(fs, s)); err != nil {
		return nil, fmt.Errorf("template %s: %w", tpl.Name, err)
	}
	return tpl, nil
}

// FontResolver returns a resolver looking font files up in FontsPath, or
// next to the template file when FontsPath is empty.
func FontResolver(fs afero.Fs, s *config.Settings) *layout.Resolver {
	dir := s.FontsPath
	if dir == "" && s.TemplatePath != "" {
		dir = filepath.Dir(s.TemplatePath)
	}
	return layout.NewResolver(fs, dir)
}

// NewManager builds a pipeline manager talking to the iTunes catalog and
// writing cards to OutputPath on fs.
func NewManager(fs afero.Fs, s *config.Settings, logger *slog.Logger, onProgress func(pipeline.ProgressEvent)) *pipeline.Manager {
	client := apphttp.NewClient(
		apphttp.WithTimeout(s.RequestTimeout()),
		apphttp.WithUserAgent(s.UserAgent),
	)
	catalog := itunes.NewCatalog(client, s.ToCatalogConfig())
	store := ioutils.NewStore(fs, s.OutputPath)

	opts := pipeline.Options{
		Country:     s.Country,
		Palette:     s.ToPaletteOptions(),
		FillPalette: s.PaletteFill,
		Names:       s.ToNameConfig(),
	}
	if s.EmbedArtworkResize {
		opts.EmbedMaxSize = s.EmbedArtworkMaxSize
	}

	return pipeline.NewManager(catalog, catalog, store, opts, onProgress,
		pipeline.WithLogger(logger),
		pipeline.WithFontResolver(FontResolver(fs, s)),
	)
}
