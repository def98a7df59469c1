package template

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	ioutils "github.com/handiism/artworker/internal/io"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/palette"
)

// Fitter shortens text so that, together with the prefix and suffix it
// shares a line with, it fits the layout width. *layout.Measurer
// implements it.
type Fitter interface {
	FitLine(prefix, text, suffix, weight string, size int) (string, error)
}

// lineMarker stands in for a fitted field while its line is extracted.
const lineMarker = "\x00"

type bindOptions struct {
	fitter Fitter
}

// BindOption configures Bind.
type BindOption func(*bindOptions)

// WithFitter truncates the fields listed in the template's text_fitting
// section using f. Without a fitter text is bound as is.
func WithFitter(f Fitter) BindOption {
	return func(o *bindOptions) {
		o.fitter = f
	}
}

// Bind renders album, tracks and p into t and returns the SVG document.
//
// Binding is all-or-nothing: on error no document is returned. Tracks and
// colors beyond what the template can place are dropped silently.
func Bind(t *Template, album *model.Album, tracks []*model.Track, p palette.Palette, opts ...BindOption) (string, error) {
	var o bindOptions
	for _, opt := range opts {
		opt(&o)
	}

	if t == nil || t.formats == nil {
		return "", fmt.Errorf("%w: template not loaded", ErrBinding)
	}
	if album == nil {
		return "", fmt.Errorf("%w: no album", ErrBinding)
	}

	values, err := t.albumValues(album, &o)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, slot := range slotOrder {
		if i > 0 {
			sb.WriteByte('\n')
		}

		switch slot {
		case SlotTracklistItem:
			err = t.bindTracks(&sb, values, tracks, &o)
		case SlotColorBlobItem:
			err = t.bindBlobs(&sb, values, p)
		default:
			err = t.formats[slot].render(&sb, values)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrBinding, slot, err)
		}
	}

	return sb.String(), nil
}

func (t *Template) albumValues(album *model.Album, o *bindOptions) (map[string]string, error) {
	used := t.usedFields()

	if album.Title == "" {
		return nil, fmt.Errorf("%w: album has no title", ErrBinding)
	}
	if album.Artist == "" {
		return nil, fmt.Errorf("%w: album %q has no artist", ErrBinding, album.Title)
	}
	if used[FieldArtwork] && len(album.Artwork) == 0 {
		return nil, fmt.Errorf("%w: album %q has no artwork", ErrBinding, album.Title)
	}
	if used[FieldReleaseYear] && album.ReleaseYear() == "" {
		return nil, fmt.Errorf("%w: album %q has no release date", ErrBinding, album.Title)
	}

	values := map[string]string{
		FieldReleaseYear: html.EscapeString(album.ReleaseYear()),
		FieldLength:      album.FormattedLength(),
	}
	if used[FieldArtwork] {
		values[FieldArtwork] = ioutils.DataURI(album.Artwork)
	}

	header := map[string]string{
		FieldTitle:     strings.ToUpper(album.Title),
		FieldArtist:    strings.ToUpper(album.Artist),
		FieldCopyright: strings.ToUpper(album.Copyright),
	}
	for field, text := range header {
		values[field] = html.EscapeString(text)
	}

	// Header fields are fitted in the fragment of the same name.
	fitted := make(map[string]string, len(header))
	for field, text := range header {
		text, err := t.fit(field, field, text, values, o)
		if err != nil {
			return nil, err
		}
		fitted[field] = html.EscapeString(text)
	}
	for field, text := range fitted {
		values[field] = text
	}

	return values, nil
}

func (t *Template) bindTracks(sb *strings.Builder, album map[string]string, tracks []*model.Track, o *bindOptions) error {
	n := min(len(tracks), t.TrackRows())
	needTitle := usesField(t.formats[SlotTracklistItem], FieldTrackTitle)

	for i := range n {
		track := tracks[i]
		if needTitle && track.Title == "" {
			return fmt.Errorf("track %d has no title", i+1)
		}

		c := t.TracklistItemCoordinates[i]
		values := row(album, map[string]string{
			FieldTrackX:      string(c.X),
			FieldTrackY:      string(c.Y),
			FieldTrackAnchor: c.TextAnchor,
			FieldTrackTitle:  html.EscapeString(track.Title),
			FieldTrackNumber: strconv.Itoa(track.Number),
			FieldTrackLength: track.FormattedDuration(),
		})

		title, err := t.fit(SlotTracklistItem, FieldTrackTitle, track.Title, values, o)
		if err != nil {
			return err
		}
		values[FieldTrackTitle] = html.EscapeString(title)

		if i > 0 {
			sb.WriteByte('\n')
		}
		if err := t.formats[SlotTracklistItem].render(sb, values); err != nil {
			return err
		}
	}

	return nil
}

func (t *Template) bindBlobs(sb *strings.Builder, album map[string]string, p palette.Palette) error {
	n := min(len(p), t.ColorBlobs())

	for i := range n {
		c := t.ColorBlobItemCoordinates[i]
		values := row(album, map[string]string{
			FieldBlobX:     string(c.X),
			FieldBlobY:     string(c.Y),
			FieldBlobColor: p[i].Hex(),
			FieldBlobIndex: strconv.Itoa(i),
		})

		if i > 0 {
			sb.WriteByte('\n')
		}
		if err := t.formats[SlotColorBlobItem].render(sb, values); err != nil {
			return err
		}
	}

	return nil
}

// fit applies the template's text fitting for field, if any. The text
// sharing the field's line in slot, rendered from values, is kept whole.
func (t *Template) fit(slot, field, text string, values map[string]string, o *bindOptions) (string, error) {
	style, ok := t.TextFitting[field]
	if !ok || o.fitter == nil {
		return text, nil
	}

	prefix, suffix := t.line(slot, field, values)
	fitted, err := o.fitter.FitLine(prefix, text, suffix, style.Weight, style.Size)
	if err != nil {
		return "", fmt.Errorf("%w: fitting %s: %w", ErrBinding, field, err)
	}
	return fitted, nil
}

// line returns the visible text around field in slot: the text node holding
// the field, split at the field. Markup and other text nodes are ignored.
func (t *Template) line(slot, field string, values map[string]string) (prefix, suffix string) {
	var sb strings.Builder
	if err := t.formats[slot].render(&sb, row(values, map[string]string{field: lineMarker})); err != nil {
		return "", ""
	}

	before, after, ok := strings.Cut(sb.String(), lineMarker)
	if !ok {
		return "", ""
	}
	if i := strings.LastIndexByte(before, '>'); i >= 0 {
		before = before[i+1:]
	}
	if i := strings.IndexByte(after, '<'); i >= 0 {
		after = after[:i]
	}
	return html.UnescapeString(before), html.UnescapeString(after)
}

func (t *Template) usedFields() map[string]bool {
	used := make(map[string]bool)
	for _, f := range t.formats {
		for _, name := range f.fields() {
			used[name] = true
		}
	}
	return used
}

// row merges album level values with the values of one repeated item.
func row(album, item map[string]string) map[string]string {
	values := make(map[string]string, len(album)+len(item))
	for k, v := range album {
		values[k] = v
	}
	for k, v := range item {
		values[k] = v
	}
	return values
}
