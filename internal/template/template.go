package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/handiism/artworker/internal/layout"
	"github.com/spf13/afero"
)

// ErrBinding is returned when a template is malformed or when album data
// lacks a field the template requires.
var ErrBinding = errors.New("template binding failed")

// Fragment names, in the order they appear in a rendered document.
const (
	SlotFileWrapperOpen   = "file_wrapper_open"
	SlotBackground        = "background"
	SlotAlbumArtwork      = "album_artwork"
	SlotAlbumTitle        = "album_title"
	SlotAlbumArtist       = "album_artist"
	SlotAlbumCopyright    = "album_copyright"
	SlotHeaderSeparator   = "header_separator"
	SlotTracklistItem     = "tracklist_item"
	SlotAlbumReleaseLabel = "album_release_label"
	SlotAlbumReleaseYear  = "album_release_year"
	SlotAlbumLengthLabel  = "album_length_label"
	SlotAlbumLength       = "album_length"
	SlotColorBlobItem     = "color_blob_item"
	SlotFileWrapperClose  = "file_wrapper_close"
)

var slotOrder = []string{
	SlotFileWrapperOpen,
	SlotBackground,
	SlotAlbumArtwork,
	SlotAlbumTitle,
	SlotAlbumArtist,
	SlotAlbumCopyright,
	SlotHeaderSeparator,
	SlotTracklistItem,
	SlotAlbumReleaseLabel,
	SlotAlbumReleaseYear,
	SlotAlbumLengthLabel,
	SlotAlbumLength,
	SlotColorBlobItem,
	SlotFileWrapperClose,
}

// Fields available to every fragment.
const (
	FieldArtwork     = "artwork_b64"
	FieldTitle       = "album_title"
	FieldArtist      = "album_artist"
	FieldCopyright   = "album_copyright"
	FieldReleaseYear = "album_release_year"
	FieldLength      = "album_length"
)

// Fields available to the tracklist_item fragment only.
const (
	FieldTrackX      = "tracklist_item_x"
	FieldTrackY      = "tracklist_item_y"
	FieldTrackAnchor = "tracklist_item_text_anchor"
	FieldTrackTitle  = "track_title"
	FieldTrackNumber = "track_number"
	FieldTrackLength = "track_length"
)

// Fields available to the color_blob_item fragment only.
const (
	FieldBlobX     = "color_blob_item_x"
	FieldBlobY     = "color_blob_item_y"
	FieldBlobColor = "color_hex"
	FieldBlobIndex = "color_index"
)

var albumFields = []string{FieldArtwork, FieldTitle, FieldArtist, FieldCopyright, FieldReleaseYear, FieldLength}

// fittable lists the text fields a template may constrain to the layout width.
var fittable = []string{FieldTitle, FieldArtist, FieldCopyright, FieldTrackTitle}

func allowedFields(slot string) map[string]bool {
	allowed := make(map[string]bool)
	for _, f := range albumFields {
		allowed[f] = true
	}
	switch slot {
	case SlotTracklistItem:
		for _, f := range []string{FieldTrackX, FieldTrackY, FieldTrackAnchor, FieldTrackTitle, FieldTrackNumber, FieldTrackLength} {
			allowed[f] = true
		}
	case SlotColorBlobItem:
		for _, f := range []string{FieldBlobX, FieldBlobY, FieldBlobColor, FieldBlobIndex} {
			allowed[f] = true
		}
	}
	return allowed
}

// Value is a coordinate value. Templates may write it as a JSON number or
// string; the text is kept as written.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("coordinate must be a number or string: %s", data)
	}
	*v = Value(n.String())
	return nil
}

// Coordinate is one position of a repeated region.
type Coordinate struct {
	X          Value  `json:"x"`
	Y          Value  `json:"y"`
	TextAnchor string `json:"text_anchor,omitempty"`
}

// Limits caps how many repeated items are rendered.
type Limits struct {
	TracklistItemMax int `json:"tracklist_item_max"`
	ColorBlobItemMax int `json:"color_blob_item_max"`
}

// Dims holds the layout bounds of the document.
type Dims struct {
	DocWidth float64 `json:"doc_width"`
	XPadding float64 `json:"x_padding"`
}

// TextStyle is the font a text field is rendered with.
type TextStyle struct {
	Weight string `json:"weight"`
	Size   int    `json:"size"`
}

// Template is a parsed and validated card template. It is read-only once
// loaded and safe for concurrent use.
type Template struct {
	// Name identifies the template, usually its file name without extension.
	Name string `json:"-"`

	Placeholders             map[string]string  `json:"svg_placeholders"`
	TracklistItemCoordinates []Coordinate       `json:"tracklist_item_coordinates"`
	ColorBlobItemCoordinates []Coordinate       `json:"color_blob_item_coordinates"`
	Limits                   *Limits            `json:"limits"`
	FontWeightMapping        map[string]string  `json:"font_weight_mapping"`
	WeightKerningFactors     map[string]float64 `json:"weight_kerning_factors"`
	Dims                     *Dims              `json:"dims"`

	// TextFitting maps a text field to the font it renders with. Fields
	// listed here are truncated with an ellipsis when they would overflow
	// the document width.
	TextFitting map[string]TextStyle `json:"text_fitting,omitempty"`

	formats map[string]format
}

// Load reads, parses and validates a template from r.
func Load(name string, r io.Reader) (*Template, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	t := &Template{Name: name}
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBinding, name, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBinding, name, err)
	}

	return t, nil
}

// LoadFile loads a template from path on fs. The template is named after
// the file, without its extension.
func LoadFile(fs afero.Fs, path string) (*Template, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBinding, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(name, f)
}

func (t *Template) validate() error {
	if t.Placeholders == nil {
		return errors.New("missing svg_placeholders")
	}
	if t.TracklistItemCoordinates == nil {
		return errors.New("missing tracklist_item_coordinates")
	}
	if t.ColorBlobItemCoordinates == nil {
		return errors.New("missing color_blob_item_coordinates")
	}
	if t.Limits == nil {
		return errors.New("missing limits")
	}
	if t.FontWeightMapping == nil {
		return errors.New("missing font_weight_mapping")
	}
	if t.Dims == nil {
		return errors.New("missing dims")
	}

	var missing []string
	for _, slot := range slotOrder {
		if _, ok := t.Placeholders[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing svg_placeholders: %s", strings.Join(missing, ", "))
	}

	var unknown []string
	for slot := range t.Placeholders {
		if !slices.Contains(slotOrder, slot) {
			unknown = append(unknown, slot)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown svg_placeholders: %s", strings.Join(unknown, ", "))
	}

	t.formats = make(map[string]format, len(slotOrder))
	for _, slot := range slotOrder {
		f, err := parseFormat(t.Placeholders[slot], allowedFields(slot))
		if err != nil {
			return fmt.Errorf("svg_placeholders.%s: %v", slot, err)
		}
		t.formats[slot] = f
	}

	if t.Limits.TracklistItemMax < 0 || t.Limits.ColorBlobItemMax < 0 {
		return errors.New("limits must not be negative")
	}
	for i, c := range t.TracklistItemCoordinates {
		if c.X == "" || c.Y == "" {
			return fmt.Errorf("tracklist_item_coordinates[%d]: x and y are required", i)
		}
		if usesField(t.formats[SlotTracklistItem], FieldTrackAnchor) && c.TextAnchor == "" {
			return fmt.Errorf("tracklist_item_coordinates[%d]: text_anchor is required", i)
		}
	}
	for i, c := range t.ColorBlobItemCoordinates {
		if c.X == "" || c.Y == "" {
			return fmt.Errorf("color_blob_item_coordinates[%d]: x and y are required", i)
		}
	}

	if t.Dims.DocWidth <= 0 {
		return errors.New("dims.doc_width must be positive")
	}
	if t.Dims.XPadding < 0 || 2*t.Dims.XPadding >= t.Dims.DocWidth {
		return errors.New("dims.x_padding must leave room for text")
	}

	for weight, factor := range t.WeightKerningFactors {
		if factor <= 0 {
			return fmt.Errorf("weight_kerning_factors.%s must be positive", weight)
		}
	}
	for field, style := range t.TextFitting {
		if !slices.Contains(fittable, field) {
			return fmt.Errorf("text_fitting.%s: field cannot be fitted", field)
		}
		if _, ok := t.FontWeightMapping[style.Weight]; !ok {
			return fmt.Errorf("text_fitting.%s: weight %q missing from font_weight_mapping", field, style.Weight)
		}
		if style.Size <= 0 {
			return fmt.Errorf("text_fitting.%s: size must be positive", field)
		}
	}

	return nil
}

func usesField(f format, name string) bool {
	return slices.Contains(f.fields(), name)
}

// TrackRows returns how many track rows the template can render:
// the smaller of its limit and its coordinate table.
func (t *Template) TrackRows() int {
	return min(t.Limits.TracklistItemMax, len(t.TracklistItemCoordinates))
}

// ColorBlobs returns how many color blobs the template can render:
// the smaller of its limit and its coordinate table.
func (t *Template) ColorBlobs() int {
	return min(t.Limits.ColorBlobItemMax, len(t.ColorBlobItemCoordinates))
}

// LayoutConfig returns the measurer configuration described by the template.
func (t *Template) LayoutConfig() layout.Config {
	return layout.Config{
		Fonts:   t.FontWeightMapping,
		Kerning: t.WeightKerningFactors,
		Bounds: layout.Bounds{
			DocWidth: t.Dims.DocWidth,
			XPadding: t.Dims.XPadding,
		},
	}
}

// Measurer resolves the template fonts and returns a Measurer for them.
// Unresolvable fonts fail with layout.ErrFontResolution.
func (t *Template) Measurer(r *layout.Resolver) (*layout.Measurer, error) {
	return layout.NewMeasurer(t.LayoutConfig(), r)
}
