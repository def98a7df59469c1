package layout

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Ellipsis is appended to text truncated by Fit.
const Ellipsis = "…"

// Bounds is the horizontal layout budget of a document.
type Bounds struct {
	// DocWidth is the document width in pixels.
	DocWidth float64

	// XPadding is the horizontal padding applied on both sides.
	XPadding float64
}

// Available returns the width left for text once padding is removed.
func (b Bounds) Available() float64 {
	return b.DocWidth - 2*b.XPadding
}

// Config describes the fonts a Measurer can measure with.
type Config struct {
	// Fonts maps a font weight such as "bold" to a font name.
	Fonts map[string]string

	// Kerning maps a font weight to an empirical width correction factor
	// compensating for the renderer kerning differently than raw advances.
	// Weights without an entry use a factor of 1.
	Kerning map[string]float64

	Bounds Bounds
}

// Measurer measures rendered text widths against the layout bounds.
// It is safe for concurrent use; faces are created per call.
type Measurer struct {
	fonts   map[string]*opentype.Font
	kerning map[string]float64
	bounds  Bounds
}

// NewMeasurer resolves every font in cfg and returns a Measurer. Any font
// that cannot be resolved fails with ErrFontResolution.
func NewMeasurer(cfg Config, r *Resolver) (*Measurer, error) {
	m := &Measurer{
		fonts:   make(map[string]*opentype.Font, len(cfg.Fonts)),
		kerning: make(map[string]float64, len(cfg.Kerning)),
		bounds:  cfg.Bounds,
	}

	weights := make([]string, 0, len(cfg.Fonts))
	for weight := range cfg.Fonts {
		weights = append(weights, weight)
	}
	sort.Strings(weights)

	for _, weight := range weights {
		f, err := r.Resolve(cfg.Fonts[weight])
		if err != nil {
			return nil, fmt.Errorf("font weight %q: %w", weight, err)
		}
		m.fonts[weight] = f
	}

	for weight, factor := range cfg.Kerning {
		if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
			return nil, fmt.Errorf("kerning factor for weight %q must be positive, got %v", weight, factor)
		}
		m.kerning[weight] = factor
	}

	return m, nil
}

// Bounds returns the layout bounds the Measurer compares against.
func (m *Measurer) Bounds() Bounds {
	return m.bounds
}

// Width returns the rendered width of text in pixels for the given weight
// and size, corrected by the weight's kerning factor and rounded half to even.
func (m *Measurer) Width(text, weight string, size int) (float64, error) {
	f, ok := m.fonts[weight]
	if !ok {
		return 0, fmt.Errorf("%w: no font mapped to weight %q", ErrFontResolution, weight)
	}
	if size <= 0 {
		return 0, fmt.Errorf("font size must be positive, got %d", size)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: weight %q: %v", ErrFontResolution, weight, err)
	}
	defer face.Close()

	advance := font.MeasureString(face, text)
	width := float64(advance) / 64 * m.factor(weight)
	return math.RoundToEven(width), nil
}

// Overflows reports whether text at the given weight and size is wider
// than the available width. It never modifies text.
func (m *Measurer) Overflows(text, weight string, size int) (bool, error) {
	width, err := m.Width(text, weight, size)
	if err != nil {
		return false, err
	}
	return m.bounds.Available() < width, nil
}

// Fit returns text unchanged when it fits. Otherwise it drops trailing
// characters and appends Ellipsis, keeping the longest prefix that fits.
// If not even the ellipsis fits, Fit returns the empty string.
func (m *Measurer) Fit(text, weight string, size int) (string, error) {
	return m.FitLine("", text, "", weight, size)
}

// FitLine is Fit for text rendered on one line between a fixed prefix and
// suffix, such as a track number before a title. It shortens only text, so
// that prefix, text and suffix together fit the available width.
func (m *Measurer) FitLine(prefix, text, suffix, weight string, size int) (string, error) {
	over, err := m.Overflows(prefix+text+suffix, weight, size)
	if err != nil || !over {
		return text, err
	}

	runes := []rune(text)
	// Width grows with prefix length, so the longest fitting prefix can be
	// found by binary search. lo always fits, hi never does.
	lo, hi := -1, len(runes)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		over, err := m.Overflows(prefix+trimmed(runes[:mid])+suffix, weight, size)
		if err != nil {
			return "", err
		}
		if over {
			hi = mid
		} else {
			lo = mid
		}
	}
	if lo < 0 {
		return "", nil
	}
	return trimmed(runes[:lo]), nil
}

func (m *Measurer) factor(weight string) float64 {
	if f, ok := m.kerning[weight]; ok {
		return f
	}
	return 1
}

// trimmed joins a prefix with the ellipsis, dropping trailing spaces so the
// ellipsis hugs the last word.
func trimmed(prefix []rune) string {
	end := len(prefix)
	for end > 0 && prefix[end-1] == ' ' {
		end--
	}
	return string(prefix[:end]) + Ellipsis
}
