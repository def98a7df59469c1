package palette

import (
	"image/color"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// FromColor converts any color.Color to an 8-bit RGB Color. Translucent
// colors are un-premultiplied first, so alpha is dropped without darkening.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// Colorful returns c as a go-colorful color with channels in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the color as "#rrggbb" in lower case.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Luminance returns the Rec. 709 relative luminance of c, in [0,1].
func (c Color) Luminance() float64 {
	r, g, b := c.Colorful().LinearRgb()
	y := 0.2126*r + 0.7152*g + 0.0722*b
	return min(1, max(0, y))
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Palette is an ordered sequence of colors. Index matters: templates bind
// the Nth entry to the Nth color blob position.
type Palette []Color

// Hex returns the hex representation of every entry, in order.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// String implements fmt.Stringer.
func (p Palette) String() string {
	return "[" + strings.Join(p.Hex(), " ") + "]"
}

// Fill returns a palette of exactly k entries, repeating p from the start
// when it is shorter than k and truncating it when it is longer.
// An empty palette stays empty.
func (p Palette) Fill(k int) Palette {
	if len(p) == 0 || k <= 0 {
		return Palette{}
	}
	out := make(Palette, k)
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

// SortByLuminance orders p from darkest to brightest. Ties are broken by hex
// value so the order never depends on the input permutation.
func SortByLuminance(p Palette) {
	slices.SortStableFunc(p, func(a, b Color) int {
		la, lb := a.Luminance(), b.Luminance()
		if la < lb {
			return -1
		}
		if la > lb {
			return 1
		}
		return strings.Compare(a.Hex(), b.Hex())
	})
}
