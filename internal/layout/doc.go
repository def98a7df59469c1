// Package layout predicts how wide text renders and decides whether it fits
// the horizontal budget of a card.
//
// A Measurer is built once per template from its font weight mapping,
// kerning factors and document bounds. Font resources are resolved eagerly,
// so a malformed template fails when the Measurer is created rather than in
// the middle of a render:
//
//	m, err := layout.NewMeasurer(layout.Config{
//	    Fonts:   map[string]string{"bold": "go-bold"},
//	    Kerning: map[string]float64{"bold": 1.08},
//	    Bounds:  layout.Bounds{DocWidth: 1080, XPadding: 60},
//	}, layout.NewResolver(afero.NewOsFs(), "templates"))
//
//	over, _ := m.Overflows("A VERY LONG ALBUM TITLE", "bold", 72)
//	fitted, _ := m.Fit("A VERY LONG ALBUM TITLE", "bold", 72) // "A VERY LONG AL…"
//
// Overflows is a pure predicate. Fit applies the truncate-with-ellipsis
// policy used by the card renderer.
package layout
