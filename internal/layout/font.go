package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// ErrFontResolution is returned when a font name cannot be resolved to a
// loadable font. It signals a malformed template, not a per-render failure.
var ErrFontResolution = errors.New("cannot resolve font")

// builtinFonts are the Go font family faces, always available.
var builtinFonts = map[string][]byte{
	"go-regular":       goregular.TTF,
	"go-italic":        goitalic.TTF,
	"go-medium":        gomedium.TTF,
	"go-medium-italic": gomediumitalic.TTF,
	"go-bold":          gobold.TTF,
	"go-bold-italic":   gobolditalic.TTF,
	"go-mono":          gomono.TTF,
	"go-mono-bold":     gomonobold.TTF,
	"go-smallcaps":     gosmallcaps.TTF,
}

// BuiltinFonts lists the names of the embedded fonts in sorted order.
func BuiltinFonts() []string {
	names := make([]string, 0, len(builtinFonts))
	for name := range builtinFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver loads fonts by name. Names of the embedded Go fonts resolve
// without touching the file system; any other name is read as a TrueType
// or OpenType file relative to Dir.
//
// Parsed fonts are kept for the lifetime of the Resolver, so measurers
// built for every render share them. A Resolver is safe for concurrent use.
type Resolver struct {
	fs  afero.Fs
	dir string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// NewResolver creates a Resolver reading font files from dir on fs.
func NewResolver(fs afero.Fs, dir string) *Resolver {
	return &Resolver{fs: fs, dir: dir, fonts: make(map[string]*opentype.Font)}
}

// Resolve returns the parsed font for name. Failures are not cached, so a
// font file added later is picked up.
func (r *Resolver) Resolve(name string) (*opentype.Font, error) {
	if r == nil {
		return parse(nil, "", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[name]; ok {
		return f, nil
	}
	f, err := parse(r.fs, r.dir, name)
	if err != nil {
		return nil, err
	}
	if r.fonts == nil {
		r.fonts = make(map[string]*opentype.Font)
	}
	r.fonts[name] = f
	return f, nil
}

// parse loads and parses one font. fs may be nil, which limits name to the
// embedded fonts.
func parse(fs afero.Fs, dir, name string) (*opentype.Font, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty font name", ErrFontResolution)
	}

	data, ok := builtinFonts[name]
	if !ok {
		if fs == nil {
			return nil, fmt.Errorf("%w: %q is not a builtin font", ErrFontResolution, name)
		}
		path := name
		if filepath.Ext(path) == "" {
			path += ".ttf"
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		var err error
		data, err = afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrFontResolution, name, err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFontResolution, name, err)
	}
	return f, nil
}
