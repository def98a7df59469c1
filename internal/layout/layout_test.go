package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer(Config{
		Fonts: map[string]string{
			"regular": "go-regular",
			"bold":    "go-bold",
		},
		Kerning: map[string]float64{
			"bold": 1.1,
		},
		Bounds: Bounds{DocWidth: 1000, XPadding: 50},
	}, NewResolver(afero.NewMemMapFs(), "fonts"))
	if err != nil {
		t.Fatalf("NewMeasurer failed: %v", err)
	}
	return m
}

func TestBounds_Available(t *testing.T) {
	b := Bounds{DocWidth: 1080, XPadding: 60}
	if got := b.Available(); got != 960 {
		t.Errorf("Available() = %v, want 960", got)
	}
}

func TestMeasurer_OverflowMonotonic(t *testing.T) {
	m := newTestMeasurer(t)
	text := "THE DARK SIDE OF THE MOON"

	small, err := m.Overflows(text, "regular", 8)
	if err != nil {
		t.Fatalf("Overflows failed: %v", err)
	}
	if small {
		t.Error("text at size 8 should fit in 900px")
	}

	large, err := m.Overflows(text, "regular", 400)
	if err != nil {
		t.Fatalf("Overflows failed: %v", err)
	}
	if !large {
		t.Error("text at size 400 should overflow 900px")
	}

	seenOverflow := false
	for size := 1; size <= 200; size++ {
		over, err := m.Overflows(text, "bold", size)
		if err != nil {
			t.Fatalf("Overflows(size=%d) failed: %v", size, err)
		}
		if seenOverflow && !over {
			t.Fatalf("overflow flipped back to false at size %d", size)
		}
		seenOverflow = seenOverflow || over
	}
	if !seenOverflow {
		t.Error("expected bold text to overflow somewhere below size 200")
	}
}

func TestMeasurer_KerningFactor(t *testing.T) {
	m, err := NewMeasurer(Config{
		Fonts:   map[string]string{"plain": "go-regular", "wide": "go-regular"},
		Kerning: map[string]float64{"wide": 2},
		Bounds:  Bounds{DocWidth: 1000},
	}, nil)
	if err != nil {
		t.Fatalf("NewMeasurer failed: %v", err)
	}

	plain, err := m.Width("Kerning", "plain", 40)
	if err != nil {
		t.Fatalf("Width failed: %v", err)
	}
	wide, err := m.Width("Kerning", "wide", 40)
	if err != nil {
		t.Fatalf("Width failed: %v", err)
	}
	if plain <= 0 {
		t.Fatalf("Width(plain) = %v, want > 0", plain)
	}
	// Both widths are rounded, so allow one pixel of slack.
	if diff := wide - 2*plain; diff < -2 || diff > 2 {
		t.Errorf("Width(wide) = %v, want about %v", wide, 2*plain)
	}
}

func TestMeasurer_Fit(t *testing.T) {
	m := newTestMeasurer(t)

	short := "SHORT"
	got, err := m.Fit(short, "regular", 40)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got != short {
		t.Errorf("Fit(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("VERY LONG TITLE ", 10)
	got, err = m.Fit(long, "bold", 60)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("Fit(long) = %q, want ellipsis suffix", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, Ellipsis), " ") {
		t.Errorf("Fit(long) = %q, want no space before ellipsis", got)
	}
	if over, _ := m.Overflows(got, "bold", 60); over {
		t.Errorf("Fit(long) = %q still overflows", got)
	}
	if !strings.HasPrefix(long, strings.TrimSuffix(got, Ellipsis)) {
		t.Errorf("Fit(long) = %q is not a prefix of the input", got)
	}

	got, err = m.Fit("W", "regular", 5000)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got != "" {
		t.Errorf("Fit at absurd size = %q, want empty", got)
	}
}

func TestMeasurer_FitLine(t *testing.T) {
	m := newTestMeasurer(t)
	long := strings.Repeat("VERY LONG TITLE ", 10)

	tests := []struct {
		name           string
		prefix, suffix string
	}{
		{"bare", "", ""},
		{"prefix", "10. ", ""},
		{"prefix and suffix", "10. ", " (04:33)"},
	}

	prev := len(long) + 1
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FitLine(tt.prefix, long, tt.suffix, "regular", 40)
			if err != nil {
				t.Fatalf("FitLine failed: %v", err)
			}
			if over, _ := m.Overflows(tt.prefix+got+tt.suffix, "regular", 40); over {
				t.Errorf("line %q still overflows", tt.prefix+got+tt.suffix)
			}
			if !strings.HasSuffix(got, Ellipsis) {
				t.Errorf("FitLine() = %q, want ellipsis suffix", got)
			}
			if len(got) >= prev {
				t.Errorf("FitLine() = %q, want shorter than without %q", got, tt.prefix+tt.suffix)
			}
			prev = len(got)
		})
	}

	got, err := m.FitLine("1. ", "Intro", " (01:00)", "regular", 40)
	if err != nil || got != "Intro" {
		t.Errorf("FitLine(short) = %q, %v; want unchanged", got, err)
	}
}

func TestMeasurer_UnknownWeight(t *testing.T) {
	m := newTestMeasurer(t)
	if _, err := m.Overflows("text", "black", 12); !errors.Is(err, ErrFontResolution) {
		t.Errorf("Overflows(unknown weight) error = %v, want ErrFontResolution", err)
	}
}

func TestNewMeasurer_FontResolution(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "fonts/Custom.ttf", goregular.TTF, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := afero.WriteFile(fs, "fonts/broken.ttf", []byte("not a font"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name    string
		font    string
		wantErr bool
	}{
		{"builtin", "go-medium", false},
		{"file without extension", "Custom", false},
		{"file with extension", "Custom.ttf", false},
		{"missing file", "Missing", true},
		{"corrupt file", "broken.ttf", true},
		{"empty name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMeasurer(Config{
				Fonts:  map[string]string{"regular": tt.font},
				Bounds: Bounds{DocWidth: 100},
			}, NewResolver(fs, "fonts"))
			if tt.wantErr {
				if !errors.Is(err, ErrFontResolution) {
					t.Errorf("error = %v, want ErrFontResolution", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolver_Cache(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "fonts/Custom.ttf", goregular.TTF, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r := NewResolver(fs, "fonts")

	first, err := r.Resolve("Custom")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if err := fs.Remove("fonts/Custom.ttf"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	second, err := r.Resolve("Custom")
	if err != nil {
		t.Fatalf("Resolve after removal failed: %v", err)
	}
	if first != second {
		t.Errorf("Resolve returned a new font, want the parsed one")
	}

	if _, err := r.Resolve("Late"); !errors.Is(err, ErrFontResolution) {
		t.Fatalf("Resolve(missing) error = %v, want ErrFontResolution", err)
	}
	if err := afero.WriteFile(fs, "fonts/Late.ttf", goregular.TTF, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := r.Resolve("Late"); err != nil {
		t.Errorf("Resolve after adding the file: %v", err)
	}

	var nilResolver *Resolver
	if _, err := nilResolver.Resolve("go-bold"); err != nil {
		t.Errorf("nil Resolver cannot resolve builtin: %v", err)
	}
}

func TestNewMeasurer_InvalidKerning(t *testing.T) {
	_, err := NewMeasurer(Config{
		Fonts:   map[string]string{"regular": "go-regular"},
		Kerning: map[string]float64{"regular": 0},
	}, nil)
	if err == nil {
		t.Error("expected error for zero kerning factor")
	}
}
