package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/handiism/artworker/internal/app"
	"github.com/handiism/artworker/internal/audio"
	"github.com/handiism/artworker/internal/config"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/pipeline"
	"github.com/handiism/artworker/internal/progress"
	"github.com/handiism/artworker/internal/template"
	"github.com/spf13/afero"
)

func main() {
	// Command line flags
	var (
		queryFlag    = flag.String("query", "", "Album search term, e.g. \"pink floyd animals\"")
		pickFlag     = flag.Int("pick", 0, "Render the Nth search result (1-based) instead of prompting")
		countryFlag  = flag.String("country", "", "Store country code (overrides config)")
		templateFlag = flag.String("template", "", "Built-in template name or path to a template JSON file")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		artworkFlag  = flag.String("artwork", "", "Use a local image or tagged MP3 as artwork")
		paletteFlag  = flag.Int("palette", 0, "Number of palette colors (overrides config)")
		exportFlag   = flag.String("export-template", "", "Print the JSON of a built-in template and exit")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *exportFlag != "" {
		src, err := template.BuiltinSource(*exportFlag)
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(src)
		return
	}

	fs := afero.NewOsFs()

	// Local artwork can also provide the search term
	var local *audio.LocalArtwork
	if *artworkFlag != "" {
		var err error
		local, err = audio.NewArtworkReader(fs).Read(*artworkFlag)
		if err != nil {
			fatal(fmt.Errorf("reading artwork: %w", err))
		}
	}

	query := strings.TrimSpace(*queryFlag)
	if query == "" && flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}
	if query == "" && local != nil {
		query = local.Query()
	}

	if query == "" {
		fmt.Println("Artworker - Album cards from the iTunes catalog")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  artworker -query <search> [options]")
		fmt.Println("  artworker <search> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: artworker-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(fs, configPath)
	if err != nil {
		fatal(fmt.Errorf("loading config: %w", err))
	}

	// Apply flags
	if *countryFlag != "" {
		settings.Country = *countryFlag
	}
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *paletteFlag > 0 {
		settings.PaletteSize = *paletteFlag
	}
	if *templateFlag != "" {
		if strings.HasSuffix(*templateFlag, ".json") {
			settings.TemplatePath = *templateFlag
		} else {
			settings.TemplatePath = ""
			settings.TemplateName = *templateFlag
		}
	}
	if err := settings.Validate(); err != nil {
		fatal(err)
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tpl, err := app.LoadTemplate(fs, settings)
	if err != nil {
		fatal(err)
	}

	// Spinners own the terminal in quiet mode, so events are only printed
	// when verbose. Warnings are held back until the run ends.
	var warnings []string
	manager := app.NewManager(fs, settings, logger, func(event pipeline.ProgressEvent) {
		switch {
		case event.Level == pipeline.LevelWarning:
			warnings = append(warnings, event.Message)
		case *verboseFlag && event.Level != pipeline.LevelError:
			fmt.Println(prefix(event.Level) + event.Message)
		}
	})

	fmt.Println("◐ Artworker")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	albums, err := step(*verboseFlag, fmt.Sprintf("Searching %q", query), func() ([]*model.Album, error) {
		return manager.Search(ctx, query)
	})
	if err != nil {
		exit(ctx, err)
	}

	album, err := pick(albums, *pickFlag, os.Stdin, os.Stdout)
	if err != nil {
		exit(ctx, err)
	}
	if local != nil {
		album.Artwork = local.Data
	}

	path, err := step(*verboseFlag, fmt.Sprintf("Rendering %s", album.Label()), func() (string, error) {
		return manager.Render(ctx, album, tpl)
	})
	for _, w := range warnings {
		fmt.Println(prefix(pipeline.LevelWarning) + w)
	}
	if err != nil {
		exit(ctx, err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Saved %s\n", path)
	fmt.Printf("   Length %s • Palette %s\n", album.FormattedLength(), album.Palette)
}

// step runs fn behind a spinner unless verbose output is printed instead.
func step[T any](verbose bool, text string, fn func() (T, error)) (T, error) {
	if verbose {
		return fn()
	}
	return progress.Track(os.Stdout, text, fn)
}

// pick returns the album chosen by the -pick flag, the only result, or the
// one selected at a numbered prompt.
func pick(albums []*model.Album, n int, in io.Reader, out io.Writer) (*model.Album, error) {
	if n > 0 {
		if n > len(albums) {
			return nil, fmt.Errorf("-pick %d: only %d albums found", n, len(albums))
		}
		return albums[n-1], nil
	}
	if len(albums) == 1 {
		return albums[0], nil
	}

	fmt.Fprintln(out)
	for i, a := range albums {
		fmt.Fprintf(out, "%3d) %s\n", i+1, a.Label())
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Select an album [1-%d]: ", len(albums))
		if !scanner.Scan() {
			return nil, errors.New("no album selected")
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && choice >= 1 && choice <= len(albums) {
			fmt.Fprintln(out)
			return albums[choice-1], nil
		}
	}
}

func prefix(level pipeline.ProgressLevel) string {
	switch level {
	case pipeline.LevelError:
		return "✗ "
	case pipeline.LevelWarning:
		return "! "
	case pipeline.LevelSuccess:
		return "✓ "
	case pipeline.LevelInfo:
		return "› "
	default:
		return "  "
	}
}

func exit(ctx context.Context, err error) {
	if ctx.Err() != nil {
		fmt.Println("\nCancelled.")
		os.Exit(130)
	}
	fatal(err)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
