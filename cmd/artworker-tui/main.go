package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/handiism/artworker/internal/app"
	"github.com/handiism/artworker/internal/config"
	"github.com/handiism/artworker/internal/pipeline"
	"github.com/handiism/artworker/internal/tui"
	"github.com/spf13/afero"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file")
	logFlag := flag.String("log", "", "Write debug logs to this file")
	flag.Parse()

	fs := afero.NewOsFs()

	settings, err := config.Load(fs, *configFlag)
	if err != nil {
		fatal(err)
	}

	tpl, err := app.LoadTemplate(fs, settings)
	if err != nil {
		fatal(err)
	}

	// The terminal belongs to the TUI; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err = tui.Run(settings, tpl, func(onProgress func(pipeline.ProgressEvent)) *pipeline.Manager {
		return app.NewManager(fs, settings, logger, onProgress)
	})
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
