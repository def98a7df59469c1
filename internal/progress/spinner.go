package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3")).Render("✔")
	failureMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("✗")
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
)

// Spinner animates a line of text on w until it is stopped, then replaces
// the animation with a success or failure mark.
//
// The spinner goroutine is the only writer to w between Start and Stop.
//
// Example:
//
//	sp := progress.Start(os.Stderr, "Fetching albums")
//	albums, err := catalog.SearchAlbums(ctx, query, "US")
//	sp.Stop(err == nil)
type Spinner struct {
	w      io.Writer
	text   string
	frames spinner.Spinner
	status *Status
	exited chan struct{}
}

// Start launches a spinner writing to w.
func Start(w io.Writer, text string) *Spinner {
	s := &Spinner{
		w:      w,
		text:   text,
		frames: spinner.Line,
		status: NewStatus(),
		exited: make(chan struct{}),
	}
	go s.run()
	return s
}

// Stop finishes the spinner and waits until its final line is written.
func (s *Spinner) Stop(success bool) {
	s.status.Finish(success)
	<-s.exited
}

// Status returns the cell the spinner watches.
func (s *Spinner) Status() *Status {
	return s.status
}

func (s *Spinner) run() {
	defer close(s.exited)

	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	frame := 0
	for {
		fmt.Fprintf(s.w, "\r%s %s", frameStyle.Render(s.frames.Frames[frame]), s.text)

		select {
		case <-s.status.Done():
			mark := failureMark
			if s.status.Outcome() == Succeeded {
				mark = successMark
			}
			fmt.Fprintf(s.w, "\r%s %s\n", mark, s.text)
			return
		case <-ticker.C:
			frame = (frame + 1) % len(s.frames.Frames)
		}
	}
}

// Track runs fn behind a spinner and stops it, marked by whether fn
// returned an error, before handing back fn's results.
func Track[T any](w io.Writer, text string, fn func() (T, error)) (T, error) {
	s := Start(w, text)
	v, err := fn()
	s.Stop(err == nil)
	return v, err
}
