package model

import (
	"fmt"
	"time"
)

// Track is a single track of an album as listed by the catalog.
//
// Tracks keep the order the catalog returned them in; they are never
// re-sorted.
type Track struct {
	// ID is the catalog track id.
	ID int64

	// Number is the track number on its disc (1-indexed).
	Number int

	// DiscNumber is the disc the track belongs to, 0 if unknown.
	DiscNumber int

	// Title is the track title.
	Title string

	// Duration is the track length.
	Duration time.Duration
}

// NewTrack creates a Track from catalog values. Durations are reported by
// the catalog in milliseconds.
func NewTrack(id int64, number int, title string, millis int64) *Track {
	return &Track{
		ID:       id,
		Number:   number,
		Title:    title,
		Duration: time.Duration(millis) * time.Millisecond,
	}
}

// MinutesSeconds splits the track duration into whole minutes and seconds.
func (t *Track) MinutesSeconds() (minutes, seconds int) {
	return MinutesSeconds(t.Duration)
}

// FormattedDuration returns the duration as zero padded "MM:SS".
func (t *Track) FormattedDuration() string {
	return FormatDuration(t.Duration)
}

// TotalDuration sums the durations of tracks.
func TotalDuration(tracks []*Track) time.Duration {
	var total time.Duration
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}

// MinutesSeconds splits d into whole minutes and the remaining whole
// seconds. Fractions of a second are dropped.
func MinutesSeconds(d time.Duration) (minutes, seconds int) {
	total := int(d / time.Second)
	return total / 60, total % 60
}

// FormatDuration formats d as "MM:SS", padding both parts to two digits.
// Albums longer than 99 minutes get a wider minute part.
//
// Example:
//
//	FormatDuration(600 * time.Second) // "10:00"
//	FormatDuration(61 * time.Second)  // "01:01"
func FormatDuration(d time.Duration) string {
	m, s := MinutesSeconds(d)
	return fmt.Sprintf("%02d:%02d", m, s)
}
