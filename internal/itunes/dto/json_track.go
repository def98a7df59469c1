package dto

import (
	"github.com/handiism/artworker/internal/model"
)

// JSONTrack represents a song result of the lookup API.
type JSONTrack struct {
	WrapperType     string `json:"wrapperType"`
	TrackID         int64  `json:"trackId"`
	TrackName       string `json:"trackName"`
	TrackNumber     int    `json:"trackNumber"`
	DiscNumber      int    `json:"discNumber"`
	TrackTimeMillis int64  `json:"trackTimeMillis"`
}

// IsTrack reports whether the result is a track. Lookups by collection id
// also return the collection itself as the first result.
func (jt *JSONTrack) IsTrack() bool {
	return jt.WrapperType == wrapperTrack
}

// ToTrack converts JSONTrack to a model.Track.
func (jt *JSONTrack) ToTrack() *model.Track {
	track := model.NewTrack(jt.TrackID, jt.TrackNumber, jt.TrackName, jt.TrackTimeMillis)
	track.DiscNumber = jt.DiscNumber
	return track
}
