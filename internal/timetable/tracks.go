package timetable

import (
	"fmt"
	"strings"
)

// Letters lists the eight tracks in display order.
var Letters = [...]string{"A", "B", "C", "D", "E", "F", "G", "H"}

// unknownTrackOrder places unrecognised track labels after H.
const unknownTrackOrder = 99

// TrackFromNumber maps fortee's 1-based track-N class number to its letter.
func TrackFromNumber(n int) (string, bool) {
	if n < 1 || n > len(Letters) {
		return "", false
	}
	return Letters[n-1], true
}

// TrackOrder returns the sort rank of a track letter.
func TrackOrder(track string) int {
	for i, l := range Letters {
		if l == track {
			return i
		}
	}
	return unknownTrackOrder
}

// IsTrack reports whether s is one of the eight track letters.
func IsTrack(s string) bool {
	return TrackOrder(s) != unknownTrackOrder
}

// Track is the static descriptor of one track.
type Track struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hashtag string `json:"hashtag"`
}

// DefaultTracks builds the eight descriptors, hashtags derived from the
// event hashtag ("#jawsdays2026" -> "#jawsdays2026_a").
func DefaultTracks(eventHashtag string) []Track {
	tracks := make([]Track, 0, len(Letters))
	for _, l := range Letters {
		tracks = append(tracks, Track{
			ID:      l,
			Name:    fmt.Sprintf("Track %s", l),
			Hashtag: fmt.Sprintf("%s_%s", eventHashtag, strings.ToLower(l)),
		})
	}
	return tracks
}
