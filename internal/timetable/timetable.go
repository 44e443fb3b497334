package timetable

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pfrederiksen/fortee-timetable/internal/geometry"
)

// RawBlock is an unresolved session candidate extracted from markup.
// Positioned blocks carry Top/Height; grid and link candidates carry
// Start/Duration instead.
type RawBlock struct {
	Track       string
	Top         float64
	Height      float64
	HasGeometry bool
	Start       string
	Duration    int
	Title       string
	Speaker     string
	URL         string
	Tags        []string
	Concrete    bool
}

// SlotKey identifies one (track, start position) cell of the timetable.
type SlotKey struct {
	Track    string
	Position string
}

// Key returns the slot the block occupies. Blocks without any position
// (link fallback) are keyed by their URL so distinct links stay distinct.
func (b RawBlock) Key() SlotKey {
	switch {
	case b.HasGeometry:
		return SlotKey{Track: b.Track, Position: strconv.FormatFloat(b.Top, 'f', -1, 64)}
	case b.Start != "":
		return SlotKey{Track: b.Track, Position: b.Start}
	default:
		return SlotKey{Track: b.Track, Position: "url:" + b.URL + "|" + b.Title}
	}
}

// position is the numeric sort position in layout pixels.
func (b RawBlock) position() float64 {
	if b.HasGeometry {
		return b.Top
	}
	if off, err := geometry.OffsetFromTime(b.Start); err == nil {
		return off
	}
	return math.Inf(1)
}

// Session is a finalized, output-ready timetable entry.
type Session struct {
	ID          int      `json:"id"`
	Track       string   `json:"track"`
	Date        string   `json:"date"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Duration    int      `json:"duration"`
	Title       string   `json:"title"`
	Speaker     string   `json:"speaker"`
	ProposalURL string   `json:"proposalUrl"`
	Tags        []string `json:"tags"`
}

// Label renders the session the way calendars and posts display it.
func (s *Session) Label() string {
	label := fmt.Sprintf("【%s】%s", s.Track, s.Title)
	if s.Track == "" {
		label = s.Title
	}
	if s.Speaker != "" {
		label += " by " + s.Speaker
	}
	return label
}
