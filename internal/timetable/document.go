package timetable

import "strings"

// Event is the static metadata of the conference.
type Event struct {
	Name         string `json:"name"`
	Date         string `json:"date"`
	Venue        string `json:"venue"`
	Hashtag      string `json:"hashtag"`
	TimetableURL string `json:"timetableUrl"`
}

// Document is the published timetable.
type Document struct {
	Event    Event      `json:"event"`
	Tracks   []Track    `json:"tracks"`
	Sessions []*Session `json:"sessions"`
}

// NewDocument composes event metadata, track descriptors and sessions.
func NewDocument(evt Event, tracks []Track, sessions []*Session) *Document {
	if sessions == nil {
		sessions = []*Session{}
	}
	return &Document{
		Event:    evt,
		Tracks:   tracks,
		Sessions: sessions,
	}
}

// Build runs deduplication and assembly over blocks and wraps the result.
func Build(evt Event, tracks []Track, blocks []RawBlock) *Document {
	return NewDocument(evt, tracks, Assemble(Deduplicate(blocks), evt.Date))
}

// Track returns the descriptor for id, or nil.
func (d *Document) Track(id string) *Track {
	for i := range d.Tracks {
		if d.Tracks[i].ID == id {
			return &d.Tracks[i]
		}
	}
	return nil
}

// CountByTrack returns the number of sessions per track id.
func (d *Document) CountByTrack() map[string]int {
	counts := make(map[string]int)
	for _, s := range d.Sessions {
		counts[s.Track]++
	}
	return counts
}

// Select returns the sessions on track (empty for all) starting at start
// (empty for any), capped at limit when limit > 0.
func Select(sessions []*Session, track, start string, limit int) []*Session {
	selected := make([]*Session, 0)
	for _, s := range sessions {
		if track != "" && !strings.EqualFold(s.Track, track) {
			continue
		}
		if start != "" && s.Start != start {
			continue
		}
		selected = append(selected, s)
	}
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
