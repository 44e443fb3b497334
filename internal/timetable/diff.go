package timetable

import (
	"sort"
	"strconv"
)

// SessionChange describes one field that changed in a slot between runs.
type SessionChange struct {
	Track      string `json:"track"`
	Start      string `json:"start"`
	ChangeType string `json:"change_type"` // "title", "speaker", "duration"
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
}

// DiffResult contains the differences between two published timetables.
type DiffResult struct {
	Added   []*Session
	Removed []*Session
	Changes []*SessionChange
}

// Empty reports whether the two timetables were equivalent.
func (r *DiffResult) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changes) == 0
}

// slotOf keys a session by the cell it occupies. Unscheduled sessions are
// keyed by their link and title.
func slotOf(s *Session) string {
	if s.Start == "" {
		return s.Track + "|" + s.ProposalURL + "|" + s.Title
	}
	return s.Track + "|" + s.Start
}

// Diff compares a previously published document with the current one.
// A nil previous document yields every current session as added.
func Diff(previous, current *Document) *DiffResult {
	result := &DiffResult{
		Added:   make([]*Session, 0),
		Removed: make([]*Session, 0),
		Changes: make([]*SessionChange, 0),
	}

	prev := make(map[string]*Session)
	if previous != nil {
		for _, s := range previous.Sessions {
			if s == nil {
				continue
			}
			prev[slotOf(s)] = s
		}
	}

	seen := make(map[string]bool)
	for _, s := range current.Sessions {
		if s == nil {
			continue
		}
		key := slotOf(s)
		seen[key] = true
		old, exists := prev[key]
		if !exists {
			result.Added = append(result.Added, s)
			continue
		}
		result.Changes = append(result.Changes, DetectChanges(old, s)...)
	}

	if previous != nil {
		for _, s := range previous.Sessions {
			if s != nil && !seen[slotOf(s)] {
				result.Removed = append(result.Removed, s)
			}
		}
	}

	sort.SliceStable(result.Removed, func(i, j int) bool {
		return result.Removed[i].ID < result.Removed[j].ID
	})

	return result
}

// DetectChanges compares two sessions occupying the same slot.
func DetectChanges(previous, current *Session) []*SessionChange {
	var changes []*SessionChange

	add := func(kind, oldValue, newValue string) {
		changes = append(changes, &SessionChange{
			Track:      current.Track,
			Start:      current.Start,
			ChangeType: kind,
			OldValue:   oldValue,
			NewValue:   newValue,
		})
	}

	if previous.Title != current.Title {
		add("title", previous.Title, current.Title)
	}
	if previous.Speaker != current.Speaker {
		add("speaker", previous.Speaker, current.Speaker)
	}
	if previous.Duration != current.Duration {
		add("duration", strconv.Itoa(previous.Duration), strconv.Itoa(current.Duration))
	}

	return changes
}
