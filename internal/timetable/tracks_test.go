package timetable

import (
	"testing"
)

func TestTrackFromNumber(t *testing.T) {
	tests := []struct {
		n      int
		want   string
		wantOK bool
	}{
		{1, "A", true},
		{2, "B", true},
		{8, "H", true},
		{0, "", false},
		{9, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		got, ok := TrackFromNumber(tt.n)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TrackFromNumber(%d) = %q, %v, want %q, %v", tt.n, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTrackOrder(t *testing.T) {
	if TrackOrder("A") != 0 || TrackOrder("H") != 7 {
		t.Error("expected A..H to map to 0..7")
	}
	if TrackOrder("") <= TrackOrder("H") {
		t.Error("empty track should sort after H")
	}
	if IsTrack("Z") {
		t.Error("Z is not a track")
	}
}

func TestDefaultTracks(t *testing.T) {
	tracks := DefaultTracks("#jawsdays2026")
	if len(tracks) != 8 {
		t.Fatalf("expected 8 tracks, got %d", len(tracks))
	}
	if tracks[0].ID != "A" || tracks[0].Name != "Track A" || tracks[0].Hashtag != "#jawsdays2026_a" {
		t.Errorf("unexpected first track %+v", tracks[0])
	}
	if tracks[7].Hashtag != "#jawsdays2026_h" {
		t.Errorf("unexpected last hashtag %q", tracks[7].Hashtag)
	}
}

func TestSessionLabel(t *testing.T) {
	s := &Session{Track: "C", Title: "Keynote", Speaker: "Jeff"}
	if got := s.Label(); got != "【C】Keynote by Jeff" {
		t.Errorf("Label() = %q", got)
	}
	s = &Session{Title: "Loose"}
	if got := s.Label(); got != "Loose" {
		t.Errorf("Label() = %q", got)
	}
}

func TestSelect(t *testing.T) {
	sessions := []*Session{
		{ID: 1, Track: "A", Start: "09:00", Title: "受付"},
		{ID: 2, Track: "B", Start: "11:00", Title: "Lambda tips"},
		{ID: 3, Track: "B", Start: "11:30", Title: "Step Functions"},
		{ID: 4, Track: "C", Start: "11:00", Title: "CDK"},
		{ID: 5, Title: "Loose link"},
	}

	if got := Select(sessions, "b", "", 0); len(got) != 2 {
		t.Errorf("track filter returned %d sessions, want 2", len(got))
	}
	if got := Select(sessions, "", "11:00", 0); len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("start filter returned %+v", got)
	}
	if got := Select(sessions, "", "", 3); len(got) != 3 {
		t.Errorf("cap returned %d sessions, want 3", len(got))
	}
}
