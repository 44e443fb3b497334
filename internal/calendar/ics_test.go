package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

func testDoc() *timetable.Document {
	evt := timetable.Event{
		Name:         "JAWS DAYS 2026",
		Date:         "2026-03-07",
		Venue:        "池袋サンシャインシティ",
		Hashtag:      "#jawsdays2026",
		TimetableURL: "https://fortee.jp/jawsdays-2026/timetable",
	}
	return timetable.NewDocument(evt, timetable.DefaultTracks(evt.Hashtag), []*timetable.Session{
		{ID: 1, Track: "A", Date: "2026-03-07", Start: "09:00", End: "09:50", Duration: 50, Title: "受付", Tags: []string{}},
		{
			ID: 2, Track: "B", Date: "2026-03-07", Start: "11:00", End: "11:20", Duration: 20,
			Title: "Lambda; tips, tricks", Speaker: "山田", ProposalURL: "https://fortee.jp/jawsdays-2026/proposal/x",
			Tags: []string{"Level 200", "Serverless"},
		},
		{ID: 3, Date: "2026-03-07", Duration: 30, Title: "Unscheduled", Tags: []string{}},
	})
}

func TestGenerateICS(t *testing.T) {
	clock, err := NewClock("Asia/Tokyo")
	if err != nil {
		t.Fatalf("NewClock() error = %v", err)
	}
	doc := testDoc()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ics := GenerateICS(doc, doc.Sessions, clock, now)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"X-WR-CALNAME:JAWS DAYS 2026",
		"UID:2026-03-07-A-0900@fortee.jp",
		"DTSTAMP:20260201T000000Z",
		"DTSTART:20260307T000000Z", // 09:00 JST
		"DTEND:20260307T005000Z",
		"SUMMARY:【A】受付",
		"SUMMARY:【B】Lambda\\; tips\\, tricks by 山田",
		"LOCATION:池袋サンシャインシティ",
		"URL:https://fortee.jp/jawsdays-2026/proposal/x",
		"DESCRIPTION:Proposal: https://fortee.jp/jawsdays-2026/proposal/x",
		"CATEGORIES:Level 200,Serverless",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("expected 2 events (unscheduled skipped), got %d", n)
	}
	if strings.Contains(ics, "Unscheduled") {
		t.Error("unscheduled session should not be exported")
	}
	if strings.Contains(strings.ReplaceAll(ics, "\r\n", ""), "\n") {
		t.Error("ICS should use \\r\\n line endings only")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	clock, _ := NewClock("UTC")
	ics := GenerateICS(testDoc(), nil, clock, time.Now())
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("expected no events")
	}
	if !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("calendar should be terminated")
	}
}

func TestNewClock_Invalid(t *testing.T) {
	if _, err := NewClock("Mars/Olympus_Mons"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestClockSpan(t *testing.T) {
	clock, _ := NewClock("Asia/Tokyo")
	s := &timetable.Session{Date: "2026-03-07", Start: "23:30", Duration: 45}

	start, end, ok := clock.Span(s)
	if !ok {
		t.Fatal("expected span")
	}
	if got := end.Sub(start); got != 45*time.Minute {
		t.Errorf("span = %v", got)
	}
	if _, _, ok := clock.Span(&timetable.Session{Date: "bad", Start: "10:00"}); ok {
		t.Error("expected failure for bad date")
	}
}

func TestGoogleCalendarURL(t *testing.T) {
	doc := testDoc()
	link := GoogleCalendarURL(doc, doc.Sessions[1], "Asia/Tokyo")

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid URL: %v", err)
	}
	q := u.Query()
	if q.Get("dates") != "20260307T110000/20260307T112000" {
		t.Errorf("dates = %q", q.Get("dates"))
	}
	if q.Get("text") != "【B】Lambda; tips, tricks by 山田" {
		t.Errorf("text = %q", q.Get("text"))
	}
	if q.Get("ctz") != "Asia/Tokyo" || q.Get("action") != "TEMPLATE" {
		t.Errorf("query = %v", q)
	}
	if q.Get("details") != "Proposal: https://fortee.jp/jawsdays-2026/proposal/x" {
		t.Errorf("details = %q", q.Get("details"))
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b;c", "a\\,b\\;c"},
		{"back\\slash", "back\\\\slash"},
		{"two\nlines", "two\\nlines"},
	}
	for _, tt := range tests {
		if got := escapeICS(tt.in); got != tt.want {
			t.Errorf("escapeICS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
