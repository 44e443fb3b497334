package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // event timezones must resolve on hosts without zoneinfo

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// Clock resolves a session's local start and end on the event date.
type Clock struct {
	loc *time.Location
}

// NewClock loads the event timezone, e.g. "Asia/Tokyo".
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return &Clock{loc: loc}, nil
}

// Span returns the absolute start and end of a session. ok is false for
// sessions without a start time or with an unparseable date.
func (c *Clock) Span(s *timetable.Session) (start, end time.Time, ok bool) {
	if s.Start == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Start, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.Add(time.Duration(s.Duration) * time.Minute), true
}

// GenerateICS renders sessions as one iCalendar feed. Sessions without a
// start time are left out.
func GenerateICS(doc *timetable.Document, sessions []*timetable.Session, clock *Clock, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//fortee-timetable//fortee-timetable//JA\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(doc.Event.Name)))

	host := uidHost(doc.Event.TimetableURL)
	stamp := formatICSTime(now)

	for _, s := range sessions {
		start, end, ok := clock.Span(s)
		if !ok {
			continue
		}

		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s-%s-%s@%s\r\n",
			s.Date, trackOrNone(s.Track), strings.ReplaceAll(s.Start, ":", ""), host))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(s.Label())))
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description(doc, s))))
		if doc.Event.Venue != "" {
			ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(doc.Event.Venue)))
		}
		if s.ProposalURL != "" {
			ics.WriteString(fmt.Sprintf("URL:%s\r\n", s.ProposalURL))
		}
		if len(s.Tags) > 0 {
			escaped := make([]string, len(s.Tags))
			for i, t := range s.Tags {
				escaped[i] = escapeICS(t)
			}
			ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.Join(escaped, ",")))
		}
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// GoogleCalendarURL builds a "add to Google Calendar" link for a session.
func GoogleCalendarURL(doc *timetable.Document, s *timetable.Session, timezone string) string {
	date := strings.ReplaceAll(s.Date, "-", "")
	startStr := strings.ReplaceAll(s.Start, ":", "") + "00"
	endStr := strings.ReplaceAll(s.End, ":", "") + "00"

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", s.Label())
	params.Set("dates", fmt.Sprintf("%sT%s/%sT%s", date, startStr, date, endStr))
	params.Set("ctz", timezone)
	params.Set("location", doc.Event.Venue)
	params.Set("details", description(doc, s))

	return "https://www.google.com/calendar/render?" + params.Encode()
}

func description(doc *timetable.Document, s *timetable.Session) string {
	if s.ProposalURL != "" {
		return "Proposal: " + s.ProposalURL
	}
	return doc.Event.Name
}

func trackOrNone(track string) string {
	if track == "" {
		return "x"
	}
	return track
}

func uidHost(timetableURL string) string {
	if u, err := url.Parse(timetableURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "fortee.jp"
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 TEXT escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
