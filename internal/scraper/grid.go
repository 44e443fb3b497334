package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/fortee-timetable/internal/geometry"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// rowSpanMinutes is the length of one grid row.
const rowSpanMinutes = 5

var (
	leadingTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
	trackLetterPattern = regexp.MustCompile(`(?i)^(?:track\s*[-_]?\s*)?([A-H])$`)
	trackNumberPattern = regexp.MustCompile(`(?i)^track\s*[-_]?\s*(\d+)$`)
)

// gridTable returns the first table with a header row and at least one body
// row that starts with a clock time. Tables without timed rows are not
// timetables.
func gridTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if hasTimedRow(table.Find("tr")) {
			found = table
			return false
		}
		return true
	})
	return found
}

func hasTimedRow(rows *goquery.Selection) bool {
	if rows.Length() < 2 {
		return false
	}
	timed := false
	rows.Slice(1, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		first := row.Children().Filter("th, td").First()
		_, timed = leadingTime(text(first))
		return !timed
	})
	return timed
}

func hasGrid(doc *goquery.Document) bool {
	return gridTable(doc) != nil
}

// extractGrid reads track labels from the header row and one session per
// linked cell of every row that starts with a clock time.
func (s *Scraper) extractGrid(doc *goquery.Document) []timetable.RawBlock {
	blocks := make([]timetable.RawBlock, 0)

	table := gridTable(doc)
	if table == nil {
		return blocks
	}
	rows := table.Find("tr")

	tracks := headerTracks(rows.First())

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Children().Filter("th, td")
		if cells.Length() == 0 {
			return
		}

		start, ok := leadingTime(text(cells.First()))
		if !ok {
			s.reject("no_time")
			return
		}

		cells.Slice(1, cells.Length()).Each(func(col int, cell *goquery.Selection) {
			f := s.cellFields(cell)
			if f.title == "" {
				return
			}

			track := ""
			if col < len(tracks) {
				track = tracks[col]
			}

			blocks = append(blocks, timetable.RawBlock{
				Track:    track,
				Start:    start,
				Duration: s.cellDuration(cell),
				Title:    f.title,
				Speaker:  f.speaker,
				URL:      f.url,
				Tags:     f.tags,
				Concrete: f.concrete,
			})
			s.metrics.IncrCounter("blocks.accepted")
		})
	})

	return blocks
}

// headerTracks lists header labels in order, skipping blank and time-like cells.
func headerTracks(header *goquery.Selection) []string {
	tracks := make([]string, 0)
	header.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
		label := text(cell)
		if label == "" || leadingTimePattern.MatchString(label) {
			return
		}
		tracks = append(tracks, normalizeTrackLabel(label))
	})
	return tracks
}

// normalizeTrackLabel maps "B", "Track B" or "track-2" to "B". Anything
// else is kept verbatim and sorts after the known tracks.
func normalizeTrackLabel(label string) string {
	if m := trackLetterPattern.FindStringSubmatch(label); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := trackNumberPattern.FindStringSubmatch(label); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if track, ok := timetable.TrackFromNumber(n); ok {
				return track
			}
		}
	}
	return label
}

// leadingTime parses a leading H:MM or HH:MM into zero-padded HH:MM.
func leadingTime(s string) (string, bool) {
	m := leadingTimePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return geometry.FormatClock(h*60 + mm), true
}

func (s *Scraper) cellDuration(cell *goquery.Selection) int {
	if span, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr("rowspan", ""))); err == nil && span > 0 {
		return span * rowSpanMinutes
	}
	return s.fallbackDuration
}
