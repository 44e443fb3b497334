package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

const (
	blockSelector      = "div.proposal"
	concreteBlockClass = "proposal-in-timetable"
)

var (
	trackClassPattern = regexp.MustCompile(`^track-(\d+)$`)
	topPattern        = regexp.MustCompile(`(?:^|[;\s])top\s*:\s*([\d.]+)px`)
	heightPattern     = regexp.MustCompile(`(?:^|[;\s])height\s*:\s*([\d.]+)px`)
)

// extractPositioned runs the block extractor over every div.proposal in the
// document, whatever container it is nested in.
func (s *Scraper) extractPositioned(doc *goquery.Document) []timetable.RawBlock {
	blocks := make([]timetable.RawBlock, 0)
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if b, ok := s.extractBlock(sel); ok {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

// extractBlock reads one positioned block. ok is false when the block has
// no track, no position or no title.
func (s *Scraper) extractBlock(sel *goquery.Selection) (timetable.RawBlock, bool) {
	classes := strings.Fields(sel.AttrOr("class", ""))

	track, found := trackFromClasses(classes)
	if !found {
		s.reject("no_track")
		return timetable.RawBlock{}, false
	}

	style := sel.AttrOr("style", "")
	top, topOK := styleValue(style, topPattern)
	height, heightOK := styleValue(style, heightPattern)
	if !topOK || !heightOK {
		s.reject("no_position")
		return timetable.RawBlock{}, false
	}

	b := timetable.RawBlock{
		Track:       track,
		Top:         top,
		Height:      height,
		HasGeometry: true,
		Concrete:    hasClass(classes, concreteBlockClass),
	}

	if b.Concrete {
		b.Title, b.URL = s.proposalLink(sel)
	} else {
		b.Title = text(sel.Find(titleSelector).First())
	}
	if b.Title == "" {
		s.reject("no_title")
		return timetable.RawBlock{}, false
	}

	b.Speaker = speaker(sel)
	b.Tags = tags(sel)

	s.metrics.IncrCounter("blocks.accepted")
	return b, true
}

// trackFromClasses finds the first track-N class naming a known track.
func trackFromClasses(classes []string) (string, bool) {
	for _, c := range classes {
		m := trackClassPattern.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if track, ok := timetable.TrackFromNumber(n); ok {
			return track, true
		}
	}
	return "", false
}

func styleValue(style string, pattern *regexp.Regexp) (float64, bool) {
	m := pattern.FindStringSubmatch(style)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasClass(classes []string, name string) bool {
	for _, c := range classes {
		if c == name {
			return true
		}
	}
	return false
}
