package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// extractLinks is the degraded mode: every proposal anchor becomes an
// unscheduled session with the fallback duration.
func (s *Scraper) extractLinks(doc *goquery.Document) []timetable.RawBlock {
	blocks := make([]timetable.RawBlock, 0)
	doc.Find(proposalLinkSelector).Each(func(_ int, a *goquery.Selection) {
		title := text(a)
		if title == "" {
			s.reject("no_title")
			return
		}
		href, _ := a.Attr("href")

		blocks = append(blocks, timetable.RawBlock{
			Duration: s.fallbackDuration,
			Title:    title,
			Speaker:  speaker(a.Parent()),
			URL:      s.resolveURL(href),
			Tags:     []string{},
			Concrete: true,
		})
		s.metrics.IncrCounter("blocks.accepted")
	})
	return blocks
}
