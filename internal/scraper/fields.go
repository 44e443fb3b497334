package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	proposalLinkSelector = `a[href*='proposal']`
	titleSelector        = ".title"
	speakerSelector      = ".speaker-name"
	badgeSelector        = ".badge"
)

// fields is the content shared by every layout: what a cell or block says,
// independent of where it sits.
type fields struct {
	title    string
	url      string
	speaker  string
	tags     []string
	concrete bool
}

// text returns the node text with runs of whitespace collapsed to one space.
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// proposalLink reads title and absolute URL from the first proposal anchor.
func (s *Scraper) proposalLink(sel *goquery.Selection) (title, link string) {
	a := sel.Find(proposalLinkSelector).First()
	if a.Length() == 0 {
		return "", ""
	}
	href, _ := a.Attr("href")
	return text(a), s.resolveURL(href)
}

// resolveURL makes href absolute against the base origin. Unparseable
// hrefs resolve to "".
func (s *Scraper) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	return s.base.ResolveReference(u).String()
}

func speaker(sel *goquery.Selection) string {
	return text(sel.Find(speakerSelector).First())
}

func tags(sel *goquery.Selection) []string {
	out := make([]string, 0)
	sel.Find(badgeSelector).Each(func(_ int, badge *goquery.Selection) {
		if t := text(badge); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// cellFields extracts content from a grid cell: a proposal link makes the
// cell concrete, otherwise a .title element or any anchor names it.
func (s *Scraper) cellFields(cell *goquery.Selection) fields {
	f := fields{
		speaker: speaker(cell),
		tags:    tags(cell),
	}

	if title, link := s.proposalLink(cell); title != "" {
		f.title, f.url, f.concrete = title, link, true
		return f
	}
	if title := text(cell.Find(titleSelector).First()); title != "" {
		f.title = title
		return f
	}
	if a := cell.Find("a").First(); a.Length() > 0 {
		href, _ := a.Attr("href")
		f.title, f.url = text(a), s.resolveURL(href)
	}
	return f
}
