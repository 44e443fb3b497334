package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pfrederiksen/fortee-timetable/internal/logger"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

const (
	DefaultBaseURL           = "https://fortee.jp"
	DefaultContainerSelector = `#timetable, .timetable, [class*="timetable"]:not(.proposal)`
	DefaultFallbackDuration  = 30

	// RejectedCounterPrefix prefixes the per-reason counters of skipped blocks.
	RejectedCounterPrefix = "blocks.rejected."
)

// ErrNoSessions means no strategy produced a single candidate, which usually
// indicates the page markup has changed.
var ErrNoSessions = errors.New("no sessions extracted")

// Strategy identifies which page layout was recognised.
type Strategy int

const (
	StrategyGrid Strategy = iota
	StrategyPositioned
	StrategyLinks
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "grid"
	case StrategyPositioned:
		return "positioned"
	case StrategyLinks:
		return "links"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Options configures a Scraper. Zero values take the package defaults.
type Options struct {
	BaseURL           string
	ContainerSelector string
	FallbackDuration  int
	Metrics           *logger.Metrics
}

// Scraper turns rendered timetable markup into session candidates.
type Scraper struct {
	base             *url.URL
	container        goquery.Matcher
	fallbackDuration int
	metrics          *logger.Metrics
}

// New creates a Scraper, validating the base URL and container selector.
func New(opts Options) (*Scraper, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ContainerSelector == "" {
		opts.ContainerSelector = DefaultContainerSelector
	}
	if opts.FallbackDuration <= 0 {
		opts.FallbackDuration = DefaultFallbackDuration
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.DefaultMetrics()
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	container, err := cascadia.Compile(opts.ContainerSelector)
	if err != nil {
		return nil, fmt.Errorf("compiling container selector: %w", err)
	}

	return &Scraper{
		base:             base,
		container:        container,
		fallbackDuration: opts.FallbackDuration,
		metrics:          opts.Metrics,
	}, nil
}

// Result is the output of one extraction pass.
type Result struct {
	Strategy Strategy
	Blocks   []timetable.RawBlock
}

// layout is one entry of the closed strategy set.
type layout struct {
	kind    Strategy
	applies func(doc *goquery.Document) bool
	extract func(doc *goquery.Document) []timetable.RawBlock
}

func (s *Scraper) layouts() []layout {
	return []layout{
		{StrategyGrid, hasGrid, s.extractGrid},
		{StrategyPositioned, s.hasContainer, s.extractPositioned},
		{StrategyLinks, func(*goquery.Document) bool { return true }, s.extractLinks},
	}
}

// Extract parses markup and runs the first applicable strategy. It returns
// an error wrapping ErrNoSessions when that strategy yields nothing.
func (s *Scraper) Extract(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, l := range s.layouts() {
		if !l.applies(doc) {
			continue
		}

		blocks := l.extract(doc)
		s.metrics.IncrCounter("strategy." + l.kind.String())
		logger.Debug("strategy selected", logger.Fields{
			"strategy": l.kind.String(),
			"blocks":   len(blocks),
		})

		if len(blocks) == 0 {
			return &Result{Strategy: l.kind}, fmt.Errorf("%s strategy: %w", l.kind, ErrNoSessions)
		}
		return &Result{Strategy: l.kind, Blocks: blocks}, nil
	}

	return nil, ErrNoSessions
}

// ExtractString is Extract over an in-memory document.
func (s *Scraper) ExtractString(markup string) (*Result, error) {
	return s.Extract(strings.NewReader(markup))
}

// BuildDocument runs the whole pipeline: extraction, deduplication,
// assembly and wrapping in event metadata.
func (s *Scraper) BuildDocument(markup string, evt timetable.Event, tracks []timetable.Track) (*timetable.Document, Strategy, error) {
	res, err := s.ExtractString(markup)
	if err != nil {
		var strategy Strategy
		if res != nil {
			strategy = res.Strategy
		}
		return nil, strategy, err
	}
	return timetable.Build(evt, tracks, res.Blocks), res.Strategy, nil
}

func (s *Scraper) hasContainer(doc *goquery.Document) bool {
	return doc.FindMatcher(s.container).Length() > 0
}

func (s *Scraper) reject(reason string) {
	s.metrics.IncrCounter(RejectedCounterPrefix + reason)
}
