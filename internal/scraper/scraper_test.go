package scraper

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/pfrederiksen/fortee-timetable/internal/logger"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

func newTestScraper(t *testing.T) (*Scraper, *logger.Metrics) {
	t.Helper()
	metrics := logger.NewMetrics()
	s, err := New(Options{Metrics: metrics})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, metrics
}

var testEvent = timetable.Event{
	Name:         "JAWS DAYS 2026",
	Date:         "2026-03-07",
	Venue:        "池袋サンシャインシティ",
	Hashtag:      "#jawsdays2026",
	TimetableURL: "https://fortee.jp/jawsdays-2026/timetable",
}

func TestExtract_PositionedFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/timetable_positioned.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	s, metrics := newTestScraper(t)
	res, err := s.ExtractString(string(data))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if res.Strategy != StrategyPositioned {
		t.Errorf("Strategy = %v, want positioned", res.Strategy)
	}
	if len(res.Blocks) != 10 {
		t.Errorf("expected 10 accepted blocks, got %d", len(res.Blocks))
	}

	for reason, want := range map[string]int64{
		"blocks.rejected.no_track":    1,
		"blocks.rejected.no_position": 1,
		"blocks.rejected.no_title":    2,
	} {
		if got := metrics.Counter(reason); got != want {
			t.Errorf("%s = %d, want %d", reason, got, want)
		}
	}
}

func TestBuildDocument_PositionedFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/timetable_positioned.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	s, _ := newTestScraper(t)
	doc, strategy, err := s.BuildDocument(string(data), testEvent, timetable.DefaultTracks(testEvent.Hashtag))
	if err != nil {
		t.Fatalf("BuildDocument() error = %v", err)
	}
	if strategy != StrategyPositioned {
		t.Errorf("strategy = %v", strategy)
	}

	if len(doc.Sessions) != 9 {
		t.Fatalf("expected 9 sessions, got %d", len(doc.Sessions))
	}

	counts := doc.CountByTrack()
	for _, l := range timetable.Letters {
		want := 1
		if l == "B" {
			want = 2
		}
		if counts[l] != want {
			t.Errorf("track %s has %d sessions, want %d", l, counts[l], want)
		}
	}

	talk := doc.Sessions[2]
	want := &timetable.Session{
		ID:          3,
		Track:       "B",
		Date:        "2026-03-07",
		Start:       "11:00",
		End:         "11:20",
		Duration:    20,
		Title:       "AWS Lambda で作る大規模イベント処理",
		Speaker:     "山田 太郎",
		ProposalURL: "https://fortee.jp/jawsdays-2026/proposal/0f1e2d3c-aaaa-bbbb-cccc-1234567890ab",
		Tags:        []string{"Level 200", "Serverless"},
	}
	if !reflect.DeepEqual(talk, want) {
		t.Errorf("session 3 =\n%+v\nwant\n%+v", talk, want)
	}

	for i, sess := range doc.Sessions {
		if sess.ID != i+1 {
			t.Errorf("session %d has id %d", i, sess.ID)
		}
		if sess.Title == "受付" && (sess.Start != "09:00" || sess.Duration != 50) {
			t.Errorf("reception session timing = %s (%d)", sess.Start, sess.Duration)
		}
	}
}

func TestBuildDocument_Deterministic(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/timetable_positioned.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	s, _ := newTestScraper(t)
	first, _, err := s.BuildDocument(string(data), testEvent, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := s.BuildDocument(string(data), testEvent, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same markup produced different documents")
	}
}

func TestExtract_PlaceholderThenConcreteSameSlot(t *testing.T) {
	html := `<div class="timetable">
		<div class="proposal time-slot track-2" style="top: 720px; height: 120px;"><div class="title">セッション</div></div>
		<div class="proposal proposal-in-timetable track-2" style="top: 720px; height: 120px;">
			<a href="https://fortee.jp/jawsdays-2026/proposal/xyz">Real talk</a>
		</div>
	</div>`

	s, _ := newTestScraper(t)
	doc, _, err := s.BuildDocument(html, testEvent, nil)
	if err != nil {
		t.Fatalf("BuildDocument() error = %v", err)
	}
	if len(doc.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(doc.Sessions))
	}
	got := doc.Sessions[0]
	if got.Title != "Real talk" || got.Start != "11:00" || got.Duration != 20 || got.Track != "B" {
		t.Errorf("unexpected session %+v", got)
	}
	if got.ProposalURL != "https://fortee.jp/jawsdays-2026/proposal/xyz" {
		t.Errorf("ProposalURL = %q", got.ProposalURL)
	}
}

func TestExtract_Grid(t *testing.T) {
	html := `<table class="schedule">
		<thead><tr><th></th><th>Track A</th><th>B</th><th>track-3</th></tr></thead>
		<tbody>
			<tr>
				<td>9:00</td>
				<td rowspan="10"><a href="/jawsdays-2026/proposal/1">Opening</a><span class="speaker-name">清家史郎</span></td>
				<td><div class="title">休憩</div></td>
				<td></td>
			</tr>
			<tr>
				<td>10:05 - 10:45</td>
				<td><a href="/jawsdays-2026/proposal/2">Deep dive</a><span class="badge">Level 300</span></td>
				<td><a href="/jawsdays-2026/proposal/3">Second</a></td>
				<td><a href="/jawsdays-2026/proposal/4">Third</a></td>
				<td><a href="/jawsdays-2026/proposal/5">Overflow</a></td>
			</tr>
			<tr><td>Lunch</td><td><a href="/jawsdays-2026/proposal/6">Skipped</a></td></tr>
		</tbody>
	</table>`

	s, metrics := newTestScraper(t)
	res, err := s.ExtractString(html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Strategy != StrategyGrid {
		t.Fatalf("Strategy = %v, want grid", res.Strategy)
	}
	if len(res.Blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d: %+v", len(res.Blocks), res.Blocks)
	}
	if metrics.Counter("blocks.rejected.no_time") != 1 {
		t.Errorf("expected one row without a time to be skipped")
	}

	opening := res.Blocks[0]
	if opening.Track != "A" || opening.Start != "09:00" || opening.Duration != 50 || !opening.Concrete {
		t.Errorf("opening = %+v", opening)
	}
	if opening.URL != "https://fortee.jp/jawsdays-2026/proposal/1" || opening.Speaker != "清家史郎" {
		t.Errorf("opening link/speaker = %q / %q", opening.URL, opening.Speaker)
	}

	brk := res.Blocks[1]
	if brk.Track != "B" || brk.Title != "休憩" || brk.Concrete || brk.Duration != DefaultFallbackDuration {
		t.Errorf("break = %+v", brk)
	}

	deep := res.Blocks[2]
	if deep.Start != "10:05" || !reflect.DeepEqual(deep.Tags, []string{"Level 300"}) {
		t.Errorf("deep dive = %+v", deep)
	}

	if res.Blocks[4].Track != "C" {
		t.Errorf("third column track = %q, want C", res.Blocks[4].Track)
	}
	if res.Blocks[5].Track != "" {
		t.Errorf("out-of-range column track = %q, want empty", res.Blocks[5].Track)
	}
}

func TestExtract_UnrelatedTableIsNotGrid(t *testing.T) {
	html := `<html><body>
		<div class="timetable">
			<div class="proposal proposal-in-timetable track-1" style="top: 720px; height: 120px;">
				<a href="/jawsdays-2026/proposal/1">Opening</a>
			</div>
		</div>
		<table class="sponsors">
			<tr><th>Sponsor</th></tr>
			<tr><td>ACME</td></tr>
		</table>
	</body></html>`

	s, _ := newTestScraper(t)
	res, err := s.ExtractString(html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Strategy != StrategyPositioned {
		t.Errorf("Strategy = %v, want positioned", res.Strategy)
	}
	if len(res.Blocks) != 1 || res.Blocks[0].Title != "Opening" {
		t.Errorf("blocks = %+v", res.Blocks)
	}
}

func TestExtract_GridSkipsUntimedTables(t *testing.T) {
	html := `<table><tr><th>Sponsor</th></tr><tr><td>ACME</td></tr></table>
	<table>
		<tr><th></th><th>A</th></tr>
		<tr><td>13:00</td><td><a href="/jawsdays-2026/proposal/9">Afternoon</a></td></tr>
	</table>`

	s, _ := newTestScraper(t)
	res, err := s.ExtractString(html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Strategy != StrategyGrid || len(res.Blocks) != 1 {
		t.Fatalf("got %v with %d blocks", res.Strategy, len(res.Blocks))
	}
	if b := res.Blocks[0]; b.Track != "A" || b.Start != "13:00" {
		t.Errorf("block = %+v", b)
	}
}

func TestExtract_CollapsesInlineWhitespace(t *testing.T) {
	html := `<div id="timetable">
		<div class="proposal proposal-in-timetable track-2" style="top: 720px; height: 120px;">
			<a href="/jawsdays-2026/proposal/1"> <span>AWS</span>
				<span>Lambda</span></a>
			<span class="speaker-name">
				山田
				太郎
			</span>
			<span class="badge"> Level
				200 </span>
		</div>
	</div>`

	s, _ := newTestScraper(t)
	res, err := s.ExtractString(html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(res.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(res.Blocks))
	}

	b := res.Blocks[0]
	if b.Title != "AWS Lambda" {
		t.Errorf("Title = %q, want %q", b.Title, "AWS Lambda")
	}
	if b.Speaker != "山田 太郎" {
		t.Errorf("Speaker = %q", b.Speaker)
	}
	if !reflect.DeepEqual(b.Tags, []string{"Level 200"}) {
		t.Errorf("Tags = %q", b.Tags)
	}
}

func TestExtract_LinkFallback(t *testing.T) {
	html := `<html><body>
		<ul>
			<li><a href="/jawsdays-2026/proposal/a">First talk</a> <span class="speaker-name">Alice</span></li>
			<li><a href="https://fortee.jp/jawsdays-2026/proposal/b">Second talk</a></li>
			<li><div><a href="proposal/c">Third talk</a></div><span class="speaker-name">Not adjacent</span></li>
			<li><a href="/jawsdays-2026/proposal/d">  </a></li>
			<li><a href="/about">About</a></li>
		</ul>
	</body></html>`

	s, _ := newTestScraper(t)
	doc, strategy, err := s.BuildDocument(html, testEvent, nil)
	if err != nil {
		t.Fatalf("BuildDocument() error = %v", err)
	}
	if strategy != StrategyLinks {
		t.Errorf("strategy = %v, want links", strategy)
	}
	if len(doc.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(doc.Sessions))
	}

	for _, sess := range doc.Sessions {
		if sess.Track != "" || sess.Start != "" || sess.End != "" {
			t.Errorf("fallback session should be unscheduled: %+v", sess)
		}
		if sess.Duration != DefaultFallbackDuration {
			t.Errorf("Duration = %d, want %d", sess.Duration, DefaultFallbackDuration)
		}
	}

	if doc.Sessions[0].Speaker != "Alice" {
		t.Errorf("first speaker = %q", doc.Sessions[0].Speaker)
	}
	if doc.Sessions[2].Speaker != "" {
		t.Errorf("third speaker should be empty, got %q", doc.Sessions[2].Speaker)
	}
	if doc.Sessions[2].ProposalURL != "https://fortee.jp/proposal/c" {
		t.Errorf("relative URL resolved to %q", doc.Sessions[2].ProposalURL)
	}
}

func TestExtract_NoSessions(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		strategy Strategy
	}{
		{"empty page", `<html><body><p>メンテナンス中</p></body></html>`, StrategyLinks},
		{"container without blocks", `<div id="timetable"><div class="proposal">x</div></div>`, StrategyPositioned},
		{"grid without links", `<table><tr><th>A</th></tr><tr><td>9:00</td><td></td></tr></table>`, StrategyGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScraper(t)
			doc, strategy, err := s.BuildDocument(tt.html, testEvent, nil)
			if !errors.Is(err, ErrNoSessions) {
				t.Fatalf("error = %v, want ErrNoSessions", err)
			}
			if doc != nil {
				t.Error("expected no document")
			}
			if strategy != tt.strategy {
				t.Errorf("strategy = %v, want %v", strategy, tt.strategy)
			}
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(Options{BaseURL: "/relative"}); err == nil {
		t.Error("expected error for relative base URL")
	}
	if _, err := New(Options{ContainerSelector: "div[["}); err == nil {
		t.Error("expected error for bad selector")
	}
}

func TestStrategyString(t *testing.T) {
	if StrategyGrid.String() != "grid" || StrategyLinks.String() != "links" {
		t.Error("unexpected strategy names")
	}
	if Strategy(42).String() != "strategy(42)" {
		t.Errorf("unexpected name %q", Strategy(42).String())
	}
}
