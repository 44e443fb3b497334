package notifier

import (
	"net/url"
	"strings"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// maxPostRunes is the X character limit.
const maxPostRunes = 280

// Notifier posts announcements for sessions of a timetable.
type Notifier interface {
	Notify(doc *timetable.Document, sessions []*timetable.Session) error
}

// FormatPost renders the announcement text for one session. extraHashtags
// are placed between the event and track hashtags.
func FormatPost(doc *timetable.Document, s *timetable.Session, extraHashtags ...string) string {
	text := s.Title
	if s.Speaker != "" {
		text += " by " + s.Speaker
	}

	tags := make([]string, 0, len(extraHashtags)+2)
	if doc.Event.Hashtag != "" {
		tags = append(tags, doc.Event.Hashtag)
	}
	tags = append(tags, extraHashtags...)
	if track := doc.Track(s.Track); track != nil && track.Hashtag != "" {
		tags = append(tags, track.Hashtag)
	}
	if len(tags) > 0 {
		text += "\n" + strings.Join(tags, " ")
	}

	if s.ProposalURL != "" {
		text += "\n" + s.ProposalURL
	}

	return truncate(text, maxPostRunes)
}

// IntentURL builds the x.com share link prefilled with the post text.
func IntentURL(text string) string {
	params := url.Values{}
	params.Set("text", text)
	return "https://x.com/intent/post?" + params.Encode()
}

// truncate cuts s to at most limit runes, ending with "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
