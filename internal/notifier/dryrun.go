package notifier

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// DryRunNotifier prints what would be posted without posting
type DryRunNotifier struct {
	out           io.Writer
	extraHashtags []string
}

// NewDryRunNotifier creates a dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer, extraHashtags ...string) *DryRunNotifier {
	return &DryRunNotifier{out: out, extraHashtags: extraHashtags}
}

// Notify prints each post and its share link
func (n *DryRunNotifier) Notify(doc *timetable.Document, sessions []*timetable.Session) error {
	for i, s := range sessions {
		post := FormatPost(doc, s, n.extraHashtags...)
		fmt.Fprintf(n.out, "--- Post %d/%d ---\n", i+1, len(sessions))
		fmt.Fprintln(n.out, post)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n", utf8.RuneCountInString(post))
		fmt.Fprintf(n.out, "%s\n\n", IntentURL(post))
	}
	return nil
}
