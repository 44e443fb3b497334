package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/fortee-timetable/internal/logger"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// postInterval spaces consecutive posts to stay under rate limits.
const postInterval = 2 * time.Second

// TwitterNotifier posts sessions to X
type TwitterNotifier struct {
	client        *twitter.Client
	extraHashtags []string
}

// NewTwitterNotifier creates a notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(extraHashtags ...string) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{
		client:        twitter.NewClient(httpClient),
		extraHashtags: extraHashtags,
	}, nil
}

// Notify posts one status per session
func (n *TwitterNotifier) Notify(doc *timetable.Document, sessions []*timetable.Session) error {
	for i, s := range sessions {
		post := FormatPost(doc, s, n.extraHashtags...)

		if _, _, err := n.client.Statuses.Update(post, nil); err != nil {
			return fmt.Errorf("posting session %d: %w", s.ID, err)
		}
		logger.Info("posted session", logger.Fields{"id": s.ID, "track": s.Track, "start": s.Start})

		if i < len(sessions)-1 {
			time.Sleep(postInterval)
		}
	}
	return nil
}
