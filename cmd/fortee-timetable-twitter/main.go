package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/fortee-timetable/internal/notifier"
	"github.com/pfrederiksen/fortee-timetable/internal/storage"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

var (
	timetableFile = flag.String("timetable", "", "Path to timetable JSON file (or read from stdin)")
	dryRun        = flag.Bool("dry-run", false, "Print posts without posting")
	maxPosts      = flag.Int("max-posts", 10, "Maximum number of posts")
	trackFilter   = flag.String("track", "", "Only announce sessions of this track (A-H)")
	startFilter   = flag.String("start", "", "Only announce sessions starting at this time (HH:MM)")
	hashtags      = flag.String("hashtags", "", "Extra space-separated hashtags, e.g. \"#jawsug\"")
)

func main() {
	flag.Parse()

	// Read timetable from file or stdin
	var reader io.Reader
	if *timetableFile != "" {
		f, err := os.Open(*timetableFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening timetable file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	} else {
		reader = os.Stdin
	}

	doc, err := storage.Decode(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	sessions := timetable.Select(doc.Sessions, *trackFilter, *startFilter, *maxPosts)
	if len(sessions) == 0 {
		fmt.Println("No sessions match criteria")
		os.Exit(0)
	}

	extra := strings.Fields(*hashtags)

	var n notifier.Notifier
	if *dryRun {
		n = notifier.NewDryRunNotifier(os.Stdout, extra...)
		fmt.Printf("DRY RUN MODE - Would post %d sessions:\n\n", len(sessions))
	} else {
		client, err := notifier.NewTwitterNotifier(extra...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing Twitter client: %v\n", err)
			os.Exit(1)
		}
		n = client
	}

	if err := n.Notify(doc, sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting: %v\n", err)
		os.Exit(1)
	}

	if !*dryRun {
		fmt.Printf("Successfully posted %d sessions\n", len(sessions))
	}
}
