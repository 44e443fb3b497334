package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarises one scrape run
type OutputResult struct {
	ScrapedAt    time.Time              `json:"scraped_at"`
	SourceURL    string                 `json:"source_url"`
	OutputPath   string                 `json:"output_path"`
	Strategy     string                 `json:"strategy"`
	SessionCount int                    `json:"session_count"`
	ByTrack      map[string]int         `json:"by_track"`
	Rejected     map[string]int64       `json:"rejected"`
	Diff         *timetable.DiffResult  `json:"diff,omitempty"`
	FirstRun     bool                   `json:"first_run"`
	Metrics      map[string]interface{} `json:"metrics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "Success: %d sessions saved to %s (%s layout)\n",
		result.SessionCount, result.OutputPath, result.Strategy)

	for _, l := range timetable.Letters {
		fmt.Fprintf(w, "  Track %s: %d sessions\n", l, result.ByTrack[l])
	}

	// Labels outside A..H, e.g. from the link fallback
	others := make([]string, 0)
	for track := range result.ByTrack {
		if !timetable.IsTrack(track) {
			others = append(others, track)
		}
	}
	sort.Strings(others)
	for _, track := range others {
		label := track
		if label == "" {
			label = "(unscheduled)"
		}
		fmt.Fprintf(w, "  %s: %d sessions\n", label, result.ByTrack[track])
	}

	if verbose && len(result.Rejected) > 0 {
		reasons := make([]string, 0, len(result.Rejected))
		for reason := range result.Rejected {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		fmt.Fprintln(w, "\nRejected blocks:")
		for _, reason := range reasons {
			fmt.Fprintf(w, "  %s: %d\n", reason, result.Rejected[reason])
		}
	}

	if result.FirstRun || result.Diff == nil {
		return nil
	}

	d := result.Diff
	if d.Empty() {
		fmt.Fprintln(w, "\nNo changes since the previous run.")
		return nil
	}

	fmt.Fprintf(w, "\nChanges: %d added, %d removed, %d updated\n", len(d.Added), len(d.Removed), len(d.Changes))
	if !verbose {
		return nil
	}

	for _, s := range d.Added {
		fmt.Fprintf(w, "  + [%s %s] %s\n", s.Track, s.Start, s.Title)
	}
	for _, s := range d.Removed {
		fmt.Fprintf(w, "  - [%s %s] %s\n", s.Track, s.Start, s.Title)
	}
	for _, c := range d.Changes {
		fmt.Fprintf(w, "  ~ [%s %s] %s: %q -> %q\n", c.Track, c.Start, c.ChangeType, c.OldValue, c.NewValue)
	}

	return nil
}
