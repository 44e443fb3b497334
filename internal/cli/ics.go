package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fortee-timetable/internal/calendar"
	"github.com/pfrederiksen/fortee-timetable/internal/storage"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

var (
	flagICSInput  string
	flagICSOutput string
	flagICSTrack  string
)

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export a scraped timetable as an iCalendar feed",
		RunE:  runICS,
	}

	cmd.Flags().StringVar(&flagICSInput, "input", "", "Timetable JSON (defaults to the configured output path)")
	cmd.Flags().StringVar(&flagICSOutput, "output", "", "Write the feed to this file instead of stdout")
	cmd.Flags().StringVar(&flagICSTrack, "track", "", "Only export sessions of this track (A-H)")

	return cmd
}

func runICS(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	input := flagICSInput
	if input == "" {
		input = cfg.Output.Path
	}

	doc, err := storage.LoadFile(input)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("no timetable at %s; run fortee-timetable first", input)
	}

	clock, err := calendar.NewClock(cfg.Event.Timezone)
	if err != nil {
		return err
	}

	sessions := timetable.Select(doc.Sessions, strings.TrimSpace(flagICSTrack), "", 0)
	ics := calendar.GenerateICS(doc, sessions, clock, time.Now())

	if flagICSOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}
	if err := os.WriteFile(flagICSOutput, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sessions to %s\n", len(sessions), flagICSOutput)
	return nil
}
