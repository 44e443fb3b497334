package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fortee-timetable/internal/browser"
	"github.com/pfrederiksen/fortee-timetable/internal/config"
	"github.com/pfrederiksen/fortee-timetable/internal/logger"
	"github.com/pfrederiksen/fortee-timetable/internal/scraper"
	"github.com/pfrederiksen/fortee-timetable/internal/storage"
	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitFetchFailed = 2
	ExitNoSessions  = 3
)

var (
	flagConfig   string
	flagURL      string
	flagInput    string
	flagOutput   string
	flagDump     string
	flagFetch    string
	flagFormat   string
	flagLogLevel string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fortee-timetable",
		Short: "Scrape a fortee.jp conference timetable into JSON",
		Long: `Fetches the rendered fortee.jp timetable page, extracts every session and
writes a normalized timetable JSON document.

Exit codes: 0 success, 1 error, 2 page fetch failed, 3 no sessions found
(the page markup has probably changed; the raw HTML is saved for diagnosis).`,
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (defaults to JAWS DAYS 2026)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "INFO", "Log level: DEBUG, INFO, WARN or ERROR")

	cmd.Flags().StringVar(&flagURL, "url", "", "Timetable page URL (overrides config)")
	cmd.Flags().StringVar(&flagInput, "input", "", "Parse a saved HTML file instead of fetching")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Timetable JSON path (overrides config)")
	cmd.Flags().StringVar(&flagDump, "dump", "", "Raw HTML dump path on failure (overrides config)")
	cmd.Flags().StringVar(&flagFetch, "fetch", "", "Fetch mode: browser or http (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Include metrics and change details in the summary")

	cmd.AddCommand(newICSCmd())

	return cmd
}

// loadConfig reads --config or falls back to the built-in defaults.
func loadConfig() (*config.Config, error) {
	logger.SetDefault(logger.New(logger.ParseLevel(strings.ToUpper(flagLogLevel)), os.Stderr))

	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.LoadFile(flagConfig)
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagURL != "" {
		cfg.Event.TimetableURL = flagURL
	}
	if flagOutput != "" {
		cfg.Output.Path = flagOutput
	}
	if flagDump != "" {
		cfg.Output.DumpPath = flagDump
	}
	if flagFetch != "" {
		cfg.Fetch.Mode = flagFetch
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := storage.New(cfg.Output.Path, cfg.Output.DumpPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	sc, err := scraper.New(scraper.Options{
		BaseURL:           cfg.BaseURL,
		ContainerSelector: cfg.Scrape.ContainerSelector,
		FallbackDuration:  cfg.Scrape.FallbackDuration,
	})
	if err != nil {
		return fmt.Errorf("initializing scraper: %w", err)
	}

	var fetcher browser.Fetcher
	if flagInput != "" {
		fetcher = fileFetcher{path: flagInput}
	} else {
		fetcher = browser.New(cfg.Fetch.Mode, browser.Config{
			RemoteURL:       cfg.Fetch.RemoteURL,
			SettleDelay:     cfg.Fetch.SettleDelay,
			WaitSelector:    cfg.Fetch.WaitSelector,
			WaitTimeout:     cfg.Fetch.WaitTimeout,
			PageLoadTimeout: cfg.Fetch.PageLoadTimeout,
			UserAgent:       cfg.Fetch.UserAgent,
		})
	}

	p := &pipeline{
		fetcher: fetcher,
		scraper: sc,
		store:   store,
		event:   cfg.TimetableEvent(),
		tracks:  cfg.Tracks(),
		metrics: logger.DefaultMetrics(),
	}

	result, err := p.run(cmd.Context(), cfg.Event.TimetableURL)
	if err != nil {
		return err
	}

	if flagVerbose {
		result.Metrics = logger.DefaultMetrics().GetSnapshot()
	}
	return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
}

// pipeline wires the fetch collaborator, the scraper and storage for one run.
type pipeline struct {
	fetcher browser.Fetcher
	scraper *scraper.Scraper
	store   *storage.Storage
	event   timetable.Event
	tracks  []timetable.Track
	metrics *logger.Metrics
}

func (p *pipeline) run(ctx context.Context, pageURL string) (*OutputResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	markup, err := p.fetcher.Fetch(ctx, pageURL)
	p.metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		logger.Error("fetch failed", logger.Fields{"url": pageURL}, err)
		return nil, fmt.Errorf("fetching timetable: %w", err)
	}

	previous, err := p.store.Load()
	if err != nil {
		logger.Warn("previous timetable unreadable, skipping diff", logger.Fields{"error": err.Error()})
		previous = nil
	}

	doc, strategy, err := p.scraper.BuildDocument(markup, p.event, p.tracks)
	if err != nil {
		if errors.Is(err, scraper.ErrNoSessions) {
			if dumpErr := p.store.Dump(markup); dumpErr != nil {
				logger.Error("saving markup dump failed", logger.Fields{"path": p.store.DumpPath()}, dumpErr)
			} else {
				logger.Error("no sessions found; markup saved", logger.Fields{
					"path":     p.store.DumpPath(),
					"strategy": strategy.String(),
				}, err)
			}
		}
		return nil, err
	}

	if err := p.store.Save(doc); err != nil {
		return nil, fmt.Errorf("saving timetable: %w", err)
	}
	logger.Info("timetable saved", logger.Fields{
		"path":     p.store.Path(),
		"sessions": len(doc.Sessions),
		"strategy": strategy.String(),
	})

	return &OutputResult{
		ScrapedAt:    time.Now().UTC(),
		SourceURL:    pageURL,
		OutputPath:   p.store.Path(),
		Strategy:     strategy.String(),
		SessionCount: len(doc.Sessions),
		ByTrack:      doc.CountByTrack(),
		Rejected:     rejectedCounts(p.metrics),
		Diff:         timetable.Diff(previous, doc),
		FirstRun:     previous == nil,
	}, nil
}

// rejectedCounts collects the block rejection counters by reason.
func rejectedCounts(m *logger.Metrics) map[string]int64 {
	rejected := make(map[string]int64)
	for _, name := range m.CounterNames() {
		if reason, ok := strings.CutPrefix(name, scraper.RejectedCounterPrefix); ok {
			rejected[reason] = m.Counter(name)
		}
	}
	return rejected
}

// fileFetcher serves a saved page instead of fetching one.
type fileFetcher struct {
	path string
}

func (f fileFetcher) Fetch(_ context.Context, _ string) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, scraper.ErrNoSessions):
		return ExitNoSessions
	case errors.Is(err, browser.ErrFetch):
		return ExitFetchFailed
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCode(err))
	}
}
