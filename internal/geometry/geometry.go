// Package geometry converts between timetable layout coordinates and clock times.
//
// fortee.jp lays the timetable out on a vertical axis where 0px is the day
// start (09:00) and every 6px is one minute (a 5 minute row is 30px tall).
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DayStartMinutes is the clock time at offset 0, in minutes after midnight.
	DayStartMinutes = 9 * 60

	// PixelsPerMinute is the number of layout pixels in one minute.
	PixelsPerMinute = 6
)

// StartTimeFromOffset converts a CSS top offset to an "HH:MM" start time.
// Offsets are trusted to be non-negative; a negative offset is not guarded.
func StartTimeFromOffset(topPx float64) string {
	total := float64(DayStartMinutes) + topPx/PixelsPerMinute
	h := int(math.Floor(total / 60))
	m := int(math.Mod(total, 60))
	return fmt.Sprintf("%02d:%02d", h, m)
}

// DurationFromExtent converts a CSS height to whole minutes, truncated toward zero.
func DurationFromExtent(heightPx float64) int {
	return int(heightPx / PixelsPerMinute)
}

// HeightFromDuration is the inverse of DurationFromExtent for whole minutes.
func HeightFromDuration(minutes int) float64 {
	return float64(minutes * PixelsPerMinute)
}

// OffsetFromTime converts an "HH:MM" clock time back to a layout offset.
func OffsetFromTime(clock string) (float64, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	return float64((minutes - DayStartMinutes) * PixelsPerMinute), nil
}

// ParseClock parses "H:MM" or "HH:MM" into minutes after midnight.
// Hours above 23 are accepted since EndTime does not wrap.
func ParseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, err)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// EndTime adds duration minutes to start. Hours past 23 are not wrapped.
func EndTime(start string, durationMinutes int) (string, error) {
	minutes, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes + durationMinutes), nil
}
