// Package cli implements the command-line interface for fortee-timetable.
//
// The root command fetches the rendered timetable page (or reads a saved
// copy), extracts and normalizes the sessions, writes the timetable JSON and
// reports what changed since the previous run. The ics subcommand exports a
// written timetable as an iCalendar feed.
package cli
