// Package storage persists the published timetable JSON and the raw page
// markup saved when extraction finds no sessions.
//
// The timetable is written as indented UTF-8 JSON without HTML escaping so
// the file can be served as-is (public/timetable.json by default). The
// previously published file is read back on each run to report changes.
package storage
