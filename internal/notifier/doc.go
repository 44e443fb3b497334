// Package notifier announces timetable sessions on X (Twitter).
//
// Posts follow the format of the timetable site's share button: title and
// speaker, the event and track hashtags, then the proposal link.
package notifier
