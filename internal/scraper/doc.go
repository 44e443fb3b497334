// Package scraper extracts session candidates from a rendered fortee.jp
// timetable page.
//
// Three layouts are recognised, tried in a fixed order against the whole
// document; the first whose precondition holds is used exclusively:
//
//  1. grid: a <table> with a header row of track labels and one row per
//     start time.
//  2. positioned: absolute-positioned div.proposal blocks inside a timetable
//     container, with track-N classes and top/height styles in pixels.
//  3. links: every anchor pointing at a proposal page, as a flat list.
//
// Blocks that lack a track, a position or a title are skipped silently. A
// document that yields no candidates at all is reported as ErrNoSessions.
package scraper
