package timetable

import (
	"sort"

	"github.com/pfrederiksen/fortee-timetable/internal/geometry"
)

// Deduplicate keeps one block per SlotKey and returns the winners sorted by
// track order then start position.
//
// The first block seen for a slot is stored. A later concrete block always
// replaces the stored one (last concrete wins); a later placeholder never
// replaces anything.
func Deduplicate(blocks []RawBlock) []RawBlock {
	seen := make(map[SlotKey]int, len(blocks))
	winners := make([]RawBlock, 0, len(blocks))

	for _, b := range blocks {
		key := b.Key()
		idx, exists := seen[key]
		if !exists {
			seen[key] = len(winners)
			winners = append(winners, b)
			continue
		}
		if b.Concrete {
			winners[idx] = b
		}
	}

	sort.SliceStable(winners, func(i, j int) bool {
		oi, oj := TrackOrder(winners[i].Track), TrackOrder(winners[j].Track)
		if oi != oj {
			return oi < oj
		}
		return winners[i].position() < winners[j].position()
	})

	return winners
}

// Assemble converts deduplicated blocks into sessions dated date, with ids
// 1..N in slice order.
func Assemble(blocks []RawBlock, date string) []*Session {
	sessions := make([]*Session, 0, len(blocks))
	for i, b := range blocks {
		start, duration := b.Start, b.Duration
		if b.HasGeometry {
			start = geometry.StartTimeFromOffset(b.Top)
			duration = geometry.DurationFromExtent(b.Height)
		}

		end := ""
		if start != "" {
			if e, err := geometry.EndTime(start, duration); err == nil {
				end = e
			}
		}

		tags := b.Tags
		if tags == nil {
			tags = []string{}
		}

		sessions = append(sessions, &Session{
			ID:          i + 1,
			Track:       b.Track,
			Date:        date,
			Start:       start,
			End:         end,
			Duration:    duration,
			Title:       b.Title,
			Speaker:     b.Speaker,
			ProposalURL: b.URL,
			Tags:        tags,
		})
	}
	return sessions
}
