package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"wintriage/internal/domain"
)

// maxRecentTimestamps bounds the example timestamps kept per group
const maxRecentTimestamps = 3

// groupKey is the flat compound key events are bucketed by. A single
// map keyed by this tuple keeps aggregation one pass and avoids the
// bookkeeping of nested per-log collections.
type groupKey struct {
	logName  string
	provider string
	eventID  int
	severity domain.Severity
}

type bucket struct {
	group domain.AggregateGroup
	times []time.Time
}

// Aggregate groups a batch of raw events by (log name, provider, event
// ID, canonical severity). The representative message is the message of
// the first event seen for a key; occurrence counts include events whose
// timestamps could not be parsed. Groups are returned most-noise-first:
// count descending, then last timestamp descending, with timestampless
// groups after timestamped ones.
func (e *Engine) Aggregate(events []domain.RawEvent) []domain.AggregateGroup {
	buckets := make(map[groupKey]*bucket)
	var order []groupKey

	for _, ev := range events {
		key := groupKey{
			logName:  ev.LogName,
			provider: ev.ProviderName,
			eventID:  ev.EventID,
			severity: domain.ParseSeverity(ev.Level),
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{group: domain.AggregateGroup{
				LogName:  ev.LogName,
				Provider: ev.ProviderName,
				EventID:  ev.EventID,
				Severity: key.severity,
				Message:  ev.Message,
			}}
			buckets[key] = b
			order = append(order, key)
		}
		b.group.Count++

		t, err := parseEventTime(ev.TimeCreated)
		if err != nil {
			// Counted but excluded from the time span.
			if ev.TimeCreated != "" {
				e.log.Debug("skipping unparsable event timestamp",
					zap.String("timeCreated", ev.TimeCreated),
					zap.String("provider", ev.ProviderName),
					zap.Error(err))
			}
			continue
		}
		b.times = append(b.times, t)
	}

	groups := make([]domain.AggregateGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if len(b.times) > 0 {
			sort.Slice(b.times, func(i, j int) bool { return b.times[i].Before(b.times[j]) })
			first, last := b.times[0], b.times[len(b.times)-1]
			b.group.First = &first
			b.group.Last = &last

			n := maxRecentTimestamps
			if len(b.times) < n {
				n = len(b.times)
			}
			recent := make([]time.Time, 0, n)
			for i := len(b.times) - 1; i >= len(b.times)-n; i-- {
				recent = append(recent, b.times[i])
			}
			b.group.Recent = recent
		}
		groups = append(groups, b.group)
	}

	// SliceStable keeps input-order ties deterministic.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		li, lj := groups[i].Last, groups[j].Last
		switch {
		case li == nil:
			return false
		case lj == nil:
			return true
		default:
			return li.After(*lj)
		}
	})

	return groups
}
