package engine

import (
	"sort"

	"wintriage/internal/domain"
)

// maxTopEntries bounds the top-N provider and event-ID lists
const maxTopEntries = 5

type tally struct {
	count   int
	logName string // first log name observed; never updated
	order   int    // first-seen input position, for stable ties
}

// Summarize computes batch-wide statistics in a single pass: counts by
// log name and canonical severity, plus the most frequent providers and
// event IDs. Providers and IDs seen only once are excluded from the top
// lists, and event ID 0 (the default for absent/unparseable IDs) is
// never a top-list candidate.
func (e *Engine) Summarize(events []domain.RawEvent) domain.Summary {
	sum := domain.NewSummary()

	providers := make(map[string]*tally)
	ids := make(map[int]*tally)
	seen := 0

	for _, ev := range events {
		sum.TotalEvents++
		sum.ByLogName[ev.LogName]++
		sum.BySeverity[domain.ParseSeverity(ev.Level)]++

		if ev.ProviderName != "" {
			c, ok := providers[ev.ProviderName]
			if !ok {
				c = &tally{logName: ev.LogName, order: seen}
				seen++
				providers[ev.ProviderName] = c
			}
			c.count++
		}

		if ev.EventID != 0 {
			c, ok := ids[ev.EventID]
			if !ok {
				c = &tally{logName: ev.LogName, order: seen}
				seen++
				ids[ev.EventID] = c
			}
			c.count++
		}
	}

	for name, c := range providers {
		if c.count > 1 {
			sum.TopProviders = append(sum.TopProviders, domain.TopEntry{
				Name:    name,
				Count:   c.count,
				LogName: c.logName,
			})
		}
	}
	sortTop(sum.TopProviders, providerOrder(providers))
	sum.TopProviders = capTop(sum.TopProviders)

	for id, c := range ids {
		if c.count > 1 {
			sum.TopEventIDs = append(sum.TopEventIDs, domain.TopEntry{
				EventID: id,
				Count:   c.count,
				LogName: c.logName,
			})
		}
	}
	sortTop(sum.TopEventIDs, idOrder(ids))
	sum.TopEventIDs = capTop(sum.TopEventIDs)

	return sum
}

func providerOrder(m map[string]*tally) func(domain.TopEntry) int {
	return func(e domain.TopEntry) int { return m[e.Name].order }
}

func idOrder(m map[int]*tally) func(domain.TopEntry) int {
	return func(e domain.TopEntry) int { return m[e.EventID].order }
}

// sortTop orders entries by count descending, breaking ties by first
// appearance in the input batch.
func sortTop(entries []domain.TopEntry, order func(domain.TopEntry) int) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return order(entries[i]) < order(entries[j])
	})
}

func capTop(entries []domain.TopEntry) []domain.TopEntry {
	if len(entries) > maxTopEntries {
		return entries[:maxTopEntries]
	}
	return entries
}
