package domain

import "time"

// AggregateGroup is a deduplicated bucket of RawEvents sharing log name,
// provider, event ID, and canonical severity.
type AggregateGroup struct {
	LogName  string   `json:"logName"`
	Provider string   `json:"provider"`
	EventID  int      `json:"eventId"`
	Severity Severity `json:"severity"`

	// Message is the message of the first event seen for this key in
	// input order. Later occurrences may differ (e.g. file paths); they
	// are not merged or sampled.
	Message string `json:"message"`

	Count int `json:"count"`

	// First and Last are the min/max of the successfully parsed
	// timestamps in the group. Both nil when none parsed.
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`

	// Recent holds up to 3 parsed timestamps nearest Last, newest first.
	Recent []time.Time `json:"recent,omitempty"`
}

// TopEntry is one row of a top-N list: a provider or event ID with its
// total count and the log name it was first observed in.
type TopEntry struct {
	Name    string `json:"name,omitempty"`
	EventID int    `json:"eventId,omitempty"`
	Count   int    `json:"count"`
	LogName string `json:"logName"`
}

// Summary holds batch-wide statistics computed independently of the
// aggregate groups.
type Summary struct {
	TotalEvents int              `json:"totalEvents"`
	ByLogName   map[string]int   `json:"byLogName"`
	BySeverity  map[Severity]int `json:"bySeverity"`

	// TopProviders and TopEventIDs list at most 5 entries each, sorted
	// by count descending. Singletons (count == 1) are excluded.
	TopProviders []TopEntry `json:"topProviders,omitempty"`
	TopEventIDs  []TopEntry `json:"topEventIds,omitempty"`
}

// NewSummary creates an empty summary with all five severity keys present
func NewSummary() Summary {
	bySev := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		bySev[s] = 0
	}
	return Summary{
		ByLogName:  make(map[string]int),
		BySeverity: bySev,
	}
}
