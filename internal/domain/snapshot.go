package domain

// TimeRange describes the window the collector harvested events for
type TimeRange struct {
	StartTime string `json:"StartTime"`
	EndTime   string `json:"EndTime"`
}

// SystemFacts holds the host details the formatter and prompt builder
// care about, extracted from the collector's free-form SystemInfo map.
// Every field defaults to "Unknown" when the collector did not supply it.
type SystemFacts struct {
	ComputerName string
	OSVersion    string
	OSBuild      string
	LastBootTime string
	Uptime       string
	Processor    string
	Memory       string
}

// Fact is a single key/value pair from an opaque collector section
// (NetworkInfo). Order follows the document, so rendering is deterministic.
type Fact struct {
	Key   string
	Value string
}

// Snapshot is one fully materialized log collection: metadata, host
// facts, and the raw event batch. All engine stages operate on it
// without mutation.
type Snapshot struct {
	CollectionTime string
	TimeRange      TimeRange
	SystemFacts    SystemFacts
	NetworkInfo    []Fact
	Events         []RawEvent

	// Raw is the original document, kept for opaque lookups.
	Raw []byte
}

// EventCount returns the number of events in the snapshot
func (s *Snapshot) EventCount() int {
	if s == nil {
		return 0
	}
	return len(s.Events)
}
