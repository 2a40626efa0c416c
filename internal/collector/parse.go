package collector

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"wintriage/internal/domain"
)

// ErrMalformedDocument is the single validation failure raised when the
// collected document cannot be processed at all. Per-record anomalies
// are recovered with defaults instead.
var ErrMalformedDocument = errors.New("malformed snapshot document")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rawDocument mirrors the top-level collector output. Events is kept
// raw because the collector has emitted both a flat event list and a
// per-log-name map over its lifetime.
type rawDocument struct {
	CollectionTime string           `json:"CollectionTime"`
	TimeRange      domain.TimeRange `json:"TimeRange"`
	Events         json.RawMessage  `json:"Events"`
}

// rawEvent tolerates the collector's loose typing: levels and event IDs
// arrive as numbers or strings depending on the log provider.
type rawEvent struct {
	LogName      string     `json:"LogName"`
	TimeCreated  string     `json:"TimeCreated"`
	Level        flexString `json:"Level"`
	EventID      flexInt    `json:"EventID"`
	ProviderName string     `json:"ProviderName"`
	Message      string     `json:"Message"`
}

// flexInt decodes a JSON number or numeric string; anything else is 0
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexString decodes a JSON string or bare scalar as text
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(bytes.TrimSpace(b))
	return nil
}

// Parse decodes a collected snapshot document. The only hard failure is
// a document that is not a JSON object; a missing Events field is
// treated as an empty batch. SystemInfo and NetworkInfo are consumed
// opaquely via path lookups rather than validated field by field.
func Parse(data []byte) (*domain.Snapshot, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	events, err := parseEvents(doc.Events)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	return &domain.Snapshot{
		CollectionTime: doc.CollectionTime,
		TimeRange:      doc.TimeRange,
		SystemFacts:    ExtractSystemFacts(data),
		NetworkInfo:    extractNetworkFacts(data),
		Events:         events,
		Raw:            data,
	}, nil
}

// parseEvents accepts either a flat event list or the older per-log map
// form ({"System": [...], "Application": [...]}).
func parseEvents(raw json.RawMessage) ([]domain.RawEvent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.RawEvent{}, nil
	}

	switch trimmed[0] {
	case '[':
		var list []rawEvent
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		events := make([]domain.RawEvent, 0, len(list))
		for _, re := range list {
			events = append(events, re.toDomain(""))
		}
		return events, nil
	case '{':
		var byLog map[string][]rawEvent
		if err := json.Unmarshal(trimmed, &byLog); err != nil {
			return nil, err
		}
		// Deterministic order across log names.
		names := make([]string, 0, len(byLog))
		for name := range byLog {
			names = append(names, name)
		}
		sort.Strings(names)
		var events []domain.RawEvent
		for _, name := range names {
			for _, re := range byLog[name] {
				events = append(events, re.toDomain(name))
			}
		}
		return events, nil
	default:
		return nil, fmt.Errorf("events is neither a list nor a map")
	}
}

func (re rawEvent) toDomain(fallbackLog string) domain.RawEvent {
	logName := re.LogName
	if logName == "" {
		logName = fallbackLog
	}
	provider := re.ProviderName
	if provider == "" {
		provider = "Unknown"
	}
	message := re.Message
	if message == "" {
		message = "No message"
	}
	return domain.RawEvent{
		LogName:      logName,
		TimeCreated:  re.TimeCreated,
		Level:        string(re.Level),
		EventID:      int(re.EventID),
		ProviderName: provider,
		Message:      message,
	}
}

// ExtractSystemFacts probes the free-form SystemInfo section. Each fact
// is looked up at its current path first, then the nested paths older
// collector versions used; absent values default to "Unknown".
func ExtractSystemFacts(raw []byte) domain.SystemFacts {
	get := func(paths ...string) string {
		for _, p := range paths {
			// Objects and arrays at a fact path mean a nested layout;
			// fall through to the nested path instead.
			if v := gjson.GetBytes(raw, p); v.Exists() && !v.IsObject() && !v.IsArray() && v.String() != "" {
				return v.String()
			}
		}
		return "Unknown"
	}

	return domain.SystemFacts{
		ComputerName: get("SystemInfo.ComputerName", "SystemInfo.Computer.MachineName", "SystemInfo.Computer.Name"),
		OSVersion:    get("SystemInfo.OSVersion", "SystemInfo.OS.Caption"),
		OSBuild:      get("SystemInfo.OSBuild", "SystemInfo.OS.BuildNumber"),
		LastBootTime: get("SystemInfo.LastBootTime", "SystemInfo.OS.LastBootUpTime"),
		Uptime:       get("SystemInfo.Uptime", "SystemInfo.OS.UpTime"),
		Processor:    get("SystemInfo.Processor", "SystemInfo.Processor.Name"),
		Memory:       get("SystemInfo.Memory", "SystemInfo.Computer.TotalPhysicalMemory"),
	}
}

// extractNetworkFacts flattens the optional NetworkInfo object into
// ordered key/value pairs, following document order.
func extractNetworkFacts(raw []byte) []domain.Fact {
	node := gjson.GetBytes(raw, "NetworkInfo")
	if !node.Exists() || !node.IsObject() {
		return nil
	}
	var facts []domain.Fact
	node.ForEach(func(key, value gjson.Result) bool {
		facts = append(facts, domain.Fact{Key: key.String(), Value: value.String()})
		return true
	})
	return facts
}
