package domain

import "strings"

// Severity represents the canonical Windows Event Log levels
type Severity string

const (
	SeverityCritical    Severity = "Critical"
	SeverityError       Severity = "Error"
	SeverityWarning     Severity = "Warning"
	SeverityInformation Severity = "Information"
	SeverityVerbose     Severity = "Verbose"
)

// Severities lists all canonical severities in display order (most severe first)
var Severities = []Severity{
	SeverityCritical,
	SeverityError,
	SeverityWarning,
	SeverityInformation,
	SeverityVerbose,
}

// Priority returns the priority of a severity (higher = more severe)
func (s Severity) Priority() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInformation:
		return 1
	case SeverityVerbose:
		return 0
	default:
		return 1
	}
}

// ParseSeverity converts a raw level value to a canonical Severity.
// The source system emits levels as text ("Error"), mixed case ("warning"),
// or numeric codes ("2"). Anything unrecognized, including the empty
// string, maps to Information. Total: never fails.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical", "1":
		return SeverityCritical
	case "error", "2":
		return SeverityError
	case "warning", "3":
		return SeverityWarning
	case "information", "info", "4":
		return SeverityInformation
	case "verbose", "5":
		return SeverityVerbose
	default:
		return SeverityInformation
	}
}

// RawEvent is one observed occurrence from the collected log document,
// prior to grouping. Created once by the collector parser; never mutated.
type RawEvent struct {
	LogName      string `json:"LogName"`
	TimeCreated  string `json:"TimeCreated"`
	Level        string `json:"Level"`
	EventID      int    `json:"EventID"`
	ProviderName string `json:"ProviderName"`
	Message      string `json:"Message"`
}
