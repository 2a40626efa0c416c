package output

import (
	"encoding/json"
	"io"

	"wintriage/internal/domain"
)

// NDJSONWriter writes command results as NDJSON for machine consumers
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep report text unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// ErrorOutput represents a command failure
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Snapshot      string `json:"snapshot,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// ReportOutput carries a rendered report plus its inputs' vitals
type ReportOutput struct {
	Type          string `json:"type"` // Always "report"
	SchemaVersion int    `json:"schemaVersion"`
	CollectedAt   string `json:"collected_at,omitempty"`
	EventCount    int    `json:"event_count"`
	GroupCount    int    `json:"group_count"`
	Truncated     bool   `json:"truncated"`
	Report        string `json:"report"`
}

// StatusOutput summarizes a snapshot without rendering the full report
type StatusOutput struct {
	Type          string                  `json:"type"` // Always "status"
	SchemaVersion int                     `json:"schemaVersion"`
	Snapshot      string                  `json:"snapshot"`
	CollectedAt   string                  `json:"collected_at,omitempty"`
	ComputerName  string                  `json:"computer_name,omitempty"`
	TotalEvents   int                     `json:"total_events"`
	GroupCount    int                     `json:"group_count"`
	BySeverity    map[domain.Severity]int `json:"by_severity"`
	ByLogName     map[string]int          `json:"by_log_name"`
}

// AnswerOutput carries a model answer for the ask command
type AnswerOutput struct {
	Type          string  `json:"type"` // Always "answer"
	SchemaVersion int     `json:"schemaVersion"`
	Model         string  `json:"model"`
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
	LatencySecs   float64 `json:"latency_secs"`
}

// CollectOutput reports a completed collection run
type CollectOutput struct {
	Type          string  `json:"type"` // Always "collect"
	SchemaVersion int     `json:"schemaVersion"`
	Snapshot      string  `json:"snapshot"`
	EventCount    int     `json:"event_count"`
	CollectedAt   string  `json:"collected_at,omitempty"`
	ElapsedSecs   float64 `json:"elapsed_secs"`
}

// VersionOutput describes the running build for agents
type VersionOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(&out)
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message, snapshot string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		Snapshot:      snapshot,
	})
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteReport outputs a rendered report
func (w *NDJSONWriter) WriteReport(r *ReportOutput) error {
	r.Type = "report"
	r.SchemaVersion = SchemaVersion
	return w.encoder.Encode(r)
}

// WriteStatus outputs a snapshot status summary
func (w *NDJSONWriter) WriteStatus(s *StatusOutput) error {
	s.Type = "status"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteAnswer outputs a model answer
func (w *NDJSONWriter) WriteAnswer(a *AnswerOutput) error {
	a.Type = "answer"
	a.SchemaVersion = SchemaVersion
	return w.encoder.Encode(a)
}

// WriteCollect outputs a collection result
func (w *NDJSONWriter) WriteCollect(c *CollectOutput) error {
	c.Type = "collect"
	c.SchemaVersion = SchemaVersion
	return w.encoder.Encode(c)
}

// WriteVersion outputs build information
func (w *NDJSONWriter) WriteVersion(version, commit string) error {
	return w.encoder.Encode(&VersionOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}
