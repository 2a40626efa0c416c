package cli

import (
	"errors"
	"fmt"

	"wintriage/internal/output"
)

// Error codes shared across commands
const (
	codeSnapshotNotFound  = "SNAPSHOT_NOT_FOUND"
	codeMalformedSnapshot = "MALFORMED_SNAPSHOT"
	codeCollectFailed     = "COLLECT_FAILED"
	codeWriteFailed       = "WRITE_FAILED"
	codeMissingAPIKey     = "MISSING_API_KEY"
	codeModelUnavailable  = "MODEL_UNAVAILABLE"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so AI agents always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	}
	return errors.New(message)
}

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteWarning(msg)
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}
