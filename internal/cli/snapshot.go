package cli

import (
	"errors"
	"fmt"
	"os"

	"wintriage/internal/collector"
	"wintriage/internal/domain"
)

// loadSnapshot reads and parses a snapshot file, emitting the
// appropriate structured error on failure.
func loadSnapshot(globals *Globals, path string) (*domain.Snapshot, error) {
	snap, err := collector.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, outputErrorCommon(globals, codeSnapshotNotFound,
				fmt.Sprintf("no snapshot at %s (run 'wintriage collect' first)", path))
		}
		if errors.Is(err, collector.ErrMalformedDocument) {
			return nil, outputErrorCommon(globals, codeMalformedSnapshot, err.Error())
		}
		return nil, outputErrorCommon(globals, codeSnapshotNotFound, err.Error())
	}
	return snap, nil
}
