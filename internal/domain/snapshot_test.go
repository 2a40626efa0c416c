package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_EventCount(t *testing.T) {
	var nilSnap *Snapshot
	assert.Equal(t, 0, nilSnap.EventCount())
	assert.Equal(t, 0, (&Snapshot{}).EventCount())
	assert.Equal(t, 2, (&Snapshot{Events: make([]RawEvent, 2)}).EventCount())
}

func TestNewSummary_SeedsAllSeverities(t *testing.T) {
	sum := NewSummary()
	assert.Equal(t, 0, sum.TotalEvents)
	assert.Len(t, sum.BySeverity, len(Severities))
	for _, sev := range Severities {
		_, ok := sum.BySeverity[sev]
		assert.True(t, ok, "missing %s", sev)
	}
}
