package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Zone-qualified layouts; "Z07:00" accepts both a trailing "Z" and a
// numeric offset. The collector emits ISO-8601 with either "T" or a
// space as the date/time separator.
var zonedLayouts = []string{
	"2006-01-02T15:04:05.000000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.000000Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// Layouts without zone information; these are interpreted as UTC.
var bareLayouts = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05",
}

var errEmptyTimestamp = errors.New("empty timestamp")

// parseEventTime parses an event timestamp in ISO-8601 form with an
// optional fractional-second component and an optional trailing Z or
// numeric offset. The fraction is normalized to exactly six digits
// before parsing, since the source emits anywhere from one to seven.
func parseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}

	s = normalizeFraction(s)

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range bareLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// normalizeFraction pads or truncates the fractional-second component
// to exactly six digits, leaving any zone suffix untouched.
func normalizeFraction(s string) string {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return s
	}

	j := i + 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}

	frac := s[i+1 : j]
	if len(frac) == 0 {
		// A bare trailing dot is not valid ISO-8601; leave it for the
		// parser to reject.
		return s
	}
	if len(frac) > 6 {
		frac = frac[:6]
	} else if len(frac) < 6 {
		frac += strings.Repeat("0", 6-len(frac))
	}

	return s[:i+1] + frac + s[j:]
}
