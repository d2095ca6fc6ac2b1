package handlers

import (
	"net/url"
	"time"

	"advisormetric/internal/models"
)

// Open ends of a window are clamped to these bounds.
var (
	earliest = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	latest   = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

const boundMessage = "must be an RFC 3339 timestamp or YYYY-MM-DD date"

type dateRange struct {
	start, end time.Time
}

// parseDateRange reads the optional from/to query parameters. It returns nil
// when neither is given, and the offending fields when a value does not
// parse. Values are RFC 3339 timestamps or YYYY-MM-DD dates;
// a date in "to" covers that whole day.
func parseDateRange(q url.Values) (*dateRange, []models.FieldError) {
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		return nil, nil
	}

	rng := &dateRange{start: earliest, end: latest}
	var invalid []models.FieldError
	if from != "" {
		t, _, err := parseBound(from)
		if err != nil {
			invalid = append(invalid, models.FieldError{Field: "from", Message: boundMessage})
		}
		rng.start = t
	}
	if to != "" {
		t, dateOnly, err := parseBound(to)
		if err != nil {
			invalid = append(invalid, models.FieldError{Field: "to", Message: boundMessage})
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		rng.end = t
	}
	if len(invalid) > 0 {
		return nil, invalid
	}
	return rng, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
