package utils

import (
	"fmt"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
)

// DateOnlyFormat is the wire format for plain calendar dates.
const DateOnlyFormat = "2006-01-02"

// ParseDateOnly parses a plain YYYY-MM-DD calendar date string.
func ParseDateOnly(s string) (time.Time, error) {
	t, err := time.Parse(DateOnlyFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, s)
	}
	return t, nil
}

// NormalizeDateString converts a plain calendar date string into a timestamp
// anchored at 12:00 UTC on that day. Anchoring at UTC noon keeps the date
// portion of the result equal to the input on every host timezone; midnight
// anchors shift a calendar day for observers past the offset.
func NormalizeDateString(s string) (time.Time, error) {
	d, err := ParseDateOnly(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), nil
}

// FormatDateOnly renders the calendar date portion of a timestamp.
func FormatDateOnly(t time.Time) string {
	return t.UTC().Format(DateOnlyFormat)
}
