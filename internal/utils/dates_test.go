package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
)

func TestNormalizeDateString(t *testing.T) {
	got, err := NormalizeDateString("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestNormalizeDateString_RoundTripsThroughFormat(t *testing.T) {
	inputs := []string{"2024-02-29", "2025-01-01", "2025-12-31", "1999-06-15"}
	for _, s := range inputs {
		normalized, err := NormalizeDateString(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, FormatDateOnly(normalized), s)
	}
}

func TestNormalizeDateString_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "09-03-2025", "2025-03-09T10:00:00Z", "not-a-date"} {
		_, err := NormalizeDateString(s)
		require.Error(t, err, s)
		assert.ErrorIs(t, err, apperrors.ErrValidation, s)
	}
}

func TestFormatDateOnly_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*60*60)
	// 01:00 on Mar 10 in UTC+13 is still Mar 9 in UTC.
	ts := time.Date(2025, 3, 10, 1, 0, 0, 0, loc)
	assert.Equal(t, "2025-03-09", FormatDateOnly(ts))
}
