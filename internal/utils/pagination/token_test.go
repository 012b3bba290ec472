package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	inspectionDate := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 9, 14, 22, 31, 987654321, time.UTC)
	inspectionID := "2f0c3f1e-7a4e-4b43-9a63-0d1f6a9c2e11"

	token := EncodeToken(inspectionDate, createdAt, inspectionID)

	gotDate, gotCreated, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, inspectionDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
	assert.Equal(t, inspectionID, gotID)
}

func TestDecodeToken_NotBase64(t *testing.T) {
	_, _, _, err := DecodeToken("!!not base64!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2025-03-09T12:00:00Z"))
	_, _, _, err := DecodeToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")
}

func TestDecodeToken_MissingInspectionID(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2025-03-09T12:00:00Z|2025-03-09T14:22:31Z|"))
	_, _, _, err := DecodeToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspection ID")
}

func TestDecodeToken_BadTimestamps(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|tomorrow|insp-1"))
	_, _, _, err := DecodeToken(token)
	assert.Error(t, err)
}
