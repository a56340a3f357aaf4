package etupload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpload(t *testing.T) {
	rows := []map[string]interface{}{{"inv_id": "INV-1"}, {"inv_id": "INV-2"}}

	upload, err := NewUpload("u_aaaaaaaaaaaa", "invoices.csv", FormatCSV, rows, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 2, upload.TotalRows)
	assert.Equal(t, 24*time.Hour, upload.ExpiresAt.Sub(upload.ReceivedAt))
	assert.False(t, upload.Expired(time.Now().UTC()))
	assert.True(t, upload.Expired(upload.ExpiresAt.Add(time.Second)))
}

func TestNewUploadValidation(t *testing.T) {
	rows := []map[string]interface{}{{"inv_id": "INV-1"}}

	_, err := NewUpload("", "f.csv", FormatCSV, rows, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidUploadID)

	_, err = NewUpload("u_aaaaaaaaaaaa", "f.xml", Format("xml"), rows, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewUpload("u_aaaaaaaaaaaa", "f.csv", FormatCSV, nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoRows)
}
