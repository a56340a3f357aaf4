package svupload

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irap/analyzer/internal/app/domains/entity/etupload"
	"irap/analyzer/internal/app/domains/repo/rpupload"
	"irap/analyzer/internal/app/pkg/errorx"
)

// noopLogger 测试用空日志实现
type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (noopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (noopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (noopLogger) Sync() error                                                    { return nil }

func newTestService() (*UploadService, *rpupload.MemoryUploadRepository) {
	repo := rpupload.NewMemoryUploadRepository()
	svc := NewUploadService(repo, 5*1024*1024, 24*time.Hour, noopLogger{})
	return svc, repo
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     etupload.Format
	}{
		{"csv extension", "invoices.csv", "a,b\n1,2", etupload.FormatCSV},
		{"json extension", "invoices.json", `[{"a":1}]`, etupload.FormatJSON},
		{"uppercase extension", "INVOICES.CSV", "a,b\n1,2", etupload.FormatCSV},
		{"no extension json array", "data", `  [{"a":1}]`, etupload.FormatJSON},
		{"no extension json object", "data", `{"a":1}`, etupload.FormatJSON},
		{"no extension plain text", "data", "a,b\n1,2", etupload.FormatCSV},
		{"unknown extension falls back to sniffing", "data.txt", `[{"a":1}]`, etupload.FormatJSON},
		{"empty filename", "", "a,b\n1,2", etupload.FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, []byte(tt.content)))
		})
	}
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV("inv_id, currency,qty\nINV-1,AED,2\nINV-2,USD,3\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// 表头去空格，单元格一律字符串
	assert.Equal(t, "INV-1", rows[0]["inv_id"])
	assert.Equal(t, "AED", rows[0]["currency"])
	assert.Equal(t, "3", rows[1]["qty"])
}

func TestParseCSVShortRecordPadded(t *testing.T) {
	rows, err := ParseCSV("a,b,c\n1,2\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "2", rows[0]["b"])
	assert.Equal(t, "", rows[0]["c"])
}

func TestParseCSVSkipsEmptyHeaders(t *testing.T) {
	rows, err := ParseCSV("a,,c\n1,2,3\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Len(t, rows[0], 2)
	assert.Equal(t, "1", rows[0]["a"])
	assert.Equal(t, "3", rows[0]["c"])
}

func TestParseCSVHeaderOnly(t *testing.T) {
	_, err := ParseCSV("a,b,c\n")
	assert.ErrorIs(t, err, errorx.ErrEmptyDataset)
}

func TestParseCSVMalformedQuotes(t *testing.T) {
	_, err := ParseCSV("a,b\n\"unterminated,2\n")
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)
}

func TestParseJSON(t *testing.T) {
	rows, err := ParseJSON([]byte(`[{"inv_id":"INV-1","qty":2},{"inv_id":"INV-2","qty":3}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "INV-1", rows[0]["inv_id"])
	assert.Equal(t, float64(2), rows[0]["qty"])
}

func TestParseJSONRejectsNonArray(t *testing.T) {
	_, err := ParseJSON([]byte(`{"inv_id":"INV-1"}`))
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)

	_, err = ParseJSON([]byte(`not json at all`))
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)
}

func TestCreateUpload(t *testing.T) {
	svc, repo := newTestService()

	upload, err := svc.CreateUpload(context.Background(), "invoices.csv", []byte("inv_id,currency\nINV-1,AED\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.ID, "u_"))
	assert.Equal(t, etupload.FormatCSV, upload.Format)
	assert.Equal(t, 1, upload.TotalRows)
	assert.True(t, upload.ExpiresAt.After(upload.ReceivedAt))

	// 已落仓储，能按ID取回
	stored, err := repo.GetByID(context.Background(), upload.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.ID, stored.ID)
}

func TestCreateUploadFileTooLarge(t *testing.T) {
	repo := rpupload.NewMemoryUploadRepository()
	svc := NewUploadService(repo, 10, 24*time.Hour, noopLogger{})

	_, err := svc.CreateUpload(context.Background(), "invoices.csv", []byte("inv_id,currency\nINV-1,AED\n"))
	assert.ErrorIs(t, err, errorx.ErrFileTooLarge)
}

func TestCreateUploadEmptyJSONArray(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateUpload(context.Background(), "invoices.json", []byte(`[]`))
	assert.ErrorIs(t, err, errorx.ErrEmptyDataset)
}

func TestGetUploadNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetUpload(context.Background(), "u_missing000000")
	assert.ErrorIs(t, err, errorx.ErrUploadNotFound)
}
