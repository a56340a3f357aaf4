package rpreport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irap/analyzer/internal/analysis/report"
	"irap/analyzer/internal/analysis/scoring"
	"irap/analyzer/internal/app/pkg/errorx"
)

func newReport(id string, overall int, generatedAt time.Time, ttl time.Duration) *report.Report {
	return &report.Report{
		ReportID: id,
		UploadID: "u_aaaaaaaaaaaa",
		Meta: report.Meta{
			Version:     "1.0",
			GeneratedAt: generatedAt,
			ExpiresAt:   generatedAt.Add(ttl),
		},
		Scores: report.ScoresSection{
			Overall:   overall,
			Readiness: scoring.ReadinessLevel{Level: "High", Color: "green"},
		},
	}
}

func TestMemoryReportRepositoryRoundtrip(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()

	rep := newReport("r_aaaaaaaaaaaa", 85, time.Now().UTC(), time.Hour)
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, "r_aaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, 85, got.Scores.Overall)
}

func TestMemoryReportRepositoryNotFound(t *testing.T) {
	repo := NewMemoryReportRepository()

	_, err := repo.GetByID(context.Background(), "r_missing000000")
	assert.ErrorIs(t, err, errorx.ErrReportNotFound)
}

func TestMemoryReportRepositoryExpiredInvisible(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()

	expired := newReport("r_expired00000", 70, time.Now().UTC().Add(-2*time.Hour), time.Hour)
	require.NoError(t, repo.Save(ctx, expired))

	_, err := repo.GetByID(ctx, "r_expired00000")
	assert.ErrorIs(t, err, errorx.ErrReportNotFound)
	assert.Equal(t, int64(1), repo.EvictedCount())
}

func TestMemoryReportRepositoryRecentOrdering(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, newReport("r_first0000000", 60, now.Add(-3*time.Minute), time.Hour)))
	require.NoError(t, repo.Save(ctx, newReport("r_second000000", 70, now.Add(-2*time.Minute), time.Hour)))
	require.NoError(t, repo.Save(ctx, newReport("r_third0000000", 80, now.Add(-time.Minute), time.Hour)))

	summaries, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// 倒序：最新的在前
	assert.Equal(t, "r_third0000000", summaries[0].ReportID)
	assert.Equal(t, "r_second000000", summaries[1].ReportID)
	assert.Equal(t, 80, summaries[0].Overall)
	assert.Equal(t, "High", summaries[0].Readiness)
}

func TestMemoryReportRepositoryRecentSkipsExpired(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, newReport("r_fresh0000000", 90, now, time.Hour)))
	require.NoError(t, repo.Save(ctx, newReport("r_stale0000000", 50, now.Add(-2*time.Hour), time.Hour)))

	summaries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "r_fresh0000000", summaries[0].ReportID)
}

func TestMemoryReportRepositoryRecentDefaultLimit(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 15; i++ {
		id := "r_bulk" + string(rune('a'+i)) + "0000000"
		require.NoError(t, repo.Save(ctx, newReport(id, 60, now, time.Hour)))
	}

	summaries, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, summaries, 10)
}

func TestMemoryReportRepositoryEvictExpired(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, newReport("r_fresh0000000", 90, now, time.Hour)))
	require.NoError(t, repo.Save(ctx, newReport("r_stale0000001", 40, now.Add(-2*time.Hour), time.Hour)))
	require.NoError(t, repo.Save(ctx, newReport("r_stale0000002", 45, now.Add(-3*time.Hour), time.Hour)))

	removed, err := repo.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// 清理后列表顺序不受影响
	summaries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "r_fresh0000000", summaries[0].ReportID)
}
