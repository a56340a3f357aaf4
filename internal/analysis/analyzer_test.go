package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/scoring"
)

func cleanInvoiceRows(n int) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]interface{}{
			"inv_id":         "INV-001",
			"issue_date":     "2025-01-15",
			"currency":       "AED",
			"total_excl_vat": 100.0,
			"vat_amount":     5.0,
			"total_incl_vat": 105.0,
			"seller_name":    "Alpha Traders LLC",
			"seller_trn":     "TRN-AE-SELL",
			"seller_country": "AE",
			"seller_city":    "Dubai",
			"buyer_name":     "Beta Retail",
			"buyer_trn":      "TRN-AE-BUY",
			"buyer_country":  "AE",
			"buyer_city":     "Sharjah",
			"sku":            "SKU-A1",
			"qty":            2.0,
			"unit_price":     50.0,
			"line_total":     100.0,
		})
	}
	return rows
}

func fullQuestionnaire() *scoring.Questionnaire {
	return &scoring.Questionnaire{Webhooks: true, SandboxEnv: true, Retries: true}
}

func TestAnalyzeCleanDataset(t *testing.T) {
	a := NewAnalyzer(7)
	in := &Input{
		UploadID:      "u_test00000001",
		Data:          dataproc.LimitRows(cleanInvoiceRows(10), dataproc.DefaultMaxRows),
		Questionnaire: fullQuestionnaire(),
	}

	rep, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "u_test00000001", rep.UploadID)
	assert.Equal(t, 10, rep.Meta.RowsAnalyzed)

	assert.Equal(t, 100, rep.Scores.Overall)
	assert.Equal(t, "High", rep.Scores.Readiness.Level)

	assert.Equal(t, 18, rep.Coverage.Summary.TotalFields)
	assert.Equal(t, 18, rep.Coverage.Summary.Matched)
	assert.Zero(t, rep.Coverage.Summary.Close)
	assert.Zero(t, rep.Coverage.Summary.Missing)

	assert.Equal(t, 5, rep.Rules.Summary.Passed)
	assert.Zero(t, rep.Rules.Summary.Failed)
	assert.Empty(t, rep.Recommendations)
}

// 数据集完全缺少卖方 TRN：该字段计入缺失，仅 TRN 规则失败
func TestAnalyzeMissingSellerTRN(t *testing.T) {
	a := NewAnalyzer(7)

	rows := make([]map[string]interface{}, 0, 5)
	for _, row := range cleanInvoiceRows(5) {
		delete(row, "seller_name")
		delete(row, "seller_trn")
		delete(row, "seller_country")
		delete(row, "seller_city")
		delete(row, "buyer_trn")
		delete(row, "buyer_country")
		delete(row, "buyer_city")
		rows = append(rows, row)
	}

	in := &Input{
		UploadID:      "u_missingtrn01",
		Data:          dataproc.LimitRows(rows, dataproc.DefaultMaxRows),
		Questionnaire: fullQuestionnaire(),
	}

	rep, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)

	missingPaths := make(map[string]bool)
	for _, m := range rep.Coverage.Missing {
		missingPaths[m.GetsField] = true
	}
	assert.True(t, missingPaths["seller.trn"])

	assert.Equal(t, 80, rep.Rules.Summary.Score)
	assert.Equal(t, 1, rep.Rules.Summary.Failed)

	assert.Equal(t, 18, rep.Coverage.Summary.TotalFields)
	assert.Equal(t, 18,
		rep.Coverage.Summary.Matched+rep.Coverage.Summary.Close+rep.Coverage.Summary.Missing)

	// data 100×0.25 + coverage 75×0.35 + rules 80×0.30 + posture 100×0.10 = 85.25
	assert.Equal(t, 75, rep.Scores.Breakdown.Coverage)
	assert.Equal(t, 85, rep.Scores.Overall)
	assert.Equal(t, "High", rep.Scores.Readiness.Level)
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	a := NewAnalyzer(7)
	in := &Input{
		UploadID: "u_empty0000001",
		Data:     dataproc.LimitRows(nil, dataproc.DefaultMaxRows),
	}

	rep, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Zero(t, rep.Scores.Overall)
	assert.Equal(t, "Low", rep.Scores.Readiness.Level)
	assert.Equal(t, 18, rep.Coverage.Summary.Missing)
	assert.Equal(t, 5, rep.Rules.Summary.Failed)
	assert.NotEmpty(t, rep.Recommendations)
}

func TestAnalyzeNilInput(t *testing.T) {
	a := NewAnalyzer(7)

	_, err := a.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilDataset)

	_, err = a.Analyze(context.Background(), &Input{UploadID: "u_x"})
	assert.ErrorIs(t, err, ErrNilDataset)
}

// 相同输入两次分析，除报告 ID 与时间戳外结果完全一致
func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(7)
	in := &Input{
		UploadID:      "u_determinism1",
		Data:          dataproc.LimitRows(cleanInvoiceRows(3), dataproc.DefaultMaxRows),
		Questionnaire: &scoring.Questionnaire{Webhooks: true},
	}

	first, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.ReportID, second.ReportID)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Coverage, second.Coverage)
	assert.Equal(t, first.Rules, second.Rules)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}
