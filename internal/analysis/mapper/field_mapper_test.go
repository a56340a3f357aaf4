package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/gets"
)

// fullInvoiceRows 18 列平铺数据，列名全部命中别名表
func fullInvoiceRows(n int) []map[string]interface{} {
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

func assertPartition(t *testing.T, result *Result) {
	t.Helper()
	assert.Equal(t, len(gets.Schema), len(result.Matches)+len(result.Close)+len(result.Missing),
		"every schema field must land in exactly one bucket")
}

func TestMapFieldsAllAliasesMatched(t *testing.T) {
	m := NewFieldMapper()

	result := m.MapFields(fullInvoiceRows(10))

	assertPartition(t, result)
	assert.Len(t, result.Matches, len(gets.Schema))
	assert.Empty(t, result.Close)
	assert.Empty(t, result.Missing)

	for _, match := range result.Matches {
		assert.Equal(t, 1.0, match.Confidence, "exact alias with compatible type caps at 1.0: %s", match.GetsField)
	}

	bySource := make(map[string]string)
	for _, match := range result.Matches {
		bySource[match.GetsField] = match.SourceField
	}
	assert.Equal(t, "inv_id", bySource["invoice.id"])
	assert.Equal(t, "issue_date", bySource["invoice.issue_date"])
	assert.Equal(t, "seller_trn", bySource["seller.trn"])
	assert.Equal(t, "line_total", bySource["lines[].line_total"])
}

func TestMapFieldsNormalizedAliasMatch(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"Invoice_Number": "INV-9"},
	}

	result := m.MapFields(rows)

	assertPartition(t, result)

	var idMatch *Match
	for i := range result.Matches {
		if result.Matches[i].GetsField == "invoice.id" {
			idMatch = &result.Matches[i]
		}
	}
	require.NotNil(t, idMatch, "normalized alias should resolve to a confirmed match")
	assert.Equal(t, "Invoice_Number", idMatch.SourceField)
	// 0.95 × 1.1 类型加成后封顶 1.0
	assert.Equal(t, 1.0, idMatch.Confidence)
}

func TestMapFieldsCloseMatchBySimilarity(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"buyer_name": "X Corp"},
	}

	result := m.MapFields(rows)

	assertPartition(t, result)

	var nameMatch *Match
	for i := range result.Matches {
		if result.Matches[i].GetsField == "buyer.name" {
			nameMatch = &result.Matches[i]
		}
	}
	require.NotNil(t, nameMatch)
	assert.Equal(t, 1.0, nameMatch.Confidence)

	// buyer_trn 别名与 buyer_name 相似度落在疑似区间
	var trnClose *CloseMatch
	for i := range result.Close {
		if result.Close[i].GetsField == "buyer.trn" {
			trnClose = &result.Close[i]
		}
	}
	require.NotNil(t, trnClose, "buyer.trn should be a close match against buyer_name")
	assert.Equal(t, "buyer_name", trnClose.SourceField)
	assert.GreaterOrEqual(t, trnClose.Confidence, MinConfidence)
	assert.Less(t, trnClose.Confidence, MatchedThreshold)
	assert.InDelta(t, 0.7333, trnClose.Confidence, 0.001)
	assert.Contains(t, trnClose.Suggestion, "'buyer_name' likely maps to 'buyer.trn'")
	assert.Contains(t, trnClose.Suggestion, "data type match")

	// 相似度过低的字段保持缺失
	missingPaths := make(map[string]bool)
	for _, miss := range result.Missing {
		missingPaths[miss.GetsField] = true
	}
	assert.True(t, missingPaths["seller.trn"])
	assert.True(t, missingPaths["invoice.currency"])
}

func TestMapFieldsUnrelatedColumnsAllMissing(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"zzz": 1.0, "xxx": "foo"},
	}

	result := m.MapFields(rows)

	assertPartition(t, result)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Close)
	assert.Len(t, result.Missing, len(gets.Schema))
}

func TestMapFieldsEmptyRows(t *testing.T) {
	m := NewFieldMapper()

	result := m.MapFields(nil)

	assertPartition(t, result)
	assert.Len(t, result.Missing, len(gets.Schema))
	for _, miss := range result.Missing {
		field := gets.FieldByPath(miss.GetsField)
		require.NotNil(t, field)
		assert.Equal(t, field.Required, miss.Required)
		assert.Equal(t, field.Type, miss.Type)
	}
}

func TestMapFieldsTypeMismatchPenalty(t *testing.T) {
	m := NewFieldMapper()
	// 列名精确命中别名，但值是数字而标准字段要求字符串
	rows := []map[string]interface{}{
		{"seller_trn": 100123456700003.0},
	}

	result := m.MapFields(rows)

	var trnClose *CloseMatch
	for i := range result.Close {
		if result.Close[i].GetsField == "seller.trn" {
			trnClose = &result.Close[i]
		}
	}
	require.NotNil(t, trnClose, "exact alias with incompatible type should degrade to close")
	// 1.0 × 0.7 惩罚
	assert.InDelta(t, 0.7, trnClose.Confidence, 1e-9)
	assert.Contains(t, trnClose.Suggestion, "name similarity")
}

func TestExtractSourceFields(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"b": "2025-01-01", "a": "text"},
		{"a": "more", "c": 3.5},
	}

	fields := m.ExtractSourceFields(rows)

	require.Len(t, fields, 3)
	// 行内排序 + 跨行首次出现去重
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "b", fields[1].Name)
	assert.Equal(t, "c", fields[2].Name)

	assert.Equal(t, dataproc.TypeString, fields[0].Type)
	assert.Equal(t, dataproc.TypeDate, fields[1].Type)
	assert.Equal(t, dataproc.TypeNumber, fields[2].Type)
}

func TestDetectFieldTypeMajorityWins(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"v": "12"},
		{"v": "34"},
		{"v": "abc"},
	}

	assert.Equal(t, dataproc.TypeNumber, m.detectFieldType("v", rows))
}

func TestDetectFieldTypeSkipsEmptyValues(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"v": nil},
		{"v": ""},
		{"v": "2025-06-30"},
	}

	assert.Equal(t, dataproc.TypeDate, m.detectFieldType("v", rows))
}

func TestDetectFieldTypeAllEmpty(t *testing.T) {
	m := NewFieldMapper()
	rows := []map[string]interface{}{
		{"v": nil},
	}

	assert.Equal(t, dataproc.TypeUnknown, m.detectFieldType("v", rows))
}

func TestCoverageScore(t *testing.T) {
	m := NewFieldMapper()

	full := m.MapFields(fullInvoiceRows(3))
	assert.Equal(t, 100, m.CoverageScore(full))

	empty := m.MapFields(nil)
	assert.Equal(t, 0, m.CoverageScore(empty))
}

func TestCoverageScoreCloseCountsHalf(t *testing.T) {
	m := NewFieldMapper()
	result := &Result{
		Matches: []Match{
			{GetsField: "invoice.id", Required: true},
			{GetsField: "invoice.currency", Required: true},
		},
		Close: []CloseMatch{
			{GetsField: "seller.trn", Required: true},
			{GetsField: "buyer.trn", Required: true},
			{GetsField: "seller.city", Required: false},
		},
	}

	// (2 + 0.5×2) / 16 = 18.75 → 19
	assert.Equal(t, 19, m.CoverageScore(result))
}
