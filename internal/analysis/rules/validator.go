// Package rules 对映射后的发票数据执行五条固定业务规则。
// 规则之间相互独立、顺序无关；单条规则只有在全部行通过时才算通过。
package rules

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/mapper"
)

// 规则 ID
const (
	RuleTotalsBalance   = "TOTALS_BALANCE"
	RuleLineMath        = "LINE_MATH"
	RuleDateISO         = "DATE_ISO"
	RuleCurrencyAllowed = "CURRENCY_ALLOWED"
	RuleTRNPresent      = "TRN_PRESENT"
)

// amountTolerance 金额比对的绝对容差（±0.01）
var amountTolerance = decimal.NewFromFloat(0.01)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RuleResult 单条规则的校验结果
type RuleResult struct {
	RuleID      string                 `json:"ruleId"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Passed      bool                   `json:"passed"`
	Details     string                 `json:"details"`
	ExampleLine map[string]interface{} `json:"exampleLine,omitempty"`
	Suggestion  string                 `json:"suggestion,omitempty"`
}

// Summary 全部规则的汇总结果
type Summary struct {
	Score       int          `json:"score"`
	PassedCount int          `json:"passedCount"`
	TotalCount  int          `json:"totalCount"`
	Results     []RuleResult `json:"results"`
}

// checkResult 单条规则执行的内部结果
type checkResult struct {
	passed      bool
	details     string
	exampleLine map[string]interface{}
}

type checkFunc func(rows []map[string]interface{}, mapping *mapper.Result) checkResult

type rule struct {
	id          string
	name        string
	description string
	check       checkFunc
}

// Validator 规则校验器
type Validator struct {
	rules []rule
}

// NewValidator 创建规则校验器实例
func NewValidator() *Validator {
	v := &Validator{}
	v.rules = []rule{
		{
			id:          RuleTotalsBalance,
			name:        "Totals Balance Check",
			description: "Verify that total_excl_vat + vat_amount = total_incl_vat",
			check:       v.checkTotalsBalance,
		},
		{
			id:          RuleLineMath,
			name:        "Line Item Math Check",
			description: "Verify that line_total = qty × unit_price for each line",
			check:       v.checkLineMath,
		},
		{
			id:          RuleDateISO,
			name:        "ISO Date Format Check",
			description: "Verify that invoice dates are in YYYY-MM-DD format",
			check:       v.checkDateISO,
		},
		{
			id:          RuleCurrencyAllowed,
			name:        "Allowed Currency Check",
			description: "Verify that currency is one of: AED, SAR, MYR, USD",
			check:       v.checkCurrency,
		},
		{
			id:          RuleTRNPresent,
			name:        "TRN Presence Check",
			description: "Verify that both buyer and seller TRN are non-empty",
			check:       v.checkTRNPresence,
		},
	}
	return v
}

// Validate 对全部行执行五条规则并汇总得分
// 得分为未加权通过率：round(100 × 通过数 / 规则总数)
func (v *Validator) Validate(rows []map[string]interface{}, mapping *mapper.Result) *Summary {
	results := make([]RuleResult, 0, len(v.rules))
	passedCount := 0

	for _, r := range v.rules {
		outcome := r.check(rows, mapping)
		if outcome.passed {
			passedCount++
		}

		results = append(results, RuleResult{
			RuleID:      r.id,
			Name:        r.name,
			Description: r.description,
			Passed:      outcome.passed,
			Details:     outcome.details,
			ExampleLine: outcome.exampleLine,
			Suggestion:  suggestionFor(r.id, outcome.passed),
		})
	}

	score := int(math.Round(float64(passedCount) / float64(len(v.rules)) * 100))

	return &Summary{
		Score:       score,
		PassedCount: passedCount,
		TotalCount:  len(v.rules),
		Results:     results,
	}
}

// checkTotalsBalance 规则 1：total_excl_vat + vat_amount = total_incl_vat（±0.01）
func (v *Validator) checkTotalsBalance(rows []map[string]interface{}, mapping *mapper.Result) checkResult {
	totalExclField := findMappedField("invoice.total_excl_vat", mapping)
	vatAmountField := findMappedField("invoice.vat_amount", mapping)
	totalInclField := findMappedField("invoice.total_incl_vat", mapping)

	if totalExclField == "" || vatAmountField == "" || totalInclField == "" {
		return checkResult{
			passed:  false,
			details: "Required fields for total balance check not found",
		}
	}

	passedCount := 0
	totalCount := 0
	var exampleLine map[string]interface{}

	for i, row := range rows {
		flattened := dataproc.Flatten(row, "")

		totalExcl := parseAmount(flattened[totalExclField])
		vatAmount := parseAmount(flattened[vatAmountField])
		totalIncl := parseAmount(flattened[totalInclField])

		calculated := totalExcl.Add(vatAmount)
		difference := calculated.Sub(totalIncl).Abs()

		totalCount++
		if difference.LessThanOrEqual(amountTolerance) {
			passedCount++
		} else if exampleLine == nil {
			exampleLine = map[string]interface{}{
				"row":        i + 1,
				"expected":   calculated.StringFixed(2),
				"actual":     totalIncl.StringFixed(2),
				"difference": difference.StringFixed(2),
			}
		}
	}

	return checkResult{
		passed:      passedCount == totalCount,
		details:     fmt.Sprintf("%d/%d rows passed totals balance check", passedCount, totalCount),
		exampleLine: exampleLine,
	}
}

// checkLineMath 规则 2：每个行项目 line_total = qty × unit_price（±0.01）
func (v *Validator) checkLineMath(rows []map[string]interface{}, mapping *mapper.Result) checkResult {
	qtyField := findMappedField("lines[].qty", mapping)
	priceField := findMappedField("lines[].unit_price", mapping)
	totalField := findMappedField("lines[].line_total", mapping)

	if qtyField == "" || priceField == "" || totalField == "" {
		return checkResult{
			passed:  false,
			details: "Required fields for line math check not found",
		}
	}

	passedCount := 0
	totalCount := 0
	var exampleLine map[string]interface{}

	for i, row := range rows {
		for _, line := range extractLines(row) {
			flattened := dataproc.Flatten(line, "")

			qty := parseAmount(lineValue(flattened, qtyField))
			price := parseAmount(lineValue(flattened, priceField))
			lineTotal := parseAmount(lineValue(flattened, totalField))

			calculated := qty.Mul(price)
			difference := calculated.Sub(lineTotal).Abs()

			totalCount++
			if difference.LessThanOrEqual(amountTolerance) {
				passedCount++
			} else if exampleLine == nil {
				exampleLine = map[string]interface{}{
					"row":        i + 1,
					"qty":        qty.InexactFloat64(),
					"price":      price.InexactFloat64(),
					"expected":   calculated.StringFixed(2),
					"actual":     lineTotal.StringFixed(2),
					"difference": difference.StringFixed(2),
				}
			}
		}
	}

	return checkResult{
		passed:      passedCount == totalCount,
		details:     fmt.Sprintf("%d/%d line items passed math check", passedCount, totalCount),
		exampleLine: exampleLine,
	}
}

// checkDateISO 规则 3：issue_date 必须是 YYYY-MM-DD 且为合法日历日期
func (v *Validator) checkDateISO(rows []map[string]interface{}, mapping *mapper.Result) checkResult {
	dateField := findMappedField("invoice.issue_date", mapping)
	if dateField == "" {
		return checkResult{
			passed:  false,
			details: "Invoice date field not found",
		}
	}

	passedCount := 0
	totalCount := 0
	var exampleLine map[string]interface{}

	for i, row := range rows {
		flattened := dataproc.Flatten(row, "")
		dateValue := dataproc.Stringify(flattened[dateField])

		totalCount++
		if isoDatePattern.MatchString(dateValue) {
			// 格式正确还需往返解析校验，拦截 2025-02-30 这类假日期
			parsed, err := time.Parse(dataproc.ISODateLayout, dateValue)
			if err == nil && parsed.Format(dataproc.ISODateLayout) == dateValue {
				passedCount++
			} else if exampleLine == nil {
				exampleLine = map[string]interface{}{
					"row":   i + 1,
					"value": dateValue,
					"issue": "Invalid date despite correct format",
				}
			}
		} else if exampleLine == nil {
			exampleLine = map[string]interface{}{
				"row":   i + 1,
				"value": dateValue,
				"issue": "Not in YYYY-MM-DD format",
			}
		}
	}

	return checkResult{
		passed:      passedCount == totalCount,
		details:     fmt.Sprintf("%d/%d rows have valid ISO dates", passedCount, totalCount),
		exampleLine: exampleLine,
	}
}

// checkCurrency 规则 4：currency ∈ {AED, SAR, MYR, USD}，大小写不敏感
func (v *Validator) checkCurrency(rows []map[string]interface{}, mapping *mapper.Result) checkResult {
	currencyField := findMappedField("invoice.currency", mapping)
	if currencyField == "" {
		return checkResult{
			passed:  false,
			details: "Currency field not found",
		}
	}

	validCurrencies := []string{"AED", "SAR", "MYR", "USD"}

	passedCount := 0
	totalCount := 0
	var exampleLine map[string]interface{}

	for i, row := range rows {
		flattened := dataproc.Flatten(row, "")
		currency := dataproc.Stringify(flattened[currencyField])

		totalCount++
		if currency != "" && containsString(validCurrencies, strings.ToUpper(currency)) {
			passedCount++
		} else if exampleLine == nil {
			exampleLine = map[string]interface{}{
				"row":          i + 1,
				"value":        currency,
				"validOptions": strings.Join(validCurrencies, ", "),
			}
		}
	}

	return checkResult{
		passed:      passedCount == totalCount,
		details:     fmt.Sprintf("%d/%d rows have valid currency", passedCount, totalCount),
		exampleLine: exampleLine,
	}
}

// checkTRNPresence 规则 5：buyer.trn 和 seller.trn 去除空白后均非空
func (v *Validator) checkTRNPresence(rows []map[string]interface{}, mapping *mapper.Result) checkResult {
	buyerTrnField := findMappedField("buyer.trn", mapping)
	sellerTrnField := findMappedField("seller.trn", mapping)

	if buyerTrnField == "" || sellerTrnField == "" {
		return checkResult{
			passed:  false,
			details: "TRN fields not found",
		}
	}

	passedCount := 0
	totalCount := 0
	var exampleLine map[string]interface{}

	for i, row := range rows {
		flattened := dataproc.Flatten(row, "")

		buyerTrn := strings.TrimSpace(dataproc.Stringify(flattened[buyerTrnField]))
		sellerTrn := strings.TrimSpace(dataproc.Stringify(flattened[sellerTrnField]))

		totalCount++
		if buyerTrn != "" && sellerTrn != "" {
			passedCount++
		} else if exampleLine == nil {
			exampleLine = map[string]interface{}{
				"row":       i + 1,
				"buyerTrn":  orEmpty(buyerTrn),
				"sellerTrn": orEmpty(sellerTrn),
			}
		}
	}

	return checkResult{
		passed:      passedCount == totalCount,
		details:     fmt.Sprintf("%d/%d rows have both TRNs present", passedCount, totalCount),
		exampleLine: exampleLine,
	}
}

// findMappedField 查找标准字段映射到的源字段名，仅认确定匹配
func findMappedField(getsPath string, mapping *mapper.Result) string {
	for _, match := range mapping.Matches {
		if match.GetsField == getsPath {
			return match.SourceField
		}
	}
	return ""
}

// extractLines 取出行项目集合：嵌套 lines 数组或行本身（平铺 CSV 场景）
func extractLines(row map[string]interface{}) []map[string]interface{} {
	if raw, ok := row["lines"].([]interface{}); ok {
		lines := make([]map[string]interface{}, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				lines = append(lines, m)
			}
		}
		return lines
	}
	return []map[string]interface{}{row}
}

// lineValue 行项目字段取值：先按去掉 lines[]. 前缀的键查，再按完整键查
func lineValue(flattened map[string]interface{}, field string) interface{} {
	if v, ok := flattened[strings.TrimPrefix(field, "lines[].")]; ok {
		return v
	}
	return flattened[field]
}

// parseAmount 金额解析，解析失败按 0 处理
func parseAmount(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}

	s := strings.TrimSpace(dataproc.Stringify(value))
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// suggestionFor 未通过规则的修复建议
func suggestionFor(ruleID string, passed bool) string {
	if passed {
		return ""
	}

	suggestions := map[string]string{
		RuleTotalsBalance:   "Ensure total_incl_vat = total_excl_vat + vat_amount",
		RuleLineMath:        "Verify line_total = quantity × unit_price for each line item",
		RuleDateISO:         "Use ISO dates like 2025-01-31 (YYYY-MM-DD format)",
		RuleCurrencyAllowed: "Use valid currencies: AED, SAR, MYR, or USD",
		RuleTRNPresent:      "Ensure both buyer and seller TRN fields are populated",
	}

	if s, ok := suggestions[ruleID]; ok {
		return s
	}
	return "Review data for compliance"
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func orEmpty(s string) string {
	if s == "" {
		return "empty"
	}
	return s
}
