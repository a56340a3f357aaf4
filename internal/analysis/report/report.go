// Package report 把映射、规则和评分结果组装为一份不可变的分析报告。
// 报告 JSON 键名是与持久化、渲染、通知等外部协作方唯一的字节级契约。
package report

import (
	"time"

	"irap/analyzer/internal/analysis/rules"
	"irap/analyzer/internal/analysis/scoring"
)

// Report 分析报告（聚合根），生成后视为只读
type Report struct {
	ReportID        string               `json:"reportId"`
	UploadID        string               `json:"uploadId,omitempty"`
	Meta            Meta                 `json:"meta"`
	Scores          ScoresSection        `json:"scores"`
	Coverage        CoverageSection      `json:"coverage"`
	Rules           RulesSection         `json:"rules"`
	Questionnaire   QuestionnaireSection `json:"questionnaire"`
	Recommendations []Recommendation     `json:"recommendations"`
}

// Meta 报告元数据
type Meta struct {
	Version      string    `json:"version"`
	GeneratedAt  time.Time `json:"generated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	RowsAnalyzed int       `json:"rows_analyzed"`
	TotalRows    int       `json:"total_rows"`
	Truncated    bool      `json:"truncated"`
}

// ScoresSection 评分部分
type ScoresSection struct {
	Overall   int                    `json:"overall"`
	Breakdown ScoreBreakdown         `json:"breakdown"`
	Readiness scoring.ReadinessLevel `json:"readiness"`
	Weights   ScoreWeights           `json:"weights"`
}

// ScoreBreakdown 各子分数
type ScoreBreakdown struct {
	Data     int `json:"data"`
	Coverage int `json:"coverage"`
	Rules    int `json:"rules"`
	Posture  int `json:"posture"`
}

// ScoreWeights 权重说明（展示用）
type ScoreWeights struct {
	Data     string `json:"data"`
	Coverage string `json:"coverage"`
	Rules    string `json:"rules"`
	Posture  string `json:"posture"`
}

// CoverageSection 字段覆盖部分
type CoverageSection struct {
	Summary CoverageSummary  `json:"summary"`
	Matches []CoverageMatch  `json:"matches"`
	Close   []CoverageClose  `json:"close"`
	Missing []CoverageMissed `json:"missing"`
}

// CoverageSummary 覆盖汇总
type CoverageSummary struct {
	TotalFields int `json:"total_fields"`
	Matched     int `json:"matched"`
	Close       int `json:"close"`
	Missing     int `json:"missing"`
}

// CoverageMatch 确定匹配条目，置信度为 0-100 整数百分比
type CoverageMatch struct {
	GetsField   string `json:"gets_field"`
	SourceField string `json:"source_field"`
	Confidence  int    `json:"confidence"`
	Required    bool   `json:"required"`
}

// CoverageClose 疑似匹配条目
type CoverageClose struct {
	GetsField   string `json:"gets_field"`
	SourceField string `json:"source_field"`
	Confidence  int    `json:"confidence"`
	Required    bool   `json:"required"`
	Suggestion  string `json:"suggestion"`
}

// CoverageMissed 缺失字段条目
type CoverageMissed struct {
	GetsField string `json:"gets_field"`
	Required  bool   `json:"required"`
	Type      string `json:"type"`
}

// RulesSection 规则校验部分
type RulesSection struct {
	Summary RulesSummary `json:"summary"`
	Results []RuleEntry  `json:"results"`
}

// RulesSummary 规则汇总
type RulesSummary struct {
	TotalRules int `json:"total_rules"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Score      int `json:"score"`
}

// RuleEntry 单条规则条目
type RuleEntry struct {
	RuleID      string                 `json:"rule_id"`
	Name        string                 `json:"name"`
	Passed      bool                   `json:"passed"`
	Description string                 `json:"description"`
	Details     string                 `json:"details"`
	ExampleLine map[string]interface{} `json:"example_line,omitempty"`
	Suggestion  string                 `json:"suggestion,omitempty"`
}

// QuestionnaireSection 问卷部分
type QuestionnaireSection struct {
	Responses *scoring.Questionnaire `json:"responses"`
	Score     int                    `json:"score"`
}

// Recommendation 改进建议（由失败规则、缺失必填字段和低分项确定性推导）
type Recommendation struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// 建议优先级
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

// ruleEntries 把规则结果转为报告条目
func ruleEntries(summary *rules.Summary) []RuleEntry {
	entries := make([]RuleEntry, 0, len(summary.Results))
	for _, r := range summary.Results {
		entries = append(entries, RuleEntry{
			RuleID:      r.RuleID,
			Name:        r.Name,
			Passed:      r.Passed,
			Description: r.Description,
			Details:     r.Details,
			ExampleLine: r.ExampleLine,
			Suggestion:  r.Suggestion,
		})
	}
	return entries
}
