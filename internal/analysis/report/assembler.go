package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/mapper"
	"irap/analyzer/internal/analysis/rules"
	"irap/analyzer/internal/analysis/scoring"
	"irap/analyzer/internal/app/pkg/idgen"
)

// reportVersion 报告格式版本
const reportVersion = "1.0"

// DefaultRetentionDays 报告默认保留天数
const DefaultRetentionDays = 7

// Assembler 报告组装器
// 除生成报告 ID 和过期时间外为纯函数；保留周期由调用方配置
type Assembler struct {
	retention time.Duration
}

// NewAssembler 创建报告组装器，retentionDays ≤ 0 时使用默认 7 天
func NewAssembler(retentionDays int) *Assembler {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Assembler{
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Retention 报告保留时长
func (a *Assembler) Retention() time.Duration {
	return a.retention
}

// Assemble 组装完整报告
func (a *Assembler) Assemble(
	uploadID string,
	processed *dataproc.ProcessedData,
	mapping *mapper.Result,
	ruleSummary *rules.Summary,
	scores *scoring.Scores,
	questionnaire *scoring.Questionnaire,
) *Report {
	now := time.Now().UTC()
	totalFields := len(mapping.Matches) + len(mapping.Close) + len(mapping.Missing)

	return &Report{
		ReportID: idgen.NewReportID(),
		UploadID: uploadID,
		Meta: Meta{
			Version:      reportVersion,
			GeneratedAt:  now,
			ExpiresAt:    now.Add(a.retention),
			RowsAnalyzed: processed.ProcessedRows,
			TotalRows:    processed.TotalRows,
			Truncated:    processed.Truncated,
		},
		Scores: ScoresSection{
			Overall: scores.Overall,
			Breakdown: ScoreBreakdown{
				Data:     scores.Data,
				Coverage: scores.Coverage,
				Rules:    scores.Rules,
				Posture:  scores.Posture,
			},
			Readiness: scores.Readiness,
			Weights: ScoreWeights{
				Data:     "25%",
				Coverage: "35%",
				Rules:    "30%",
				Posture:  "10%",
			},
		},
		Coverage: CoverageSection{
			Summary: CoverageSummary{
				TotalFields: totalFields,
				Matched:     len(mapping.Matches),
				Close:       len(mapping.Close),
				Missing:     len(mapping.Missing),
			},
			Matches: coverageMatches(mapping),
			Close:   coverageClose(mapping),
			Missing: coverageMissing(mapping),
		},
		Rules: RulesSection{
			Summary: RulesSummary{
				TotalRules: ruleSummary.TotalCount,
				Passed:     ruleSummary.PassedCount,
				Failed:     ruleSummary.TotalCount - ruleSummary.PassedCount,
				Score:      ruleSummary.Score,
			},
			Results: ruleEntries(ruleSummary),
		},
		Questionnaire: QuestionnaireSection{
			Responses: questionnaire,
			Score:     scores.Posture,
		},
		Recommendations: buildRecommendations(mapping, ruleSummary, scores),
	}
}

func coverageMatches(mapping *mapper.Result) []CoverageMatch {
	matches := make([]CoverageMatch, 0, len(mapping.Matches))
	for _, m := range mapping.Matches {
		matches = append(matches, CoverageMatch{
			GetsField:   m.GetsField,
			SourceField: m.SourceField,
			Confidence:  percent(m.Confidence),
			Required:    m.Required,
		})
	}
	return matches
}

func coverageClose(mapping *mapper.Result) []CoverageClose {
	closes := make([]CoverageClose, 0, len(mapping.Close))
	for _, c := range mapping.Close {
		closes = append(closes, CoverageClose{
			GetsField:   c.GetsField,
			SourceField: c.SourceField,
			Confidence:  percent(c.Confidence),
			Required:    c.Required,
			Suggestion:  c.Suggestion,
		})
	}
	return closes
}

func coverageMissing(mapping *mapper.Result) []CoverageMissed {
	missing := make([]CoverageMissed, 0, len(mapping.Missing))
	for _, m := range mapping.Missing {
		missing = append(missing, CoverageMissed{
			GetsField: m.GetsField,
			Required:  m.Required,
			Type:      string(m.Type),
		})
	}
	return missing
}

// buildRecommendations 从分析结果确定性推导改进建议，不依赖任何外部调用
func buildRecommendations(mapping *mapper.Result, ruleSummary *rules.Summary, scores *scoring.Scores) []Recommendation {
	recommendations := make([]Recommendation, 0, 4)
	totalFields := len(mapping.Matches) + len(mapping.Close) + len(mapping.Missing)

	// 覆盖率偏低
	if scores.Coverage < 70 {
		recommendations = append(recommendations, Recommendation{
			Category:    "Field Mapping",
			Priority:    PriorityHigh,
			Title:       "Improve Field Coverage",
			Description: fmt.Sprintf("Only %d out of %d fields are properly mapped.", len(mapping.Matches), totalFields),
			Action:      "Review and map missing required fields to improve coverage score.",
		})
	}

	// 缺失必填字段
	requiredMissing := make([]string, 0, len(mapping.Missing))
	for _, m := range mapping.Missing {
		if m.Required {
			requiredMissing = append(requiredMissing, m.GetsField)
		}
	}
	if len(requiredMissing) > 0 {
		recommendations = append(recommendations, Recommendation{
			Category:    "Required Fields",
			Priority:    PriorityHigh,
			Title:       "Add Missing Required Fields",
			Description: fmt.Sprintf("%d required field(s) are missing: %s", len(requiredMissing), strings.Join(requiredMissing, ", ")),
			Action:      "Ensure all required fields are present in your data.",
		})
	}

	// 未通过的规则逐条给出建议
	for _, r := range ruleSummary.Results {
		if r.Passed {
			continue
		}

		priority := PriorityMedium
		if r.RuleID == rules.RuleTRNPresent || r.RuleID == rules.RuleCurrencyAllowed {
			priority = PriorityHigh
		}

		recommendations = append(recommendations, Recommendation{
			Category:    "Data Quality",
			Priority:    priority,
			Title:       fmt.Sprintf("Fix %s", r.Name),
			Description: r.Details,
			Action:      r.Suggestion,
		})
	}

	// 对接就绪度偏低
	if scores.Posture < 60 {
		recommendations = append(recommendations, Recommendation{
			Category:    "Implementation Readiness",
			Priority:    PriorityMedium,
			Title:       "Improve Integration Capabilities",
			Description: "Low posture score indicates limited integration readiness.",
			Action:      "Consider implementing webhooks, sandbox environment, and retry mechanisms.",
		})
	}

	// 综合得分偏低
	if scores.Overall < 60 {
		recommendations = append(recommendations, Recommendation{
			Category:    "Overall Readiness",
			Priority:    PriorityHigh,
			Title:       "Significant Improvements Required",
			Description: fmt.Sprintf("Overall readiness score of %d%% indicates major gaps.", scores.Overall),
			Action:      "Address high-priority issues in field mapping and data quality before proceeding with e-invoicing implementation.",
		})
	}

	return recommendations
}

// percent 把 [0,1] 置信度转为整数百分比
func percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}
