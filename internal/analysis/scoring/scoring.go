// Package scoring 把数据质量、字段覆盖率、规则合规性和对接问卷
// 四个子分数按固定权重合成综合就绪度得分。
package scoring

import (
	"math"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/gets"
	"irap/analyzer/internal/analysis/mapper"
	"irap/analyzer/internal/analysis/rules"
)

// Questionnaire 对接就绪度问卷
type Questionnaire struct {
	Webhooks   bool `json:"webhooks"`
	SandboxEnv bool `json:"sandbox_env"`
	Retries    bool `json:"retries"`
}

// ReadinessLevel 就绪度档位
type ReadinessLevel struct {
	Level       string `json:"level"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Scores 各子分数与综合得分，均为 [0,100] 整数
type Scores struct {
	Data      int            `json:"data"`
	Coverage  int            `json:"coverage"`
	Rules     int            `json:"rules"`
	Posture   int            `json:"posture"`
	Overall   int            `json:"overall"`
	Readiness ReadinessLevel `json:"readinessLevel"`
}

// Service 评分服务
type Service struct{}

// NewService 创建评分服务实例
func NewService() *Service {
	return &Service{}
}

// Calculate 计算全部子分数与综合得分
func (s *Service) Calculate(
	processed *dataproc.ProcessedData,
	mapping *mapper.Result,
	ruleSummary *rules.Summary,
	questionnaire *Questionnaire,
) *Scores {
	dataScore := s.calculateDataScore(processed)
	coverageScore := s.calculateCoverageScore(mapping)
	rulesScore := ruleSummary.Score
	postureScore := s.calculatePostureScore(questionnaire)

	overall := s.calculateOverallScore(dataScore, coverageScore, rulesScore, postureScore)

	return &Scores{
		Data:      dataScore,
		Coverage:  coverageScore,
		Rules:     rulesScore,
		Posture:   postureScore,
		Overall:   overall,
		Readiness: readinessFor(overall),
	}
}

// calculateDataScore 数据得分（权重 25%）
// 解析成功率打底，非空单元格占比最多再加 10 分
func (s *Service) calculateDataScore(processed *dataproc.ProcessedData) int {
	// 空数据集没有可评估的质量
	if processed.TotalRows == 0 {
		return 0
	}

	parseScore := float64(processed.ProcessedRows) / float64(processed.TotalRows) * 100

	qualityBonus := 0.0
	if len(processed.Rows) > 0 {
		totalCells := len(processed.Rows[0]) * processed.ProcessedRows
		if totalCells > 0 {
			filledCells := 0
			for _, row := range processed.Rows {
				for _, value := range row {
					if value != nil && value != "" {
						filledCells++
					}
				}
			}
			qualityBonus = float64(filledCells) / float64(totalCells) * 10
		}
	}

	return int(math.Round(math.Min(parseScore+qualityBonus, 100)))
}

// calculateCoverageScore 覆盖率得分（权重 35%）
// 按分类加权：header 40%、seller 25%、buyer 25%、lines 10%
// 分类内确定匹配计满分、疑似匹配计 0.6 分
func (s *Service) calculateCoverageScore(mapping *mapper.Result) int {
	weightedScore := 0.0

	// 固定遍历顺序，保证浮点求和结果可复现
	categories := []gets.Category{gets.CategoryHeader, gets.CategorySeller, gets.CategoryBuyer, gets.CategoryLines}

	for _, category := range categories {
		weight := gets.CategoryWeights[category]
		categoryFields := gets.FieldsByCategory(category)

		// 空分类视为完全满足，避免除零
		categoryScore := 100.0
		if len(categoryFields) > 0 {
			paths := make(map[string]bool, len(categoryFields))
			for _, f := range categoryFields {
				paths[f.Path] = true
			}

			matched := 0
			for _, m := range mapping.Matches {
				if paths[m.GetsField] {
					matched++
				}
			}

			closeCount := 0
			for _, c := range mapping.Close {
				if paths[c.GetsField] {
					closeCount++
				}
			}

			categoryScore = (float64(matched) + 0.6*float64(closeCount)) / float64(len(categoryFields)) * 100
		}

		weightedScore += categoryScore * weight
	}

	return int(math.Round(math.Min(weightedScore, 100)))
}

// calculatePostureScore 对接就绪度得分（权重 10%）
// webhooks 40 分、sandbox 35 分、retries 25 分，封顶 100
func (s *Service) calculatePostureScore(questionnaire *Questionnaire) int {
	if questionnaire == nil {
		return 0
	}

	score := 0
	if questionnaire.Webhooks {
		score += 40
	}
	if questionnaire.SandboxEnv {
		score += 35
	}
	if questionnaire.Retries {
		score += 25
	}

	if score > 100 {
		score = 100
	}
	return score
}

// calculateOverallScore 按固定权重合成综合得分
func (s *Service) calculateOverallScore(data, coverage, rulesScore, posture int) int {
	overall := float64(data)*gets.ScoringWeights.Data +
		float64(coverage)*gets.ScoringWeights.Coverage +
		float64(rulesScore)*gets.ScoringWeights.Rules +
		float64(posture)*gets.ScoringWeights.Posture

	return int(math.Round(overall))
}

// readinessFor 按综合得分划档：≥80 High、≥60 Medium、其余 Low
func readinessFor(overall int) ReadinessLevel {
	switch {
	case overall >= 80:
		return ReadinessLevel{
			Level:       "High",
			Description: "Ready for e-invoicing implementation",
			Color:       "green",
		}
	case overall >= 60:
		return ReadinessLevel{
			Level:       "Medium",
			Description: "Some improvements needed before implementation",
			Color:       "orange",
		}
	default:
		return ReadinessLevel{
			Level:       "Low",
			Description: "Significant improvements required",
			Color:       "red",
		}
	}
}
