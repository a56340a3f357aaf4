// Package analysis 是发票就绪度分析引擎的组合入口：
// 字段映射 → 规则校验 → 综合评分 → 报告组装。
// 整条链路同步、有界（行数 ≤200、字段 18 个、规则 5 条），
// 除报告 ID 与时间戳外对相同输入产出完全一致的结果。
package analysis

import (
	"context"
	"errors"
	"time"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/mapper"
	"irap/analyzer/internal/analysis/report"
	"irap/analyzer/internal/analysis/rules"
	"irap/analyzer/internal/analysis/scoring"
)

// ErrNilDataset 输入数据集为空指针
var ErrNilDataset = errors.New("dataset is required")

// Input 一次分析的全部输入
type Input struct {
	UploadID      string
	Data          *dataproc.ProcessedData
	Questionnaire *scoring.Questionnaire
}

// Analyzer 分析引擎（组合四个阶段）
type Analyzer struct {
	fieldMapper *mapper.FieldMapper
	validator   *rules.Validator
	scorer      *scoring.Service
	assembler   *report.Assembler
}

// NewAnalyzer 创建分析引擎实例
func NewAnalyzer(retentionDays int) *Analyzer {
	return &Analyzer{
		fieldMapper: mapper.NewFieldMapper(),
		validator:   rules.NewValidator(),
		scorer:      scoring.NewService(),
		assembler:   report.NewAssembler(retentionDays),
	}
}

// ReportRetention 报告保留时长（供存储层设置 TTL）
func (a *Analyzer) ReportRetention() time.Duration {
	return a.assembler.Retention()
}

// Analyze 执行完整分析流程
// 数据形态问题（字段缺失、规则失败、空数据集）不会中断分析，
// 始终产出一份结构完整的报告
func (a *Analyzer) Analyze(ctx context.Context, in *Input) (*report.Report, error) {
	if in == nil || in.Data == nil {
		return nil, ErrNilDataset
	}

	// 1. 字段映射
	mapping := a.fieldMapper.MapFields(in.Data.Rows)

	// 2. 规则校验（依赖映射结果）
	ruleSummary := a.validator.Validate(in.Data.Rows, mapping)

	// 3. 综合评分
	scores := a.scorer.Calculate(in.Data, mapping, ruleSummary, in.Questionnaire)

	// 4. 报告组装
	return a.assembler.Assemble(in.UploadID, in.Data, mapping, ruleSummary, scores, in.Questionnaire), nil
}
