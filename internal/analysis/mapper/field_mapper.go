// Package mapper 将源数据字段映射到 GETS 标准字段。
// 对每个标准字段在候选源字段中解析最优匹配，产出
// matched / close / missing 三路划分（三个列表恰好覆盖全部标准字段）。
package mapper

import (
	"fmt"
	"math"
	"sort"

	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/gets"
)

const (
	// MatchedThreshold 达到该置信度视为确定匹配
	MatchedThreshold = 0.8
	// MinConfidence 低于该阈值的候选直接丢弃
	MinConfidence = 0.3

	typeBonus   = 1.1 // 类型兼容加成
	typePenalty = 0.7 // 类型不兼容惩罚

	typeSampleRows = 10 // 类型推断采样行数
)

// Match 确定匹配项
type Match struct {
	GetsField   string         `json:"getsField"`
	SourceField string         `json:"sourceField"`
	Confidence  float64        `json:"confidence"`
	Type        gets.FieldType `json:"type"`
	Required    bool           `json:"required"`
}

// CloseMatch 疑似匹配项（带人工确认建议）
type CloseMatch struct {
	GetsField   string         `json:"getsField"`
	SourceField string         `json:"sourceField"`
	Confidence  float64        `json:"confidence"`
	Type        gets.FieldType `json:"type"`
	Required    bool           `json:"required"`
	Suggestion  string         `json:"suggestion"`
}

// MissingField 未找到任何候选的标准字段
type MissingField struct {
	GetsField string         `json:"getsField"`
	Type      gets.FieldType `json:"type"`
	Required  bool           `json:"required"`
}

// Result 字段映射结果（三路划分）
type Result struct {
	Matches []Match        `json:"matches"`
	Close   []CloseMatch   `json:"close"`
	Missing []MissingField `json:"missing"`
}

// SourceField 从上传数据中发现的源字段
type SourceField struct {
	Name       string
	Normalized string
	Type       dataproc.ValueType
}

// FieldMapper 字段映射器
type FieldMapper struct {
	fields  []gets.Field
	aliases map[string][]string
}

// NewFieldMapper 创建字段映射器实例
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{
		fields:  gets.Schema,
		aliases: gets.Aliases,
	}
}

// MapFields 对每个标准字段解析最优源字段
func (m *FieldMapper) MapFields(rows []map[string]interface{}) *Result {
	sourceFields := m.ExtractSourceFields(rows)

	result := &Result{
		Matches: make([]Match, 0, len(m.fields)),
		Close:   make([]CloseMatch, 0),
		Missing: make([]MissingField, 0),
	}

	for _, field := range m.fields {
		best := m.findBestMatch(field.Path, sourceFields)

		if best == nil {
			result.Missing = append(result.Missing, MissingField{
				GetsField: field.Path,
				Type:      field.Type,
				Required:  field.Required,
			})
			continue
		}

		if best.confidence >= MatchedThreshold {
			result.Matches = append(result.Matches, Match{
				GetsField:   field.Path,
				SourceField: best.field,
				Confidence:  best.confidence,
				Type:        field.Type,
				Required:    field.Required,
			})
		} else {
			result.Close = append(result.Close, CloseMatch{
				GetsField:   field.Path,
				SourceField: best.field,
				Confidence:  best.confidence,
				Type:        field.Type,
				Required:    field.Required,
				Suggestion:  generateSuggestion(field.Path, best.field, best.typeCompatible),
			})
		}
	}

	return result
}

// ExtractSourceFields 收集全部行中出现过的字段（保持首次出现顺序）
func (m *FieldMapper) ExtractSourceFields(rows []map[string]interface{}) []SourceField {
	seen := make(map[string]bool)
	names := make([]string, 0)

	for _, row := range rows {
		flattened := dataproc.Flatten(row, "")

		// Flatten 返回 map，同一行内键序不稳定，排序后再按首次出现去重
		keys := make([]string, 0, len(flattened))
		for key := range flattened {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
		}
	}

	fields := make([]SourceField, 0, len(names))
	for _, name := range names {
		fields = append(fields, SourceField{
			Name:       name,
			Normalized: dataproc.NormalizeFieldName(name),
			Type:       m.detectFieldType(name, rows),
		})
	}

	return fields
}

// candidate 候选匹配（内部结构）
type candidate struct {
	field          string
	confidence     float64
	sourceType     dataproc.ValueType
	typeCompatible bool
}

// findBestMatch 为单个标准字段挑选置信度最高的源字段
// 置信度规则：
//  1. 源字段名在别名表中逐字出现 → 1.0
//  2. 归一化后与某别名相等 → 0.95
//  3. 否则取「与各别名的相似度最大值」和「与路径末段的相似度」中的较大者
//
// 再按类型兼容性乘以 1.1 或 0.7，封顶 1.0；不超过 0.3 的候选全部丢弃
func (m *FieldMapper) findBestMatch(getsFieldPath string, sourceFields []SourceField) *candidate {
	knownAliases := m.aliases[getsFieldPath]
	pathSegment := dataproc.NormalizeFieldName(gets.LastSegment(getsFieldPath))

	var best *candidate
	bestConfidence := 0.0

	for _, source := range sourceFields {
		confidence := 0.0

		if containsString(knownAliases, source.Name) {
			confidence = 1.0
		} else if aliasNormalizedEqual(knownAliases, source.Normalized) {
			confidence = 0.95
		} else {
			maxSimilarity := 0.0
			for _, alias := range knownAliases {
				sim := dataproc.CalculateSimilarity(dataproc.NormalizeFieldName(alias), source.Normalized)
				if sim > maxSimilarity {
					maxSimilarity = sim
				}
			}

			directSimilarity := dataproc.CalculateSimilarity(pathSegment, source.Normalized)
			confidence = math.Max(maxSimilarity, directSimilarity)
		}

		compatible := m.isTypeCompatible(getsFieldPath, source.Type)
		if compatible {
			confidence *= typeBonus
		} else {
			confidence *= typePenalty
		}

		// 严格大于：同分时保留先出现的候选
		if confidence > bestConfidence && confidence > MinConfidence {
			bestConfidence = confidence
			best = &candidate{
				field:          source.Name,
				confidence:     math.Min(confidence, 1.0),
				sourceType:     source.Type,
				typeCompatible: compatible,
			}
		}
	}

	return best
}

// detectFieldType 基于前若干行采样推断源字段类型，返回出现最多的类型
func (m *FieldMapper) detectFieldType(fieldName string, rows []map[string]interface{}) dataproc.ValueType {
	sampleRows := rows
	if len(sampleRows) > typeSampleRows {
		sampleRows = sampleRows[:typeSampleRows]
	}

	counts := make(map[dataproc.ValueType]int)
	order := make([]dataproc.ValueType, 0, 4)

	for _, row := range sampleRows {
		flattened := dataproc.Flatten(row, "")
		value, ok := flattened[fieldName]
		if !ok || value == nil || value == "" {
			continue
		}

		t := dataproc.DetectType(value)
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	if len(order) == 0 {
		return dataproc.TypeUnknown
	}

	// 并列时取先出现的类型
	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}

	return best
}

// isTypeCompatible 判断源字段推断类型与标准字段声明类型是否兼容
func (m *FieldMapper) isTypeCompatible(getsFieldPath string, sourceType dataproc.ValueType) bool {
	field := gets.FieldByPath(getsFieldPath)
	if field == nil {
		return false
	}

	compatible := map[gets.FieldType][]dataproc.ValueType{
		gets.TypeString: {dataproc.TypeString, "text"},
		gets.TypeNumber: {dataproc.TypeNumber, "integer", "float"},
		gets.TypeDate:   {dataproc.TypeDate, "datetime"},
		gets.TypeEnum:   {dataproc.TypeString, "text"},
	}

	for _, t := range compatible[field.Type] {
		if t == sourceType {
			return true
		}
	}
	return false
}

// CoverageScore 快速覆盖率得分（仅统计必填字段，close 按半分计）
// 与 scoring 包的分类加权覆盖率是两个刻意不同的指标
func (m *FieldMapper) CoverageScore(result *Result) int {
	totalRequired := gets.RequiredCount()
	if totalRequired == 0 {
		// 没有必填字段时视为完全满足
		return 100
	}

	matchedRequired := 0
	for _, match := range result.Matches {
		if match.Required {
			matchedRequired++
		}
	}

	closeRequired := 0
	for _, cm := range result.Close {
		if cm.Required {
			closeRequired++
		}
	}

	weighted := (float64(matchedRequired) + 0.5*float64(closeRequired)) / float64(totalRequired)

	return int(math.Round(math.Min(weighted*100, 100)))
}

// generateSuggestion 生成疑似匹配的确认建议
// 原因固定取主导信号：类型兼容 → 类型匹配，否则 → 名称相似
func generateSuggestion(getsField, sourceField string, typeCompatible bool) string {
	reason := "name similarity"
	if typeCompatible {
		reason = "data type match"
	}
	return fmt.Sprintf("'%s' likely maps to '%s' (%s)", sourceField, getsField, reason)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func aliasNormalizedEqual(aliases []string, normalized string) bool {
	for _, alias := range aliases {
		if dataproc.NormalizeFieldName(alias) == normalized {
			return true
		}
	}
	return false
}
