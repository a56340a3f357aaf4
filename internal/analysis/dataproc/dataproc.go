package dataproc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

// ValueType 字段值类型（基于采样数据推断）
type ValueType string

const (
	TypeEmpty   ValueType = "empty"
	TypeNumber  ValueType = "number"
	TypeDate    ValueType = "date"
	TypeString  ValueType = "string"
	TypeUnknown ValueType = "unknown"
)

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	looseDatePattern = regexp.MustCompile(`^\d{4}[/\-]\d{1,2}[/\-]\d{1,2}$`)
	nameStripPattern = regexp.MustCompile(`[_\s\-]`)
)

// NormalizeFieldName 归一化字段名（小写，去掉下划线、空白和连字符）
func NormalizeFieldName(name string) string {
	return nameStripPattern.ReplaceAllString(strings.ToLower(name), "")
}

// CalculateSimilarity 计算归一化编辑距离相似度，取值范围 [0,1]
// 两个空串视为完全相似；仅一方为空时相似度为 0
func CalculateSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// DetectType 推断单个值的类型
// 判定顺序：空值 → 数字 → 日期（ISO 或 YYYY/M/D 变体）→ 字符串
func DetectType(value interface{}) ValueType {
	if value == nil {
		return TypeEmpty
	}

	str := strings.TrimSpace(Stringify(value))
	if str == "" {
		return TypeEmpty
	}

	if _, err := strconv.ParseFloat(str, 64); err == nil {
		return TypeNumber
	}

	if isoDatePattern.MatchString(str) {
		if isValidISODate(str) {
			return TypeDate
		}
	}

	if looseDatePattern.MatchString(str) {
		return TypeDate
	}

	return TypeString
}

// Flatten 递归展开嵌套对象，键名用点号连接
// 数组本体保存在 key[] 下；数组首个元素为对象时，其字段也展开到 key[] 前缀下
// （行级映射只需要发现字段名，不需要每一行的值）
func Flatten(obj map[string]interface{}, prefix string) map[string]interface{} {
	flattened := make(map[string]interface{})

	for key, value := range obj {
		newKey := key
		if prefix != "" {
			newKey = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]interface{}:
			for k, nested := range Flatten(v, newKey) {
				flattened[k] = nested
			}
		case []interface{}:
			flattened[newKey+"[]"] = v
			if len(v) > 0 {
				if first, ok := v[0].(map[string]interface{}); ok {
					for k, nested := range Flatten(first, newKey+"[]") {
						flattened[k] = nested
					}
				}
			}
		default:
			flattened[newKey] = value
		}
	}

	return flattened
}

// ProcessedData 行数截断后的数据集
type ProcessedData struct {
	Rows          []map[string]interface{} `json:"rows"`
	TotalRows     int                      `json:"total_rows"`
	ProcessedRows int                      `json:"processed_rows"`
	Truncated     bool                     `json:"truncated"`
}

// DefaultMaxRows 单次分析处理的最大行数
const DefaultMaxRows = 200

// LimitRows 截断到最大行数，超出部分静默丢弃，仅通过 Truncated 标记
func LimitRows(rows []map[string]interface{}, maxRows int) *ProcessedData {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	limited := rows
	if len(rows) > maxRows {
		limited = rows[:maxRows]
	}

	return &ProcessedData{
		Rows:          limited,
		TotalRows:     len(rows),
		ProcessedRows: len(limited),
		Truncated:     len(rows) > maxRows,
	}
}

// Stringify 将任意值转为字符串表示（与 JSON 解码后的类型对齐）
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ISODateLayout GETS 要求的日期格式
const ISODateLayout = "2006-01-02"

// isValidISODate 校验 YYYY-MM-DD 是否为合法日历日期
func isValidISODate(s string) bool {
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}
