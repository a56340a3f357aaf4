// Package gets 定义 GETS v0.1 规范模式：18 个标准发票字段、
// 字段别名表以及评分权重。模式固定不变，进程启动时加载一次。
package gets

import "strings"

// Version GETS 模式版本
const Version = "0.1"

// FieldType 标准字段类型
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeEnum   FieldType = "enum"
)

// Category 字段分类
type Category string

const (
	CategoryHeader Category = "header"
	CategorySeller Category = "seller"
	CategoryBuyer  Category = "buyer"
	CategoryLines  Category = "lines"
)

// Field 标准字段定义
type Field struct {
	Path     string
	Type     FieldType
	Format   string
	Pattern  string
	Enum     []string
	Required bool
	Category Category
}

// AllowedCurrencies 允许的币种集合
var AllowedCurrencies = []string{"AED", "SAR", "MYR", "USD"}

// Schema GETS v0.1 标准字段（共 18 个）
var Schema = []Field{
	// 发票头字段
	{Path: "invoice.id", Type: TypeString, Required: true, Category: CategoryHeader},
	{Path: "invoice.issue_date", Type: TypeDate, Format: "YYYY-MM-DD", Required: true, Category: CategoryHeader},
	{Path: "invoice.currency", Type: TypeEnum, Enum: AllowedCurrencies, Required: true, Category: CategoryHeader},
	{Path: "invoice.total_excl_vat", Type: TypeNumber, Required: true, Category: CategoryHeader},
	{Path: "invoice.vat_amount", Type: TypeNumber, Required: true, Category: CategoryHeader},
	{Path: "invoice.total_incl_vat", Type: TypeNumber, Required: true, Category: CategoryHeader},

	// 卖方字段
	{Path: "seller.name", Type: TypeString, Required: true, Category: CategorySeller},
	{Path: "seller.trn", Type: TypeString, Required: true, Category: CategorySeller},
	{Path: "seller.country", Type: TypeString, Pattern: "^[A-Z]{2}$", Required: true, Category: CategorySeller},
	{Path: "seller.city", Type: TypeString, Required: false, Category: CategorySeller},

	// 买方字段
	{Path: "buyer.name", Type: TypeString, Required: true, Category: CategoryBuyer},
	{Path: "buyer.trn", Type: TypeString, Required: true, Category: CategoryBuyer},
	{Path: "buyer.country", Type: TypeString, Pattern: "^[A-Z]{2}$", Required: true, Category: CategoryBuyer},
	{Path: "buyer.city", Type: TypeString, Required: false, Category: CategoryBuyer},

	// 行项目字段
	{Path: "lines[].sku", Type: TypeString, Required: true, Category: CategoryLines},
	{Path: "lines[].qty", Type: TypeNumber, Required: true, Category: CategoryLines},
	{Path: "lines[].unit_price", Type: TypeNumber, Required: true, Category: CategoryLines},
	{Path: "lines[].line_total", Type: TypeNumber, Required: true, Category: CategoryLines},
}

// Aliases 常见源字段别名表（用于字段映射的已知映射检查）
var Aliases = map[string][]string{
	"invoice.id":             {"inv_id", "invoice_id", "inv_no", "invoice_number", "id", "invoiceId"},
	"invoice.issue_date":     {"date", "issue_date", "issued_on", "invoice_date", "issueDate"},
	"invoice.currency":       {"currency", "curr", "ccy"},
	"invoice.total_excl_vat": {"total_excl_vat", "totalNet", "net_amount", "subtotal"},
	"invoice.vat_amount":     {"vat_amount", "vat", "tax_amount", "tax"},
	"invoice.total_incl_vat": {"total_incl_vat", "grandTotal", "total_amount", "total"},

	"seller.name":    {"seller_name", "sellerName", "vendor_name", "supplier_name"},
	"seller.trn":     {"seller_trn", "sellerTax", "seller_tax", "vendor_trn"},
	"seller.country": {"seller_country", "sellerCountry", "vendor_country"},
	"seller.city":    {"seller_city", "sellerCity", "vendor_city"},

	"buyer.name":    {"buyer_name", "buyerName", "customer_name", "client_name"},
	"buyer.trn":     {"buyer_trn", "buyerTax", "buyer_tax", "customer_trn"},
	"buyer.country": {"buyer_country", "buyerCountry", "customer_country"},
	"buyer.city":    {"buyer_city", "buyerCity", "customer_city"},

	"lines[].sku":        {"sku", "lineSku", "item_code", "product_code"},
	"lines[].qty":        {"qty", "lineQty", "quantity", "amount"},
	"lines[].unit_price": {"unit_price", "linePrice", "price", "rate"},
	"lines[].line_total": {"line_total", "lineTotal", "amount", "total"},
}

// ScoringWeights 综合评分权重
var ScoringWeights = struct {
	Data     float64
	Coverage float64
	Rules    float64
	Posture  float64
}{
	Data:     0.25, // 数据解析质量
	Coverage: 0.35, // 字段覆盖率
	Rules:    0.30, // 规则合规性
	Posture:  0.10, // 对接就绪度
}

// CategoryWeights 覆盖率评分中各分类的权重
var CategoryWeights = map[Category]float64{
	CategoryHeader: 0.4,
	CategorySeller: 0.25,
	CategoryBuyer:  0.25,
	CategoryLines:  0.1,
}

// FieldByPath 按路径查找标准字段，未知路径返回 nil 而不是报错
func FieldByPath(path string) *Field {
	for i := range Schema {
		if Schema[i].Path == path {
			return &Schema[i]
		}
	}
	return nil
}

// FieldsByCategory 返回指定分类下的全部标准字段
func FieldsByCategory(category Category) []Field {
	fields := make([]Field, 0, len(Schema))
	for _, f := range Schema {
		if f.Category == category {
			fields = append(fields, f)
		}
	}
	return fields
}

// RequiredCount 必填字段总数
func RequiredCount() int {
	count := 0
	for _, f := range Schema {
		if f.Required {
			count++
		}
	}
	return count
}

// LastSegment 取路径最后一段并去掉数组标记，如 "lines[].qty" → "qty"
func LastSegment(path string) string {
	parts := strings.Split(path, ".")
	return strings.ReplaceAll(parts[len(parts)-1], "[]", "")
}
