package parser

// RawRow 一行原始数据（未校验）
// Index 为数据行号，从 1 开始（不含表头）
type RawRow struct {
	Index     int    `json:"index"`
	Date      string `json:"date"`
	ProductID string `json:"productId"`
	Value     string `json:"value"`
	Price     string `json:"price"`
}

// ColumnMapping 列名映射
type ColumnMapping struct {
	Date    string
	Product string
	Value   string
	Price   string
}

// DefaultColumnMapping 默认列名（与前端上传模板一致）
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Date:    "date",
		Product: "product_id",
		Value:   "units_sold",
		Price:   "price",
	}
}

// columnIndexes 表头解析结果
type columnIndexes struct {
	date    int
	product int
	value   int
	price   int
}
