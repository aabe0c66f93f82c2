package model

// RevenuePoint 单日营收
type RevenuePoint struct {
	Date    string `json:"date"`    // YYYY-MM-DD
	Revenue string `json:"revenue"` // 精确小数，字符串表示
}

// ProductSales 商品销量汇总
type ProductSales struct {
	ProductID string  `json:"product_id"`
	UnitsSold float64 `json:"units_sold"`
}

// AnalysisResult 历史数据分析结果
type AnalysisResult struct {
	RevenueOverTime []RevenuePoint `json:"revenue_over_time"`
	TopProducts     []ProductSales `json:"top_products"`
}
