package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

// TopProductCount 销量榜长度
const TopProductCount = 5

// insightWindow 趋势对比的尾部窗口长度（周）
const insightWindow = 7

// RevenueOverTime 按日汇总营收（销量 × 单价）
// 金额用精确小数累加，避免浮点误差
func RevenueOverTime(records []*model.SalesRecord) []model.RevenuePoint {
	byDate := make(map[string]decimal.Decimal)
	for _, r := range records {
		revenue := decimal.NewFromFloat(r.UnitsSold).Mul(decimal.NewFromFloat(r.Price))
		date := r.Date.Format("2006-01-02")
		byDate[date] = byDate[date].Add(revenue)
	}

	points := make([]model.RevenuePoint, 0, len(byDate))
	for date, revenue := range byDate {
		points = append(points, model.RevenuePoint{
			Date:    date,
			Revenue: revenue.String(),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// TopProducts 按总销量取前 n 名
func TopProducts(records []*model.SalesRecord, n int) []model.ProductSales {
	byProduct := make(map[string]float64)
	for _, r := range records {
		byProduct[r.ProductID] += r.UnitsSold
	}

	products := make([]model.ProductSales, 0, len(byProduct))
	for id, units := range byProduct {
		products = append(products, model.ProductSales{ProductID: id, UnitsSold: units})
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].UnitsSold != products[j].UnitsSold {
			return products[i].UnitsSold > products[j].UnitsSold
		}
		return products[i].ProductID < products[j].ProductID
	})

	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// GenerateInsight 对比历史与预测的尾部均值，生成趋势结论与建议
func GenerateInsight(productID string, history, forecast []float64) string {
	histAvg := tailMean(history, insightWindow)
	forecastAvg := tailMean(forecast, insightWindow)

	var changePercent float64
	switch {
	case math.IsNaN(histAvg) || histAvg == 0:
		if forecastAvg > 0 {
			changePercent = math.Inf(1)
		}
	default:
		changePercent = (forecastAvg - histAvg) / histAvg * 100
	}

	var trend, advice string
	switch {
	case changePercent > 15:
		trend = fmt.Sprintf("呈明显上升趋势，未来一段时间销量预计增长约 %.0f%%", changePercent)
		advice = "建议增加备货以满足需求。"
	case changePercent > 5:
		trend = fmt.Sprintf("呈温和上升趋势，预计增长约 %.0f%%", changePercent)
		advice = "建议确保库存充足。"
	case changePercent < -15:
		trend = fmt.Sprintf("呈显著下降趋势，销量预计下降约 %.0f%%", math.Abs(changePercent))
		advice = "建议考虑促销或减少库存。"
	case changePercent < -5:
		trend = fmt.Sprintf("呈温和下降趋势，预计下降约 %.0f%%", math.Abs(changePercent))
		advice = "建议密切关注销量变化。"
	default:
		trend = "预计保持平稳"
		advice = "建议维持当前库存与营销策略。"
	}

	return fmt.Sprintf("商品 %q %s。%s", productID, trend, advice)
}

// tailMean 尾部 n 个值的均值，不足 n 时取全部
func tailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return stat.Mean(values, nil)
}
