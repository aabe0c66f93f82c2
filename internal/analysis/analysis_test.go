package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestRevenueOverTime(t *testing.T) {
	records := []*model.SalesRecord{
		{ProductID: "P1", Date: day(1), UnitsSold: 10, Price: 2.5},
		{ProductID: "P2", Date: day(1), UnitsSold: 4, Price: 10},
		{ProductID: "P1", Date: day(2), UnitsSold: 3, Price: 2.5},
	}

	points := RevenueOverTime(records)
	if len(points) != 2 {
		t.Fatalf("expected 2 days, got %d", len(points))
	}

	// 同日多商品营收精确累加
	if points[0].Date != "2024-01-01" || points[0].Revenue != "65" {
		t.Fatalf("day 1 mismatch: %+v", points[0])
	}
	if points[1].Date != "2024-01-02" || points[1].Revenue != "7.5" {
		t.Fatalf("day 2 mismatch: %+v", points[1])
	}
}

func TestRevenueOverTimeDecimalPrecision(t *testing.T) {
	// 0.1+0.2 类浮点陷阱不应出现在金额里
	records := []*model.SalesRecord{
		{ProductID: "P1", Date: day(1), UnitsSold: 1, Price: 0.1},
		{ProductID: "P2", Date: day(1), UnitsSold: 1, Price: 0.2},
	}

	points := RevenueOverTime(records)
	if points[0].Revenue != "0.3" {
		t.Fatalf("expected exact 0.3, got %s", points[0].Revenue)
	}
}

func TestTopProducts(t *testing.T) {
	records := []*model.SalesRecord{
		{ProductID: "A", Date: day(1), UnitsSold: 5},
		{ProductID: "B", Date: day(1), UnitsSold: 9},
		{ProductID: "A", Date: day(2), UnitsSold: 6},
		{ProductID: "C", Date: day(1), UnitsSold: 11},
		{ProductID: "D", Date: day(1), UnitsSold: 11},
	}

	top := TopProducts(records, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 products, got %d", len(top))
	}

	// 销量降序，平局按商品编号
	if top[0].ProductID != "A" || top[0].UnitsSold != 11 {
		t.Fatalf("rank 1 mismatch: %+v", top[0])
	}
	if top[1].ProductID != "C" || top[2].ProductID != "D" {
		t.Fatalf("tie break mismatch: %+v %+v", top[1], top[2])
	}
}

func TestGenerateInsightRising(t *testing.T) {
	history := []float64{10, 10, 10, 10, 10, 10, 10}
	forecast := []float64{13, 13, 13, 13, 13, 13, 13}

	insight := GenerateInsight("P1", history, forecast)
	if !strings.Contains(insight, "P1") {
		t.Fatalf("insight should name product: %s", insight)
	}
	if !strings.Contains(insight, "上升") {
		t.Fatalf("expected rising trend: %s", insight)
	}
	if !strings.Contains(insight, "备货") {
		t.Fatalf("expected restock advice: %s", insight)
	}
}

func TestGenerateInsightFalling(t *testing.T) {
	history := []float64{20, 20, 20, 20, 20, 20, 20}
	forecast := []float64{15, 15, 15, 15, 15, 15, 15}

	insight := GenerateInsight("P1", history, forecast)
	if !strings.Contains(insight, "下降") {
		t.Fatalf("expected falling trend: %s", insight)
	}
}

func TestGenerateInsightStable(t *testing.T) {
	history := []float64{10, 10, 10}
	forecast := []float64{10.2, 9.8, 10.1}

	insight := GenerateInsight("P1", history, forecast)
	if !strings.Contains(insight, "平稳") {
		t.Fatalf("expected stable trend: %s", insight)
	}
}

func TestGenerateInsightUsesTailWindow(t *testing.T) {
	// 早期高销量不应影响尾部窗口对比
	history := []float64{100, 100, 100, 10, 10, 10, 10, 10, 10, 10}
	forecast := []float64{10, 10, 10, 10, 10, 10, 10}

	insight := GenerateInsight("P1", history, forecast)
	if !strings.Contains(insight, "平稳") {
		t.Fatalf("expected stable trend from tail window: %s", insight)
	}
}
