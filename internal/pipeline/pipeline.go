package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dsalvin/oracle-project-backend/internal/parser"
)

// DefaultMinObservations 预测所需的最少观测数下限
const DefaultMinObservations = 2

// 支持的日期格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Record 一个时间点的观测值
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Dataset 校验后的时间序列，时间戳严格递增
type Dataset struct {
	Records []Record
}

// Len 观测数
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Result 预测结果，时间戳严格递增且紧接历史末尾
type Result struct {
	Points []Point
}

// Point 单个预测点
type Point struct {
	Timestamp      time.Time `json:"timestamp"`
	PredictedValue float64   `json:"predicted_value"`
	LowerBound     float64   `json:"lower_bound"`
	UpperBound     float64   `json:"upper_bound"`
}

// Prediction 预测能力的原始输出，与 future 时间格点一一对应
type Prediction struct {
	Forecast []float64
	Upper    []float64
	Lower    []float64
}

// Forecaster 注入的预测能力
// 对历史序列拟合并在 future 时间点上输出预测值与置信区间
type Forecaster interface {
	FitPredict(t []time.Time, y []float64, future []time.Time) (*Prediction, error)
}

// Pipeline 上传数据的校验-预测-导出流水线
// 无跨调用状态，单次调用内独占数据
type Pipeline struct {
	forecaster      Forecaster
	minObservations int
}

// New 创建流水线
func New(f Forecaster) *Pipeline {
	return &Pipeline{
		forecaster:      f,
		minObservations: DefaultMinObservations,
	}
}

// WithMinObservations 覆盖最少观测数（不低于下限）
func (p *Pipeline) WithMinObservations(n int) *Pipeline {
	if n < DefaultMinObservations {
		n = DefaultMinObservations
	}
	p.minObservations = n
	return p
}

// Validate 校验原始行并归一化为时间序列
// 遇到第一个非法行即返回 *ValidationError
func (p *Pipeline) Validate(rows []parser.RawRow) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, validationErrorf(0, "no data rows")
	}

	records := make([]Record, 0, len(rows))
	rowIndex := make(map[time.Time]int, len(rows))

	for _, row := range rows {
		ts, err := parseDate(row.Date)
		if err != nil {
			return nil, validationErrorf(row.Index, "unparseable date %q", row.Date)
		}

		if row.Value == "" {
			return nil, validationErrorf(row.Index, "missing value")
		}
		v, err := strconv.ParseFloat(row.Value, 64)
		if err != nil {
			return nil, validationErrorf(row.Index, "non-numeric value %q", row.Value)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, validationErrorf(row.Index, "non-finite value %q", row.Value)
		}

		if prev, exists := rowIndex[ts]; exists {
			return nil, validationErrorf(row.Index, "duplicate timestamp %s (first seen at row %d)",
				ts.Format("2006-01-02"), prev)
		}
		rowIndex[ts] = row.Index

		records = append(records, Record{Timestamp: ts, Value: v})
	}

	// 归一化：按时间升序
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return &Dataset{Records: records}, nil
}

// NewDataset 从已解析的观测点构建数据集
// 与 Validate 执行同样的归一化与约束检查，供存储层读出的序列使用
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, validationErrorf(0, "no data rows")
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for i, r := range sorted {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, validationErrorf(i+1, "non-finite value")
		}
		if i > 0 && !sorted[i-1].Timestamp.Before(r.Timestamp) {
			return nil, validationErrorf(i+1, "duplicate timestamp %s",
				r.Timestamp.Format("2006-01-02"))
		}
	}

	return &Dataset{Records: sorted}, nil
}

// Forecast 在校验后的序列上调用预测能力
// 输出恰好 horizon 个点，时间戳从历史末尾按推断的间隔延续
func (p *Pipeline) Forecast(ds *Dataset, horizon int) (*Result, error) {
	if horizon <= 0 {
		return nil, &ForecastError{Reason: fmt.Sprintf("invalid horizon %d", horizon)}
	}
	if ds == nil || ds.Len() < p.minObservations {
		return nil, &ForecastError{Reason: ReasonInsufficientHistory}
	}

	t := make([]time.Time, ds.Len())
	y := make([]float64, ds.Len())
	for i, r := range ds.Records {
		t[i] = r.Timestamp
		y[i] = r.Value
	}

	interval := inferInterval(t)
	last := t[len(t)-1]
	future := make([]time.Time, horizon)
	for i := 0; i < horizon; i++ {
		future[i] = last.Add(time.Duration(i+1) * interval)
	}

	pred, err := p.forecaster.FitPredict(t, y, future)
	if err != nil {
		return nil, &ForecastError{Reason: fmt.Sprintf("upstream failure: %v", err)}
	}
	if len(pred.Forecast) != horizon || len(pred.Upper) != horizon || len(pred.Lower) != horizon {
		return nil, &ForecastError{Reason: fmt.Sprintf("upstream failure: expected %d points, got %d",
			horizon, len(pred.Forecast))}
	}

	points := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		points[i] = Point{
			Timestamp:      future[i],
			PredictedValue: pred.Forecast[i],
			LowerBound:     pred.Lower[i],
			UpperBound:     pred.Upper[i],
		}
	}
	return &Result{Points: points}, nil
}

// Export 将预测结果序列化为 CSV
// 列顺序固定：timestamp, predicted_value, lower_bound, upper_bound
func Export(w io.Writer, res *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"timestamp", "predicted_value", "lower_bound", "upper_bound"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, pt := range res.Points {
		row := []string{
			FormatTimestamp(pt.Timestamp),
			formatFloat(pt.PredictedValue),
			formatFloat(pt.LowerBound),
			formatFloat(pt.UpperBound),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatTimestamp 日级数据输出 YYYY-MM-DD，其余输出 RFC3339
func FormatTimestamp(ts time.Time) string {
	if ts.Equal(ts.Truncate(24 * time.Hour)) {
		return ts.Format("2006-01-02")
	}
	return ts.Format(time.RFC3339)
}

// formatFloat 最短无损表示，保证导出-再解析不丢精度
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// inferInterval 取相邻时间差的众数，平局取较小值；单点序列回退为一天
func inferInterval(t []time.Time) time.Duration {
	if len(t) < 2 {
		return 24 * time.Hour
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		counts[t[i].Sub(t[i-1])]++
	}

	var best time.Duration
	bestCount := 0
	for d, n := range counts {
		if n > bestCount || (n == bestCount && d < best) {
			best = d
			bestCount = n
		}
	}
	return best
}
