package pipeline

import (
	"fmt"
	"math"
	"time"
)

// DefaultSeasonPeriod 默认季节周期（按周）
const DefaultSeasonPeriod = 7

// SeasonalNaive 季节朴素基线
// 预测值取最近一个完整周期的对应位置观测，置信区间按一步差分的标准差展开。
// 确定性实现，作为 go-forecaster 的替换基线，也用于小样本序列
type SeasonalNaive struct {
	Period int
}

// NewSeasonalNaive 创建季节朴素预测器
func NewSeasonalNaive() *SeasonalNaive {
	return &SeasonalNaive{Period: DefaultSeasonPeriod}
}

// FitPredict 在 future 时间点上输出季节朴素预测
func (s *SeasonalNaive) FitPredict(t []time.Time, y []float64, future []time.Time) (*Prediction, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("no training data")
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf("time has length %d but values has length %d", len(t), len(y))
	}

	period := s.Period
	if period <= 0 {
		period = DefaultSeasonPeriod
	}
	if period > len(y) {
		// 历史不足一个周期时退化为整段循环
		period = len(y)
	}

	// 一步差分标准差作为不确定度基准
	sd := diffStddev(y)

	season := y[len(y)-period:]
	n := len(future)
	pred := &Prediction{
		Forecast: make([]float64, n),
		Upper:    make([]float64, n),
		Lower:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		v := season[i%period]
		// 置信区间随预测步数平方根展开
		width := 1.96 * sd * math.Sqrt(float64(i/period+1))
		pred.Forecast[i] = v
		pred.Upper[i] = v + width
		pred.Lower[i] = v - width
	}
	return pred, nil
}

func diffStddev(y []float64) float64 {
	if len(y) < 2 {
		return 0
	}
	diffs := make([]float64, len(y)-1)
	var mean float64
	for i := 1; i < len(y); i++ {
		diffs[i-1] = y[i] - y[i-1]
		mean += diffs[i-1]
	}
	mean /= float64(len(diffs))

	var sum float64
	for _, d := range diffs {
		sum += (d - mean) * (d - mean)
	}
	if len(diffs) < 2 {
		return math.Abs(diffs[0])
	}
	return math.Sqrt(sum / float64(len(diffs)-1))
}
