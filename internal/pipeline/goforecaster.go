package pipeline

import (
	"fmt"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"
	"github.com/aouyang1/go-forecaster/timedataset"
)

// GoForecaster 基于 go-forecaster 的预测能力
// 库内部为傅里叶季节项 + 变点的线性模型，这里只做输入输出适配
type GoForecaster struct{}

// NewGoForecaster 创建 go-forecaster 适配器
func NewGoForecaster() *GoForecaster {
	return &GoForecaster{}
}

// FitPredict 拟合历史序列并在 future 时间点上预测
func (g *GoForecaster) FitPredict(t []time.Time, y []float64, future []time.Time) (*Prediction, error) {
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("invalid training data: %w", err)
	}

	f, err := forecaster.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize forecaster: %w", err)
	}

	if err := f.Fit(td.T, td.Y); err != nil {
		return nil, fmt.Errorf("fit failed: %w", err)
	}

	res, err := f.Predict(future)
	if err != nil {
		return nil, fmt.Errorf("predict failed: %w", err)
	}

	return &Prediction{
		Forecast: res.Forecast,
		Upper:    res.Upper,
		Lower:    res.Lower,
	}, nil
}
