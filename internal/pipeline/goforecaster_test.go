package pipeline

import (
	"math"
	"testing"
	"time"
)

// 编译期确认适配器满足注入接口
var _ Forecaster = (*GoForecaster)(nil)

func TestGoForecasterFitPredict(t *testing.T) {
	// 90 天带周期的日序列
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 90
	ts := make([]time.Time, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = start.Add(time.Duration(i) * 24 * time.Hour)
		y[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/7) + 0.1*float64(i)
	}

	horizon := 7
	future := make([]time.Time, horizon)
	for i := range future {
		future[i] = ts[n-1].Add(time.Duration(i+1) * 24 * time.Hour)
	}

	pred, err := NewGoForecaster().FitPredict(ts, y, future)
	if err != nil {
		t.Fatalf("fit predict: %v", err)
	}
	if len(pred.Forecast) != horizon || len(pred.Upper) != horizon || len(pred.Lower) != horizon {
		t.Fatalf("expected %d points, got forecast=%d upper=%d lower=%d",
			horizon, len(pred.Forecast), len(pred.Upper), len(pred.Lower))
	}
	for i := range pred.Forecast {
		if math.IsNaN(pred.Forecast[i]) {
			t.Fatalf("point %d: forecast is NaN", i)
		}
	}
}

func TestGoForecasterRejectsDuplicateTimestamps(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{day, day.Add(24 * time.Hour), day.Add(24 * time.Hour)}
	y := []float64{10, 12, 11}

	if _, err := NewGoForecaster().FitPredict(ts, y, []time.Time{day.Add(48 * time.Hour)}); err == nil {
		t.Fatal("expected error on non-monotonic training data")
	}
}

func TestGoForecasterRejectsEmptyInput(t *testing.T) {
	if _, err := NewGoForecaster().FitPredict(nil, nil, nil); err == nil {
		t.Fatal("expected error on empty training data")
	}
}
