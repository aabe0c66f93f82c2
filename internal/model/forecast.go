package model

import "time"

// ForecastPoint 单个预测点
type ForecastPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	PredictedValue float64   `json:"predicted_value"`
	LowerBound     float64   `json:"lower_bound"`
	UpperBound     float64   `json:"upper_bound"`
}

// HistoryPoint 历史观测点
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ForecastRecord 持久化的预测结果
type ForecastRecord struct {
	ID        int64           `json:"id"`
	UploadID  string          `json:"uploadId"`
	ProductID string          `json:"productId"`
	Horizon   int             `json:"horizon"`
	Insight   string          `json:"insight"`
	Points    []ForecastPoint `json:"points"`
	CreatedAt time.Time       `json:"createdAt"`
}
