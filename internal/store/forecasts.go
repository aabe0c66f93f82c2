package store

import (
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

// SaveForecast 保存预测结果（同一 upload/product/horizon 覆盖旧值）
func (s *Store) SaveForecast(f *model.ForecastRecord) (int64, error) {
	points, err := json.Marshal(f.Points)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal forecast points: %w", err)
	}
	res, err := s.db.Exec(`
		INSERT INTO forecasts (upload_id, product_id, horizon, insight, points)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(upload_id, product_id, horizon) DO UPDATE SET
			insight = excluded.insight,
			points = excluded.points,
			created_at = CURRENT_TIMESTAMP
	`, f.UploadID, f.ProductID, f.Horizon, f.Insight, string(points))
	if err != nil {
		return 0, fmt.Errorf("failed to save forecast: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get forecast id: %w", err)
	}
	return id, nil
}

// GetForecast 获取已保存的预测结果
func (s *Store) GetForecast(uploadID, productID string, horizon int) (*model.ForecastRecord, error) {
	f := &model.ForecastRecord{}
	var points string
	err := s.db.QueryRow(`
		SELECT id, upload_id, product_id, horizon, insight, points, created_at
		FROM forecasts WHERE upload_id = ? AND product_id = ? AND horizon = ?
	`, uploadID, productID, horizon).Scan(
		&f.ID, &f.UploadID, &f.ProductID, &f.Horizon, &f.Insight, &points, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query forecast: %w", err)
	}
	if err := json.Unmarshal([]byte(points), &f.Points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast points: %w", err)
	}
	return f, nil
}

// CountForecasts 统计预测结果数
func (s *Store) CountForecasts() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM forecasts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count forecasts: %w", err)
	}
	return n, nil
}
