package store

import (
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

// CreateUpload 创建上传记录
func (s *Store) CreateUpload(u *model.Upload) error {
	products, err := json.Marshal(u.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO uploads (id, user_id, filename, file_path, file_size, row_count, products, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.UserID, u.Filename, u.FilePath, u.FileSize, u.RowCount, string(products), u.Status)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

// FinishUpload 完成上传记录更新
func (s *Store) FinishUpload(id string, rowCount int, products []string, status string) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE uploads SET row_count = ?, products = ?, status = ? WHERE id = ?
	`, rowCount, string(data), status, id)
	if err != nil {
		return fmt.Errorf("failed to update upload: %w", err)
	}
	return nil
}

func scanUpload(row interface{ Scan(...any) error }) (*model.Upload, error) {
	u := &model.Upload{}
	var products string
	err := row.Scan(&u.ID, &u.UserID, &u.Filename, &u.FilePath, &u.FileSize,
		&u.RowCount, &products, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(products), &u.Products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	return u, nil
}

// GetUpload 获取指定用户的上传记录
func (s *Store) GetUpload(id string, userID int64) (*model.Upload, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, filename, file_path, file_size, row_count, products, status, created_at
		FROM uploads WHERE id = ? AND user_id = ?
	`, id, userID)
	u, err := scanUpload(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query upload: %w", err)
	}
	return u, nil
}

// ListUploads 列出用户的全部上传记录（按时间倒序）
func (s *Store) ListUploads(userID int64) ([]*model.Upload, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, filename, file_path, file_size, row_count, products, status, created_at
		FROM uploads WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*model.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// CountUploads 统计上传数
func (s *Store) CountUploads() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM uploads").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return n, nil
}
