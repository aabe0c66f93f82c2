package store

import (
	"fmt"
	"time"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

const dateLayout = "2006-01-02"

// BatchInsertSales 批量插入销售数据
func (s *Store) BatchInsertSales(records []*model.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sales_records (upload_id, product_id, date, units_sold, price)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(r.UploadID, r.ProductID, r.Date.Format(dateLayout), r.UnitsSold, r.Price)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSalesByUpload 获取某次上传的全部销售数据
func (s *Store) GetSalesByUpload(uploadID string) ([]*model.SalesRecord, error) {
	return s.querySales(`
		SELECT upload_id, product_id, date, units_sold, price
		FROM sales_records WHERE upload_id = ? ORDER BY date, product_id
	`, uploadID)
}

// GetSalesByProduct 获取某次上传中单个商品的销售数据（按日期升序）
func (s *Store) GetSalesByProduct(uploadID, productID string) ([]*model.SalesRecord, error) {
	return s.querySales(`
		SELECT upload_id, product_id, date, units_sold, price
		FROM sales_records WHERE upload_id = ? AND product_id = ? ORDER BY date
	`, uploadID, productID)
}

func (s *Store) querySales(query string, args ...any) ([]*model.SalesRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales records: %w", err)
	}
	defer rows.Close()

	var records []*model.SalesRecord
	for rows.Next() {
		r := &model.SalesRecord{}
		var date string
		if err := rows.Scan(&r.UploadID, &r.ProductID, &date, &r.UnitsSold, &r.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		r.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", date, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteSalesByUpload 删除某次上传的销售数据
func (s *Store) DeleteSalesByUpload(uploadID string) error {
	_, err := s.db.Exec("DELETE FROM sales_records WHERE upload_id = ?", uploadID)
	if err != nil {
		return fmt.Errorf("failed to delete sales records: %w", err)
	}
	return nil
}
