package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// CreateUser 创建用户，返回用户 ID
func (s *Store) CreateUser(u *model.User) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO users (email, first_name, last_name, hashed_password)
		VALUES (?, ?, ?, ?)
	`, u.Email, u.FirstName, u.LastName, u.HashedPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}
	return id, nil
}

// GetUserByEmail 按邮箱查找用户
func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	u := &model.User{}
	err := s.db.QueryRow(`
		SELECT id, email, first_name, last_name, hashed_password, created_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetUserByID 按 ID 查找用户
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	u := &model.User{}
	err := s.db.QueryRow(`
		SELECT id, email, first_name, last_name, hashed_password, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// CountUsers 统计用户数
func (s *Store) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
