package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// GetSetting 获取配置项
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// GetSettingInt 获取整数配置项
func (s *Store) GetSettingInt(key string) (int, error) {
	value, err := s.GetSetting(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SetSetting 设置配置项
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SetSettingInt 设置整数配置项
func (s *Store) SetSettingInt(key string, value int) error {
	return s.SetSetting(key, strconv.Itoa(value))
}

// GetAllSettings 获取所有配置项
func (s *Store) GetAllSettings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, rows.Err()
}
