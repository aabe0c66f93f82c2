package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ParseFile 按扩展名解析上传文件为原始行
func ParseFile(path string, mapping ColumnMapping) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ParseCSV(f, mapping)
	case ".xlsx":
		return ParseXLSX(path, mapping)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// ParseCSV 解析 CSV 数据流
// 第一行为表头；空行跳过，行号按数据行计
func ParseCSV(r io.Reader, mapping ColumnMapping) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行宽不一致交给校验层定位
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := mapHeader(header, mapping)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	rowNo := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNo+1, err)
		}
		if isEmptyRow(record) {
			continue
		}
		rowNo++
		rows = append(rows, RawRow{
			Index:     rowNo,
			Date:      cell(record, idx.date),
			ProductID: cell(record, idx.product),
			Value:     cell(record, idx.value),
			Price:     cell(record, idx.price),
		})
	}
	return rows, nil
}

func isEmptyRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
