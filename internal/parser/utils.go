package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// NormalizeColumnName 规范化列名，去除空格和特殊字符
func NormalizeColumnName(name string) string {
	// 去除首尾空格
	name = strings.TrimSpace(name)
	// 去除 BOM
	name = strings.TrimPrefix(name, "\uFEFF")
	// 去除换行符和制表符
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	// 压缩多个空格
	re := regexp.MustCompile(`\s+`)
	name = re.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// mapHeader 将表头映射到列索引，缺少必需列时报错
func mapHeader(header []string, mapping ColumnMapping) (columnIndexes, error) {
	idx := columnIndexes{date: -1, product: -1, value: -1, price: -1}

	for i, name := range header {
		switch NormalizeColumnName(name) {
		case NormalizeColumnName(mapping.Date):
			idx.date = i
		case NormalizeColumnName(mapping.Product):
			idx.product = i
		case NormalizeColumnName(mapping.Value):
			idx.value = i
		case NormalizeColumnName(mapping.Price):
			idx.price = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, mapping.Date)
	}
	if idx.product < 0 {
		missing = append(missing, mapping.Product)
	}
	if idx.value < 0 {
		missing = append(missing, mapping.Value)
	}
	if idx.price < 0 {
		missing = append(missing, mapping.Price)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns %v, found: %v", missing, header)
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
