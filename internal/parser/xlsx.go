package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX 解析 Excel 文件的第一个 Sheet
// 表头与数据行的处理规则与 CSV 一致
func ParseXLSX(path string, mapping ColumnMapping) ([]RawRow, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	allRows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	idx, err := mapHeader(allRows[0], mapping)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	rowNo := 0
	for _, record := range allRows[1:] {
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
