package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/pipeline"
)

// 导出列顺序固定，与 CSV 导出保持一致
var forecastHeader = []string{"timestamp", "predicted_value", "lower_bound", "upper_bound"}

// WriteCSV 将预测结果写为 CSV
func WriteCSV(w io.Writer, rec *model.ForecastRecord) error {
	res := &pipeline.Result{Points: make([]pipeline.Point, len(rec.Points))}
	for i, pt := range rec.Points {
		res.Points[i] = pipeline.Point{
			Timestamp:      pt.Timestamp,
			PredictedValue: pt.PredictedValue,
			LowerBound:     pt.LowerBound,
			UpperBound:     pt.UpperBound,
		}
	}
	return pipeline.Export(w, res)
}

// WriteXLSX 将预测结果写为 Excel 工作簿
func WriteXLSX(rec *model.ForecastRecord) (*excelize.File, error) {
	file := excelize.NewFile()

	const sheet = "Forecast"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, name := range forecastHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	// 表头加粗
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = file.SetCellStyle(sheet, "A1", "D1", style)
	}

	for i, pt := range rec.Points {
		rowNo := i + 2
		values := []any{
			pipeline.FormatTimestamp(pt.Timestamp),
			pt.PredictedValue,
			pt.LowerBound,
			pt.UpperBound,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowNo, err)
			}
		}
	}

	return file, nil
}

// Filename 导出文件名
func Filename(productID, format string) string {
	return "forecast_" + sanitize(productID) + "." + format
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return strconv.Itoa(len(s))
	}
	return string(out)
}
