package pipeline

import "fmt"

// ValidationError 输入数据校验失败
// RowIndex 为 1 起始的数据行号（不含表头），0 表示整体性错误
type ValidationError struct {
	Reason   string `json:"reason"`
	RowIndex int    `json:"row_index"`
}

func (e *ValidationError) Error() string {
	if e.RowIndex > 0 {
		return fmt.Sprintf("validation failed at row %d: %s", e.RowIndex, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// ForecastError 预测失败
type ForecastError struct {
	Reason string `json:"reason"`
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast failed: %s", e.Reason)
}

// ReasonInsufficientHistory 历史数据不足
const ReasonInsufficientHistory = "insufficient history"

func validationErrorf(rowIndex int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Reason:   fmt.Sprintf(format, args...),
		RowIndex: rowIndex,
	}
}
