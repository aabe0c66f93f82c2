package model

import "time"

// Upload 上传记录
type Upload struct {
	ID        string    `json:"id"`        // UUID
	UserID    int64     `json:"userId"`    // 所属用户
	Filename  string    `json:"filename"`  // 原始文件名
	FilePath  string    `json:"filePath"`  // 保存路径
	FileSize  int64     `json:"fileSize"`  // 文件大小（字节）
	RowCount  int       `json:"rowCount"`  // 导入行数
	Products  []string  `json:"products"`  // 包含的商品 ID 列表
	Status    string    `json:"status"`    // processing/done/error
	CreatedAt time.Time `json:"createdAt"`
}

// SalesRecord 一行销售数据
// 上传校验通过后批量写入 sales_records 表
type SalesRecord struct {
	UploadID  string    `json:"uploadId"`
	ProductID string    `json:"productId"`
	Date      time.Time `json:"date"`
	UnitsSold float64   `json:"unitsSold"`
	Price     float64   `json:"price"`
}
