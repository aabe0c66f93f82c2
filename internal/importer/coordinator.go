package importer

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/parser"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

// Coordinator 上传导入协调器
// 解析上传文件、逐行校验、批量入库，进度通过通道上报
type Coordinator struct {
	store *store.Store
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{
		store: store,
	}
}

// IngestOptions 导入选项
type IngestOptions struct {
	Upload   *model.Upload // 已创建的上传记录（status=processing）
	FilePath string
	Mapping  parser.ColumnMapping
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/error/done
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Ingest 执行导入，返回进度通道
func (c *Coordinator) Ingest(opts IngestOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doIngest(opts, progressChan)
	}()

	return progressChan
}

// doIngest 执行导入逻辑
func (c *Coordinator) doIngest(opts IngestOptions, progressChan chan ProgressEvent) {
	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: "开始导入销售数据",
		Data: map[string]string{
			"filename": filepath.Base(opts.FilePath),
			"uploadId": opts.Upload.ID,
		},
		Timestamp: time.Now(),
	})

	rows, err := parser.ParseFile(opts.FilePath, opts.Mapping)
	if err != nil {
		c.fail(opts, progressChan, fmt.Sprintf("解析文件失败: %v", err))
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("发现 %d 行数据", len(rows)),
		Data: map[string]interface{}{
			"total_rows": len(rows),
		},
		Timestamp: time.Now(),
	})

	records, products, err := c.validateRows(opts.Upload.ID, rows)
	if err != nil {
		c.fail(opts, progressChan, fmt.Sprintf("数据校验失败: %v", err))
		return
	}

	if err := c.store.BatchInsertSales(records); err != nil {
		c.fail(opts, progressChan, fmt.Sprintf("写入数据失败: %v", err))
		return
	}

	if err := c.store.FinishUpload(opts.Upload.ID, len(records), products, "done"); err != nil {
		c.fail(opts, progressChan, fmt.Sprintf("更新上传记录失败: %v", err))
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "done",
		Message: "导入完成",
		Data: map[string]interface{}{
			"uploadId": opts.Upload.ID,
			"rowCount": len(records),
			"products": products,
		},
		Timestamp: time.Now(),
	})
}

// validateRows 逐行校验，遇到第一个非法行即失败
// 规则与原始上传约束一致：日期可解析，销量与价格为非负有限数，
// 同一商品同一日期不得重复（预测要求时间严格递增，上传时就拦截）
func (c *Coordinator) validateRows(uploadID string, rows []parser.RawRow) ([]*model.SalesRecord, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("文件不包含数据行")
	}

	records := make([]*model.SalesRecord, 0, len(rows))
	productSet := make(map[string]struct{})
	seenDates := make(map[string]int, len(rows))

	for _, row := range rows {
		date, err := parseRowDate(row.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("第 %d 行日期无法解析: %q", row.Index, row.Date)
		}
		if row.ProductID == "" {
			return nil, nil, fmt.Errorf("第 %d 行缺少商品 ID", row.Index)
		}
		key := row.ProductID + "\x00" + date.Format("2006-01-02")
		if first, exists := seenDates[key]; exists {
			return nil, nil, fmt.Errorf("第 %d 行商品 %q 日期重复（与第 %d 行相同）",
				row.Index, row.ProductID, first)
		}
		seenDates[key] = row.Index
		units, err := parseNonNegative(row.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("第 %d 行销量非法: %q", row.Index, row.Value)
		}
		price, err := parseNonNegative(row.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("第 %d 行价格非法: %q", row.Index, row.Price)
		}

		productSet[row.ProductID] = struct{}{}
		records = append(records, &model.SalesRecord{
			UploadID:  uploadID,
			ProductID: row.ProductID,
			Date:      date,
			UnitsSold: units,
			Price:     price,
		})
	}

	products := make([]string, 0, len(productSet))
	for p := range productSet {
		products = append(products, p)
	}
	sort.Strings(products)

	return records, products, nil
}

func (c *Coordinator) fail(opts IngestOptions, progressChan chan ProgressEvent, message string) {
	// 标记上传失败，忽略二次错误
	_ = c.store.FinishUpload(opts.Upload.ID, 0, nil, "error")

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件（通道满时丢弃，避免阻塞导入）
func (c *Coordinator) sendProgress(progressChan chan ProgressEvent, event ProgressEvent) {
	select {
	case progressChan <- event:
	default:
	}
}

var rowDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

func parseRowDate(s string) (time.Time, error) {
	for _, layout := range rowDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date")
}

func parseNonNegative(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value")
	}
	return v, nil
}
