package v1

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dsalvin/oracle-project-backend/internal/config"
	"github.com/dsalvin/oracle-project-backend/internal/importer"
	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/parser"
)

// Upload 上传销售数据 (SSE 流式响应)
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	user := currentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	uploadedFile := files[0]
	ext := strings.ToLower(filepath.Ext(uploadedFile.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 CSV 或 XLSX 文件"})
		return
	}

	// 保存到用户上传目录
	uploadID := uuid.NewString()
	savedName := fmt.Sprintf("user_%d_%s%s", user.ID, uploadID, ext)
	savedPath := config.GetDataPath(h.cfg, "uploads", savedName)

	if err := c.SaveUploadedFile(uploadedFile, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	upload := &model.Upload{
		ID:       uploadID,
		UserID:   user.ID,
		Filename: uploadedFile.Filename,
		FilePath: savedPath,
		FileSize: uploadedFile.Size,
		Products: []string{},
		Status:   "processing",
	}
	if err := h.store.CreateUpload(upload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传记录失败"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	coordinator := importer.NewCoordinator(h.store)

	progressChan := coordinator.Ingest(importer.IngestOptions{
		Upload:   upload,
		FilePath: savedPath,
		Mapping:  h.columnMapping(),
	})

	// 流式发送进度事件
	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ListUploads 列出当前用户的上传记录
// GET /api/uploads
func (h *Handler) ListUploads(c *gin.Context) {
	user := currentUser(c)

	uploads, err := h.store.ListUploads(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询上传记录失败"})
		return
	}
	if uploads == nil {
		uploads = []*model.Upload{}
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// columnMapping 从配置读取列名映射
func (h *Handler) columnMapping() parser.ColumnMapping {
	mapping := parser.DefaultColumnMapping()
	if h.cfg.Forecast.DateColumn != "" {
		mapping.Date = h.cfg.Forecast.DateColumn
	}
	if h.cfg.Forecast.ProductColumn != "" {
		mapping.Product = h.cfg.Forecast.ProductColumn
	}
	if h.cfg.Forecast.ValueColumn != "" {
		mapping.Value = h.cfg.Forecast.ValueColumn
	}
	if h.cfg.Forecast.PriceColumn != "" {
		mapping.Price = h.cfg.Forecast.PriceColumn
	}
	return mapping
}
