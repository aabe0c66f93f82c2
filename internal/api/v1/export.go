package v1

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dsalvin/oracle-project-backend/internal/config"
	"github.com/dsalvin/oracle-project-backend/internal/exporter"
	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

const downloadTTL = 10 * time.Minute

// ExportForecast 直接下载预测结果
// GET /api/export/forecast?upload_id=&product_id=&horizon=&format=csv|xlsx
func (h *Handler) ExportForecast(c *gin.Context) {
	rec, ok := h.loadForecast(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := exporter.WriteCSV(&buf, rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 CSV 失败"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exporter.Filename(rec.ProductID, "csv")))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())

	case "xlsx":
		file, err := exporter.WriteXLSX(rec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 Excel 失败"})
			return
		}
		defer file.Close()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exporter.Filename(rec.ProductID, "xlsx")))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败"})
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的导出格式"})
	}
}

// PrepareExport 生成导出文件并返回下载令牌
// POST /api/export/forecast
func (h *Handler) PrepareExport(c *gin.Context) {
	rec, ok := h.loadForecast(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的导出格式"})
		return
	}

	filename := fmt.Sprintf("export_%d_%s", time.Now().UnixNano(), exporter.Filename(rec.ProductID, format))
	filePath := config.GetDataPath(h.cfg, "exports", filename)

	switch format {
	case "csv":
		out, err := os.Create(filePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出文件失败"})
			return
		}
		if err := exporter.WriteCSV(out, rec); err != nil {
			out.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 CSV 失败"})
			return
		}
		out.Close()
	case "xlsx":
		file, err := exporter.WriteXLSX(rec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 Excel 失败"})
			return
		}
		err = file.SaveAs(filePath)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败"})
			return
		}
	}

	token := h.downloads.put(filePath, rec.ProductID, format, downloadTTL)

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": "/api/export/download/" + token,
		"expiresIn":   int(downloadTTL.Seconds()),
	})
}

// DownloadExport 按令牌下载导出文件
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件已被清理，请重新导出"})
		return
	}

	contentType := "text/csv"
	if item.format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exporter.Filename(item.productID, item.format)))
	c.Header("Content-Type", contentType)
	c.File(item.filePath)
}

// loadForecast 读取（必要时先生成）待导出的预测结果
func (h *Handler) loadForecast(c *gin.Context) (*model.ForecastRecord, bool) {
	user := currentUser(c)

	uploadID := c.Query("upload_id")
	productID := c.Query("product_id")
	if uploadID == "" || productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 upload_id 或 product_id 参数"})
		return nil, false
	}

	horizon, ok := h.parseHorizon(c)
	if !ok {
		return nil, false
	}

	if _, err := h.store.GetUpload(uploadID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "上传记录不存在，请重新上传"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询上传记录失败"})
		return nil, false
	}

	// 已有结果直接复用，否则重新跑一次预测流程
	rec, err := h.store.GetForecast(uploadID, productID, horizon)
	if err == nil {
		return rec, true
	}
	if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询预测结果失败"})
		return nil, false
	}

	rec, _, ok = h.computeForecast(c, uploadID, productID, horizon)
	return rec, ok
}
