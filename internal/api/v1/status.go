package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已有数据
	TotalUsers     int    `json:"totalUsers"`     // 用户总数
	TotalUploads   int    `json:"totalUploads"`   // 上传总数
	TotalForecasts int    `json:"totalForecasts"` // 预测结果总数
	Engine         string `json:"engine"`         // 当前预测引擎
	Version        string `json:"version"`        // 服务版本
}

// Version 服务版本号
const Version = "1.0.0"

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	userCount, err := h.store.CountUsers()
	if err != nil {
		userCount = 0
	}

	uploadCount, err := h.store.CountUploads()
	if err != nil {
		uploadCount = 0
	}

	forecastCount, err := h.store.CountForecasts()
	if err != nil {
		forecastCount = 0
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    uploadCount > 0,
		TotalUsers:     userCount,
		TotalUploads:   uploadCount,
		TotalForecasts: forecastCount,
		Engine:         h.cfg.Forecast.Engine,
		Version:        Version,
	})
}
