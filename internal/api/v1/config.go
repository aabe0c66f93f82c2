package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ConfigResponse 配置响应
type ConfigResponse struct {
	DefaultHorizon  int    `json:"defaultHorizon"`  // 默认预测天数
	MinObservations int    `json:"minObservations"` // 预测所需最少数据点
	Engine          string `json:"engine"`          // 预测引擎
	DateColumn      string `json:"dateColumn"`      // 日期列名
	ProductColumn   string `json:"productColumn"`   // 商品列名
	ValueColumn     string `json:"valueColumn"`     // 销量列名
	PriceColumn     string `json:"priceColumn"`     // 单价列名
}

// UpdateConfigRequest 更新配置请求
type UpdateConfigRequest struct {
	// 使用 map 允许部分更新
	Updates map[string]interface{} `json:"updates"`
}

// 允许通过接口覆盖的配置键
var updatableSettings = map[string]bool{
	"default_horizon":  true,
	"min_observations": true,
}

// GetConfig 获取运行时配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		DefaultHorizon:  h.settingInt("default_horizon", h.cfg.Forecast.DefaultHorizon),
		MinObservations: h.settingInt("min_observations", h.cfg.Forecast.MinObservations),
		Engine:          h.cfg.Forecast.Engine,
		DateColumn:      h.cfg.Forecast.DateColumn,
		ProductColumn:   h.cfg.Forecast.ProductColumn,
		ValueColumn:     h.cfg.Forecast.ValueColumn,
		PriceColumn:     h.cfg.Forecast.PriceColumn,
	})
}

// UpdateConfig 更新运行时配置
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	for key, value := range req.Updates {
		if !updatableSettings[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的配置项: " + key})
			return
		}

		var n int
		switch v := value.(type) {
		case float64:
			n = int(v)
		case string:
			parsed, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "配置值非法: " + key})
				return
			}
			n = parsed
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "配置值非法: " + key})
			return
		}
		if n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "配置值必须为正整数: " + key})
			return
		}

		if err := h.store.SetSettingInt(key, n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新配置失败: " + key})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "配置更新成功"})
}

// settingInt 读取整数配置项，未设置时回落到默认值
func (h *Handler) settingInt(key string, fallback int) int {
	if v, err := h.store.GetSettingInt(key); err == nil && v > 0 {
		return v
	}
	return fallback
}
