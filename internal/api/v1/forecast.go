package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dsalvin/oracle-project-backend/internal/analysis"
	"github.com/dsalvin/oracle-project-backend/internal/exporter"
	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/pipeline"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

// GetForecast 生成（或刷新）单个商品的销量预测
// GET /api/forecast/:productId?upload_id=&horizon=
func (h *Handler) GetForecast(c *gin.Context) {
	rec, history, ok := h.forecastFromPath(c)
	if !ok {
		return
	}

	historyPoints := make([]gin.H, len(history))
	for i, hp := range history {
		historyPoints[i] = gin.H{
			"timestamp": pipeline.FormatTimestamp(hp.Timestamp),
			"value":     hp.Value,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":      rec.ProductID,
		"insight":         rec.Insight,
		"historical_data": historyPoints,
		"forecast_data":   rec.Points,
	})
}

// GetForecastChart 渲染预测结果图表页面
// GET /api/forecast/:productId/chart?upload_id=&horizon=
func (h *Handler) GetForecastChart(c *gin.Context) {
	rec, history, ok := h.forecastFromPath(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := exporter.RenderChart(c.Writer, rec, history); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "渲染图表失败"})
	}
}

// forecastFromPath 从路径与查询参数解析预测请求
func (h *Handler) forecastFromPath(c *gin.Context) (*model.ForecastRecord, []model.HistoryPoint, bool) {
	productID := c.Param("productId")

	uploadID := c.Query("upload_id")
	if uploadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 upload_id 参数"})
		return nil, nil, false
	}

	horizon, ok := h.parseHorizon(c)
	if !ok {
		return nil, nil, false
	}

	return h.computeForecast(c, uploadID, productID, horizon)
}

// parseHorizon 解析 horizon 查询参数，缺省取配置值
func (h *Handler) parseHorizon(c *gin.Context) (int, bool) {
	horizon := h.settingInt("default_horizon", h.cfg.Forecast.DefaultHorizon)
	if v := c.Query("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "horizon 参数非法"})
			return 0, false
		}
		horizon = n
	}
	return horizon, true
}

// computeForecast 预测公共流程：取数、校验、预测、生成结论并落库
func (h *Handler) computeForecast(c *gin.Context, uploadID, productID string, horizon int) (*model.ForecastRecord, []model.HistoryPoint, bool) {
	user := currentUser(c)

	if _, err := h.store.GetUpload(uploadID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "上传记录不存在，请重新上传"})
			return nil, nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询上传记录失败"})
		return nil, nil, false
	}

	records, err := h.store.GetSalesByProduct(uploadID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询销售数据失败"})
		return nil, nil, false
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("商品 %q 不存在", productID)})
		return nil, nil, false
	}

	minObs := h.settingInt("min_observations", h.cfg.Forecast.MinObservations)
	if len(records) < minObs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("数据不足，至少需要 %d 个数据点", minObs),
		})
		return nil, nil, false
	}

	points := make([]pipeline.Record, len(records))
	history := make([]model.HistoryPoint, len(records))
	for i, r := range records {
		points[i] = pipeline.Record{Timestamp: r.Date, Value: r.UnitsSold}
		history[i] = model.HistoryPoint{Timestamp: r.Date, Value: r.UnitsSold}
	}

	ds, err := pipeline.NewDataset(points)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	pipe := pipeline.New(h.newForecaster()).WithMinObservations(minObs)
	result, err := pipe.Forecast(ds, horizon)
	if err != nil {
		var fe *pipeline.ForecastError
		if errors.As(err, &fe) && fe.Reason == pipeline.ReasonInsufficientHistory {
			c.JSON(http.StatusBadRequest, gin.H{"error": "数据不足，无法预测"})
			return nil, nil, false
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("预测失败: %v", err)})
		return nil, nil, false
	}

	historyValues := make([]float64, len(ds.Records))
	for i, r := range ds.Records {
		historyValues[i] = r.Value
	}
	forecastValues := make([]float64, len(result.Points))
	forecastPoints := make([]model.ForecastPoint, len(result.Points))
	for i, pt := range result.Points {
		forecastValues[i] = pt.PredictedValue
		forecastPoints[i] = model.ForecastPoint{
			Timestamp:      pt.Timestamp,
			PredictedValue: pt.PredictedValue,
			LowerBound:     pt.LowerBound,
			UpperBound:     pt.UpperBound,
		}
	}

	rec := &model.ForecastRecord{
		UploadID:  uploadID,
		ProductID: productID,
		Horizon:   horizon,
		Insight:   analysis.GenerateInsight(productID, historyValues, forecastValues),
		Points:    forecastPoints,
	}
	id, err := h.store.SaveForecast(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存预测结果失败"})
		return nil, nil, false
	}
	rec.ID = id

	return rec, history, true
}
