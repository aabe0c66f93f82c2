package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dsalvin/oracle-project-backend/internal/auth"
	"github.com/dsalvin/oracle-project-backend/internal/config"
	"github.com/dsalvin/oracle-project-backend/internal/pipeline"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	tokens    *auth.TokenIssuer
	google    *auth.GoogleOAuth
	downloads *exportDownloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpireMinutes),
		google:    auth.NewGoogleOAuth(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 认证
	router.POST("/register", h.Register)
	router.POST("/token", h.Login)
	router.GET("/login/google", h.GoogleLogin)
	router.GET("/auth/callback/google", h.GoogleCallback)

	// 系统状态
	router.GET("/status", h.GetStatus)

	// 需要登录的接口
	authed := router.Group("")
	authed.Use(h.AuthRequired())
	{
		// 配置管理
		authed.GET("/config", h.GetConfig)
		authed.PATCH("/config", h.UpdateConfig)

		// 数据上传
		authed.POST("/upload", h.Upload)
		authed.GET("/uploads", h.ListUploads)

		// 历史分析
		authed.GET("/analysis", h.GetAnalysis)

		// 预测
		authed.GET("/forecast/:productId", h.GetForecast)
		authed.GET("/forecast/:productId/chart", h.GetForecastChart)

		// 数据导出
		authed.GET("/export/forecast", h.ExportForecast)
		authed.POST("/export/forecast", h.PrepareExport)
		authed.GET("/export/download/:token", h.DownloadExport)
	}
}

// newForecaster 按配置选择预测引擎
func (h *Handler) newForecaster() pipeline.Forecaster {
	if h.cfg.Forecast.Engine == "naive" {
		return pipeline.NewSeasonalNaive()
	}
	return pipeline.NewGoForecaster()
}
