package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsalvin/oracle-project-backend/internal/analysis"
	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

// GetAnalysis 历史数据分析：按日营收 + 销量前五商品
// GET /api/analysis?upload_id=
func (h *Handler) GetAnalysis(c *gin.Context) {
	user := currentUser(c)

	uploadID := c.Query("upload_id")
	if uploadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 upload_id 参数"})
		return
	}

	if _, err := h.store.GetUpload(uploadID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "上传记录不存在，请重新上传"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询上传记录失败"})
		return
	}

	records, err := h.store.GetSalesByUpload(uploadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询销售数据失败"})
		return
	}

	c.JSON(http.StatusOK, model.AnalysisResult{
		RevenueOverTime: analysis.RevenueOverTime(records),
		TopProducts:     analysis.TopProducts(records, analysis.TopProductCount),
	})
}
