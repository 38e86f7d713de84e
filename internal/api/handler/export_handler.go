package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"dinehub/backend/internal/service"
	"dinehub/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportLocations 导出餐厅门店清单为 Excel
// GET /api/v1/restaurants/:id/locations/export
func (h *ExportHandler) ExportLocations(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportLocations(c.Request.Context(), restaurantID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrExportNoLocations):
		response.NotFound(c, 16001, "该餐厅暂无门店")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
