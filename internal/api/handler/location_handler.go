package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/service"
	"dinehub/backend/pkg/response"
)

// LocationHandler 门店模块 HTTP 处理器
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// CreateLocation 在餐厅下创建门店
// POST /api/v1/restaurants/:id/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	location, err := h.locationSvc.Create(c.Request.Context(), restaurantID, &req, callerID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.Created(c, location)
}

// GetLocation 获取门店详情
// GET /api/v1/locations/:id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	location, err := h.locationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// ListLocations 获取餐厅门店列表（主门店置顶）
// GET /api/v1/restaurants/:id/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.LocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	locations, err := h.locationSvc.List(c.Request.Context(), restaurantID, &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// UpdateLocation 更新门店
// PUT /api/v1/locations/:id
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	location, err := h.locationSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// SetPrimaryLocation 将门店设为餐厅主门店（原主门店自动让位）
// PUT /api/v1/locations/:id/primary
func (h *LocationHandler) SetPrimaryLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	location, err := h.locationSvc.SetPrimary(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// DeleteLocation 删除门店（软删除；最后一个门店不可删）
// DELETE /api/v1/locations/:id
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.locationSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetPrimaryLocation 获取餐厅主门店
// GET /api/v1/restaurants/:id/locations/primary
func (h *LocationHandler) GetPrimaryLocation(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	location, err := h.locationSvc.GetPrimary(c.Request.Context(), restaurantID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// GetLocationStats 获取餐厅门店统计
// GET /api/v1/restaurants/:id/locations/stats
func (h *LocationHandler) GetLocationStats(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	stats, err := h.locationSvc.Stats(c.Request.Context(), restaurantID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, stats)
}

// handleLocationError 统一处理门店模块业务错误
func (h *LocationHandler) handleLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrLocationSlugTaken):
		response.Conflict(c, 13002, "门店 slug 在该餐厅内已被占用")
	case errors.Is(err, service.ErrInvalidSlug):
		response.BadRequest(c, 13003, "slug 格式无效")
	case errors.Is(err, service.ErrInvalidOperatingHours):
		response.BadRequest(c, 13004, "营业时间格式无效")
	case errors.Is(err, service.ErrCannotDeleteOnlyLocation):
		response.UnprocessableEntity(c, 13005, "不能删除餐厅的最后一个门店")
	case errors.Is(err, service.ErrCannotDemoteOnlyPrimary):
		response.UnprocessableEntity(c, 13006, "没有可接替的门店，不能取消主门店标记")
	default:
		response.InternalError(c)
	}
}
