package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/service"
	"dinehub/backend/pkg/response"
)

// AssignmentHandler 用户门店分配模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// AssignUser 授予用户门店角色（重复调用幂等）
// POST /api/v1/users/:id/locations/:location_id
func (h *AssignmentHandler) AssignUser(c *gin.Context) {
	userID := c.Param("id")
	locationID := c.Param("location_id")
	if userID == "" || locationID == "" {
		response.BadRequest(c, 10001, "用户ID和门店ID不能为空")
		return
	}

	var req dto.AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Assign(c.Request.Context(), userID, locationID, &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// SetPrimaryLocation 将门店设为用户主门店（原主门店分配自动让位）
// PUT /api/v1/users/:id/locations/:location_id/primary
func (h *AssignmentHandler) SetPrimaryLocation(c *gin.Context) {
	userID := c.Param("id")
	locationID := c.Param("location_id")
	if userID == "" || locationID == "" {
		response.BadRequest(c, 10001, "用户ID和门店ID不能为空")
		return
	}

	updated, err := h.assignmentSvc.SetPrimaryLocation(c.Request.Context(), userID, locationID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	if !updated {
		response.NotFound(c, 14001, "该用户在此门店无分配记录")
		return
	}

	response.OK(c, nil)
}

// RemoveAssignment 撤销用户在某门店的分配
// DELETE /api/v1/users/:id/locations/:location_id
func (h *AssignmentHandler) RemoveAssignment(c *gin.Context) {
	userID := c.Param("id")
	locationID := c.Param("location_id")
	if userID == "" || locationID == "" {
		response.BadRequest(c, 10001, "用户ID和门店ID不能为空")
		return
	}

	removed, err := h.assignmentSvc.Remove(c.Request.Context(), userID, locationID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	if !removed {
		response.NotFound(c, 14001, "该用户在此门店无分配记录")
		return
	}

	response.OK(c, nil)
}

// ListUserLocations 获取用户可访问的门店列表（主门店置顶）
// GET /api/v1/users/:id/locations
func (h *AssignmentHandler) ListUserLocations(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	locations, err := h.assignmentSvc.ListUserLocations(c.Request.Context(), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// CheckLocationAccess 检查用户是否可访问某门店
// GET /api/v1/users/:id/locations/:location_id/access
func (h *AssignmentHandler) CheckLocationAccess(c *gin.Context) {
	userID := c.Param("id")
	locationID := c.Param("location_id")
	if userID == "" || locationID == "" {
		response.BadRequest(c, 10001, "用户ID和门店ID不能为空")
		return
	}

	hasAccess, err := h.assignmentSvc.HasLocationAccess(c.Request.Context(), userID, locationID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, dto.AccessCheckResponse{HasAccess: hasAccess})
}

// ListLocationStaff 获取门店员工列表
// GET /api/v1/locations/:id/staff
func (h *AssignmentHandler) ListLocationStaff(c *gin.Context) {
	locationID := c.Param("id")
	if locationID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	staff, err := h.assignmentSvc.ListLocationStaff(c.Request.Context(), locationID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": staff})
}

// handleAssignmentError 统一处理分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignUserNotFound):
		response.NotFound(c, 14002, "用户不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 15001, "角色不存在")
	case errors.Is(err, service.ErrAssignRoleInactive):
		response.UnprocessableEntity(c, 14003, "角色已停用，不能用于新的分配")
	default:
		response.InternalError(c)
	}
}
