package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/service"
	"dinehub/backend/pkg/response"
)

// RoleHandler 角色目录模块 HTTP 处理器
type RoleHandler struct {
	roleSvc service.RoleService
}

// NewRoleHandler 创建 RoleHandler
func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// CreateRole 创建角色
// POST /api/v1/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	role, err := h.roleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, role)
}

// GetRole 获取角色详情
// GET /api/v1/roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "角色ID不能为空")
		return
	}

	role, err := h.roleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// GetRoleByName 按名称查找角色（大小写不敏感）
// GET /api/v1/roles/name/:name
func (h *RoleHandler) GetRoleByName(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		response.BadRequest(c, 10001, "角色名不能为空")
		return
	}

	role, err := h.roleSvc.FindByName(c.Request.Context(), name)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// ListRoles 获取角色列表（支持 scope / admin_only 过滤）
// GET /api/v1/roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	var req dto.RoleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	roles, err := h.roleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": roles})
}

// UpdateRole 更新角色（name 不可变更）
// PUT /api/v1/roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "角色ID不能为空")
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	role, err := h.roleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// DeactivateRole 停用角色（保留历史分配，新的分配不可再用）
// DELETE /api/v1/roles/:id
func (h *RoleHandler) DeactivateRole(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "角色ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roleSvc.Deactivate(c.Request.Context(), id, callerID); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleRoleError 统一处理角色模块业务错误
func (h *RoleHandler) handleRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 15001, "角色不存在")
	case errors.Is(err, service.ErrRoleNameTaken):
		response.Conflict(c, 15002, "角色名已存在")
	case errors.Is(err, service.ErrInvalidRoleLevel):
		response.BadRequest(c, 15003, "角色级别必须在 1-5 之间")
	case errors.Is(err, service.ErrInvalidRoleScope):
		response.BadRequest(c, 15004, "角色作用域无效")
	default:
		response.InternalError(c)
	}
}
