package handler

import "dinehub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Restaurant *RestaurantHandler
	Location   *LocationHandler
	Assignment *AssignmentHandler
	Role       *RoleHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Restaurant: NewRestaurantHandler(svc.Restaurant),
		Location:   NewLocationHandler(svc.Location),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Role:       NewRoleHandler(svc.Role),
		Export:     NewExportHandler(svc.Export),
	}
}
