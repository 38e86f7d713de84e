package service

import (
	"go.uber.org/zap"

	"dinehub/backend/config"
	"dinehub/backend/internal/repository"
	"dinehub/backend/pkg/jwt"
	"dinehub/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Restaurant RestaurantService
	Location   LocationService
	Assignment AssignmentService
	Role       RoleService
	Export     ExportService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil：Redis 不可用时黑名单与角色缓存退化为直连数据库
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Restaurant: NewRestaurantService(repo, logger),
		Location:   NewLocationService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Role:       NewRoleService(repo, rdb, logger),
		Export:     NewExportService(repo, logger),
	}
}
