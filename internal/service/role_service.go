package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
	"dinehub/backend/pkg/redis"
)

// ── 角色目录模块业务错误 ──

var (
	ErrRoleNotFound     = errors.New("角色不存在")
	ErrRoleNameTaken    = errors.New("角色名已存在")
	ErrInvalidRoleLevel = errors.New("角色级别必须在 1-5 之间")
	ErrInvalidRoleScope = errors.New("角色作用域无效")
)

// RoleService 角色目录业务接口
//
// 角色目录读多写少：FindByName 经由 Redis 缓存（未配置 Redis 时直读库）。
// 角色从不物理删除，Deactivate 仅停用——分配记录持有角色 ID 的持久引用。
type RoleService interface {
	Create(ctx context.Context, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest, callerID string) (*dto.RoleResponse, error)
	Deactivate(ctx context.Context, id string, callerID string) error
	GetByID(ctx context.Context, id string) (*dto.RoleResponse, error)
	FindByName(ctx context.Context, name string) (*dto.RoleResponse, error)
	List(ctx context.Context, req *dto.RoleListRequest) ([]dto.RoleResponse, error)
}

type roleService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例；rdb 可为 nil（缓存降级）
func NewRoleService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest, callerID string) (*dto.RoleResponse, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if req.Level < model.RoleLevelMin || req.Level > model.RoleLevelMax {
		return nil, ErrInvalidRoleLevel
	}
	if !model.ValidScope(req.Scope) {
		return nil, ErrInvalidRoleScope
	}

	taken, err := s.repo.Role.NameExists(ctx, name, "")
	if err != nil {
		s.logger.Error("检查角色名失败", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrRoleNameTaken
	}

	role := &model.Role{
		Name:               name,
		DisplayName:        req.DisplayName,
		Description:        req.Description,
		Level:              req.Level,
		Scope:              req.Scope,
		IsAdminRole:        req.IsAdminRole,
		CanManageUsers:     req.CanManageUsers,
		CanManageLocations: req.CanManageLocations,
		IsActive:           true,
	}
	role.CreatedBy = &callerID
	role.UpdatedBy = &callerID

	if err := s.repo.Role.Create(ctx, role); err != nil {
		s.logger.Error("创建角色失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	return s.toRoleResponse(role), nil
}

// ────────────────────── Update ──────────────────────

func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest, callerID string) (*dto.RoleResponse, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Level != nil {
		if *req.Level < model.RoleLevelMin || *req.Level > model.RoleLevelMax {
			return nil, ErrInvalidRoleLevel
		}
		role.Level = *req.Level
	}
	if req.Scope != nil {
		if !model.ValidScope(*req.Scope) {
			return nil, ErrInvalidRoleScope
		}
		role.Scope = *req.Scope
	}
	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.IsAdminRole != nil {
		role.IsAdminRole = *req.IsAdminRole
	}
	if req.CanManageUsers != nil {
		role.CanManageUsers = *req.CanManageUsers
	}
	if req.CanManageLocations != nil {
		role.CanManageLocations = *req.CanManageLocations
	}

	role.UpdatedBy = &callerID

	if err := s.repo.Role.Update(ctx, role); err != nil {
		s.logger.Error("更新角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx, role.Name)

	return s.toRoleResponse(role), nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *roleService) Deactivate(ctx context.Context, id string, callerID string) error {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Role.Deactivate(ctx, id, callerID); err != nil {
		s.logger.Error("停用角色失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, role.Name)

	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roleService) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRoleResponse(role), nil
}

// ────────────────────── FindByName ──────────────────────

func (s *roleService) FindByName(ctx context.Context, name string) (*dto.RoleResponse, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	// 缓存命中直接返回；缓存错误仅记录，不影响主流程
	if s.rdb != nil {
		if cached, err := s.rdb.GetCachedRole(ctx, name); err != nil {
			s.logger.Warn("读取角色缓存失败", zap.String("name", name), zap.Error(err))
		} else if cached != "" {
			var resp dto.RoleResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	role, err := s.repo.Role.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	resp := s.toRoleResponse(role)

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.CacheRole(ctx, name, string(payload)); err != nil {
				s.logger.Warn("写入角色缓存失败", zap.String("name", name), zap.Error(err))
			}
		}
	}

	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *roleService) List(ctx context.Context, req *dto.RoleListRequest) ([]dto.RoleResponse, error) {
	var (
		roles []model.Role
		err   error
	)
	switch {
	case req.AdminOnly:
		roles, err = s.repo.Role.ListAdmin(ctx)
	case req.Scope != "":
		roles, err = s.repo.Role.ListByScope(ctx, req.Scope)
	default:
		roles, err = s.repo.Role.ListActive(ctx)
	}
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, *s.toRoleResponse(&roles[i]))
	}

	return result, nil
}

// ── 内部辅助方法 ──

func (s *roleService) invalidateCache(ctx context.Context, name string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateRole(ctx, name); err != nil {
		s.logger.Warn("失效角色缓存失败", zap.String("name", name), zap.Error(err))
	}
}

func (s *roleService) toRoleResponse(role *model.Role) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:                 role.RoleID,
		Name:               role.Name,
		DisplayName:        role.DisplayName,
		Description:        role.Description,
		Level:              role.Level,
		Scope:              role.Scope,
		IsAdminRole:        role.IsAdminRole,
		CanManageUsers:     role.CanManageUsers,
		CanManageLocations: role.CanManageLocations,
		IsActive:           role.IsActive,
		CreatedAt:          role.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:          role.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
