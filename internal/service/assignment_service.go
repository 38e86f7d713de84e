package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
)

// ── 用户门店分配模块业务错误 ──

var (
	ErrAssignUserNotFound = errors.New("用户不存在")
	ErrAssignRoleInactive = errors.New("角色已停用，不能用于新的分配")
)

// AssignmentService 用户门店分配业务接口
//
// 授予是幂等的：同一 (user, location) 重复授予返回既有记录；
// 携带不同角色的重复授予更新既有记录的角色字段，不新增行。
// 移除主分配后不自动重选主门店，调用方需显式调用 SetPrimaryLocation。
type AssignmentService interface {
	Assign(ctx context.Context, userID, locationID string, req *dto.AssignUserRequest, callerID string) (*dto.AssignmentResponse, error)
	SetPrimaryLocation(ctx context.Context, userID, locationID string) (bool, error)
	Remove(ctx context.Context, userID, locationID string) (bool, error)
	HasLocationAccess(ctx context.Context, userID, locationID string) (bool, error)
	ListUserLocations(ctx context.Context, userID string) ([]dto.UserLocationResponse, error)
	ListLocationStaff(ctx context.Context, locationID string) ([]dto.LocationStaffResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, userID, locationID string, req *dto.AssignUserRequest, callerID string) (*dto.AssignmentResponse, error) {
	// 前置校验：用户、门店必须存在，角色必须存在且处于启用状态
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Location.GetByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询门店失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}
	role, err := s.repo.Role.GetByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("role_id", req.RoleID), zap.Error(err))
		return nil, err
	}
	if !role.IsActive {
		return nil, ErrAssignRoleInactive
	}

	// 幂等授予：已有记录则按需更新角色/主标记后原样返回
	existing, err := s.repo.Assignment.GetByUserAndLocation(ctx, userID, locationID)
	if err == nil {
		if existing.RoleID != req.RoleID {
			if err := s.repo.Assignment.UpdateRole(ctx, existing.AssignmentID, req.RoleID, callerID); err != nil {
				s.logger.Error("更新分配角色失败", zap.String("assignment_id", existing.AssignmentID), zap.Error(err))
				return nil, err
			}
			existing.RoleID = req.RoleID
			existing.Role = role
		}
		if req.IsPrimaryLocation && !existing.IsPrimaryLocation {
			if _, err := s.repo.Assignment.SetPrimary(ctx, userID, locationID); err != nil {
				s.logger.Error("设置主门店分配失败", zap.String("user_id", userID), zap.Error(err))
				return nil, err
			}
			existing.IsPrimaryLocation = true
		}
		return s.toAssignmentResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询分配记录失败", zap.Error(err))
		return nil, err
	}

	a := &model.UserLocationAssignment{
		UserID:            userID,
		LocationID:        locationID,
		RoleID:            req.RoleID,
		IsPrimaryLocation: req.IsPrimaryLocation,
		StationTags:       model.StringArray(req.StationTags),
	}
	if callerID != "" {
		a.AssignedBy = &callerID
		a.CreatedBy = &callerID
		a.UpdatedBy = &callerID
	}

	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		s.logger.Error("创建分配记录失败",
			zap.String("user_id", userID),
			zap.String("location_id", locationID),
			zap.Error(err))
		return nil, err
	}
	a.Role = role

	return s.toAssignmentResponse(a), nil
}

// ────────────────────── SetPrimaryLocation ──────────────────────

// SetPrimaryLocation 返回 false 表示 (user, location) 对不存在，
// 此时未做任何修改（零行受影响）。调用方必须检查返回值。
func (s *assignmentService) SetPrimaryLocation(ctx context.Context, userID, locationID string) (bool, error) {
	ok, err := s.repo.Assignment.SetPrimary(ctx, userID, locationID)
	if err != nil {
		s.logger.Error("设置主门店分配失败",
			zap.String("user_id", userID),
			zap.String("location_id", locationID),
			zap.Error(err))
		return false, err
	}
	return ok, nil
}

// ────────────────────── Remove ──────────────────────

func (s *assignmentService) Remove(ctx context.Context, userID, locationID string) (bool, error) {
	removed, err := s.repo.Assignment.Remove(ctx, userID, locationID)
	if err != nil {
		s.logger.Error("移除分配记录失败",
			zap.String("user_id", userID),
			zap.String("location_id", locationID),
			zap.Error(err))
		return false, err
	}
	return removed, nil
}

// ────────────────────── HasLocationAccess ──────────────────────

func (s *assignmentService) HasLocationAccess(ctx context.Context, userID, locationID string) (bool, error) {
	return s.repo.Assignment.Exists(ctx, userID, locationID)
}

// ────────────────────── ListUserLocations ──────────────────────

func (s *assignmentService) ListUserLocations(ctx context.Context, userID string) ([]dto.UserLocationResponse, error) {
	assignments, err := s.repo.Assignment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出用户门店失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserLocationResponse, 0, len(assignments))
	for i := range assignments {
		item := dto.UserLocationResponse{
			Assignment: *s.toAssignmentResponse(&assignments[i]),
		}
		if assignments[i].Location != nil {
			loc := assignments[i].Location
			item.Location = &dto.LocationResponse{
				ID:           loc.LocationID,
				RestaurantID: loc.RestaurantID,
				Name:         loc.Name,
				Slug:         loc.Slug,
				Status:       loc.Status,
				IsPrimary:    loc.IsPrimary,
				CreatedAt:    loc.CreatedAt.Format("2006-01-02T15:04:05Z"),
				UpdatedAt:    loc.UpdatedAt.Format("2006-01-02T15:04:05Z"),
			}
		}
		result = append(result, item)
	}

	return result, nil
}

// ────────────────────── ListLocationStaff ──────────────────────

func (s *assignmentService) ListLocationStaff(ctx context.Context, locationID string) ([]dto.LocationStaffResponse, error) {
	assignments, err := s.repo.Assignment.ListByLocation(ctx, locationID)
	if err != nil {
		s.logger.Error("列出门店员工失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationStaffResponse, 0, len(assignments))
	for i := range assignments {
		item := dto.LocationStaffResponse{
			Assignment: *s.toAssignmentResponse(&assignments[i]),
			UserID:     assignments[i].UserID,
		}
		if assignments[i].User != nil {
			item.UserName = assignments[i].User.Name
			item.UserEmail = assignments[i].User.Email
		}
		result = append(result, item)
	}

	return result, nil
}

// ── 内部辅助方法 ──

func (s *assignmentService) toAssignmentResponse(a *model.UserLocationAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:                a.AssignmentID,
		UserID:            a.UserID,
		LocationID:        a.LocationID,
		RoleID:            a.RoleID,
		IsPrimaryLocation: a.IsPrimaryLocation,
		StationTags:       []string(a.StationTags),
		CreatedAt:         a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:         a.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if a.AssignedBy != nil {
		resp.AssignedBy = *a.AssignedBy
	}
	if a.Role != nil {
		resp.RoleName = a.Role.Name
	}
	return resp
}
