package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"dinehub/backend/internal/dto"
	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
)

// ── 餐厅模块业务错误 ──

var (
	ErrRestaurantSlugTaken = errors.New("餐厅 slug 已被占用")
)

// RestaurantService 餐厅业务接口
// 餐厅创建与其首个门店的创建在同一事务内完成，
// 任何时刻餐厅都不会处于零门店状态。
type RestaurantService interface {
	Create(ctx context.Context, req *dto.CreateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RestaurantResponse, error)
	List(ctx context.Context, req *dto.RestaurantListRequest) ([]dto.RestaurantResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error)
}

type restaurantService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRestaurantService 创建 RestaurantService 实例
func NewRestaurantService(repo *repository.Repository, logger *zap.Logger) RestaurantService {
	return &restaurantService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *restaurantService) Create(ctx context.Context, req *dto.CreateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	initial := req.InitialLocation
	locSlug := strings.ToLower(strings.TrimSpace(initial.Slug))
	if !slugPattern.MatchString(locSlug) {
		return nil, ErrInvalidSlug
	}
	if err := validateOperatingHours(initial.OperatingHours); err != nil {
		return nil, err
	}

	taken, err := s.repo.Restaurant.SlugExists(ctx, slug, "")
	if err != nil {
		s.logger.Error("检查餐厅 slug 失败", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrRestaurantSlugTaken
	}

	rest := &model.Restaurant{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    true,
	}
	rest.CreatedBy = &callerID
	rest.UpdatedBy = &callerID

	status := initial.Status
	if status == "" {
		status = model.LocationStatusActive
	}
	loc := &model.Location{
		Name:           initial.Name,
		Slug:           locSlug,
		AddressLine1:   initial.AddressLine1,
		AddressLine2:   initial.AddressLine2,
		City:           initial.City,
		State:          initial.State,
		PostalCode:     initial.PostalCode,
		OperatingHours: hoursToModel(initial.OperatingHours),
		Features:       datatypes.JSONMap(initial.Features),
		Status:         status,
	}
	loc.CreatedBy = &callerID
	loc.UpdatedBy = &callerID

	if err := s.repo.Restaurant.CreateWithInitialLocation(ctx, rest, loc); err != nil {
		s.logger.Error("创建餐厅失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	s.logger.Info("餐厅已创建",
		zap.String("restaurant_id", rest.RestaurantID),
		zap.String("primary_location_id", loc.LocationID),
	)

	return s.toRestaurantResponse(rest), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *restaurantService) GetByID(ctx context.Context, id string) (*dto.RestaurantResponse, error) {
	rest, err := s.repo.Restaurant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRestaurantResponse(rest), nil
}

// ────────────────────── List ──────────────────────

func (s *restaurantService) List(ctx context.Context, req *dto.RestaurantListRequest) ([]dto.RestaurantResponse, error) {
	restaurants, err := s.repo.Restaurant.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出餐厅失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		result = append(result, *s.toRestaurantResponse(&restaurants[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *restaurantService) Update(ctx context.Context, id string, req *dto.UpdateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error) {
	rest, err := s.repo.Restaurant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		rest.Name = *req.Name
	}
	if req.Description != nil {
		rest.Description = *req.Description
	}
	if req.IsActive != nil {
		rest.IsActive = *req.IsActive
	}

	rest.UpdatedBy = &callerID

	if err := s.repo.Restaurant.Update(ctx, rest); err != nil {
		s.logger.Error("更新餐厅失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRestaurantResponse(rest), nil
}

// ── 内部辅助方法 ──

func (s *restaurantService) toRestaurantResponse(rest *model.Restaurant) *dto.RestaurantResponse {
	return &dto.RestaurantResponse{
		ID:          rest.RestaurantID,
		Name:        rest.Name,
		Slug:        rest.Slug,
		Description: rest.Description,
		IsActive:    rest.IsActive,
		CreatedAt:   rest.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   rest.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
