package repository

import (
	"context"

	"gorm.io/gorm"

	"dinehub/backend/internal/model"
)

// RestaurantRepository 餐厅数据访问接口
type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	CreateWithInitialLocation(ctx context.Context, rest *model.Restaurant, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error)
	List(ctx context.Context, includeInactive bool) ([]model.Restaurant, error)
	Update(ctx context.Context, r *model.Restaurant) error
	Exists(ctx context.Context, id string) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID string) (bool, error)
}

type restaurantRepo struct {
	db *gorm.DB
}

// NewRestaurantRepo 创建 RestaurantRepository 实例
func NewRestaurantRepo(db *gorm.DB) RestaurantRepository {
	return &restaurantRepo{db: db}
}

func (r *restaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(rest).Error
}

// CreateWithInitialLocation 在单个事务内创建餐厅及其首个门店。
// 餐厅不允许出现零门店状态，首个门店强制为主门店。
func (r *restaurantRepo) CreateWithInitialLocation(ctx context.Context, rest *model.Restaurant, loc *model.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rest).Error; err != nil {
			return err
		}
		loc.RestaurantID = rest.RestaurantID
		loc.IsPrimary = true
		return tx.Create(loc).Error
	})
}

func (r *restaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", id).
		First(&rest).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *restaurantRepo) GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).
		Where("LOWER(slug) = LOWER(?)", slug).
		First(&rest).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *restaurantRepo) List(ctx context.Context, includeInactive bool) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("created_at ASC").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepo) Update(ctx context.Context, rest *model.Restaurant) error {
	return r.db.WithContext(ctx).Save(rest).Error
}

func (r *restaurantRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("restaurant_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *restaurantRepo) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("LOWER(slug) = LOWER(?)", slug)
	if excludeID != "" {
		db = db.Where("restaurant_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}
