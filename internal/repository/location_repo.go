package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dinehub/backend/internal/model"
	pkgerrors "dinehub/backend/pkg/errors"
)

// LocationRepository 门店数据访问接口
//
// 主门店不变量由本仓储的事务方法维护：凡涉及 is_primary 的多行变更
// （先清除、后设置）均在单个事务内完成，要么全部提交要么全部回滚，
// 任何并发调用方都观察不到同一餐厅出现零个或多个主门店的中间态。
// 互斥完全委托给数据库的行锁（UPDATE ... WHERE + COMMIT），进程内不加锁。
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	GetPrimary(ctx context.Context, restaurantID string) (*model.Location, error)
	ListByRestaurant(ctx context.Context, restaurantID string, status string) ([]model.Location, error)
	Save(ctx context.Context, loc *model.Location) error
	SaveAsPrimary(ctx context.Context, loc *model.Location) error
	SetPrimary(ctx context.Context, id string) (*model.Location, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	SlugExists(ctx context.Context, restaurantID, slug, excludeID string) (bool, error)
	CountByRestaurant(ctx context.Context, restaurantID string) (int64, error)
	CountByStatus(ctx context.Context, restaurantID, status string) (int64, error)
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

// Create 创建门店。
// 餐厅的首个门店强制为主门店；新门店要求主门店时先清除所有同餐厅
// 门店的主标记，再插入新行，二者在同一事务内。
func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Location{}).
			Where("restaurant_id = ?", loc.RestaurantID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			loc.IsPrimary = true
		} else if loc.IsPrimary {
			if err := tx.Model(&model.Location{}).
				Where("restaurant_id = ? AND is_primary = ?", loc.RestaurantID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(loc).Error
	})
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) GetPrimary(ctx context.Context, restaurantID string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_primary = ?", restaurantID, true).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) ListByRestaurant(ctx context.Context, restaurantID string, status string) ([]model.Location, error) {
	var locations []model.Location
	db := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if status != "" {
		db = db.Where("status = ?", status)
	}

	err := db.Order("is_primary DESC, created_at ASC").Find(&locations).Error
	return locations, err
}

// Save 保存整行；目标行已消失（加载与写入之间被删除）时
// 返回 gorm.ErrRecordNotFound，而不是静默忽略。
func (r *locationRepo) Save(ctx context.Context, loc *model.Location) error {
	res := r.db.WithContext(ctx).Save(loc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveAsPrimary 保存门店并将其设为主门店。
// 清除同餐厅其他门店的主标记与保存目标行在同一事务内。
func (r *locationRepo) SaveAsPrimary(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Location{}).
			Where("restaurant_id = ? AND location_id <> ? AND is_primary = ?",
				loc.RestaurantID, loc.LocationID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		loc.IsPrimary = true
		return tx.Save(loc).Error
	})
}

// SetPrimary 将指定门店设为其餐厅的主门店（两段式：先清除、后设置）。
// 目标门店不存在时返回 gorm.ErrRecordNotFound；目标行在事务中途消失
// 时整体回滚，绝不提交只清除了一半的状态。
func (r *locationRepo) SetPrimary(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).First(&loc).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Location{}).
			Where("restaurant_id = ? AND location_id <> ? AND is_primary = ?",
				loc.RestaurantID, id, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Location{}).
			Where("location_id = ?", id).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 目标行在事务中途被删除，回滚清除操作
			return pkgerrors.ErrNoRowsAffected
		}

		loc.IsPrimary = true
		return nil
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// Delete 软删除门店。
// 餐厅仅剩一个门店时返回 ErrOnlyLocation；删除的是主门店时，
// 在同一事务内优先提升最早创建的 active 兄弟门店为主门店
// （无 active 门店则提升最早创建的任意兄弟门店）。
// 候选门店在删除之后查询，保证提升的是删除后仍然存在的行。
func (r *locationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loc model.Location
		if err := tx.Where("location_id = ?", id).First(&loc).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Location{}).
			Where("restaurant_id = ?", loc.RestaurantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrOnlyLocation
		}

		if err := tx.Model(&model.Location{}).
			Where("location_id = ?", id).
			Updates(map[string]interface{}{
				"is_primary": false,
				"deleted_by": deletedBy,
				"deleted_at": gorm.Expr("NOW()"),
			}).Error; err != nil {
			return err
		}

		if !loc.IsPrimary {
			return nil
		}

		// 重新选举主门店：active 优先，再按创建时间
		var candidate model.Location
		err := tx.Where("restaurant_id = ? AND status = ?", loc.RestaurantID, model.LocationStatusActive).
			Order("created_at ASC").
			First(&candidate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.Where("restaurant_id = ?", loc.RestaurantID).
				Order("created_at ASC").
				First(&candidate).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&model.Location{}).
			Where("location_id = ?", candidate.LocationID).
			Update("is_primary", true).Error
	})
}

func (r *locationRepo) SlugExists(ctx context.Context, restaurantID, slug, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("restaurant_id = ? AND LOWER(slug) = LOWER(?)", restaurantID, slug)
	if excludeID != "" {
		db = db.Where("location_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *locationRepo) CountByRestaurant(ctx context.Context, restaurantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&count).Error
	return count, err
}

func (r *locationRepo) CountByStatus(ctx context.Context, restaurantID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, status).
		Count(&count).Error
	return count, err
}
