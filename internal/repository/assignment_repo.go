package repository

import (
	"context"

	"gorm.io/gorm"

	"dinehub/backend/internal/model"
	pkgerrors "dinehub/backend/pkg/errors"
)

// AssignmentRepository 用户门店分配数据访问接口
//
// 主门店分配不变量与 LocationRepository 同构：涉及 is_primary_location
// 的先清除后设置在单个事务内完成。移除分配不做自动重选，这是与门店
// 删除的有意不对称（调用方负责重新指定主门店）。
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.UserLocationAssignment) error
	GetByUserAndLocation(ctx context.Context, userID, locationID string) (*model.UserLocationAssignment, error)
	SetPrimary(ctx context.Context, userID, locationID string) (bool, error)
	Remove(ctx context.Context, userID, locationID string) (bool, error)
	Exists(ctx context.Context, userID, locationID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserLocationAssignment, error)
	ListByLocation(ctx context.Context, locationID string) ([]model.UserLocationAssignment, error)
	UpdateRole(ctx context.Context, assignmentID, roleID, updatedBy string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

// Create 创建分配记录。
// 用户的首条分配强制为主门店；新记录要求主门店时先清除该用户
// 其他分配的主标记，再插入，二者在同一事务内。
func (r *assignmentRepo) Create(ctx context.Context, a *model.UserLocationAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserLocationAssignment{}).
			Where("user_id = ?", a.UserID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			a.IsPrimaryLocation = true
		} else if a.IsPrimaryLocation {
			if err := tx.Model(&model.UserLocationAssignment{}).
				Where("user_id = ? AND is_primary_location = ?", a.UserID, true).
				Update("is_primary_location", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(a).Error
	})
}

func (r *assignmentRepo) GetByUserAndLocation(ctx context.Context, userID, locationID string) (*model.UserLocationAssignment, error) {
	var a model.UserLocationAssignment
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetPrimary 将 (user, location) 分配设为该用户的主门店分配。
// 两段式：先清除该用户全部主标记，再设置目标行；目标行不存在时
// 整体回滚（不提交清除）并返回 false，调用方必须检查返回值。
func (r *assignmentRepo) SetPrimary(ctx context.Context, userID, locationID string) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserLocationAssignment{}).
			Where("user_id = ? AND is_primary_location = ?", userID, true).
			Update("is_primary_location", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.UserLocationAssignment{}).
			Where("user_id = ? AND location_id = ?", userID, locationID).
			Update("is_primary_location", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.ErrNoRowsAffected
		}
		return nil
	})
	if err == pkgerrors.ErrNoRowsAffected {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove 删除分配记录，返回是否确实删除了一行。
// 被删除的是主分配且用户仍有其他分配时，这里不做自动重选。
// TODO(product): 待产品确认是否与门店删除对齐为自动提升（见 DESIGN.md）
func (r *assignmentRepo) Remove(ctx context.Context, userID, locationID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		Delete(&model.UserLocationAssignment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepo) Exists(ctx context.Context, userID, locationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserLocationAssignment{}).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID string) ([]model.UserLocationAssignment, error) {
	var assignments []model.UserLocationAssignment
	err := r.db.WithContext(ctx).
		Preload("Location").Preload("Role").
		Where("user_id = ?", userID).
		Order("is_primary_location DESC, created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByLocation(ctx context.Context, locationID string) ([]model.UserLocationAssignment, error) {
	var assignments []model.UserLocationAssignment
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Role").
		Where("location_id = ?", locationID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) UpdateRole(ctx context.Context, assignmentID, roleID, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.UserLocationAssignment{}).
		Where("assignment_id = ?", assignmentID).
		Updates(map[string]interface{}{
			"role_id":    roleID,
			"updated_by": updatedBy,
		}).Error
}
