package repository

import (
	"context"

	"gorm.io/gorm"

	"dinehub/backend/internal/model"
)

// RoleRepository 角色目录数据访问接口
// 角色从不物理删除，Deactivate 仅置 is_active=false。
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id string) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	ListActive(ctx context.Context) ([]model.Role, error)
	ListByScope(ctx context.Context, scope string) ([]model.Role, error)
	ListAdmin(ctx context.Context) ([]model.Role, error)
	Deactivate(ctx context.Context, id string, updatedBy string) error
	NameExists(ctx context.Context, name string, excludeID string) (bool, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("role_id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ListActive(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("level DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) ListByScope(ctx context.Context, scope string) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("scope = ? AND is_active = ?", scope, true).
		Order("level DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) ListAdmin(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("is_admin_role = ? AND is_active = ?", true, true).
		Order("level DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) Deactivate(ctx context.Context, id string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("role_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		}).Error
}

func (r *roleRepo) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		db = db.Where("role_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}
