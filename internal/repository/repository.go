package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ── 仓储层错误 ──
// 仅用于只有事务内部才能判定的条件；业务语义错误由 Service 层定义。

var (
	// ErrOnlyLocation 餐厅仅剩一个门店，禁止删除
	ErrOnlyLocation = errors.New("餐厅仅剩一个门店，不可删除")
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Restaurant RestaurantRepository
	Location   LocationRepository
	Assignment AssignmentRepository
	Role       RoleRepository
	User       UserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Restaurant: NewRestaurantRepo(db),
		Location:   NewLocationRepo(db),
		Assignment: NewAssignmentRepo(db),
		Role:       NewRoleRepo(db),
		User:       NewUserRepo(db),
	}
}
