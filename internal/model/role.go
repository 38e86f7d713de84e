package model

// 角色作用域
const (
	RoleScopeSystem     = "system"
	RoleScopeRestaurant = "restaurant"
	RoleScopeLocation   = "location"
)

// 角色级别边界
const (
	RoleLevelMin = 1
	RoleLevelMax = 5
)

// Role 角色目录表 — 对应 roles
// 全局目录，不归属任何餐厅；分配记录持有角色 ID 的持久引用，
// 因此角色只停用（is_active=false），从不物理删除。
type Role struct {
	RoleID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	Name               string `gorm:"type:varchar(50);not null"                      json:"name"`
	DisplayName        string `gorm:"type:varchar(100);not null"                     json:"display_name"`
	Description        string `gorm:"type:text"                                      json:"description,omitempty"`
	Level              int    `gorm:"type:smallint;not null"                         json:"level"`
	Scope              string `gorm:"type:varchar(20);not null"                      json:"scope"`
	IsAdminRole        bool   `gorm:"not null;default:false"                         json:"is_admin_role"`
	CanManageUsers     bool   `gorm:"not null;default:false"                         json:"can_manage_users"`
	CanManageLocations bool   `gorm:"not null;default:false"                         json:"can_manage_locations"`
	IsActive           bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

// ValidScope 校验作用域枚举
func ValidScope(scope string) bool {
	switch scope {
	case RoleScopeSystem, RoleScopeRestaurant, RoleScopeLocation:
		return true
	}
	return false
}
