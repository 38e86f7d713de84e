package model

// 账号级角色（仅用于 HTTP 层权限控制，与 Role 目录无关）
const (
	AccountRoleAdmin   = "admin"
	AccountRoleManager = "manager"
	AccountRoleStaff   = "staff"
)

// User 用户表 — 对应 users
// AccountRole 是平台账号级角色；门店内的职能角色由 Role 目录
// + UserLocationAssignment 表达。
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	AccountRole  string `gorm:"type:varchar(20);not null;default:'staff'"      json:"account_role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
