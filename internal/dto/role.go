package dto

// ── 角色目录 DTO ──

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name               string `json:"name"                 binding:"required,min=2,max=50"`
	DisplayName        string `json:"display_name"         binding:"required,min=1,max=100"`
	Description        string `json:"description"          binding:"omitempty,max=2000"`
	Level              int    `json:"level"                binding:"required,min=1,max=5"`
	Scope              string `json:"scope"                binding:"required,oneof=system restaurant location"`
	IsAdminRole        bool   `json:"is_admin_role"`
	CanManageUsers     bool   `json:"can_manage_users"`
	CanManageLocations bool   `json:"can_manage_locations"`
}

// UpdateRoleRequest 更新角色请求（部分字段，name 不可变更）
type UpdateRoleRequest struct {
	DisplayName        *string `json:"display_name"         binding:"omitempty,min=1,max=100"`
	Description        *string `json:"description"          binding:"omitempty,max=2000"`
	Level              *int    `json:"level"                binding:"omitempty,min=1,max=5"`
	Scope              *string `json:"scope"                binding:"omitempty,oneof=system restaurant location"`
	IsAdminRole        *bool   `json:"is_admin_role"`
	CanManageUsers     *bool   `json:"can_manage_users"`
	CanManageLocations *bool   `json:"can_manage_locations"`
}

// RoleListRequest 角色列表查询参数
type RoleListRequest struct {
	Scope     string `form:"scope"      binding:"omitempty,oneof=system restaurant location"`
	AdminOnly bool   `form:"admin_only"`
}

// RoleResponse 角色信息响应
type RoleResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	Description        string `json:"description,omitempty"`
	Level              int    `json:"level"`
	Scope              string `json:"scope"`
	IsAdminRole        bool   `json:"is_admin_role"`
	CanManageUsers     bool   `json:"can_manage_users"`
	CanManageLocations bool   `json:"can_manage_locations"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
