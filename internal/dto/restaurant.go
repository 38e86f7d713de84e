package dto

// ── 餐厅模块 DTO ──

// CreateRestaurantRequest 创建餐厅请求
// 餐厅创建时必须同时创建首个门店（餐厅不允许没有门店）
type CreateRestaurantRequest struct {
	Name            string                 `json:"name"             binding:"required,min=2,max=100"`
	Slug            string                 `json:"slug"             binding:"required,min=2,max=100"`
	Description     string                 `json:"description"      binding:"omitempty,max=2000"`
	InitialLocation *CreateLocationRequest `json:"initial_location" binding:"required"`
}

// UpdateRestaurantRequest 更新餐厅请求（部分字段）
type UpdateRestaurantRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

// RestaurantListRequest 餐厅列表查询参数
type RestaurantListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// RestaurantResponse 餐厅信息响应
type RestaurantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
