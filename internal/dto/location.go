package dto

// ── 门店模块 DTO ──

// DayHoursPayload 单日营业时段
type DayHoursPayload struct {
	Open   string `json:"open"   binding:"omitempty"`
	Close  string `json:"close"  binding:"omitempty"`
	Closed bool   `json:"closed"`
}

// OperatingHoursPayload 每周营业时间，8 个键全部必填
type OperatingHoursPayload struct {
	Monday    *DayHoursPayload `json:"monday"    binding:"required"`
	Tuesday   *DayHoursPayload `json:"tuesday"   binding:"required"`
	Wednesday *DayHoursPayload `json:"wednesday" binding:"required"`
	Thursday  *DayHoursPayload `json:"thursday"  binding:"required"`
	Friday    *DayHoursPayload `json:"friday"    binding:"required"`
	Saturday  *DayHoursPayload `json:"saturday"  binding:"required"`
	Sunday    *DayHoursPayload `json:"sunday"    binding:"required"`
	Holidays  *DayHoursPayload `json:"holidays"  binding:"required"`
}

// CreateLocationRequest 创建门店请求
type CreateLocationRequest struct {
	Name           string                 `json:"name"            binding:"required,min=2,max=100"`
	Slug           string                 `json:"slug"            binding:"required,min=2,max=100"`
	AddressLine1   string                 `json:"address_line1"   binding:"omitempty,max=200"`
	AddressLine2   string                 `json:"address_line2"   binding:"omitempty,max=200"`
	City           string                 `json:"city"            binding:"omitempty,max=100"`
	State          string                 `json:"state"           binding:"omitempty,max=100"`
	PostalCode     string                 `json:"postal_code"     binding:"omitempty,max=20"`
	OperatingHours *OperatingHoursPayload `json:"operating_hours" binding:"required"`
	Features       map[string]interface{} `json:"features"`
	Status         string                 `json:"status"          binding:"omitempty,oneof=active inactive"`
	IsPrimary      bool                   `json:"is_primary"`
}

// UpdateLocationRequest 更新门店请求（部分字段）
type UpdateLocationRequest struct {
	Name           *string                `json:"name"            binding:"omitempty,min=2,max=100"`
	Slug           *string                `json:"slug"            binding:"omitempty,min=2,max=100"`
	AddressLine1   *string                `json:"address_line1"   binding:"omitempty,max=200"`
	AddressLine2   *string                `json:"address_line2"   binding:"omitempty,max=200"`
	City           *string                `json:"city"            binding:"omitempty,max=100"`
	State          *string                `json:"state"           binding:"omitempty,max=100"`
	PostalCode     *string                `json:"postal_code"     binding:"omitempty,max=20"`
	OperatingHours *OperatingHoursPayload `json:"operating_hours"`
	Features       map[string]interface{} `json:"features"`
	Status         *string                `json:"status"          binding:"omitempty,oneof=active inactive"`
	IsPrimary      *bool                  `json:"is_primary"`
}

// LocationListRequest 门店列表查询参数
type LocationListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// LocationResponse 门店信息响应
type LocationResponse struct {
	ID             string                 `json:"id"`
	RestaurantID   string                 `json:"restaurant_id"`
	Name           string                 `json:"name"`
	Slug           string                 `json:"slug"`
	AddressLine1   string                 `json:"address_line1,omitempty"`
	AddressLine2   string                 `json:"address_line2,omitempty"`
	City           string                 `json:"city,omitempty"`
	State          string                 `json:"state,omitempty"`
	PostalCode     string                 `json:"postal_code,omitempty"`
	OperatingHours *OperatingHoursPayload `json:"operating_hours,omitempty"`
	Features       map[string]interface{} `json:"features,omitempty"`
	Status         string                 `json:"status"`
	IsPrimary      bool                   `json:"is_primary"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

// LocationStatsResponse 门店统计响应
type LocationStatsResponse struct {
	RestaurantID      string `json:"restaurant_id"`
	Total             int64  `json:"total"`
	Active            int64  `json:"active"`
	Inactive          int64  `json:"inactive"`
	PrimaryLocationID string `json:"primary_location_id,omitempty"`
}
