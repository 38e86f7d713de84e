package dto

// ── 用户门店分配 DTO ──

// AssignUserRequest 授予用户门店角色请求
type AssignUserRequest struct {
	RoleID            string   `json:"role_id"             binding:"required,uuid"`
	IsPrimaryLocation bool     `json:"is_primary_location"`
	StationTags       []string `json:"station_tags"        binding:"omitempty,max=20,dive,min=1,max=50"`
}

// AssignmentResponse 分配记录响应
type AssignmentResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	LocationID        string   `json:"location_id"`
	RoleID            string   `json:"role_id"`
	RoleName          string   `json:"role_name,omitempty"`
	IsPrimaryLocation bool     `json:"is_primary_location"`
	AssignedBy        string   `json:"assigned_by,omitempty"`
	StationTags       []string `json:"station_tags,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// UserLocationResponse 用户可访问门店响应（含分配信息）
type UserLocationResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Location   *LocationResponse  `json:"location,omitempty"`
}

// LocationStaffResponse 门店员工响应
type LocationStaffResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	UserID     string             `json:"user_id"`
	UserName   string             `json:"user_name,omitempty"`
	UserEmail  string             `json:"user_email,omitempty"`
}

// AccessCheckResponse 门店访问权限检查响应
type AccessCheckResponse struct {
	HasAccess bool `json:"has_access"`
}
