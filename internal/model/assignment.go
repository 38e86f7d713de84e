package model

// UserLocationAssignment 用户门店分配表 — 对应 user_location_assignments
// 不变量：(user_id, location_id) 唯一；
// 拥有至少一条分配记录的用户必须恰好有一条 is_primary_location=true。
type UserLocationAssignment struct {
	AssignmentID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	UserID            string      `gorm:"type:uuid;not null"                             json:"user_id"`
	LocationID        string      `gorm:"type:uuid;not null"                             json:"location_id"`
	RoleID            string      `gorm:"type:uuid;not null"                             json:"role_id"`
	IsPrimaryLocation bool        `gorm:"not null;default:false"                         json:"is_primary_location"`
	AssignedBy        *string     `gorm:"type:uuid"                                      json:"assigned_by,omitempty"`
	StationTags       StringArray `gorm:"type:text[]"                                    json:"station_tags,omitempty"`
	BaseModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID"     json:"location,omitempty"`
	Role     *Role     `gorm:"foreignKey:RoleID;references:RoleID"             json:"role,omitempty"`
}

// TableName 指定表名
func (UserLocationAssignment) TableName() string { return "user_location_assignments" }
