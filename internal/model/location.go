package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// 门店状态
const (
	LocationStatusActive   = "active"
	LocationStatusInactive = "inactive"
)

// DayHours 单日营业时段；Closed 为 true 时忽略 Open/Close
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed"`
}

// OperatingHours 每周营业时间（七个工作日 + 节假日），对应 JSONB 列。
// 固定 8 个键：monday…sunday、holidays。
type OperatingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
	Holidays  DayHours `json:"holidays"`
}

// Scan 实现 GORM Scanner 接口，解析 JSONB 列
func (h *OperatingHours) Scan(src interface{}) error {
	if src == nil {
		*h = OperatingHours{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("OperatingHours.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, h)
}

// Value 实现 GORM Valuer 接口，序列化为 JSONB
func (h OperatingHours) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Days 按固定键序返回 (键名, 时段) 对，供校验与导出使用
func (h OperatingHours) Days() []struct {
	Key   string
	Hours DayHours
} {
	return []struct {
		Key   string
		Hours DayHours
	}{
		{"monday", h.Monday},
		{"tuesday", h.Tuesday},
		{"wednesday", h.Wednesday},
		{"thursday", h.Thursday},
		{"friday", h.Friday},
		{"saturday", h.Saturday},
		{"sunday", h.Sunday},
		{"holidays", h.Holidays},
	}
}

// Location 门店表 — 对应 locations
// 不变量：同一餐厅内 slug 不区分大小写唯一；
// 拥有至少一个门店的餐厅必须恰好有一个 is_primary=true 的门店；
// 餐厅仅剩的最后一个门店不可删除。
type Location struct {
	LocationID     string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	RestaurantID   string            `gorm:"type:uuid;not null"                             json:"restaurant_id"`
	Name           string            `gorm:"type:varchar(100);not null"                     json:"name"`
	Slug           string            `gorm:"type:varchar(100);not null"                     json:"slug"`
	AddressLine1   string            `gorm:"type:varchar(200)"                              json:"address_line1,omitempty"`
	AddressLine2   string            `gorm:"type:varchar(200)"                              json:"address_line2,omitempty"`
	City           string            `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	State          string            `gorm:"type:varchar(100)"                              json:"state,omitempty"`
	PostalCode     string            `gorm:"type:varchar(20)"                               json:"postal_code,omitempty"`
	OperatingHours OperatingHours    `gorm:"type:jsonb"                                     json:"operating_hours"`
	Features       datatypes.JSONMap `gorm:"type:jsonb"                                     json:"features"`
	Status         string            `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	IsPrimary      bool              `gorm:"not null;default:false"                         json:"is_primary"`
	SoftDeleteModel

	// 关联
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;references:RestaurantID" json:"restaurant,omitempty"`
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }
