package model

// Restaurant 餐厅表（租户根）— 对应 restaurants
type Restaurant struct {
	RestaurantID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Slug         string `gorm:"type:varchar(100);not null"                     json:"slug"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Restaurant) TableName() string { return "restaurants" }
