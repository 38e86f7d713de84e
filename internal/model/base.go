package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ── PostgreSQL TEXT[] 类型 ──

// StringArray 对应 PostgreSQL TEXT[] 类型。
// 工位标签是自由文本，元素可能包含逗号、引号和反斜杠，
// 编解码由 lib/pq 的数组实现完成。
type StringArray = pq.StringArray

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}
