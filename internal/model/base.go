package model

import (
	"time"
)

// 本项目的表全部硬删除，级联约束和 roadmaps.class_id 唯一索引依赖这一点
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
