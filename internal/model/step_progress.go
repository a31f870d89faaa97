package model

import (
	"time"
)

// StepProgress 用户对路线步骤的完成记录，(user_id, roadmap_step_id) 唯一
// swagger:model StepProgress
type StepProgress struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint       `gorm:"uniqueIndex:idx_user_step;not null" json:"userId"`
	RoadmapStepID uint       `gorm:"uniqueIndex:idx_user_step;not null" json:"roadmapStepId"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	DateCompleted *time.Time `json:"dateCompleted"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	RoadmapStep RoadmapStep `gorm:"foreignKey:RoadmapStepID;constraint:OnDelete:CASCADE" json:"-"`
}

func (StepProgress) TableName() string {
	return "user_step_progress"
}
