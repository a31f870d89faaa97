package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roadmap 一门课程的学习路线，约定每门课程只有一条
// swagger:model Roadmap
type Roadmap struct {
	BaseModel
	ClassID   uint           `gorm:"uniqueIndex;not null" json:"classId"`
	StartDate datatypes.Date `gorm:"not null" json:"startDate"`
	EndDate   datatypes.Date `gorm:"not null" json:"endDate"`

	Class Class         `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"-"`
	Steps []RoadmapStep `gorm:"foreignKey:RoadmapID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// RoadmapStep 路线中的一步；StepOrder 不去重也不重排，可能重复
// swagger:model RoadmapStep
type RoadmapStep struct {
	BaseModel
	RoadmapID    uint            `gorm:"index;not null" json:"roadmapId"`
	TopicID      *uint           `gorm:"index" json:"topicId"`
	StepName     string          `gorm:"type:text" json:"stepName"`
	StepOrder    int             `gorm:"not null;default:1;index" json:"stepOrder"`
	DueDate      *datatypes.Date `json:"dueDate"`
	Resource     *string         `gorm:"type:text" json:"resource"`
	ETA          *string         `gorm:"column:eta;type:text" json:"eta"`
	BulletPoints datatypes.JSON  `gorm:"type:text" json:"-"`

	// 读取后由 BulletPoints 反序列化得到
	Bullets []string `gorm:"-" json:"bulletPoints"`

	Topic *Topic `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"-"`
}

func (RoadmapStep) TableName() string {
	return "roadmap_steps"
}

// BeforeSave 把 Bullets 序列化进 BulletPoints，nil 存为 NULL
func (s *RoadmapStep) BeforeSave(tx *gorm.DB) error {
	if s.Bullets == nil {
		s.BulletPoints = nil
		return nil
	}
	raw, err := json.Marshal(s.Bullets)
	if err != nil {
		return err
	}
	s.BulletPoints = datatypes.JSON(raw)
	return nil
}

// AfterFind 读取后还原 Bullets，缺失时为空切片
func (s *RoadmapStep) AfterFind(tx *gorm.DB) error {
	s.Bullets = []string{}
	if len(s.BulletPoints) == 0 || string(s.BulletPoints) == "null" {
		return nil
	}
	return json.Unmarshal(s.BulletPoints, &s.Bullets)
}
