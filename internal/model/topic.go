package model

// swagger:model Topic
type Topic struct {
	BaseModel
	ClassID     uint   `gorm:"index;not null" json:"classId"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}

func (Topic) TableName() string {
	return "topics"
}
