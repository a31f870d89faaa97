package model

// Class 用户的一门课程，是 Topic / Roadmap 的归属根
// swagger:model Class
type Class struct {
	BaseModel
	UserID       uint     `gorm:"index;not null" json:"userId"`
	ClassName    string   `gorm:"size:255;not null" json:"className"`
	Description  *string  `gorm:"type:text" json:"description"`
	Syllabus     LongText `json:"syllabus"`
	SyllabusFile string   `gorm:"size:512" json:"syllabusFile,omitempty"`
	Professor    string   `gorm:"size:255" json:"professor"`
	Session      string   `gorm:"size:100" json:"session"`
	Semester     string   `gorm:"size:100" json:"semester"`

	Topics []Topic `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Class) TableName() string {
	return "classes"
}
