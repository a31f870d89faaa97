package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LongText 大纲全文，MySQL 用 longtext，其他方言用 text
type LongText string

func (LongText) GormDataType() string {
	return "text"
}

func (LongText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "mysql" {
		return "longtext"
	}
	return "text"
}
