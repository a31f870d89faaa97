package repository

import (
	"context"
	"study_planner_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) ListByClass(ctx context.Context, classID uint) ([]model.Topic, error) {
	var ts []model.Topic
	err := r.DB.WithContext(ctx).Where("class_id = ?", classID).Order("id asc").Find(&ts).Error
	return ts, err
}

// FindByIDsInClass 只返回属于该课程的主题，不存在的 id 被静默丢弃
func (r *TopicRepository) FindByIDsInClass(ctx context.Context, classID uint, ids []uint) ([]model.Topic, error) {
	var ts []model.Topic
	if len(ids) == 0 {
		return ts, nil
	}
	err := r.DB.WithContext(ctx).
		Where("class_id = ? AND id IN ?", classID, ids).
		Order("id asc").
		Find(&ts).Error
	return ts, err
}
