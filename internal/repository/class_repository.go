package repository

import (
	"context"
	"study_planner_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

// CreateWithTopics 课程和其主题在同一事务中写入
func (r *ClassRepository) CreateWithTopics(ctx context.Context, class *model.Class, topics []model.Topic) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(class).Error; err != nil {
			return err
		}
		if len(topics) == 0 {
			return nil
		}
		for i := range topics {
			topics[i].ClassID = class.ID
		}
		return tx.CreateInBatches(topics, 100).Error
	})
}

// FindByIDAndUser 不区分“不存在”和“不属于该用户”，都返回 ErrRecordNotFound
func (r *ClassRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Class, error) {
	var c model.Class
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClassRepository) ListByUser(ctx context.Context, userID uint) ([]model.Class, error) {
	var cs []model.Class
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&cs).Error
	return cs, err
}
