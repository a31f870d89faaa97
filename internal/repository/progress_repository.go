package repository

import (
	"context"
	"errors"
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkComplete 已有记录则更新为完成并刷新时间，否则插入一条新的完成记录
func (r *ProgressRepository) MarkComplete(ctx context.Context, userID, stepID uint, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.StepProgress
		err := tx.Where("user_id = ? AND roadmap_step_id = ?", userID, stepID).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.StepProgress{
				UserID:        userID,
				RoadmapStepID: stepID,
				Completed:     true,
				DateCompleted: &now,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"completed":      true,
			"date_completed": now,
			"updated_at":     now,
		}).Error
	})
}

func (r *ProgressRepository) Find(ctx context.Context, userID, stepID uint) ([]model.StepProgress, error) {
	var ps []model.StepProgress
	err := r.DB.WithContext(ctx).Where("user_id = ? AND roadmap_step_id = ?", userID, stepID).Find(&ps).Error
	return ps, err
}

// CompletedStepIDs 返回用户在某条路线上已完成的步骤 id
func (r *ProgressRepository) CompletedStepIDs(ctx context.Context, userID, roadmapID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.StepProgress{}).
		Joins("JOIN roadmap_steps ON roadmap_steps.id = user_step_progress.roadmap_step_id").
		Where("user_step_progress.user_id = ? AND user_step_progress.completed = ? AND roadmap_steps.roadmap_id = ?", userID, true, roadmapID).
		Order("user_step_progress.roadmap_step_id asc").
		Pluck("user_step_progress.roadmap_step_id", &ids).Error
	return ids, err
}
