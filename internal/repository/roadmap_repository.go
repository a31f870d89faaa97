package repository

import (
	"context"
	"study_planner_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

func (r *RoadmapRepository) Create(ctx context.Context, roadmap *model.Roadmap) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(roadmap).Error
}

func (r *RoadmapRepository) CreateStep(ctx context.Context, step *model.RoadmapStep) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(step).Error
}

// FindByClassAndUser 通过课程归属校验用户，多条时只取第一条
func (r *RoadmapRepository) FindByClassAndUser(ctx context.Context, classID, userID uint) (*model.Roadmap, error) {
	var rm model.Roadmap
	err := r.DB.WithContext(ctx).
		Joins("JOIN classes ON classes.id = roadmaps.class_id").
		Where("roadmaps.class_id = ? AND classes.user_id = ?", classID, userID).
		Order("roadmaps.id asc").
		Limit(1).
		Find(&rm).Error
	if err != nil {
		return nil, err
	}
	if rm.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rm, nil
}

// ListSteps 按 step_order 升序，相同序号按插入顺序
func (r *RoadmapRepository) ListSteps(ctx context.Context, roadmapID uint) ([]model.RoadmapStep, error) {
	var steps []model.RoadmapStep
	err := r.DB.WithContext(ctx).
		Where("roadmap_id = ?", roadmapID).
		Order("step_order asc, id asc").
		Find(&steps).Error
	return steps, err
}

func (r *RoadmapRepository) CountSteps(ctx context.Context, roadmapID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.RoadmapStep{}).Where("roadmap_id = ?", roadmapID).Count(&count).Error
	return count, err
}

// FindStepForUser 步骤必须属于该用户拥有的课程
func (r *RoadmapRepository) FindStepForUser(ctx context.Context, stepID, userID uint) (*model.RoadmapStep, error) {
	var step model.RoadmapStep
	err := r.DB.WithContext(ctx).
		Joins("JOIN roadmaps ON roadmaps.id = roadmap_steps.roadmap_id").
		Joins("JOIN classes ON classes.id = roadmaps.class_id").
		Where("roadmap_steps.id = ? AND classes.user_id = ?", stepID, userID).
		Limit(1).
		Find(&step).Error
	if err != nil {
		return nil, err
	}
	if step.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &step, nil
}

// Delete 删除路线及其步骤和完成记录，不依赖数据库级联
func (r *RoadmapRepository) Delete(ctx context.Context, roadmapID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stepIDs []uint
		if err := tx.Model(&model.RoadmapStep{}).Where("roadmap_id = ?", roadmapID).Pluck("id", &stepIDs).Error; err != nil {
			return err
		}
		if len(stepIDs) > 0 {
			if err := tx.Where("roadmap_step_id IN ?", stepIDs).Delete(&model.StepProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("roadmap_id = ?", roadmapID).Delete(&model.RoadmapStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Roadmap{}, roadmapID).Error
	})
}
