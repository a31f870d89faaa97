package service

import (
	"context"
	"errors"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	RoadmapRepo  *repository.RoadmapRepository
	ProgressRepo *repository.ProgressRepository

	now func() time.Time
}

func NewProgressService(roadmapRepo *repository.RoadmapRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		RoadmapRepo:  roadmapRepo,
		ProgressRepo: progressRepo,
		now:          time.Now,
	}
}

// CompletedSteps GET /progress/roadmaps/:classId 的返回体
type CompletedSteps struct {
	RoadmapID uint   `json:"roadmapId"`
	StepIDs   []uint `json:"completedStepIds"`
}

// MarkStepComplete 幂等：重复调用只刷新完成时间，始终只有一条记录
func (s *ProgressService) MarkStepComplete(ctx context.Context, userID, stepID uint) error {
	if stepID == 0 {
		return util.ErrStepNotFound
	}

	if _, err := s.RoadmapRepo.FindStepForUser(ctx, stepID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStepNotFound
		}
		return util.NewPersistenceError(err)
	}

	if err := s.ProgressRepo.MarkComplete(ctx, userID, stepID, s.now()); err != nil {
		return util.NewPersistenceError(err)
	}

	logger.Log.Debug("Step marked complete", zap.Uint("userId", userID), zap.Uint("stepId", stepID))
	return nil
}

func (s *ProgressService) ListCompletedSteps(ctx context.Context, userID, classID uint) (*CompletedSteps, error) {
	rm, err := s.RoadmapRepo.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, util.NewPersistenceError(err)
	}

	ids, err := s.ProgressRepo.CompletedStepIDs(ctx, userID, rm.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return &CompletedSteps{RoadmapID: rm.ID, StepIDs: ids}, nil
}
