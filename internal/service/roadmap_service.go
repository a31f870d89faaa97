package service

import (
	"context"
	"errors"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoadmapService struct {
	ClassRepo    *repository.ClassRepository
	TopicRepo    *repository.TopicRepository
	RoadmapRepo  *repository.RoadmapRepository
	ProgressRepo *repository.ProgressRepository
	AI           Completer
	Lock         GenerationLock

	maxTokens   int
	temperature float64
	// 零步骤路线存在超过 staleAfter 才视为失败遗留
	staleAfter time.Duration
	now        func() time.Time
}

func NewRoadmapService(
	classRepo *repository.ClassRepository,
	topicRepo *repository.TopicRepository,
	roadmapRepo *repository.RoadmapRepository,
	progressRepo *repository.ProgressRepository,
	ai Completer,
	lock GenerationLock,
	cfg config.AIConfig,
) *RoadmapService {
	maxTokens := cfg.RoadmapMaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	if lock == nil {
		lock = &LocalGenerationLock{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RoadmapService{
		ClassRepo:    classRepo,
		TopicRepo:    topicRepo,
		RoadmapRepo:  roadmapRepo,
		ProgressRepo: progressRepo,
		AI:           ai,
		Lock:         lock,
		maxTokens:    maxTokens,
		temperature:  cfg.Temperature,
		staleAfter:   timeout + GenerationGracePeriod,
		now:          time.Now,
	}
}

type CreateRoadmapRequest struct {
	ClassID  uint   `json:"class_id" binding:"required"`
	EndDate  string `json:"end_date" binding:"required,yyyymmdd"`
	TopicIDs []uint `json:"selectedTopicIds" binding:"required,min=1"`
}

type RoadmapResponse struct {
	ID        uint      `json:"id"`
	ClassID   uint      `json:"classId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StepResponse struct {
	ID           uint     `json:"id"`
	RoadmapID    uint     `json:"roadmapId"`
	TopicID      *uint    `json:"topicId"`
	StepName     string   `json:"stepName"`
	StepOrder    int      `json:"stepOrder"`
	DueDate      *string  `json:"dueDate"`
	Resource     *string  `json:"resource"`
	ETA          *string  `json:"eta"`
	BulletPoints []string `json:"bulletPoints"`
	Completed    bool     `json:"completed"`
}

type RoadmapWithSteps struct {
	Roadmap RoadmapResponse `json:"roadmap"`
	Steps   []StepResponse  `json:"steps"`
}

func NewRoadmapResponse(rm *model.Roadmap) RoadmapResponse {
	return RoadmapResponse{
		ID:        rm.ID,
		ClassID:   rm.ClassID,
		StartDate: time.Time(rm.StartDate).Format(util.DateFormat),
		EndDate:   time.Time(rm.EndDate).Format(util.DateFormat),
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

func newStepResponses(steps []model.RoadmapStep, completed map[uint]bool) []StepResponse {
	res := make([]StepResponse, len(steps))
	for i, st := range steps {
		var due *string
		if st.DueDate != nil {
			d := time.Time(*st.DueDate).Format(util.DateFormat)
			due = &d
		}
		bullets := st.Bullets
		if bullets == nil {
			bullets = []string{}
		}
		res[i] = StepResponse{
			ID:           st.ID,
			RoadmapID:    st.RoadmapID,
			TopicID:      st.TopicID,
			StepName:     st.StepName,
			StepOrder:    st.StepOrder,
			DueDate:      due,
			Resource:     st.Resource,
			ETA:          st.ETA,
			BulletPoints: bullets,
			Completed:    completed[st.ID],
		}
	}
	return res
}

func (r CreateRoadmapRequest) validate() error {
	if r.ClassID == 0 || strings.TrimSpace(r.EndDate) == "" || len(r.TopicIDs) == 0 {
		return util.ErrMissingRoadmapFields
	}
	return nil
}

// CreateRoadmap 生成并保存学习路线。路线行先于 AI 调用写入且不回滚：
// AI 调用、解析或某个步骤写入失败时，已写入的路线和步骤保留。
func (s *RoadmapService) CreateRoadmap(ctx context.Context, userID uint, req CreateRoadmapRequest) (*RoadmapWithSteps, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := util.Today(s.now())
	end, err := util.ParseDate(strings.TrimSpace(req.EndDate), start.Location())
	if err != nil || end.Before(start) {
		return nil, util.ErrInvalidEndDate
	}

	class, err := s.ClassRepo.FindByIDAndUser(ctx, req.ClassID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, util.NewPersistenceError(err)
	}

	selected, err := s.TopicRepo.FindByIDsInClass(ctx, class.ID, req.TopicIDs)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if len(selected) == 0 {
		return nil, util.ErrNoValidTopics
	}

	release, err := s.Lock.Acquire(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.clearFailedRoadmap(ctx, class.ID, userID); err != nil {
		return nil, err
	}

	classTopics, err := s.TopicRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	topicIDByTitle := make(map[string]uint, len(classTopics))
	for _, t := range classTopics {
		key := strings.ToLower(strings.TrimSpace(t.Title))
		if _, ok := topicIDByTitle[key]; !ok {
			topicIDByTitle[key] = t.ID
		}
	}

	now := s.now()
	roadmap := &model.Roadmap{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		ClassID:   class.ID,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
	}
	if err := s.RoadmapRepo.Create(ctx, roadmap); err != nil {
		return nil, util.NewPersistenceError(err)
	}

	titles := make([]string, len(selected))
	for i, t := range selected {
		titles[i] = t.Title
	}

	temperature := s.temperature
	reply, err := s.AI.Complete(ctx, BuildRoadmapPrompt(start, end, titles), CompletionOptions{
		Purpose:     "roadmap",
		MaxTokens:   s.maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		var ce *CompletionError
		if errors.As(err, &ce) {
			return nil, ce.AppError()
		}
		return nil, err
	}

	drafts, err := ParseRoadmapSteps(reply, start, end)
	if err != nil {
		logger.Log.Error("Failed to parse AI roadmap JSON",
			zap.Uint("roadmapId", roadmap.ID),
			zap.String("reply", reply),
			zap.Error(err),
		)
		return nil, util.Wrap(util.ErrInvalidAIRoadmap, err)
	}

	for _, d := range drafts {
		step := &model.RoadmapStep{
			RoadmapID: roadmap.ID,
			StepName:  d.Name,
			StepOrder: d.Order,
			Resource:  d.Resource,
			ETA:       d.ETA,
			Bullets:   d.Bullets,
		}
		if d.TopicTitle != "" && !strings.EqualFold(d.TopicTitle, MixedTopicMarker) {
			if id, ok := topicIDByTitle[strings.ToLower(d.TopicTitle)]; ok {
				topicID := id
				step.TopicID = &topicID
			}
		}
		if d.DueDate != nil {
			due := datatypes.Date(*d.DueDate)
			step.DueDate = &due
		}
		if err := s.RoadmapRepo.CreateStep(ctx, step); err != nil {
			return nil, util.NewPersistenceError(err)
		}
	}
	monitoring.RoadmapStepsCreated.Observe(float64(len(drafts)))

	steps, err := s.RoadmapRepo.ListSteps(ctx, roadmap.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	logger.Log.Info("Roadmap created",
		zap.Uint("roadmapId", roadmap.ID),
		zap.Uint("classId", class.ID),
		zap.Int("steps", len(steps)),
	)

	return &RoadmapWithSteps{
		Roadmap: NewRoadmapResponse(roadmap),
		Steps:   newStepResponses(steps, nil),
	}, nil
}

// clearFailedRoadmap 已有步骤的路线拒绝重复生成。零步骤的路线在 staleAfter 内可能仍在生成中，
// 超过后视为之前失败留下的，删除后继续
func (s *RoadmapService) clearFailedRoadmap(ctx context.Context, classID, userID uint) error {
	existing, err := s.RoadmapRepo.FindByClassAndUser(ctx, classID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return util.NewPersistenceError(err)
	}

	count, err := s.RoadmapRepo.CountSteps(ctx, existing.ID)
	if err != nil {
		return util.NewPersistenceError(err)
	}
	if count > 0 {
		return util.ErrRoadmapExists
	}
	if s.now().Sub(existing.CreatedAt) < s.staleAfter {
		return util.ErrGenerationInFlight
	}

	logger.Log.Info("Removing empty roadmap left by a failed generation",
		zap.Uint("roadmapId", existing.ID),
		zap.Uint("classId", classID),
	)
	if err := s.RoadmapRepo.Delete(ctx, existing.ID); err != nil {
		return util.NewPersistenceError(err)
	}
	return nil
}

func (s *RoadmapService) findRoadmap(ctx context.Context, classID, userID uint) (*model.Roadmap, error) {
	rm, err := s.RoadmapRepo.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoadmapNotFound
		}
		return nil, util.NewPersistenceError(err)
	}
	return rm, nil
}

// GetRoadmap 返回路线和按 step_order 升序的步骤，并标注当前用户的完成状态
func (s *RoadmapService) GetRoadmap(ctx context.Context, classID, userID uint) (*RoadmapWithSteps, error) {
	rm, err := s.findRoadmap(ctx, classID, userID)
	if err != nil {
		return nil, err
	}

	steps, err := s.RoadmapRepo.ListSteps(ctx, rm.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	completedIDs, err := s.ProgressRepo.CompletedStepIDs(ctx, userID, rm.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	return &RoadmapWithSteps{
		Roadmap: NewRoadmapResponse(rm),
		Steps:   newStepResponses(steps, completed),
	}, nil
}

func (s *RoadmapService) DeleteRoadmap(ctx context.Context, classID, userID uint) error {
	rm, err := s.findRoadmap(ctx, classID, userID)
	if err != nil {
		return err
	}
	if err := s.RoadmapRepo.Delete(ctx, rm.ID); err != nil {
		return util.NewPersistenceError(err)
	}
	return nil
}
