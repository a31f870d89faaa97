package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClassService struct {
	ClassRepo   *repository.ClassRepository
	TopicRepo   *repository.TopicRepository
	RoadmapRepo *repository.RoadmapRepository
	Extractor   TextExtractor
	Topics      *TopicService
	// Storage 为 nil 时不保存原始文件
	Storage *StorageService
}

func NewClassService(
	classRepo *repository.ClassRepository,
	topicRepo *repository.TopicRepository,
	roadmapRepo *repository.RoadmapRepository,
	extractor TextExtractor,
	topics *TopicService,
	storage *StorageService,
) *ClassService {
	return &ClassService{
		ClassRepo:   classRepo,
		TopicRepo:   topicRepo,
		RoadmapRepo: roadmapRepo,
		Extractor:   extractor,
		Topics:      topics,
		Storage:     storage,
	}
}

// CreateClassInput multipart 表单中的文本字段
type CreateClassInput struct {
	ClassName   string `form:"class_name"`
	Professor   string `form:"professor"`
	Session     string `form:"session"`
	Semester    string `form:"semester"`
	Description string `form:"description"`
}

func (in *CreateClassInput) normalize() error {
	in.ClassName = strings.TrimSpace(in.ClassName)
	in.Professor = strings.TrimSpace(in.Professor)
	in.Session = strings.TrimSpace(in.Session)
	in.Semester = strings.TrimSpace(in.Semester)
	in.Description = strings.TrimSpace(in.Description)
	if in.ClassName == "" || in.Professor == "" || in.Session == "" || in.Semester == "" {
		return util.ErrMissingClassFields
	}
	return nil
}

type CreateClassResult struct {
	Message     string       `json:"message"`
	Class       *model.Class `json:"class"`
	TopicsAdded int          `json:"topicsAdded"`
}

type TopicsPreview struct {
	Topics []string `json:"topics"`
}

type TopicSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type ClassDetails struct {
	*model.Class
	Topics  []model.Topic    `json:"topics"`
	Roadmap *RoadmapResponse `json:"roadmap"`
}

// extractSyllabus 校验 PDF 并抽取文本，文本可以为空
func (s *ClassService) extractSyllabus(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", util.ErrNoSyllabusFile
	}
	if !util.IsPDF(data) {
		return "", util.ErrInvalidSyllabusFile
	}

	text, err := s.Extractor.Extract(ctx, data)
	if err != nil {
		return "", util.Wrap(util.ErrExtractionFailed, err)
	}
	if text == "" {
		logger.Log.Warn("Syllabus PDF contains no extractable text", zap.Int("bytes", len(data)))
	}
	return text, nil
}

// PreviewTopics 只抽取主题，不写库
func (s *ClassService) PreviewTopics(ctx context.Context, data []byte) (*TopicsPreview, error) {
	text, err := s.extractSyllabus(ctx, data)
	if err != nil {
		return nil, err
	}

	topics, err := s.Topics.GenerateTopics(ctx, text)
	if err != nil {
		return nil, err
	}
	return &TopicsPreview{Topics: topics}, nil
}

// CreateClass AI 调用在任何写库之前完成，AI 失败时不会留下课程
func (s *ClassService) CreateClass(ctx context.Context, userID uint, in CreateClassInput, data []byte) (*CreateClassResult, error) {
	if len(data) == 0 {
		return nil, util.ErrNoSyllabusFile
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	text, err := s.extractSyllabus(ctx, data)
	if err != nil {
		return nil, err
	}

	titles, err := s.Topics.GenerateTopics(ctx, text)
	if err != nil {
		return nil, err
	}

	class := &model.Class{
		UserID:    userID,
		ClassName: in.ClassName,
		Syllabus:  model.LongText(text),
		Professor: in.Professor,
		Session:   in.Session,
		Semester:  in.Semester,
	}
	if in.Description != "" {
		desc := in.Description
		class.Description = &desc
	}

	// 原始文件保存失败不影响建课
	if s.Storage != nil {
		key := SyllabusKey(userID)
		if _, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), util.MimePDF); err != nil {
			logger.Log.Warn("Failed to store syllabus file", zap.String("key", key), zap.Error(err))
		} else {
			class.SyllabusFile = key
		}
	}

	topics := make([]model.Topic, len(titles))
	for i, title := range titles {
		topics[i] = model.Topic{Title: title}
	}

	if err := s.ClassRepo.CreateWithTopics(ctx, class, topics); err != nil {
		if class.SyllabusFile != "" {
			if delErr := s.Storage.Delete(ctx, class.SyllabusFile); delErr != nil {
				logger.Log.Warn("Failed to remove orphaned syllabus file", zap.String("key", class.SyllabusFile), zap.Error(delErr))
			}
		}
		return nil, util.NewPersistenceError(err)
	}

	logger.Log.Info("Class created",
		zap.Uint("classId", class.ID),
		zap.Uint("userId", userID),
		zap.Int("topics", len(topics)),
	)

	return &CreateClassResult{
		Message:     "Class created successfully",
		Class:       class,
		TopicsAdded: len(topics),
	}, nil
}

func (s *ClassService) ListClasses(ctx context.Context, userID uint) ([]model.Class, error) {
	classes, err := s.ClassRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if classes == nil {
		classes = []model.Class{}
	}
	return classes, nil
}

func (s *ClassService) findClass(ctx context.Context, classID, userID uint) (*model.Class, error) {
	class, err := s.ClassRepo.FindByIDAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, util.NewPersistenceError(err)
	}
	return class, nil
}

// GetClassDetails 课程、全部主题以及路线（没有时为 null）
func (s *ClassService) GetClassDetails(ctx context.Context, classID, userID uint) (*ClassDetails, error) {
	class, err := s.findClass(ctx, classID, userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.TopicRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if topics == nil {
		topics = []model.Topic{}
	}

	details := &ClassDetails{Class: class, Topics: topics}

	rm, err := s.RoadmapRepo.FindByClassAndUser(ctx, class.ID, userID)
	switch {
	case err == nil:
		res := NewRoadmapResponse(rm)
		details.Roadmap = &res
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, util.NewPersistenceError(err)
	}

	return details, nil
}

func (s *ClassService) GetClassTopics(ctx context.Context, classID, userID uint) ([]TopicSummary, error) {
	class, err := s.findClass(ctx, classID, userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.TopicRepo.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	res := make([]TopicSummary, len(topics))
	for i, t := range topics {
		res[i] = TopicSummary{ID: t.ID, Title: t.Title}
	}
	return res, nil
}
