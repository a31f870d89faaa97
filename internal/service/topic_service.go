package service

import (
	"context"
	"errors"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/pkg/logger"

	"go.uber.org/zap"
)

type TopicService struct {
	ai        Completer
	maxTokens int
}

func NewTopicService(ai Completer, cfg config.AIConfig) *TopicService {
	maxTokens := cfg.TopicMaxTokens
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	return &TopicService{ai: ai, maxTokens: maxTokens}
}

// GenerateTopics 单次调用补全服务，按行拆出主题标题；空结果不是错误
func (s *TopicService) GenerateTopics(ctx context.Context, syllabus string) ([]string, error) {
	reply, err := s.ai.Complete(ctx, BuildTopicPrompt(syllabus), CompletionOptions{
		Purpose:   "topics",
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		var ce *CompletionError
		if errors.As(err, &ce) {
			return nil, ce.AppError()
		}
		return nil, err
	}

	topics := ParseTopicLines(reply)
	if len(topics) == 0 {
		logger.Log.Warn("AI returned no usable topic lines", zap.Int("syllabusLength", len(syllabus)))
	}
	return topics, nil
}

// ParseTopicLines 按换行拆分，去掉首尾空白并丢弃空行，保持原顺序
func ParseTopicLines(reply string) []string {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	topics := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			topics = append(topics, line)
		}
	}
	return topics
}
