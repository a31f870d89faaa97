package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"study_planner_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Completer 向补全服务发送单轮 prompt，返回去掉首尾空白的回复文本
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

type CompletionOptions struct {
	// Purpose 只用于日志和指标标签
	Purpose     string
	MaxTokens   int
	Temperature *float64
}

type CompletionErrorKind string

const (
	CompletionUnavailable CompletionErrorKind = "unavailable"
	CompletionRejected    CompletionErrorKind = "rejected"
	CompletionMalformed   CompletionErrorKind = "malformed"
)

// CompletionError 补全服务的传输层/服务层错误，与回复内容的解析错误无关
type CompletionError struct {
	Kind    CompletionErrorKind
	Message string
	Err     error
}

func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai completion %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("ai completion %s: %s", e.Kind, e.Message)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// AppError 转换为对外的 Upstream 错误，不携带远端原文
func (e *CompletionError) AppError() *util.AppError {
	switch e.Kind {
	case CompletionRejected:
		return util.Wrap(util.ErrAIRejected, e)
	case CompletionMalformed:
		return util.Wrap(util.ErrAIMalformed, e)
	default:
		return util.Wrap(util.ErrAIUnavailable, e)
	}
}

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

// ChatCompletionReply content 缺失与 null 都视为格式错误
type ChatCompletionReply struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message *ChatCompletionReply `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *AIService) Complete(ctx context.Context, prompt string, opts CompletionOptions) (content string, err error) {
	purpose := opts.Purpose
	if purpose == "" {
		purpose = "generic"
	}

	ctx, span := tracing.Tracer.Start(ctx, "ai.complete")
	span.SetAttributes(
		attribute.String("ai.purpose", purpose),
		attribute.String("ai.model", s.config.Model),
		attribute.Int("ai.max_tokens", opts.MaxTokens),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		var ce *CompletionError
		if errors.As(err, &ce) {
			outcome = string(ce.Kind)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		monitoring.AICompletionCounter.WithLabelValues(purpose, outcome).Inc()
		monitoring.AICompletionDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
		span.End()
	}()

	reqBody := ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    []AIChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CompletionError{Kind: CompletionUnavailable, Message: "encode request", Err: err}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &CompletionError{Kind: CompletionUnavailable, Message: "build request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("AI request failed", zap.String("purpose", purpose), zap.Error(err))
		return "", &CompletionError{Kind: CompletionUnavailable, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.Error("AI response read failed", zap.String("purpose", purpose), zap.Int("status", resp.StatusCode), zap.Error(err))
		return "", &CompletionError{Kind: CompletionUnavailable, Message: "read response", Err: err}
	}

	var result ChatCompletionResponse
	decodeErr := json.Unmarshal(body, &result)

	if decodeErr == nil && result.Error != nil {
		logger.Log.Error("AI API error",
			zap.String("purpose", purpose),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		msg := result.Error.Message
		if msg == "" {
			msg = "Error from AI API"
		}
		return "", &CompletionError{Kind: CompletionRejected, Message: msg}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Log.Error("AI API unavailable",
			zap.String("purpose", purpose),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return "", &CompletionError{Kind: CompletionUnavailable, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	if decodeErr != nil || len(result.Choices) == 0 ||
		result.Choices[0].Message == nil || result.Choices[0].Message.Content == nil {
		logger.Log.Error("Invalid response structure from AI API",
			zap.String("purpose", purpose),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return "", &CompletionError{Kind: CompletionMalformed, Message: "missing choices[0].message.content", Err: decodeErr}
	}

	logger.Log.Debug("AI API response",
		zap.String("purpose", purpose),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("response", body),
	)

	return strings.TrimSpace(*result.Choices[0].Message.Content), nil
}
