package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类，决定 HTTP 状态码和是否向用户暴露细节
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindUpstream    ErrorKind = "upstream"
	KindPersistence ErrorKind = "persistence"
)

// AppError 携带面向用户的 Message，Err 只用于日志
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 让 errors.Is 可以按 Kind+Message 与哨兵错误比较
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Err: err}
}

func NewPersistenceError(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "Server error.", Err: err}
}

// Wrap 给哨兵错误附加内部原因，errors.Is 仍然成立
func Wrap(sentinel *AppError, err error) *AppError {
	return &AppError{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

// KindOf 非 AppError 一律视为持久化/内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

var (
	ErrMissingRoadmapFields = NewValidationError("Missing class_id, end_date, or selectedTopicIds.")
	ErrInvalidEndDate       = NewValidationError("end_date must be a YYYY-MM-DD date that is not in the past.")
	ErrNoValidTopics        = NewValidationError("No valid topics found for those IDs.")
	ErrInvalidAIRoadmap     = NewValidationError("AI returned invalid structured data. Please try generating the roadmap again.")
	ErrMissingClassFields   = NewValidationError("class_name, professor, session, and semester are required.")
	ErrNoSyllabusFile       = NewValidationError("No syllabus file uploaded.")
	ErrInvalidSyllabusFile  = NewValidationError("Syllabus must be a PDF file.")

	ErrClassNotFound   = NewNotFoundError("Class not found")
	ErrRoadmapNotFound = NewNotFoundError("No roadmap found")
	ErrStepNotFound    = NewNotFoundError("Roadmap step not found")

	ErrRoadmapExists      = NewConflictError("A roadmap already exists for this class.")
	ErrGenerationInFlight = NewConflictError("A roadmap is already being generated for this class.")

	ErrExtractionFailed = NewUpstreamError("Could not read text from the uploaded syllabus.", nil)
	ErrAIUnavailable    = NewUpstreamError("The AI service is unavailable. Please try again later.", nil)
	ErrAIRejected       = NewUpstreamError("The AI service rejected the request.", nil)
	ErrAIMalformed      = NewUpstreamError("The AI service returned an unexpected response.", nil)
)
