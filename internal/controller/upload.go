package controller

import (
	"fmt"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const defaultMaxUploadSize = 20 << 20

// readSyllabus 读取 multipart 中的 syllabusFile，没有文件时返回 util.ErrNoSyllabusFile
func readSyllabus(ctx *gin.Context, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	fileHeader, err := ctx.FormFile(util.SyllabusFormField)
	if err != nil {
		return nil, util.ErrNoSyllabusFile
	}
	if fileHeader.Size > maxSize {
		return nil, util.NewValidationError(fmt.Sprintf("Syllabus file must be smaller than %d MB.", maxSize>>20))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	defer f.Close()

	data, err := service.ReadAllLimited(f, maxSize)
	if err != nil {
		return nil, util.Wrap(util.NewValidationError("Syllabus file could not be read."), err)
	}
	return data, nil
}
