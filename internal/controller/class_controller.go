package controller

import (
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
	Config       *config.Config
}

func NewClassController(classService *service.ClassService, cfg *config.Config) *ClassController {
	return &ClassController{ClassService: classService, Config: cfg}
}

// @Summary 创建课程
// @Description 上传课程大纲 PDF，抽取文本并由 AI 生成学习主题，课程和主题一起保存
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param syllabusFile formData file true "课程大纲 PDF"
// @Param class_name formData string true "课程名称"
// @Param professor formData string true "授课教师"
// @Param session formData string true "学期时段"
// @Param semester formData string true "学期"
// @Param description formData string false "课程描述"
// @Success 201 {object} util.Response{data=service.CreateClassResult}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	data, err := readSyllabus(ctx, c.Config.Server.MaxUploadSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var in service.CreateClassInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.BadRequest(ctx, util.ErrMissingClassFields.Message)
		return
	}

	result, err := c.ClassService.CreateClass(ctx.Request.Context(), user.UserID, in, data)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 获取课程列表
// @Description 当前用户的全部课程，按创建时间倒序
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Class}
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classes, err := c.ClassService.ListClasses(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, classes)
}

// @Summary 获取课程详情
// @Description 课程信息、主题列表以及已生成的学习路线（没有时为 null）
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.ClassDetails}
// @Failure 404 {object} util.Response
// @Router /classes/{id}/details [get]
func (c *ClassController) GetClassDetails(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID := util.MustParseUint(ctx.Param("id"))
	if classID == 0 {
		util.HandleError(ctx, util.ErrClassNotFound)
		return
	}

	details, err := c.ClassService.GetClassDetails(ctx.Request.Context(), classID, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, details)
}

// @Summary 获取课程主题
// @Description 课程的主题 id 和标题，按 id 升序
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.TopicSummary}
// @Failure 404 {object} util.Response
// @Router /classes/{id}/topics [get]
func (c *ClassController) GetClassTopics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID := util.MustParseUint(ctx.Param("id"))
	if classID == 0 {
		util.HandleError(ctx, util.ErrClassNotFound)
		return
	}

	topics, err := c.ClassService.GetClassTopics(ctx.Request.Context(), classID, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, topics)
}

// @Summary 预览大纲主题
// @Description 只抽取文本并生成主题，不保存任何数据
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param syllabusFile formData file true "课程大纲 PDF"
// @Success 200 {object} util.Response{data=service.TopicsPreview}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /upload-syllabus [post]
func (c *ClassController) PreviewTopics(ctx *gin.Context) {
	data, err := readSyllabus(ctx, c.Config.Server.MaxUploadSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	preview, err := c.ClassService.PreviewTopics(ctx.Request.Context(), data)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, preview)
}
