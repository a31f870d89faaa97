package controller

import (
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// @Summary 生成学习路线
// @Description 根据所选主题和截止日期调用 AI 生成学习路线，开始日期为服务器当天
// @Tags 学习路线
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roadmap body service.CreateRoadmapRequest true "课程、截止日期和主题"
// @Success 201 {object} util.Response{data=service.RoadmapWithSteps}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /roadmaps [post]
func (c *RoadmapController) CreateRoadmap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateRoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.BindErrorMessage(err))
		return
	}

	result, err := c.RoadmapService.CreateRoadmap(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 获取学习路线
// @Description 课程的学习路线和按顺序排列的步骤，每步带当前用户的完成状态
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Param classId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.RoadmapWithSteps}
// @Failure 404 {object} util.Response
// @Router /roadmaps/{classId} [get]
func (c *RoadmapController) GetRoadmap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID := util.MustParseUint(ctx.Param("classId"))
	if classID == 0 {
		util.HandleError(ctx, util.ErrRoadmapNotFound)
		return
	}

	result, err := c.RoadmapService.GetRoadmap(ctx.Request.Context(), classID, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 删除学习路线
// @Description 删除路线、步骤及完成记录，之后可以重新生成
// @Tags 学习路线
// @Produce json
// @Security ApiKeyAuth
// @Param classId path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /roadmaps/{classId} [delete]
func (c *RoadmapController) DeleteRoadmap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID := util.MustParseUint(ctx.Param("classId"))
	if classID == 0 {
		util.HandleError(ctx, util.ErrRoadmapNotFound)
		return
	}

	if err := c.RoadmapService.DeleteRoadmap(ctx.Request.Context(), classID, user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Roadmap deleted"})
}
