package controller

import (
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 标记步骤完成
// @Description 幂等操作，重复调用只刷新完成时间；步骤必须属于当前用户的课程
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "步骤ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /progress/{id} [post]
func (c *ProgressController) MarkStepComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stepID := util.MustParseUint(ctx.Param("id"))
	if err := c.ProgressService.MarkStepComplete(ctx.Request.Context(), user.UserID, stepID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Step marked complete"})
}

// @Summary 获取已完成步骤
// @Description 当前用户在某课程路线上已完成的步骤 id
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param classId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CompletedSteps}
// @Failure 404 {object} util.Response
// @Router /progress/roadmaps/{classId} [get]
func (c *ProgressController) ListCompletedSteps(ctx *gin.Context) {
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

	result, err := c.ProgressService.ListCompletedSteps(ctx.Request.Context(), user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
