package controller

import (
	"stackit_backend/internal/model"
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	ModerationService   *service.ModerationService
	UserService         *service.UserService
	NotificationService *service.NotificationService
}

func NewAdminController(moderationService *service.ModerationService, userService *service.UserService, notificationService *service.NotificationService) *AdminController {
	return &AdminController{
		ModerationService:   moderationService,
		UserService:         userService,
		NotificationService: notificationService,
	}
}

type BroadcastRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Message string `json:"message" binding:"required,max=500"`
}

// Moderate godoc
// @Summary 审核内容
// @Description approve 恢复为绿色，delete 软删除，ban_user 删除并封禁作者（仅管理员），每次操作都会写入审计记录
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ModerateRequest true "审核操作"
// @Success 200 {object} util.Response{data=model.Report}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/moderate-content [post]
func (c *AdminController) Moderate(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.ModerateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	report, err := c.ModerationService.Moderate(actor, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Dashboard godoc
// @Summary 审核面板
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Failure 403 {object} util.Response
// @Router /api/admin/moderation-dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	dashboard, err := c.ModerationService.Dashboard(actor)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Stats godoc
// @Summary 审核统计
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=repository.ModerationStats}
// @Router /api/admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	stats, err := c.ModerationService.Stats(actor)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Reports godoc
// @Summary 审计记录
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param contentType query string false "question|answer|comment|user"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/reports [get]
func (c *AdminController) Reports(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := util.ParsePagination(ctx)

	reports, total, err := c.ModerationService.Reports(actor, page, limit, ctx.Query("contentType"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(reports, total, page, limit))
}

// BanUser godoc
// @Summary 封禁用户
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.BanRequest false "原因"
// @Success 200 {object} util.Response{data=model.Report}
// @Failure 403 {object} util.Response
// @Router /api/admin/users/{id}/ban [post]
func (c *AdminController) BanUser(ctx *gin.Context) {
	c.setBan(ctx, true)
}

// UnbanUser godoc
// @Summary 解除封禁
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.BanRequest false "原因"
// @Success 200 {object} util.Response{data=model.Report}
// @Failure 403 {object} util.Response
// @Router /api/admin/users/{id}/unban [post]
func (c *AdminController) UnbanUser(ctx *gin.Context) {
	c.setBan(ctx, false)
}

func (c *AdminController) setBan(ctx *gin.Context, banned bool) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.BanRequest
	// 请求体可选
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}

	var (
		report *model.Report
		err    error
	)
	if banned {
		report, err = c.ModerationService.Ban(actor, id, req.Reason)
	} else {
		report, err = c.ModerationService.Unban(actor, id, req.Reason)
	}
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// ListUsers godoc
// @Summary 用户列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param search query string false "用户名或邮箱"
// @Param banned query bool false "封禁状态"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := util.ParsePagination(ctx)

	var banned *bool
	switch ctx.Query("banned") {
	case "true":
		v := true
		banned = &v
	case "false":
		v := false
		banned = &v
	}

	users, total, err := c.UserService.List(actor, page, limit, strings.TrimSpace(ctx.Query("search")), banned)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(users, total, page, limit))
}

// SetRole godoc
// @Summary 修改用户角色
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.RoleRequest true "角色"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/users/{id}/role [put]
func (c *AdminController) SetRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.RoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.UserService.SetRole(actor, id, model.UserRole(req.Role)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"role": req.Role})
}

// Broadcast godoc
// @Summary 全站广播
// @Description 向所有未封禁用户发送系统通知，返回送达人数
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BroadcastRequest true "广播内容"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/broadcast [post]
func (c *AdminController) Broadcast(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req BroadcastRequest
	if !bindJSON(ctx, &req) {
		return
	}

	delivered, err := c.NotificationService.Broadcast(ctx.Request.Context(), actor, req.Title, req.Message)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"recipients": delivered})
}
