package controller

import (
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	CommentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{CommentService: commentService}
}

// ListComments godoc
// @Summary 评论列表
// @Tags 评论
// @Produce json
// @Param answerId path string true "回答ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/answers/{answerId}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)

	comments, total, err := c.CommentService.ListByAnswer(ctx.Param("answerId"), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(comments, total, page, limit))
}

// CreateComment godoc
// @Summary 发表评论
// @Description 评论中的 @username 会通知被提及的用户
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answerId path string true "回答ID"
// @Param body body service.CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/answers/{answerId}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.CommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	comment, err := c.CommentService.Create(ctx.Request.Context(), actor, ctx.Param("answerId"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// UpdateComment godoc
// @Summary 编辑评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "评论ID"
// @Param body body service.CommentRequest true "评论内容"
// @Success 200 {object} util.Response{data=model.Comment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/comments/{id} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.CommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	comment, err := c.CommentService.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, comment)
}

// DeleteComment godoc
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param id path string true "评论ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.CommentService.Delete(actor, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
