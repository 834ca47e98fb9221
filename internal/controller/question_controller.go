package controller

import (
	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	VoteService     *service.VoteService
}

func NewQuestionController(questionService *service.QuestionService, voteService *service.VoteService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		VoteService:     voteService,
	}
}

// ListQuestions godoc
// @Summary 问题列表
// @Description 支持关键字、标签、未回答过滤和排序
// @Tags 问题
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param search query string false "关键字"
// @Param tags query string false "标签，逗号分隔"
// @Param filter query string false "unanswered 只看未回答"
// @Param sort query string false "newest|oldest|most-upvoted|most-answered|most-viewed" default(newest)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 400 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)

	var tags []string
	if raw := ctx.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	questions, total, err := c.QuestionService.List(repository.QuestionQuery{
		Page:       page,
		Limit:      limit,
		Search:     strings.TrimSpace(ctx.Query("search")),
		Tags:       tags,
		Unanswered: ctx.Query("filter") == "unanswered",
		Sort:       ctx.Query("sort"),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(questions, total, page, limit))
}

// SearchQuestions godoc
// @Summary 搜索问题
// @Tags 问题
// @Produce json
// @Param q query string true "关键字"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 400 {object} util.Response "缺少关键字"
// @Router /api/questions/search [get]
func (c *QuestionController) SearchQuestions(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)

	questions, total, err := c.QuestionService.Search(ctx.Query("q"), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(questions, total, page, limit))
}

// GetQuestion godoc
// @Summary 问题详情
// @Description 返回问题及第一页回答，浏览数加一
// @Tags 问题
// @Produce json
// @Param id path string true "问题ID"
// @Param page query int false "回答页码" default(1)
// @Param limit query int false "每页回答数" default(10)
// @Success 200 {object} util.Response{data=service.QuestionDetail}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)

	detail, err := c.QuestionService.Get(ctx.Param("id"), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CreateQuestion godoc
// @Summary 提问
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "问题内容，1-5 个已存在的标签"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "访客或被封禁用户"
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.QuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	question, err := c.QuestionService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 编辑问题
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param body body service.UpdateQuestionRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.UpdateQuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	question, err := c.QuestionService.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除问题
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.QuestionService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// VoteQuestion godoc
// @Summary 问题投票
// @Description voteType 为 up 或 down，再次投同方向不会重复计数
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param body body service.VoteRequest true "投票方向"
// @Success 200 {object} util.Response{data=service.VoteResult}
// @Failure 400 {object} util.Response "无效的投票类型"
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/vote [post]
func (c *QuestionController) VoteQuestion(ctx *gin.Context) {
	vote(ctx, c.VoteService, model.VoteOnQuestion, ctx.Param("id"))
}

func vote(ctx *gin.Context, votes *service.VoteService, target model.VoteTarget, targetID string) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.VoteRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := votes.Cast(actor, target, targetID, req.VoteType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
