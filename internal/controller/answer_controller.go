package controller

import (
	"stackit_backend/internal/model"
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	AnswerService *service.AnswerService
	VoteService   *service.VoteService
}

func NewAnswerController(answerService *service.AnswerService, voteService *service.VoteService) *AnswerController {
	return &AnswerController{
		AnswerService: answerService,
		VoteService:   voteService,
	}
}

// ListAnswers godoc
// @Summary 回答列表
// @Description 已采纳的回答排在最前，其后按票数和时间排序
// @Tags 回答
// @Produce json
// @Param id path string true "问题ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/answers [get]
func (c *AnswerController) ListAnswers(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)

	answers, total, err := c.AnswerService.ListByQuestion(ctx.Param("id"), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(answers, total, page, limit))
}

// CreateAnswer godoc
// @Summary 回答问题
// @Tags 回答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param body body service.AnswerRequest true "回答内容"
// @Success 201 {object} util.Response{data=model.Answer}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/answers [post]
func (c *AnswerController) CreateAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.AnswerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	answer, err := c.AnswerService.Create(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// UpdateAnswer godoc
// @Summary 编辑回答
// @Tags 回答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param answerId path string true "回答ID"
// @Param body body service.AnswerRequest true "回答内容"
// @Success 200 {object} util.Response{data=model.Answer}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/answers/{answerId} [put]
func (c *AnswerController) UpdateAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.AnswerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	answer, err := c.AnswerService.Update(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("answerId"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// DeleteAnswer godoc
// @Summary 删除回答
// @Description 删除已采纳的回答会同时撤销问题的采纳状态
// @Tags 回答
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param answerId path string true "回答ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/answers/{answerId} [delete]
func (c *AnswerController) DeleteAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.AnswerService.Delete(actor, ctx.Param("id"), ctx.Param("answerId")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// VoteAnswer godoc
// @Summary 回答投票
// @Tags 回答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answerId path string true "回答ID"
// @Param body body service.VoteRequest true "投票方向"
// @Success 200 {object} util.Response{data=service.VoteResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/answers/{answerId}/vote [post]
func (c *AnswerController) VoteAnswer(ctx *gin.Context) {
	vote(ctx, c.VoteService, model.VoteOnAnswer, ctx.Param("answerId"))
}

type acceptanceResponse struct {
	Question *model.Question `json:"question"`
	Answer   *model.Answer   `json:"answer"`
}

// AcceptAnswer godoc
// @Summary 采纳回答
// @Description 只有提问者可以采纳，之前采纳的回答会被自动取消
// @Tags 回答
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param answerId path string true "回答ID"
// @Success 200 {object} util.Response{data=acceptanceResponse}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/answers/{answerId}/accept [post]
func (c *AnswerController) AcceptAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	question, answer, err := c.AnswerService.Accept(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("answerId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, acceptanceResponse{Question: question, Answer: answer})
}

// UnacceptAnswer godoc
// @Summary 取消采纳
// @Tags 回答
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param answerId path string true "回答ID"
// @Success 200 {object} util.Response{data=acceptanceResponse}
// @Failure 400 {object} util.Response "该回答未被采纳"
// @Failure 403 {object} util.Response
// @Router /api/questions/{id}/answers/{answerId}/unaccept [post]
func (c *AnswerController) UnacceptAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	question, answer, err := c.AnswerService.Unaccept(actor, ctx.Param("id"), ctx.Param("answerId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, acceptanceResponse{Question: question, Answer: answer})
}
