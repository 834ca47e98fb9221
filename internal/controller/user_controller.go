package controller

import (
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService     *service.UserService
	QuestionService *service.QuestionService
	AnswerService   *service.AnswerService
}

func NewUserController(userService *service.UserService, questionService *service.QuestionService, answerService *service.AnswerService) *UserController {
	return &UserController{
		UserService:     userService,
		QuestionService: questionService,
		AnswerService:   answerService,
	}
}

// GetUser godoc
// @Summary 获取用户资料
// @Description 本人或管理员可见完整资料，其他人只能看到公开资料
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.PublicProfile}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserService.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if viewer := util.GetCurrentUser(ctx); viewer != nil {
		actor := service.ActorFromUser(viewer)
		if actor.ID == user.ID || actor.CanAdminister() {
			util.Success(ctx, user)
			return
		}
	}
	util.Success(ctx, user.Public())
}

// UpdateUser godoc
// @Summary 修改用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "用户名或邮箱已存在"
// @Failure 403 {object} util.Response
// @Router /api/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.UserService.Update(actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 物理删除用户及其问题、回答、评论、投票和通知
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.UserService.Delete(actor, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// GetUserQuestions godoc
// @Summary 用户提出的问题
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/{id}/questions [get]
func (c *UserController) GetUserQuestions(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := util.ParsePagination(ctx)

	questions, total, err := c.QuestionService.ListByAuthor(id, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(questions, total, page, limit))
}

// GetUserAnswers godoc
// @Summary 用户的回答
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/{id}/answers [get]
func (c *UserController) GetUserAnswers(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := util.ParsePagination(ctx)

	answers, total, err := c.AnswerService.ListByAuthor(id, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pageOf(answers, total, page, limit))
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	user, err := c.UserService.UploadAvatar(ctx.Request.Context(), actor, file, fileHeader.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
