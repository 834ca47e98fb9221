package controller

import (
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPopularTags = 10

type TagController struct {
	TagService *service.TagService
}

func NewTagController(tagService *service.TagService) *TagController {
	return &TagController{TagService: tagService}
}

// ListTags godoc
// @Summary 标签列表
// @Tags 标签
// @Produce json
// @Param search query string false "名称关键字"
// @Param category query string false "分类"
// @Success 200 {object} util.Response{data=[]model.Tag}
// @Router /api/tags [get]
func (c *TagController) ListTags(ctx *gin.Context) {
	tags, err := c.TagService.List(ctx.Query("search"), ctx.Query("category"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}

// PopularTags godoc
// @Summary 热门标签
// @Tags 标签
// @Produce json
// @Param limit query int false "数量" default(10)
// @Success 200 {object} util.Response{data=[]model.Tag}
// @Router /api/tags/popular [get]
func (c *TagController) PopularTags(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPopularTags)))
	if err != nil || limit < 1 {
		limit = defaultPopularTags
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}

	tags, err := c.TagService.Popular(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}

// CreateTag godoc
// @Summary 创建标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TagRequest true "标签"
// @Success 201 {object} util.Response{data=model.Tag}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/tags [post]
func (c *TagController) CreateTag(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req service.TagRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tag, err := c.TagService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, tag)
}

// UpdateTag godoc
// @Summary 修改标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Param body body service.UpdateTagRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=model.Tag}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tags/{id} [put]
func (c *TagController) UpdateTag(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateTagRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tag, err := c.TagService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tag)
}
