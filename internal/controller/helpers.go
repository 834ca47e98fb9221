package controller

import (
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// currentActor 未登录时直接返回 401
func currentActor(ctx *gin.Context) (service.Actor, bool) {
	user := util.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return service.Actor{}, false
	}
	return service.ActorFromUser(user), true
}

func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		util.BadRequest(ctx, util.BindingMessage(err))
		return false
	}
	return true
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func pageOf(list interface{}, total int64, page, limit int) util.PageResponse {
	return util.PageResponse{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}
