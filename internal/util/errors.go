package util

import (
	"errors"
	"net/http"
	"stackit_backend/internal/model"
	"strings"

	"github.com/gin-gonic/gin"
)

// HandleError 将领域错误映射为 HTTP 状态码，未知错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		Error(c, http.StatusNotFound, publicMessage(err, model.ErrNotFound))
	case errors.Is(err, model.ErrForbidden):
		Error(c, http.StatusForbidden, publicMessage(err, model.ErrForbidden))
	case errors.Is(err, model.ErrValidation):
		Error(c, http.StatusBadRequest, publicMessage(err, model.ErrValidation))
	case errors.Is(err, model.ErrUpstreamUnavailable):
		Error(c, http.StatusServiceUnavailable, publicMessage(err, model.ErrUpstreamUnavailable))
	default:
		LogInternalError(c, err)
	}
}

// publicMessage 去掉 "sentinel: " 前缀，只保留面向用户的描述
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		msg = msg[i+len(sentinel.Error())+2:]
	}
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
