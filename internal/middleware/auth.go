package middleware

import (
	"stackit_backend/internal/config"
	"stackit_backend/internal/model"
	"stackit_backend/internal/util"
	"stackit_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLoader 每次请求按 token 中的用户 ID 重新加载，角色和封禁状态以数据库为准
type UserLoader interface {
	FindByID(id uint) (*model.User, error)
}

func tokenFromRequest(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	// WebSocket 握手无法携带请求头
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	return tokenString
}

func authenticate(c *gin.Context, cfg *config.Config, users UserLoader) bool {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return false
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("JWT parse failed", zap.Error(err))
		return false
	}

	user, err := users.FindByID(claims.UserID)
	if err != nil {
		logger.Log.Debug("Token user not found", zap.Uint("userId", claims.UserID), zap.Error(err))
		return false
	}

	c.Set(util.ContextClaims, claims)
	c.Set(util.ContextUser, user)
	return true
}

func AuthMiddleware(cfg *config.Config, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, cfg, users) {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// TryAuthMiddleware 可选登录，token 无效时按匿名访问处理
func TryAuthMiddleware(cfg *config.Config, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, cfg, users)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色的权限，被封禁的账号一律拒绝
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetCurrentUser(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		if !user.IsBanned {
			for _, role := range roles {
				if user.Role == model.Admin || user.Role == role {
					hasRole = true
					break
				}
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			// 异步更新，不阻塞主流程
			go func(id uint) {
				if err := repo.UpdateLastSeen(id); err != nil {
					logger.Log.Warn("Failed to update last seen", zap.Uint("userId", id), zap.Error(err))
				}
			}(claims.UserID)
		}
		c.Next()
	}
}
